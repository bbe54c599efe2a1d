package services

import (
	"context"
	"log"

	"github.com/fsnotify/fsnotify"

	"github.com/vectormind/ragserver/models"
)

// WatcherService keeps one collection in sync with a directory by re-indexing
// files as they change on disk.
type WatcherService struct {
	ingestion  *IngestionService
	collection models.CollectionName
}

// NewWatcherService creates a watcher that writes into the given collection.
func NewWatcherService(ingestion *IngestionService, collection models.CollectionName) *WatcherService {
	return &WatcherService{
		ingestion:  ingestion,
		collection: collection,
	}
}

// WatchDirectory blocks watching dirPath until ctx is cancelled. Create and
// write events re-index the file; remove and rename events drop its chunks.
func (w *WatcherService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsSupportedFile(event.Name) {
					continue
				}

				// Many editors write by creating a temp file and renaming, so
				// Create and Write are handled the same.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: File modified/created: %s. Re-indexing...", event.Name)
					if err := w.ingestion.IngestFile(ctx, event.Name, w.collection); err != nil {
						log.Printf("WATCHER ERROR: Failed to process file %s: %v", event.Name, err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					log.Printf("WATCHER: File removed/renamed: %s. Removing from index...", event.Name)
					if err := w.ingestion.RemoveFile(ctx, event.Name, w.collection); err != nil {
						log.Printf("WATCHER ERROR: Failed to delete records for %s: %v", event.Name, err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching directory: %s (collection %q)", dirPath, w.collection)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}
