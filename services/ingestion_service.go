package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/vectormind/ragserver/models"
)

const (
	chunkSize    = 1200
	chunkOverlap = 200
)

// IngestionService crawls directories, splits files into chunks, embeds them
// and stores the vectors in ChromaDB under a named collection.
type IngestionService struct {
	chroma chromago.Client
	ollama *OllamaClient
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(chroma chromago.Client, ollama *OllamaClient) *IngestionService {
	return &IngestionService{
		chroma: chroma,
		ollama: ollama,
	}
}

// IngestDirectory walks root and indexes every supported file into the named
// collection, creating it on first use. It returns the number of chunks
// stored. A root with no supported files returns 0 and no error. A failure
// partway through leaves the collection with whatever was already stored.
func (s *IngestionService) IngestDirectory(ctx context.Context, root string, collection models.CollectionName) (int, error) {
	coll, err := s.openCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	runID := uuid.New().String()[:8]
	log.Printf("INDEXER[%s]: Starting directory scan for: %s (collection %q)", runID, root, collection)

	totalChunks := 0
	fileCount := 0
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsSupportedFile(path) {
			return nil
		}
		n, err := s.ingestOne(ctx, coll, path)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", path, err)
		}
		if n > 0 {
			fileCount++
			totalChunks += n
		}
		return nil
	})
	if err != nil {
		return totalChunks, err
	}

	log.Printf("INDEXER[%s]: Scan finished: %d chunks from %d files.", runID, totalChunks, fileCount)
	return totalChunks, nil
}

// IngestFile re-indexes a single file, replacing any chunks previously stored
// for its path. Used by the live-sync watcher.
func (s *IngestionService) IngestFile(ctx context.Context, path string, collection models.CollectionName) error {
	coll, err := s.openCollection(ctx, collection)
	if err != nil {
		return err
	}
	if _, err := s.ingestOne(ctx, coll, path); err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}
	return nil
}

// RemoveFile deletes every chunk stored for the given file path.
func (s *IngestionService) RemoveFile(ctx context.Context, path string, collection models.CollectionName) error {
	coll, err := s.openCollection(ctx, collection)
	if err != nil {
		return err
	}
	return deleteDocumentsByPath(ctx, coll, path)
}

// ingestOne extracts, chunks, embeds and stores one file. Old chunks for the
// same path are deleted first so repeated ingestion cannot accumulate stale
// duplicates.
func (s *IngestionService) ingestOne(ctx context.Context, coll chromago.Collection, path string) (int, error) {
	content, err := ExtractTextFromFile(path)
	if err != nil {
		// Unreadable or broken files are skipped, not fatal to the run.
		log.Printf("INDEXER WARN: Skipping %s: %v", path, err)
		return 0, nil
	}
	if strings.TrimSpace(content) == "" {
		return 0, nil
	}

	hash, err := calculateFileHash(path)
	if err != nil {
		log.Printf("INDEXER WARN: Could not hash %s: %v", path, err)
		return 0, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	chunks, err := splitter.SplitText(content)
	if err != nil {
		return 0, fmt.Errorf("could not split text: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := s.ollama.EmbedTexts(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("could not embed chunks: %w", err)
	}

	if err := deleteDocumentsByPath(ctx, coll, path); err != nil {
		return 0, fmt.Errorf("could not delete old chunks: %w", err)
	}

	ids := make([]chromago.DocumentID, len(chunks))
	embeds := make([]embeddings.Embedding, len(chunks))
	metadatas := make([]chromago.DocumentMetadata, len(chunks))
	for i := range chunks {
		ids[i] = chunkDocID(path, i)
		embeds[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metadatas[i] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("path", path),
			chromago.NewIntAttribute("chunk", int64(i)),
			chromago.NewStringAttribute("file_hash", hash),
		)
	}

	err = coll.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(chunks...),
		chromago.WithEmbeddings(embeds...),
		chromago.WithMetadatas(metadatas...),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add chunks to chromadb: %w", err)
	}

	log.Printf("INDEXER: Indexed %s (%d chunks).", path, len(chunks))
	return len(chunks), nil
}

// openCollection gets or creates the named collection.
func (s *IngestionService) openCollection(ctx context.Context, collection models.CollectionName) (chromago.Collection, error) {
	return getOrCreateCollection(ctx, s.chroma, collection)
}

func getOrCreateCollection(ctx context.Context, client chromago.Client, collection models.CollectionName) (chromago.Collection, error) {
	coll, err := client.GetOrCreateCollection(
		ctx,
		collection.String(),
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("created_by", "ragserver"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %q: %w", collection, err)
	}
	return coll, nil
}

func deleteDocumentsByPath(ctx context.Context, coll chromago.Collection, path string) error {
	where := chromago.EqString("path", path)
	return coll.Delete(ctx, chromago.WithWhereDelete(where))
}

// chunkDocID derives a stable document ID from the file path and chunk index,
// so re-ingesting the same tree overwrites rather than duplicates.
func chunkDocID(path string, index int) chromago.DocumentID {
	sum := sha256.Sum256([]byte(path))
	return chromago.DocumentID(fmt.Sprintf("%s-chunk%d", hex.EncodeToString(sum[:8]), index))
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
