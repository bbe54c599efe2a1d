package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/vectormind/ragserver/models"
)

// topKResults is how many chunks retrieval pulls per question.
const topKResults = 6

// RAGService is the application core behind the API: directory ingestion and
// retrieval-augmented question answering.
type RAGService interface {
	// IngestDirectory indexes every supported file under root into the
	// collection and returns the number of chunks stored.
	IngestDirectory(ctx context.Context, root string, collection models.CollectionName) (int, error)

	// Query answers a question against a collection. A collection that was
	// never ingested (or holds nothing relevant) yields a fixed no-context
	// answer rather than an error; the model is not called in that case.
	Query(ctx context.Context, question string, collection models.CollectionName) (*models.QueryResponse, error)
}

// Retriever fetches the chunks most similar to a question from a collection.
type Retriever interface {
	Retrieve(ctx context.Context, question string, collection models.CollectionName, nResults int) ([]models.SourceDocument, error)
}

// ragServiceImpl holds the injected collaborators the pipelines run on.
type ragServiceImpl struct {
	retriever Retriever
	generator Generator
	ingestion *IngestionService
}

// NewRAGService creates the service from its explicit dependencies.
func NewRAGService(chroma chromago.Client, ollama *OllamaClient, generator Generator, ingestion *IngestionService) RAGService {
	return &ragServiceImpl{
		retriever: &chromaRetriever{chroma: chroma, ollama: ollama},
		generator: generator,
		ingestion: ingestion,
	}
}

// IngestDirectory implements RAGService.
func (r *ragServiceImpl) IngestDirectory(ctx context.Context, root string, collection models.CollectionName) (int, error) {
	return r.ingestion.IngestDirectory(ctx, root, collection)
}

// Query implements RAGService.
func (r *ragServiceImpl) Query(ctx context.Context, question string, collection models.CollectionName) (*models.QueryResponse, error) {
	log.Printf("SERVICE: Querying collection %q: '%s'", collection, question)

	docs, err := r.retriever.Retrieve(ctx, question, collection, topKResults)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	if len(docs) == 0 {
		log.Printf("SERVICE: Nothing retrieved from %q, returning no-context answer.", collection)
		return &models.QueryResponse{Answer: NoContextAnswer}, nil
	}

	answer, err := r.generator.Generate(ctx, SystemPrompt, BuildUserPrompt(question, docs))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &models.QueryResponse{
		Answer:  answer,
		Sources: docs,
	}, nil
}

// chromaRetriever embeds the question with Ollama and runs a similarity query
// against ChromaDB.
type chromaRetriever struct {
	chroma chromago.Client
	ollama *OllamaClient
}

// Retrieve implements Retriever.
func (r *chromaRetriever) Retrieve(ctx context.Context, question string, collection models.CollectionName, nResults int) ([]models.SourceDocument, error) {
	coll, err := getOrCreateCollection(ctx, r.chroma, collection)
	if err != nil {
		return nil, err
	}

	queryVector, err := r.ollama.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	embedding := embeddings.NewEmbeddingFromFloat32(queryVector)

	results, err := coll.Query(
		ctx,
		chromago.WithQueryEmbeddings(embedding),
		chromago.WithNResults(nResults),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var documents []models.SourceDocument
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()

	if len(documentGroups) > 0 {
		for i, doc := range documentGroups[0] {
			if doc.ContentString() == "" {
				continue
			}
			var metadata chromago.DocumentMetadata
			if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
				metadata = metadataGroups[0][i]
			}
			documents = append(documents, sourceFromMetadata(doc.ContentString(), metadata))
		}
	}
	log.Printf("SERVICE: Retrieved %d documents from %q", len(documents), collection)
	return documents, nil
}

// sourceFromMetadata builds a SourceDocument from a chunk's text and its
// stored path/chunk metadata.
func sourceFromMetadata(text string, metadata chromago.DocumentMetadata) models.SourceDocument {
	source := models.SourceDocument{Text: text}
	meta := metadataToMap(metadata)
	if path, ok := meta["path"].(string); ok {
		source.Path = path
	}
	// JSON numbers decode as float64.
	if chunk, ok := meta["chunk"].(float64); ok {
		source.Chunk = int(chunk)
	}
	return source
}

// metadataToMap converts a DocumentMetadata to a plain map. The struct keeps
// its values private, so a JSON round trip is the supported way through.
func metadataToMap(metadata chromago.DocumentMetadata) map[string]interface{} {
	if metadata == nil {
		return map[string]interface{}{}
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("WARN: could not marshal document metadata: %v", err)
		return map[string]interface{}{}
	}
	var metaMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metaMap); err != nil {
		log.Printf("WARN: could not unmarshal document metadata: %v", err)
		return map[string]interface{}{}
	}
	return metaMap
}
