package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/vectormind/ragserver/config"
	"github.com/vectormind/ragserver/controller"
	"github.com/vectormind/ragserver/models"
	"github.com/vectormind/ragserver/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	services.InitPDFLicense(cfg.UnidocLicenseKey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			log.Printf("Warning: Failed to close chroma client: %v", err)
		}
	}()

	ollamaClient := services.NewOllamaClient(httpClient, cfg.OllamaBaseURL, cfg.OllamaEmbedModel, cfg.OllamaChatModel)

	generator, err := buildGenerator(ctx, cfg, ollamaClient)
	if err != nil {
		log.Fatalf("FATAL: Failed to create generator: %v", err)
	}

	ingestionService := services.NewIngestionService(chromaClient, ollamaClient)
	ragService := services.NewRAGService(chromaClient, ollamaClient, generator, ingestionService)
	ragController := controller.NewRAGController(ragService)

	if cfg.WatcherEnabled() {
		collection, err := models.ParseCollectionName(cfg.SyncCollection)
		if err != nil {
			log.Fatalf("FATAL: Invalid SYNC_COLLECTION: %v", err)
		}
		watcher := services.NewWatcherService(ingestionService, collection)
		go watcher.WatchDirectory(ctx, cfg.SyncPath)
	}

	router := gin.Default()
	router.Use(corsMiddleware())

	router.StaticFile("/", "./web/index.html")

	api := router.Group("/api")
	{
		api.GET("/health", ragController.Health)
		api.POST("/ingest", ragController.Ingest)
		api.POST("/query", ragController.Query)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s (LLM provider: %s)", cfg.Port, cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Server shutdown: %v", err)
	}
}

// buildGenerator selects the answer backend from config.
func buildGenerator(ctx context.Context, cfg *config.Config, ollamaClient *services.OllamaClient) (services.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		log.Println("Successfully connected to Google Gemini.")
		return services.NewGeminiGenerator(geminiClient, cfg.GeminiModel), nil
	default:
		return services.NewOllamaGenerator(ollamaClient), nil
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
