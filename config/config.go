package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config holds every externally tunable setting for the server. It is built
// once in main and handed to the pieces that need it; nothing reads the
// environment after Load returns.
type Config struct {
	Port string

	ChromaURL string

	OllamaBaseURL    string
	OllamaEmbedModel string
	OllamaChatModel  string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string

	UnidocLicenseKey string

	// Optional live-sync watcher. Both must be set for the watcher to start.
	SyncPath       string
	SyncCollection string
}

// Load reads .env (if present) and the process environment and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		ChromaURL:        getEnv("CHROMA_URL", "http://localhost:8000"),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaEmbedModel: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		OllamaChatModel:  getEnv("OLLAMA_CHAT_MODEL", "llama3"),
		LLMProvider:      getEnv("LLM_PROVIDER", ProviderOllama),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		UnidocLicenseKey: os.Getenv("UNIDOC_LICENSE_KEY"),
		SyncPath:         os.Getenv("SYNC_PATH"),
		SyncCollection:   os.Getenv("SYNC_COLLECTION"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderOllama:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER is %q but GEMINI_API_KEY is not set", ProviderGemini)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want %q or %q)", c.LLMProvider, ProviderOllama, ProviderGemini)
	}

	if (c.SyncPath == "") != (c.SyncCollection == "") {
		return fmt.Errorf("SYNC_PATH and SYNC_COLLECTION must be set together")
	}
	return nil
}

// WatcherEnabled reports whether the live-sync watcher should run.
func (c *Config) WatcherEnabled() bool {
	return c.SyncPath != "" && c.SyncCollection != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
