package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vectormind/ragserver/models"
)

// OllamaClient talks to a local Ollama runtime for embeddings and chat
// completions. All calls are blocking, non-streaming round trips.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	embedModel string
	chatModel  string
}

// NewOllamaClient creates a client against baseURL using the given models.
func NewOllamaClient(httpClient *http.Client, baseURL, embedModel, chatModel string) *OllamaClient {
	return &OllamaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		embedModel: embedModel,
		chatModel:  chatModel,
	}
}

// EmbedTexts embeds a batch of texts in one POST /api/embed call and returns
// one vector per input, in order.
func (o *OllamaClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp models.OllamaEmbedResponse
	err := o.postJSON(ctx, "/api/embed", models.OllamaEmbedRequest{
		Model: o.embedModel,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// EmbedText embeds a single text. Queries reuse the same embedding model as
// ingestion so vectors stay comparable.
func (o *OllamaClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Chat sends a system + user prompt to POST /api/chat and returns the
// assistant's full reply.
func (o *OllamaClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var resp models.OllamaChatResponse
	err := o.postJSON(ctx, "/api/chat", models.OllamaChatRequest{
		Model:  o.chatModel,
		Stream: false,
		Messages: []models.OllamaChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return resp.Message.Content, nil
}

func (o *OllamaClient) postJSON(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call ollama api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return nil
}
