package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces an answer from a system prompt and a user prompt. The
// RAG service does retrieval and prompt assembly; implementations only run
// the model.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OllamaGenerator answers with a local Ollama chat model.
type OllamaGenerator struct {
	client *OllamaClient
}

func NewOllamaGenerator(client *OllamaClient) *OllamaGenerator {
	return &OllamaGenerator{client: client}
}

func (g *OllamaGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	answer, err := g.client.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// GeminiGenerator answers with a Google Gemini model. Each call is a
// single-shot generation; there is no session state.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var systemInstruction *genai.Content
	if contents := genai.Text(systemPrompt); len(contents) > 0 {
		systemInstruction = contents[0]
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(responseText.String()), nil
}
