package models

// OllamaEmbedRequest is the body of POST /api/embed. Input takes a batch of
// texts in one call.
type OllamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// OllamaEmbedResponse carries one embedding per input text, in order.
type OllamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// OllamaChatMessage is a single turn in an Ollama chat request or response.
type OllamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaChatRequest is the body of POST /api/chat. Stream is always false
// here; the server waits for the full completion.
type OllamaChatRequest struct {
	Model    string              `json:"model"`
	Stream   bool                `json:"stream"`
	Messages []OllamaChatMessage `json:"messages"`
}

// OllamaChatResponse is the non-streaming chat response.
type OllamaChatResponse struct {
	Message OllamaChatMessage `json:"message"`
}
