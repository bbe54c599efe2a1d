package models

// IngestResponse reports the outcome of an ingestion run.
type IngestResponse struct {
	Message string `json:"message"`
}

// QueryResponse carries the generated answer and the chunks it was grounded on.
type QueryResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"sources,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// SourceDocument is a retrieved chunk of text and where it came from.
type SourceDocument struct {
	Text  string `json:"text"`
	Path  string `json:"path,omitempty"`
	Chunk int    `json:"chunk"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
