package models

// IngestRequest asks the server to crawl a directory and index its contents
// into a collection. Path may be absolute or relative to the server's working
// directory.
type IngestRequest struct {
	Path       string `json:"path" binding:"required"`
	Collection string `json:"collection" binding:"required"`
}

// QueryRequest asks a question against a previously ingested collection.
type QueryRequest struct {
	Question   string `json:"question" binding:"required"`
	Collection string `json:"collection" binding:"required"`
}
