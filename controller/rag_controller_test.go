package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectormind/ragserver/models"
)

// stubRAGService records calls and returns canned results.
type stubRAGService struct {
	ingestErr    error
	ingestChunks int
	ingestedRoot string

	queryResp *models.QueryResponse
	queryErr  error
	queried   string
}

func (s *stubRAGService) IngestDirectory(_ context.Context, root string, _ models.CollectionName) (int, error) {
	s.ingestedRoot = root
	return s.ingestChunks, s.ingestErr
}

func (s *stubRAGService) Query(_ context.Context, question string, _ models.CollectionName) (*models.QueryResponse, error) {
	s.queried = question
	return s.queryResp, s.queryErr
}

func newTestRouter(stub *stubRAGService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	c := NewRAGController(stub)
	router.GET("/api/health", c.Health)
	router.POST("/api/ingest", c.Ingest)
	router.POST("/api/query", c.Query)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubRAGService{})
	w := doJSON(t, router, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestIngestSuccess(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("content"), 0o644))

	stub := &stubRAGService{ingestChunks: 3}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"`+dir+`","collection":"rag-self"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Ingestion completed for "+dir)
	assert.Contains(t, resp.Message, "'rag-self'")
	assert.Equal(t, dir, stub.ingestedRoot)
}

func TestIngestNothingToIndex(t *testing.T) {
	dir := t.TempDir()
	stub := &stubRAGService{ingestChunks: 0}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"`+dir+`","collection":"empty"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "No files/chunks found to index")
}

func TestIngestNonexistentPath(t *testing.T) {
	router := newTestRouter(&stubRAGService{})

	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"/nonexistent","collection":"x"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "Path does not exist or is not a directory: /nonexistent")
}

func TestIngestPathIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	router := newTestRouter(&stubRAGService{})
	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"`+file+`","collection":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestInvalidCollectionName(t *testing.T) {
	stub := &stubRAGService{}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"`+t.TempDir()+`","collection":"bad name!"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "collection name")
	assert.Empty(t, stub.ingestedRoot, "service must not be called for a malformed namespace")
}

func TestIngestPipelineFailure(t *testing.T) {
	stub := &stubRAGService{ingestErr: errors.New("ollama api returned non-200 status: 500")}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/ingest",
		`{"path":"`+t.TempDir()+`","collection":"x"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "Ingestion failed: ollama api returned non-200 status: 500")
}

func TestIngestMissingFields(t *testing.T) {
	router := newTestRouter(&stubRAGService{})
	w := doJSON(t, router, http.MethodPost, "/api/ingest", `{"path":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuerySuccess(t *testing.T) {
	stub := &stubRAGService{
		queryResp: &models.QueryResponse{
			Answer:  "It orchestrates ingestion and retrieval.",
			Sources: []models.SourceDocument{{Text: "...", Path: "main.go", Chunk: 0}},
		},
	}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/query",
		`{"question":"What does this do?","collection":"rag-self"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "It orchestrates ingestion and retrieval.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "main.go", resp.Sources[0].Path)
	assert.Equal(t, "What does this do?", stub.queried)
}

func TestQueryEmptyQuestion(t *testing.T) {
	stub := &stubRAGService{}
	router := newTestRouter(stub)

	for _, body := range []string{
		`{"question":"","collection":"x"}`,
		`{"question":"   ","collection":"x"}`,
	} {
		w := doJSON(t, router, http.MethodPost, "/api/query", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, stub.queried)
}

func TestQueryInvalidCollectionName(t *testing.T) {
	router := newTestRouter(&stubRAGService{})
	w := doJSON(t, router, http.MethodPost, "/api/query",
		`{"question":"hi","collection":"no/slashes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryPipelineFailure(t *testing.T) {
	stub := &stubRAGService{queryErr: errors.New("gemini api call failed: deadline exceeded")}
	router := newTestRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/query",
		`{"question":"hi","collection":"x"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "Query failed: gemini api call failed: deadline exceeded")
}
