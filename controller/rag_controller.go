package controller

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vectormind/ragserver/models"
	"github.com/vectormind/ragserver/services"
)

// RAGController handles the HTTP requests for the RAG API. It depends on the
// RAGService to perform the actual business logic.
type RAGController struct {
	ragService services.RAGService
}

// NewRAGController creates a new RAGController with its service injected.
func NewRAGController(service services.RAGService) *RAGController {
	return &RAGController{
		ragService: service,
	}
}

// Health is the Gin handler for GET /api/health.
func (c *RAGController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// Ingest is the Gin handler for POST /api/ingest. It validates the path and
// collection name, delegates to the service layer, and shapes the response.
func (c *RAGController) Ingest(ctx *gin.Context) {
	var req models.IngestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request body: " + err.Error()})
		return
	}

	collection, err := models.ParseCollectionName(req.Collection)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{
			Detail: fmt.Sprintf("Path does not exist or is not a directory: %s", req.Path),
		})
		return
	}

	chunks, err := c.ragService.IngestDirectory(ctx.Request.Context(), req.Path, collection)
	if err != nil {
		// The pipeline's message travels to the caller as-is.
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Ingestion failed: " + err.Error()})
		return
	}

	if chunks == 0 {
		ctx.JSON(http.StatusOK, models.IngestResponse{
			Message: fmt.Sprintf("No files/chunks found to index under %s.", req.Path),
		})
		return
	}

	ctx.JSON(http.StatusOK, models.IngestResponse{
		Message: fmt.Sprintf("Ingestion completed for %s into collection '%s'.", req.Path, collection),
	})
}

// Query is the Gin handler for POST /api/query.
func (c *RAGController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request body: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Question must not be empty"})
		return
	}

	collection, err := models.ParseCollectionName(req.Collection)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
		return
	}

	response, err := c.ragService.Query(ctx.Request.Context(), req.Question, collection)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Query failed: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
