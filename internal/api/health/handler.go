package health

import (
	"context"
	"net/http"

	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/response"
)

type StatusProvider interface {
	Status(ctx context.Context) entity.IndexStatus
}

type GenerationChecker interface {
	HealthCheck(ctx context.Context) bool
	Model() string
}

type Handler struct {
	index      StatusProvider
	generation GenerationChecker
}

func NewHandler(index StatusProvider, generation GenerationChecker) *Handler {
	return &Handler{
		index:      index,
		generation: generation,
	}
}

// Check handles GET /health. The service reports healthy only when both the
// generation backend and the index respond.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	indexStatus := h.index.Status(ctx)
	generationOnline := h.generation.HealthCheck(ctx)

	status := "healthy"
	code := http.StatusOK
	if !generationOnline || !indexStatus.Healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, code, entity.HealthResponse{
		Status:           status,
		GenerationOnline: generationOnline,
		IndexHealthy:     indexStatus.Healthy,
		DocumentsIndexed: indexStatus.DocumentCount,
		Model:            h.generation.Model(),
	})
}
