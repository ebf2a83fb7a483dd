package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	chatapi "github.com/researchmate/rag-backend/internal/api/chat"
	"github.com/researchmate/rag-backend/internal/api/docs"
	documentapi "github.com/researchmate/rag-backend/internal/api/document"
	"github.com/researchmate/rag-backend/internal/api/health"
	"github.com/researchmate/rag-backend/internal/api/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	documentHandler *documentapi.Handler,
	healthHandler *health.Handler,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)              // Recover from panics
	r.Use(chimiddleware.RequestID)              // Add request ID
	r.Use(middleware.Logger(logger))            // Log requests
	r.Use(middleware.CORS)                      // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Default timeout

	r.Get("/health", healthHandler.Check)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	chatapi.RegisterRoutes(r, chatHandler)
	documentapi.RegisterRoutes(r, documentHandler)

	return r
}
