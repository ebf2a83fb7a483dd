package document

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/logger"
	"github.com/researchmate/rag-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /api/v1/documents/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid form data or size too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Warn(ctx, "no file provided", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "a file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	ctxzap.Info(ctx, "uploading document",
		zap.String("filename", header.Filename),
		zap.Int("size_bytes", len(data)),
	)

	resp, err := h.usecase.Upload(ctx, header.Filename, data)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, resp)
}

// List handles GET /api/v1/documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs, err := h.usecase.List(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(docs)))
	response.Success(w, toListResponse(docs))
}

// Delete handles DELETE /api/v1/documents/{document_id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "DeleteDocument"),
	)

	if err := h.usecase.Delete(ctx, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document deleted")
	response.NoContent(w)
}

// Reset handles POST /api/v1/documents/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ResetDocuments")

	if err := h.usecase.Reset(ctx); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "knowledge base reset")
	response.Success(w, map[string]string{"status": "reset"})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		ctxzap.Warn(ctx, "document not found", zap.Error(err))
		response.Error(w, http.StatusNotFound, "document not found")
	case errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrUnsupportedFormat):
		ctxzap.Warn(ctx, "unsupported file type", zap.Error(err))
		response.Error(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrExtractionFailed):
		ctxzap.Warn(ctx, "invalid upload", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrCapabilityUnavailable):
		ctxzap.Error(ctx, "capability backend unavailable", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "a required backend is unavailable")
	default:
		ctxzap.Error(ctx, "document operation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
