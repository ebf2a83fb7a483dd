package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/formatter"
	"github.com/researchmate/rag-backend/internal/pkg/logger"
	"github.com/researchmate/rag-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    ChatUsecase
	formatters *formatter.Factory
}

func NewHandler(usecase ChatUsecase, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		formatters: formatters,
	}
}

// Query handles POST /api/v1/chat/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode query request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.usecase.Query(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// GetConversation handles GET /api/v1/chat/conversations/{conversation_id}
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", conversationID),
		zap.String("action", "GetConversation"),
	)

	conv, err := h.usecase.History(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, conv)
}

// DeleteConversation handles DELETE /api/v1/chat/conversations/{conversation_id}
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", conversationID),
		zap.String("action", "DeleteConversation"),
	)

	if err := h.usecase.DeleteConversation(ctx, conversationID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "conversation deleted")
	response.NoContent(w)
}

// ExportConversation handles GET /api/v1/chat/conversations/{conversation_id}/export
func (h *Handler) ExportConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", conversationID),
		zap.String("action", "ExportConversation"),
	)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(entity.FormatMarkdown)
	}

	f, err := h.formatters.Create(entity.ExportFormat(format))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	conv, err := h.usecase.History(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := f.Format(*conv)
	if err != nil {
		ctxzap.Error(ctx, "failed to render conversation export", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	ctxzap.Info(ctx, "conversation exported",
		zap.String("format", format),
		zap.Int("bytes", len(data)),
	)
	response.File(w, f.ContentType(), exportFilename(conversationID, f.FileExtension()), data)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrConversationNotFound):
		ctxzap.Warn(ctx, "conversation not found", zap.Error(err))
		response.Error(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, entity.ErrEmptyQuestion),
		errors.Is(err, entity.ErrEmptyQuery),
		errors.Is(err, entity.ErrInvalidParameter):
		ctxzap.Warn(ctx, "invalid query request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrGenerationTimeout):
		ctxzap.Error(ctx, "generation timed out", zap.Error(err))
		response.Error(w, http.StatusGatewayTimeout, "answer generation timed out")
	case errors.Is(err, entity.ErrCapabilityUnavailable):
		ctxzap.Error(ctx, "capability backend unavailable", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "a required backend is unavailable")
	default:
		ctxzap.Error(ctx, "query pipeline failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
