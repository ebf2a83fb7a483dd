package chat

import (
	"context"

	"github.com/researchmate/rag-backend/internal/entity"
)

type ChatUsecase interface {
	Query(ctx context.Context, req entity.QueryRequest) (*entity.QueryResponse, error)
	History(ctx context.Context, conversationID string) (*entity.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}
