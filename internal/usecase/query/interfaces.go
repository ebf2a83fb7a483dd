package query

import (
	"context"

	"github.com/researchmate/rag-backend/internal/entity"
)

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]entity.RetrievedPassage, error)
}

type ContextAssembler interface {
	Assemble(passages []entity.RetrievedPassage, history []entity.ConversationMessage) string
}

type ConversationStore interface {
	Append(id string, msg entity.ConversationMessage)
	Get(id string) (entity.Conversation, bool)
	Delete(id string)
}

type GenerationProvider interface {
	Generate(ctx context.Context, question, contextText string) (string, error)
	HealthCheck(ctx context.Context) bool
	Model() string
}
