package index

import (
	"context"

	"github.com/researchmate/rag-backend/internal/entity"
)

type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
}

type VectorBackend interface {
	Insert(ctx context.Context, records []entity.VectorRecord) error
	Query(ctx context.Context, vector []float32, k int) ([]entity.VectorMatch, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
	DeleteByFilter(ctx context.Context, key, value string) (int, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}
