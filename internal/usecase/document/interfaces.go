package document

import (
	"context"

	"github.com/researchmate/rag-backend/internal/entity"
)

type Chunker interface {
	Chunk(text string, size, overlap int) ([]string, error)
}

type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

type ChunkIndex interface {
	Add(ctx context.Context, chunks []string, base map[string]string) (int, error)
	DeleteBySource(ctx context.Context, documentID string) (int, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) entity.IndexStatus
}
