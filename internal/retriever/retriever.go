package retriever

import (
	"context"
	"strings"

	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
)

type SearchIndex interface {
	Search(ctx context.Context, query string, k int) ([]entity.RetrievedPassage, error)
}

// Retriever wraps the index with request-level policy: query validation and
// clamping of the requested passage count to the configured bounds.
type Retriever struct {
	index SearchIndex
	cfg   config.RetrievalConfig
}

func New(index SearchIndex, cfg config.RetrievalConfig) *Retriever {
	return &Retriever{
		index: index,
		cfg:   cfg,
	}
}

// Retrieve returns up to k passages for the query, most similar first.
// k <= 0 selects the configured default; out-of-range values are clamped.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]entity.RetrievedPassage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, entity.ErrEmptyQuery
	}

	if k <= 0 {
		k = r.cfg.TopK
	}
	if k < r.cfg.MinTopK {
		k = r.cfg.MinTopK
	}
	if k > r.cfg.MaxTopK {
		k = r.cfg.MaxTopK
	}

	return r.index.Search(ctx, query, k)
}
