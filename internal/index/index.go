package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/entity"
	"go.uber.org/zap"
)

// Index stores chunk embeddings and serves similarity lookups over them.
// Embedding happens outside the lock; only backend mutations are serialized,
// so concurrent Add calls for different documents interleave safely and
// searches proceed while texts are being embedded.
type Index struct {
	mu       sync.RWMutex
	embedder EmbeddingProvider
	backend  VectorBackend
	logger   *zap.Logger
}

func New(embedder EmbeddingProvider, backend VectorBackend, logger *zap.Logger) *Index {
	return &Index{
		embedder: embedder,
		backend:  backend,
		logger:   logger,
	}
}

// Add embeds each chunk and stores it with enriched metadata. The base
// metadata (filename, document id) is copied per chunk and extended with the
// chunk id, position and indexing timestamp. Returns the number of chunks
// stored; on any embedding failure nothing is inserted.
func (i *Index) Add(ctx context.Context, chunks []string, base map[string]string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	records := make([]entity.VectorRecord, 0, len(chunks))
	now := time.Now().UTC().Format(time.RFC3339)

	for idx, chunk := range chunks {
		vector, err := i.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", idx, err)
		}

		id := uuid.New().String()
		meta := make(map[string]string, len(base)+4)
		for k, v := range base {
			meta[k] = v
		}
		meta[entity.MetaChunkID] = id
		meta[entity.MetaChunkIndex] = fmt.Sprintf("%d", idx)
		meta[entity.MetaTotalChunks] = fmt.Sprintf("%d", len(chunks))
		meta[entity.MetaTimestamp] = now

		records = append(records, entity.VectorRecord{
			ID:       id,
			Vector:   vector,
			Text:     chunk,
			Metadata: meta,
		})
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.backend.Insert(ctx, records); err != nil {
		return 0, fmt.Errorf("insert records: %w", err)
	}

	ctxzap.Info(ctx, "chunks indexed",
		zap.Int("count", len(records)),
		zap.String("document_id", base[entity.MetaDocumentID]),
	)
	return len(records), nil
}

// Search returns the k most similar passages for the query text, ordered by
// descending score. Scores are clamped to [0, 1].
func (i *Index) Search(ctx context.Context, query string, k int) ([]entity.RetrievedPassage, error) {
	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	matches, err := i.backend.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query backend: %w", err)
	}

	passages := make([]entity.RetrievedPassage, 0, len(matches))
	for _, m := range matches {
		score := m.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		passages = append(passages, entity.RetrievedPassage{
			ChunkID:  m.Record.ID,
			Text:     m.Record.Text,
			Metadata: m.Record.Metadata,
			Score:    score,
		})
	}

	return passages, nil
}

// DeleteByIDs removes the given chunks. Unknown ids are ignored.
func (i *Index) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.backend.DeleteByIDs(ctx, ids)
}

// DeleteBySource removes every chunk belonging to the given document.
func (i *Index) DeleteBySource(ctx context.Context, documentID string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	deleted, err := i.backend.DeleteByFilter(ctx, entity.MetaDocumentID, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete by document: %w", err)
	}

	ctxzap.Info(ctx, "document chunks deleted",
		zap.String("document_id", documentID),
		zap.Int("deleted", deleted),
	)
	return deleted, nil
}

// Reset drops all indexed content. The write lock excludes searches for the
// duration, so a concurrent query sees either the old index or an empty one.
func (i *Index) Reset(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.backend.Reset(ctx)
}

// Status reports index health. It never returns an error: a failing backend
// is reported as unhealthy with a zero count.
func (i *Index) Status(ctx context.Context) entity.IndexStatus {
	i.mu.RLock()
	defer i.mu.RUnlock()

	status := entity.IndexStatus{
		EmbeddingModel: i.embedder.Model(),
		Dimension:      i.embedder.Dimension(),
	}

	count, err := i.backend.Count(ctx)
	if err != nil {
		i.logger.Warn("index count failed", zap.Error(err))
		return status
	}

	status.Healthy = true
	status.DocumentCount = count
	return status
}
