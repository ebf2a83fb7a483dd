package index_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/index"
	"github.com/researchmate/rag-backend/internal/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEmbedder struct {
	dimension int
	vectors   map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, s.dimension)
	v[0] = 1
	return v, nil
}

func (s *stubEmbedder) Dimension() int { return s.dimension }
func (s *stubEmbedder) Model() string  { return "stub-model" }

func newTestIndex(t *testing.T, embedder *stubEmbedder) *index.Index {
	t.Helper()
	backend, err := memory.NewStorage(embedder.dimension)
	require.NoError(t, err)
	return index.New(embedder, backend, zap.NewNop())
}

func TestIndex_AddEnrichesMetadata(t *testing.T) {
	embedder := &stubEmbedder{dimension: 4}
	idx := newTestIndex(t, embedder)
	ctx := context.Background()

	base := map[string]string{
		entity.MetaFilename:   "paper.pdf",
		entity.MetaDocumentID: "doc-1",
	}
	count, err := idx.Add(ctx, []string{"first chunk", "second chunk", "third chunk"}, base)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	passages, err := idx.Search(ctx, "first chunk", 3)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	seen := map[string]bool{}
	for _, p := range passages {
		assert.Equal(t, "paper.pdf", p.Metadata[entity.MetaFilename])
		assert.Equal(t, "doc-1", p.Metadata[entity.MetaDocumentID])
		assert.Equal(t, p.ChunkID, p.Metadata[entity.MetaChunkID])
		assert.Equal(t, "3", p.Metadata[entity.MetaTotalChunks])
		assert.NotEmpty(t, p.Metadata[entity.MetaTimestamp])

		i, err := strconv.Atoi(p.Metadata[entity.MetaChunkIndex])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 3)
		assert.False(t, seen[p.ChunkID], "chunk ids must be unique")
		seen[p.ChunkID] = true
	}
}

func TestIndex_AddEmpty(t *testing.T) {
	idx := newTestIndex(t, &stubEmbedder{dimension: 4})

	count, err := idx.Add(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndex_SearchRanksBySimilarity(t *testing.T) {
	embedder := &stubEmbedder{
		dimension: 3,
		vectors: map[string][]float32{
			"cats":  {1, 0, 0},
			"dogs":  {0.9, 0.1, 0},
			"query": {1, 0, 0},
			"math":  {0, 0, 1},
		},
	}
	idx := newTestIndex(t, embedder)
	ctx := context.Background()

	_, err := idx.Add(ctx, []string{"math", "dogs", "cats"}, map[string]string{entity.MetaDocumentID: "d"})
	require.NoError(t, err)

	passages, err := idx.Search(ctx, "query", 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "cats", passages[0].Text)
	assert.Equal(t, "dogs", passages[1].Text)
	for _, p := range passages {
		assert.GreaterOrEqual(t, p.Score, 0.0)
		assert.LessOrEqual(t, p.Score, 1.0)
	}
}

func TestIndex_DeleteBySource(t *testing.T) {
	idx := newTestIndex(t, &stubEmbedder{dimension: 4})
	ctx := context.Background()

	_, err := idx.Add(ctx, []string{"a", "b"}, map[string]string{entity.MetaDocumentID: "doc-1"})
	require.NoError(t, err)
	_, err = idx.Add(ctx, []string{"c"}, map[string]string{entity.MetaDocumentID: "doc-2"})
	require.NoError(t, err)

	deleted, err := idx.DeleteBySource(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	status := idx.Status(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, 1, status.DocumentCount)
}

func TestIndex_ResetAndStatus(t *testing.T) {
	idx := newTestIndex(t, &stubEmbedder{dimension: 4})
	ctx := context.Background()

	_, err := idx.Add(ctx, []string{"a", "b"}, map[string]string{entity.MetaDocumentID: "doc-1"})
	require.NoError(t, err)

	require.NoError(t, idx.Reset(ctx))

	status := idx.Status(ctx)
	assert.True(t, status.Healthy)
	assert.Zero(t, status.DocumentCount)
	assert.Equal(t, "stub-model", status.EmbeddingModel)
	assert.Equal(t, 4, status.Dimension)
}
