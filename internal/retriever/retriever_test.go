package retriever_test

import (
	"context"
	"testing"

	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	lastK     int
	lastQuery string
	passages  []entity.RetrievedPassage
}

func (f *fakeIndex) Search(_ context.Context, query string, k int) ([]entity.RetrievedPassage, error) {
	f.lastQuery = query
	f.lastK = k
	if len(f.passages) > k {
		return f.passages[:k], nil
	}
	return f.passages, nil
}

func testConfig() config.RetrievalConfig {
	return config.RetrievalConfig{TopK: 5, MinTopK: 1, MaxTopK: 20}
}

func TestRetriever_EmptyQuery(t *testing.T) {
	r := retriever.New(&fakeIndex{}, testConfig())

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := r.Retrieve(context.Background(), query, 5)
		assert.ErrorIs(t, err, entity.ErrEmptyQuery)
	}
}

func TestRetriever_DefaultK(t *testing.T) {
	idx := &fakeIndex{}
	r := retriever.New(idx, testConfig())

	_, err := r.Retrieve(context.Background(), "question", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, idx.lastK)
}

func TestRetriever_ClampsK(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  int
	}{
		{"above max", 100, 20},
		{"at max", 20, 20},
		{"within range", 7, 7},
		{"at min", 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx := &fakeIndex{}
			r := retriever.New(idx, testConfig())

			_, err := r.Retrieve(context.Background(), "question", tc.requested)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, idx.lastK)
		})
	}
}

func TestRetriever_PassesThroughResults(t *testing.T) {
	idx := &fakeIndex{passages: []entity.RetrievedPassage{
		{ChunkID: "c1", Text: "first", Score: 0.9},
		{ChunkID: "c2", Text: "second", Score: 0.4},
	}}
	r := retriever.New(idx, testConfig())

	passages, err := r.Retrieve(context.Background(), "question", 5)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "c1", passages[0].ChunkID)
	assert.Equal(t, "question", idx.lastQuery)
}
