package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector produces deterministic pseudo-embeddings without a model
// backend. Texts sharing words produce correlated vectors, so similarity
// search stays meaningful in mock mode.
type MockConnector struct {
	dimension int
	logger    *zap.Logger
}

func NewMockConnector(dimension int, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		dimension: dimension,
		logger:    logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding text", zap.Int("length", len(text)))

	vector := make([]float32, m.dimension)

	// Hash character trigrams into vector slots.
	for i := 0; i+3 <= len(text); i++ {
		h := fnv.New32a()
		h.Write([]byte(text[i : i+3]))
		vector[int(h.Sum32())%m.dimension]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vector[0] = 1
		return vector, nil
	}

	n := float32(math.Sqrt(norm))
	for i := range vector {
		vector[i] /= n
	}

	return vector, nil
}

func (m *MockConnector) Dimension() int {
	return m.dimension
}

func (m *MockConnector) Model() string {
	return "mock-embedding"
}
