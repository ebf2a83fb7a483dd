package generation

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a model backend.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Generate(ctx context.Context, question, contextText string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer", zap.Int("context_length", len(contextText)))

	return fmt.Sprintf(
		"Based on the indexed documents, here is what was found for %q. "+
			"The retrieved context contains %d characters of relevant material.",
		question, len(contextText),
	), nil
}

func (m *MockConnector) HealthCheck(ctx context.Context) bool {
	return true
}

func (m *MockConnector) ListModels(ctx context.Context) ([]string, error) {
	return []string{"mock-generation"}, nil
}

func (m *MockConnector) Model() string {
	return "mock-generation"
}
