package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/integration/common"
	pkghttp "github.com/researchmate/rag-backend/pkg/http"
	"go.uber.org/zap"
)

// Connector generates embeddings via the Ollama embeddings API.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.EmbeddingConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text. The vector length must match
// Dimension(); a model serving a different dimensionality is reported as an
// index corruption risk, not silently accepted.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{
		Model:  c.config.Model,
		Prompt: text,
	}

	var resp embedResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: embedding: %v", entity.ErrCapabilityUnavailable, err)
	}

	if len(resp.Embedding) != c.config.Dimension {
		return nil, fmt.Errorf("%w: model %q returned %d dimensions, configured %d",
			entity.ErrDimensionMismatch, c.config.Model, len(resp.Embedding), c.config.Dimension)
	}

	vector := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

// Dimension returns the configured embedding vector size.
func (c *Connector) Dimension() int {
	return c.config.Dimension
}

// Model returns the embedding model name.
func (c *Connector) Model() string {
	return c.config.Model
}
