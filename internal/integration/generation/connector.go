package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/integration/common"
	pkghttp "github.com/researchmate/rag-backend/pkg/http"
	"go.uber.org/zap"
)

const promptTemplate = `You are a helpful AI assistant specialized in explaining research papers and ML/DS concepts.
Use the following context to answer the question. If you don't know the answer, say so.

Context: %s

Question: %s

Answer:`

// Connector generates answers via the Ollama generate API.
type Connector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.GenerationConnectorConfig, logger *zap.Logger) *Connector {
	// Generation calls can run for minutes; the per-request HTTP timeout must
	// not undercut the configured generation deadline.
	httpCfg := cfg.HTTPClientConfig
	if cfg.Timeout > httpCfg.RequestTimeout {
		httpCfg.RequestTimeout = cfg.Timeout
	}

	return &Connector{
		connector: common.NewBaseConnector(httpCfg, logger),
		config:    cfg,
		logger:    logger,
	}
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate produces an answer for question conditioned on contextText.
// The call is not retried: a slow model combined with retries would multiply
// the worst-case latency, and the orchestrator treats the deadline as final.
func (c *Connector) Generate(ctx context.Context, question, contextText string) (string, error) {
	ctxzap.Info(ctx, "generating answer",
		zap.String("model", c.config.Model),
		zap.Int("context_length", len(contextText)),
	)

	req := generateRequest{
		Model:  c.config.Model,
		Prompt: fmt.Sprintf(promptTemplate, contextText, question),
		Stream: false,
		Options: &options{
			Temperature: c.config.Temperature,
		},
	}

	var resp generateResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		ctxzap.Error(ctx, "generation request failed", zap.Error(err))
		return "", fmt.Errorf("%w: generation: %v", entity.ErrCapabilityUnavailable, err)
	}

	answer := strings.TrimSpace(resp.Response)
	if answer == "" {
		return "", fmt.Errorf("%w: generation returned an empty answer", entity.ErrCapabilityUnavailable)
	}

	ctxzap.Info(ctx, "answer generated", zap.Int("answer_length", len(answer)))
	return answer, nil
}

// HealthCheck reports whether the generation backend is reachable.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	var resp tagsResponse
	err := c.connector.DoRequest(ctx, http.MethodGet, c.config.TagsEndpoint, nil, &resp)
	return err == nil
}

// ListModels returns the model names available on the backend.
func (c *Connector) ListModels(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.TagsEndpoint, nil, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("%w: list models: %v", entity.ErrCapabilityUnavailable, err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Model returns the configured generation model name.
func (c *Connector) Model() string {
	return c.config.Model
}
