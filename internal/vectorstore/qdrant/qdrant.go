// Package qdrant provides a vector backend on top of the Qdrant REST API.
// The collection is created with cosine distance; Qdrant reports cosine
// similarity scores directly. Tie order between equal scores is defined by
// Qdrant, not by this client.
package qdrant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	pkghttp "github.com/researchmate/rag-backend/pkg/http"
	"go.uber.org/zap"
)

type Storage struct {
	config    config.QdrantConfig
	connector *pkghttp.Connector
	dimension int
	logger    *zap.Logger
}

func NewStorage(ctx context.Context, cfg config.QdrantConfig, dimension int, logger *zap.Logger) (*Storage, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", entity.ErrInvalidParameter, dimension)
	}

	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{BaseURL: cfg.Url, Logger: logger},
		pkghttp.WithRequestTimeout(cfg.Timeout),
	)

	s := &Storage{
		config:    cfg,
		connector: connector,
		dimension: dimension,
		logger:    logger,
	}

	if err := s.ensureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	return s, nil
}

// ensureCollection creates the collection if missing. Qdrant returns 2xx when
// the collection already exists with the same schema.
func (s *Storage) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, "/collections/"+s.config.Collection, body, nil)
}

func (s *Storage) Insert(ctx context.Context, records []entity.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, len(records))
	for i, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("%w: got %d, index dimension is %d", entity.ErrDimensionMismatch, len(r.Vector), s.dimension)
		}

		payload := map[string]any{"text": r.Text}
		for k, v := range r.Metadata {
			payload[k] = v
		}

		points[i] = map[string]any{
			"id":      r.ID,
			"vector":  r.Vector,
			"payload": payload,
		}
	}

	endpoint := fmt.Sprintf("/collections/%s/points?wait=true", s.config.Collection)
	return s.do(ctx, http.MethodPut, endpoint, map[string]any{"points": points}, nil)
}

func (s *Storage) Query(ctx context.Context, vector []float32, k int) ([]entity.VectorMatch, error) {
	if k <= 0 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("/collections/%s/points/search", s.config.Collection)
	if err := s.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]entity.VectorMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		record := entity.VectorRecord{
			ID:       r.ID,
			Metadata: make(map[string]string, len(r.Payload)),
		}
		for k, v := range r.Payload {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "text" {
				record.Text = str
				continue
			}
			record.Metadata[k] = str
		}
		matches = append(matches, entity.VectorMatch{Record: record, Score: r.Score})
	}

	return matches, nil
}

func (s *Storage) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	endpoint := fmt.Sprintf("/collections/%s/points/delete?wait=true", s.config.Collection)
	if err := s.do(ctx, http.MethodPost, endpoint, map[string]any{"points": ids}, nil); err != nil {
		return 0, err
	}

	// Qdrant does not report how many of the ids existed; deleting unknown
	// ids is not an error, so the request count is the best available answer.
	return len(ids), nil
}

func (s *Storage) DeleteByFilter(ctx context.Context, key, value string) (int, error) {
	filter := map[string]any{
		"must": []map[string]any{
			{"key": key, "match": map[string]any{"value": value}},
		},
	}

	// Qdrant's delete response does not include a count, so count the
	// matching points first.
	var countResp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	countEndpoint := fmt.Sprintf("/collections/%s/points/count", s.config.Collection)
	if err := s.do(ctx, http.MethodPost, countEndpoint, map[string]any{"filter": filter, "exact": true}, &countResp); err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("/collections/%s/points/delete?wait=true", s.config.Collection)
	if err := s.do(ctx, http.MethodPost, endpoint, map[string]any{"filter": filter}, nil); err != nil {
		return 0, err
	}

	return countResp.Result.Count, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("/collections/%s/points/count", s.config.Collection)
	if err := s.do(ctx, http.MethodPost, endpoint, map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}

	return resp.Result.Count, nil
}

// Reset drops and recreates the collection with the same dimension and metric.
func (s *Storage) Reset(ctx context.Context) error {
	if err := s.do(ctx, http.MethodDelete, "/collections/"+s.config.Collection, nil, nil); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return s.ensureCollection(ctx)
}

func (s *Storage) do(ctx context.Context, method, endpoint string, reqBody, respBody any) error {
	opts := []pkghttp.RequestOpt{}
	if s.config.APIKey != "" {
		opts = append(opts, pkghttp.WithHeader("api-key", s.config.APIKey))
	}

	if err := s.connector.DoRequest(ctx, method, endpoint, reqBody, respBody, opts...); err != nil {
		return fmt.Errorf("%w: qdrant %s %s: %v", entity.ErrCapabilityUnavailable, method, endpoint, err)
	}
	return nil
}
