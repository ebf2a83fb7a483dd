// Package memory provides an in-process vector backend using brute-force
// cosine similarity. Suitable for single-node deployments and tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/researchmate/rag-backend/internal/entity"
)

// Storage keeps records in insertion order, which makes equal-score ties
// resolve to the earlier-inserted chunk.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []entity.VectorRecord
}

func NewStorage(dimension int) (*Storage, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", entity.ErrInvalidParameter, dimension)
	}
	return &Storage{dimension: dimension}, nil
}

func (s *Storage) Insert(ctx context.Context, records []entity.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("%w: got %d, index dimension is %d", entity.ErrDimensionMismatch, len(r.Vector), s.dimension)
		}
	}

	s.records = append(s.records, records...)
	return nil
}

// Query returns the k nearest records by cosine similarity, descending.
// Ties keep insertion order.
func (s *Storage) Query(ctx context.Context, vector []float32, k int) ([]entity.VectorMatch, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, index dimension is %d", entity.ErrDimensionMismatch, len(vector), s.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]entity.VectorMatch, 0, len(s.records))
	for _, r := range s.records {
		matches = append(matches, entity.VectorMatch{
			Record: r,
			Score:  cosine(r.Vector, vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *Storage) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	deleted := 0
	for _, r := range s.records {
		if _, ok := drop[r.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

func (s *Storage) DeleteByFilter(ctx context.Context, key, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	deleted := 0
	for _, r := range s.records {
		if r.Metadata[key] == value {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
