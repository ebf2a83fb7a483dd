package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/researchmate/rag-backend/internal/entity"
)

var _ DocumentRepository = &DocumentMemory{}

// DocumentMemory implements DocumentRepository in process memory. It is the
// registry used when no database is configured.
type DocumentMemory struct {
	mu   sync.RWMutex
	docs map[string]entity.Document
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{
		docs: map[string]entity.Document{},
	}
}

func (r *DocumentMemory) Create(_ context.Context, doc entity.Document) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[doc.ID] = doc
	created := doc
	return &created, nil
}

func (r *DocumentMemory) Get(_ context.Context, id string) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r *DocumentMemory) List(_ context.Context) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*entity.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		d := doc
		docs = append(docs, &d)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (r *DocumentMemory) MarkProcessed(_ context.Context, id string, chunkCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return entity.ErrDocumentNotFound
	}
	doc.Processed = true
	doc.ChunkCount = chunkCount
	r.docs[id] = doc
	return nil
}

func (r *DocumentMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return entity.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *DocumentMemory) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = map[string]entity.Document{}
	return nil
}
