package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/validator"
	"github.com/researchmate/rag-backend/internal/repository"
	"go.uber.org/zap"
)

// DocumentUsecase implements the document ingestion pipeline: validate,
// extract, chunk, index, and track the document in the registry.
type DocumentUsecase struct {
	repo      repository.DocumentRepository
	extractor Extractor
	chunker   Chunker
	index     ChunkIndex
	validator *validator.Validator
	cfg       config.ChunkingConfig
	logger    *zap.Logger
}

func NewUsecase(
	repo repository.DocumentRepository,
	extractor Extractor,
	chunker Chunker,
	index ChunkIndex,
	validator *validator.Validator,
	cfg config.ChunkingConfig,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		index:     index,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Upload ingests one file. The document is registered before processing so a
// failed ingestion remains visible as an unprocessed document. A file with no
// extractable text is a terminal processed state with zero chunks, not an
// error.
func (uc *DocumentUsecase) Upload(ctx context.Context, filename string, data []byte) (*entity.UploadResponse, error) {
	if err := uc.validator.ValidateUpload(filename, int64(len(data))); err != nil {
		return nil, err
	}

	doc := entity.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		SizeBytes:  int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}
	created, err := uc.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	ctxzap.Info(ctx, "document registered",
		zap.String("document_id", created.ID),
		zap.String("filename", filename),
		zap.Int64("size_bytes", created.SizeBytes),
	)

	text, err := uc.extractor.Extract(filename, data)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		if err := uc.repo.MarkProcessed(ctx, created.ID, 0); err != nil {
			return nil, fmt.Errorf("mark document processed: %w", err)
		}
		return &entity.UploadResponse{
			DocumentID:    created.ID,
			Filename:      filename,
			SizeBytes:     created.SizeBytes,
			ChunksCreated: 0,
			Message:       "document contains no extractable text",
		}, nil
	}

	chunks, err := uc.chunker.Chunk(text, uc.cfg.ChunkSize, uc.cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}

	indexed, err := uc.index.Add(ctx, chunks, map[string]string{
		entity.MetaFilename:   filename,
		entity.MetaDocumentID: created.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("index document: %w", err)
	}

	if err := uc.repo.MarkProcessed(ctx, created.ID, indexed); err != nil {
		return nil, fmt.Errorf("mark document processed: %w", err)
	}

	ctxzap.Info(ctx, "document processed",
		zap.String("document_id", created.ID),
		zap.Int("chunks", indexed),
	)

	return &entity.UploadResponse{
		DocumentID:    created.ID,
		Filename:      filename,
		SizeBytes:     created.SizeBytes,
		ChunksCreated: indexed,
		Message:       "document processed successfully",
	}, nil
}

// List returns all registered documents, newest first.
func (uc *DocumentUsecase) List(ctx context.Context) ([]*entity.Document, error) {
	return uc.repo.List(ctx)
}

// Delete removes a document and every chunk indexed for it.
func (uc *DocumentUsecase) Delete(ctx context.Context, id string) error {
	if _, err := uc.repo.Get(ctx, id); err != nil {
		return err
	}

	if _, err := uc.index.DeleteBySource(ctx, id); err != nil {
		return fmt.Errorf("delete document chunks: %w", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", id))
	return nil
}

// Reset drops every document and the whole index.
func (uc *DocumentUsecase) Reset(ctx context.Context) error {
	if err := uc.index.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	if err := uc.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset registry: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base reset")
	return nil
}

// Status reports index health and the registered document count.
func (uc *DocumentUsecase) Status(ctx context.Context) entity.IndexStatus {
	return uc.index.Status(ctx)
}
