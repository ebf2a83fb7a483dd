package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/researchmate/rag-backend/internal/entity"
)

// DocumentRepository defines the interface for document registry persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc entity.Document) (*entity.Document, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context) ([]*entity.Document, error)
	MarkProcessed(ctx context.Context, id string, chunkCount int) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL.
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

func (r *DocumentPostgres) Create(ctx context.Context, doc entity.Document) (*entity.Document, error) {
	const query = `
		INSERT INTO documents (id, filename, size_bytes, chunk_count, processed, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, filename, size_bytes, chunk_count, processed, uploaded_at`

	row := r.db.QueryRow(ctx, query,
		doc.ID, doc.Filename, doc.SizeBytes, doc.ChunkCount, doc.Processed, doc.UploadedAt)

	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

func (r *DocumentPostgres) Get(ctx context.Context, id string) (*entity.Document, error) {
	const query = `
		SELECT id, filename, size_bytes, chunk_count, processed, uploaded_at
		FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *DocumentPostgres) List(ctx context.Context) ([]*entity.Document, error) {
	const query = `
		SELECT id, filename, size_bytes, chunk_count, processed, uploaded_at
		FROM documents ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentPostgres) MarkProcessed(ctx context.Context, id string, chunkCount int) error {
	const query = `
		UPDATE documents SET processed = TRUE, chunk_count = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, chunkCount)
	if err != nil {
		return fmt.Errorf("mark document processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentPostgres) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("delete all documents: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	err := row.Scan(&doc.ID, &doc.Filename, &doc.SizeBytes, &doc.ChunkCount, &doc.Processed, &doc.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
