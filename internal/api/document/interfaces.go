package document

import (
	"context"

	"github.com/researchmate/rag-backend/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, filename string, data []byte) (*entity.UploadResponse, error)
	List(ctx context.Context) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}
