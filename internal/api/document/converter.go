package document

import "github.com/researchmate/rag-backend/internal/entity"

type listResponse struct {
	Documents []*entity.Document `json:"documents"`
	Total     int                `json:"total"`
}

func toListResponse(docs []*entity.Document) listResponse {
	if docs == nil {
		docs = []*entity.Document{}
	}
	return listResponse{
		Documents: docs,
		Total:     len(docs),
	}
}
