package validator_test

import (
	"testing"

	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func newValidator() *validator.Validator {
	return validator.New(config.FileUploadConfig{
		MaxFileSize: 1024,
		AllowedExts: ".pdf,.txt,.md,.docx",
	})
}

func TestValidateQuery(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateQuery(&entity.QueryRequest{Question: "what is attention?"}))
	assert.ErrorIs(t, v.ValidateQuery(&entity.QueryRequest{Question: ""}), entity.ErrEmptyQuestion)
	assert.ErrorIs(t, v.ValidateQuery(&entity.QueryRequest{Question: " \t\n "}), entity.ErrEmptyQuestion)
	assert.ErrorIs(t, v.ValidateQuery(&entity.QueryRequest{Question: "q", MaxResults: -1}), entity.ErrInvalidParameter)
}

func TestValidateUpload(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateUpload("paper.pdf", 512))
	assert.NoError(t, v.ValidateUpload("PAPER.PDF", 512))
	assert.ErrorIs(t, v.ValidateUpload("", 512), entity.ErrInvalidParameter)
	assert.ErrorIs(t, v.ValidateUpload("script.exe", 512), entity.ErrInvalidExtension)
	assert.ErrorIs(t, v.ValidateUpload("paper.pdf", 2048), entity.ErrFileTooLarge)
}
