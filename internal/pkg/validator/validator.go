package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
)

type Validator struct {
	cfg config.FileUploadConfig
}

func New(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateQuery checks the query request before it reaches the orchestrator.
func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return entity.ErrEmptyQuestion
	}

	if req.MaxResults < 0 {
		return fmt.Errorf("%w: max_results must not be negative", entity.ErrInvalidParameter)
	}

	return nil
}

// ValidateUpload checks filename extension and size against the upload limits.
func (v *Validator) ValidateUpload(filename string, size int64) error {
	if filename == "" {
		return fmt.Errorf("%w: filename", entity.ErrInvalidParameter)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range v.cfg.AllowedExtensions() {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s (allowed: %s)", entity.ErrInvalidExtension, ext, v.cfg.AllowedExts)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, filename, size, v.cfg.MaxFileSize)
	}

	return nil
}
