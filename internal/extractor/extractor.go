package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

// Extractor converts uploaded files into plain text suitable for chunking.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the textual content of the file. The format is chosen by
// file extension, case-insensitively. Unsupported extensions yield
// ErrUnsupportedFormat; a parser failure yields ErrExtractionFailed.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return e.extractPlain(data), nil
	case ".pdf":
		return e.extractPDF(data)
	case ".docx":
		return e.extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// extractPlain decodes the bytes as UTF-8, falling back to Latin-1 when the
// content is not valid UTF-8.
func (e *Extractor) extractPlain(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", entity.ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", entity.ErrExtractionFailed, i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *Extractor) extractDOCX(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", entity.ErrExtractionFailed, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
