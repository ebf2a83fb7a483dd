package formatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/researchmate/rag-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(conv entity.Conversation) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "Conversation `%s`, started %s.\n\n", conv.ID, conv.CreatedAt.Format(time.RFC3339))

	for _, msg := range conv.Messages {
		fmt.Fprintf(&buf, "**%s** (%s):\n\n%s\n\n",
			speakerLabel(msg.Role), msg.Timestamp.Format("15:04:05"), msg.Content)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
