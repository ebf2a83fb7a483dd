package formatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(conv entity.Conversation) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(baseTitle)

	subPar := doc.AddParagraph()
	subPar.AddRun().AddText(fmt.Sprintf("Conversation %s, started %s",
		conv.ID, conv.CreatedAt.Format(time.RFC3339)))

	doc.AddParagraph()

	for _, msg := range conv.Messages {
		headerPar := doc.AddParagraph()
		headerRun := headerPar.AddRun()
		headerRun.Properties().SetBold(true)
		headerRun.AddText(fmt.Sprintf("%s (%s):",
			speakerLabel(msg.Role), msg.Timestamp.Format("15:04:05")))

		bodyPar := doc.AddParagraph()
		bodyPar.AddRun().AddText(msg.Content)

		doc.AddParagraph()
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
