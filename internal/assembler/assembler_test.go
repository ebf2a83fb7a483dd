package assembler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/researchmate/rag-backend/internal/assembler"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func passage(filename, text string) entity.RetrievedPassage {
	return entity.RetrievedPassage{
		Text:     text,
		Metadata: map[string]string{entity.MetaFilename: filename},
	}
}

func TestAssembleContext_Format(t *testing.T) {
	a := assembler.New()

	got := a.AssembleContext([]entity.RetrievedPassage{
		passage("paper.pdf", "Transformers use attention."),
		passage("notes.md", "Gradient descent converges."),
	})

	expected := "[Document 1 - paper.pdf]\nTransformers use attention.\n" +
		"\n" +
		"[Document 2 - notes.md]\nGradient descent converges.\n"
	assert.Equal(t, expected, got)
}

func TestAssembleContext_Empty(t *testing.T) {
	a := assembler.New()
	assert.Empty(t, a.AssembleContext(nil))
}

func TestAssembleContext_MissingFilename(t *testing.T) {
	a := assembler.New()

	got := a.AssembleContext([]entity.RetrievedPassage{
		{Text: "orphan chunk", Metadata: map[string]string{}},
	})
	assert.Contains(t, got, "[Document 1 - Unknown]")
}

func TestAssembleHistory_WindowAndRoles(t *testing.T) {
	a := assembler.New()

	var messages []entity.ConversationMessage
	for i := 1; i <= 7; i++ {
		role := entity.RoleUser
		if i%2 == 0 {
			role = entity.RoleAssistant
		}
		messages = append(messages, entity.ConversationMessage{
			Role:    role,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	got := a.AssembleHistory(messages)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "User: message 3", lines[0])
	assert.Equal(t, "Assistant: message 4", lines[1])
	assert.Equal(t, "User: message 7", lines[4])
	assert.NotContains(t, got, "message 1")
	assert.NotContains(t, got, "message 2")
}

func TestAssemble_HistoryPrecedesDocuments(t *testing.T) {
	a := assembler.New()

	got := a.Assemble(
		[]entity.RetrievedPassage{passage("paper.pdf", "chunk text")},
		[]entity.ConversationMessage{{Role: entity.RoleUser, Content: "earlier question"}},
	)

	historyPos := strings.Index(got, "Previous conversation:")
	docPos := strings.Index(got, "[Document 1 - paper.pdf]")
	assert.GreaterOrEqual(t, historyPos, 0)
	assert.Greater(t, docPos, historyPos)
}

func TestAssemble_NoHistory(t *testing.T) {
	a := assembler.New()

	got := a.Assemble([]entity.RetrievedPassage{passage("paper.pdf", "chunk text")}, nil)
	assert.NotContains(t, got, "Previous conversation:")
	assert.Contains(t, got, "[Document 1 - paper.pdf]")
}
