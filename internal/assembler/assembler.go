package assembler

import (
	"fmt"
	"strings"

	"github.com/researchmate/rag-backend/internal/entity"
)

// historyWindow is how many trailing conversation messages are rendered into
// the prompt context.
const historyWindow = 5

// Assembler renders retrieved passages and conversation history into the
// plain-text context block fed to the generation model.
type Assembler struct{}

func New() *Assembler {
	return &Assembler{}
}

// AssembleContext renders passages into labeled document sections. Passages
// are rendered in the order given; an empty slice yields an empty string.
func (a *Assembler) AssembleContext(passages []entity.RetrievedPassage) string {
	if len(passages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		filename := p.Metadata[entity.MetaFilename]
		if filename == "" {
			filename = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("[Document %d - %s]\n%s\n", i+1, filename, p.Text))
	}

	return strings.Join(parts, "\n")
}

// AssembleHistory renders the last messages of a conversation as alternating
// speaker lines. Only the trailing historyWindow messages are included.
func (a *Assembler) AssembleHistory(messages []entity.ConversationMessage) string {
	if len(messages) == 0 {
		return ""
	}

	start := 0
	if len(messages) > historyWindow {
		start = len(messages) - historyWindow
	}

	lines := make([]string, 0, len(messages)-start)
	for _, m := range messages[start:] {
		speaker := "Assistant"
		if m.Role == entity.RoleUser {
			speaker = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Content))
	}

	return strings.Join(lines, "\n")
}

// Assemble combines history and passages into the final context block.
// History, when present, precedes the document sections.
func (a *Assembler) Assemble(passages []entity.RetrievedPassage, history []entity.ConversationMessage) string {
	docs := a.AssembleContext(passages)
	conv := a.AssembleHistory(history)

	if conv == "" {
		return docs
	}
	if docs == "" {
		return "Previous conversation:\n" + conv
	}
	return "Previous conversation:\n" + conv + "\n\n" + docs
}
