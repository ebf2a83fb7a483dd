package chunker

import (
	"fmt"
	"strings"

	"github.com/researchmate/rag-backend/internal/entity"
)

// Lookback budgets for boundary adjustment, in characters.
const (
	sentenceLookback = 100
	wordLookback     = 50
)

// Chunker splits extracted document text into overlapping bounded-size
// segments. Windows prefer to end at a sentence terminator, then at a
// whitespace boundary, and split mid-word only as a last resort. Pure string
// processing: no I/O, deterministic for identical inputs.
type Chunker struct{}

func New() *Chunker {
	return &Chunker{}
}

// Chunk splits text into segments of at most size characters, each subsequent
// window starting overlap characters before the end of the previous one.
func (c *Chunker) Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", entity.ErrInvalidChunkParams, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", entity.ErrInvalidChunkParams, size, overlap)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, entity.ErrEmptyText
	}

	// Windows are measured in runes, not bytes, so multi-byte text never
	// gets sliced mid-character.
	runes := []rune(text)
	n := len(runes)

	if size >= n {
		return []string{trimmed}, nil
	}

	var chunks []string
	start := 0

	for start < n {
		end := start + size
		if end >= n {
			end = n
		} else {
			if se := findSentenceBoundary(runes, start, end); se > start {
				end = se
			} else if we := findWordBoundary(runes, start, end); we > start {
				end = we
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			// Boundary adjustment ate the whole step; move on without
			// overlap so the loop always makes progress.
			next = end
		}
		start = next
	}

	return chunks, nil
}

// findSentenceBoundary returns the position just past the last sentence
// terminator (., !, ? followed by whitespace) within the lookback window
// before end, or -1 if there is none.
func findSentenceBoundary(runes []rune, start, end int) int {
	searchStart := end - sentenceLookback
	if searchStart < start {
		searchStart = start
	}

	for i := end - 2; i >= searchStart; i-- {
		if isTerminator(runes[i]) && isSpace(runes[i+1]) {
			return i + 2
		}
	}

	return -1
}

// findWordBoundary returns the position just past the last whitespace within
// the lookback window before end, or -1 if there is none.
func findWordBoundary(runes []rune, start, end int) int {
	searchStart := end - wordLookback
	if searchStart < start {
		searchStart = start
	}

	for i := end - 1; i > searchStart; i-- {
		if isSpace(runes[i]) {
			return i + 1
		}
	}

	return -1
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
