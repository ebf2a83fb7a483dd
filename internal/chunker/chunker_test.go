package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_SingleChunkWhenTextFits(t *testing.T) {
	c := New()

	chunks, err := c.Chunk("  short text  ", 100, 20)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunk_EmptyText(t *testing.T) {
	c := New()

	_, err := c.Chunk("", 100, 20)
	assert.ErrorIs(t, err, entity.ErrEmptyText)

	_, err = c.Chunk("   \n\t  ", 100, 20)
	assert.ErrorIs(t, err, entity.ErrEmptyText)
}

func TestChunk_OverlapMustBeSmallerThanSize(t *testing.T) {
	c := New()

	_, err := c.Chunk("some text to split", 100, 100)
	assert.ErrorIs(t, err, entity.ErrInvalidChunkParams)

	_, err = c.Chunk("some text to split", 100, 150)
	assert.ErrorIs(t, err, entity.ErrInvalidChunkParams)

	_, err = c.Chunk("some text to split", 0, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidChunkParams)
}

func TestChunk_Deterministic(t *testing.T) {
	c := New()
	text := strings.Repeat("Machine learning is a field of study. It uses data to learn patterns. ", 20)

	first, err := c.Chunk(text, 120, 30)
	require.NoError(t, err)

	second, err := c.Chunk(text, 120, 30)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunk_NoChunkExceedsSize(t *testing.T) {
	c := New()
	text := strings.Repeat("Neural networks learn representations from raw data. Deep models stack many layers. ", 30)

	chunks, err := c.Chunk(text, 200, 40)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200, "chunk %d too long", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunk_PrefersSentenceBoundary(t *testing.T) {
	c := New()
	text := "First sentence here. Second sentence follows after it. Third sentence closes the paragraph and keeps going for a while longer."

	chunks, err := c.Chunk(text, 60, 10)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// The first window covers both sentence ends; it must cut at one of them.
	assert.True(t, strings.HasSuffix(chunks[0], "."), "expected sentence-terminated chunk, got %q", chunks[0])
}

func TestChunk_AdjacentChunksOverlap(t *testing.T) {
	c := New()
	// No sentence terminators or spaces: windows never shift, so the overlap
	// is exact and easy to verify.
	text := strings.Repeat("a", 1000)

	chunks, err := c.Chunk(text, 100, 25)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 0; i+1 < len(chunks); i++ {
		tail := chunks[i][len(chunks[i])-25:]
		head := chunks[i+1][:25]
		assert.Equal(t, tail, head, "chunks %d and %d do not overlap", i, i+1)
	}
}

func TestChunk_FallsBackToWordBoundary(t *testing.T) {
	c := New()
	// Words but no sentence terminators.
	text := strings.Repeat("word ", 100)

	chunks, err := c.Chunk(text, 52, 10)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.False(t, strings.HasPrefix(chunk, " "))
		assert.False(t, strings.HasSuffix(chunk, " "))
	}
}

func TestChunk_MultiByteRunes(t *testing.T) {
	c := New()
	// CJK text with no whitespace or terminators: every window cuts at the
	// raw size limit, which must land on a rune boundary.
	text := strings.Repeat("文", 200)

	chunks, err := c.Chunk(text, 100, 20)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8: %q", i, chunk)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100, "chunk %d too long", i)
	}
	assert.Equal(t, strings.Repeat("文", 100), chunks[0])
}

func TestChunk_SizeCountsRunesNotBytes(t *testing.T) {
	c := New()
	// 50 three-byte runes fit a 50-character window in one chunk even though
	// the byte length is 150.
	text := strings.Repeat("情", 50)

	chunks, err := c.Chunk(text, 50, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunk_CoversWholeText(t *testing.T) {
	c := New()
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 25)

	chunks, err := c.Chunk(text, 150, 30)
	require.NoError(t, err)

	// Last chunk must reach the end of the text.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}
