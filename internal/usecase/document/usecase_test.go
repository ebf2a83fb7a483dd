package document_test

import (
	"context"
	"strings"
	"testing"

	"github.com/researchmate/rag-backend/internal/chunker"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/validator"
	"github.com/researchmate/rag-backend/internal/repository"
	"github.com/researchmate/rag-backend/internal/usecase/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(string, []byte) (string, error) {
	return f.text, f.err
}

type fakeIndex struct {
	added      [][]string
	lastBase   map[string]string
	deletedID  string
	resetCalls int
	addErr     error
}

func (f *fakeIndex) Add(_ context.Context, chunks []string, base map[string]string) (int, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.added = append(f.added, chunks)
	f.lastBase = base
	return len(chunks), nil
}

func (f *fakeIndex) DeleteBySource(_ context.Context, documentID string) (int, error) {
	f.deletedID = documentID
	return 1, nil
}

func (f *fakeIndex) Reset(context.Context) error {
	f.resetCalls++
	return nil
}

func (f *fakeIndex) Status(context.Context) entity.IndexStatus {
	return entity.IndexStatus{Healthy: true}
}

func newUsecase(extractor *fakeExtractor, idx *fakeIndex) (*document.DocumentUsecase, repository.DocumentRepository) {
	repo := repository.NewDocumentMemory()
	v := validator.New(config.FileUploadConfig{
		MaxFileSize: 1 << 20,
		AllowedExts: ".pdf,.txt,.md,.docx",
	})
	uc := document.NewUsecase(repo, extractor, chunker.New(), idx, v,
		config.ChunkingConfig{ChunkSize: 1000, ChunkOverlap: 200}, zap.NewNop())
	return uc, repo
}

func TestUpload_HappyPath(t *testing.T) {
	idx := &fakeIndex{}
	uc, repo := newUsecase(&fakeExtractor{text: strings.Repeat("Research notes. ", 200)}, idx)
	ctx := context.Background()

	resp, err := uc.Upload(ctx, "notes.txt", []byte("raw bytes"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.DocumentID)
	assert.Equal(t, "notes.txt", resp.Filename)
	assert.Greater(t, resp.ChunksCreated, 1)
	assert.Equal(t, "document processed successfully", resp.Message)

	assert.Equal(t, "notes.txt", idx.lastBase[entity.MetaFilename])
	assert.Equal(t, resp.DocumentID, idx.lastBase[entity.MetaDocumentID])

	doc, err := repo.Get(ctx, resp.DocumentID)
	require.NoError(t, err)
	assert.True(t, doc.Processed)
	assert.Equal(t, resp.ChunksCreated, doc.ChunkCount)
}

func TestUpload_RejectsBadExtension(t *testing.T) {
	uc, repo := newUsecase(&fakeExtractor{}, &fakeIndex{})
	ctx := context.Background()

	_, err := uc.Upload(ctx, "malware.exe", []byte("data"))
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "rejected uploads must not be registered")
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	uc, _ := newUsecase(&fakeExtractor{}, &fakeIndex{})

	_, err := uc.Upload(context.Background(), "big.txt", make([]byte, 2<<20))
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestUpload_NoExtractableText(t *testing.T) {
	idx := &fakeIndex{}
	uc, repo := newUsecase(&fakeExtractor{text: "   \n\t  "}, idx)
	ctx := context.Background()

	resp, err := uc.Upload(ctx, "empty.txt", []byte("x"))
	require.NoError(t, err)

	assert.Zero(t, resp.ChunksCreated)
	assert.Equal(t, "document contains no extractable text", resp.Message)
	assert.Empty(t, idx.added)

	doc, err := repo.Get(ctx, resp.DocumentID)
	require.NoError(t, err)
	assert.True(t, doc.Processed)
	assert.Zero(t, doc.ChunkCount)
}

func TestUpload_ExtractionFailureLeavesUnprocessedRecord(t *testing.T) {
	uc, repo := newUsecase(&fakeExtractor{err: entity.ErrExtractionFailed}, &fakeIndex{})
	ctx := context.Background()

	_, err := uc.Upload(ctx, "broken.pdf", []byte("x"))
	assert.ErrorIs(t, err, entity.ErrExtractionFailed)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Processed)
}

func TestDelete(t *testing.T) {
	idx := &fakeIndex{}
	uc, repo := newUsecase(&fakeExtractor{text: "some document text"}, idx)
	ctx := context.Background()

	resp, err := uc.Upload(ctx, "doc.txt", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, resp.DocumentID))
	assert.Equal(t, resp.DocumentID, idx.deletedID)

	_, err = repo.Get(ctx, resp.DocumentID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestDelete_Unknown(t *testing.T) {
	uc, _ := newUsecase(&fakeExtractor{}, &fakeIndex{})

	err := uc.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestReset(t *testing.T) {
	idx := &fakeIndex{}
	uc, repo := newUsecase(&fakeExtractor{text: "some document text"}, idx)
	ctx := context.Background()

	_, err := uc.Upload(ctx, "doc.txt", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, uc.Reset(ctx))
	assert.Equal(t, 1, idx.resetCalls)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
