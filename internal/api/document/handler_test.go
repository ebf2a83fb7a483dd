package document_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/researchmate/rag-backend/internal/api/document"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	uploadResp *entity.UploadResponse
	uploadErr  error
	docs       []*entity.Document
	deleteErr  error
}

func (f *fakeUsecase) Upload(_ context.Context, _ string, _ []byte) (*entity.UploadResponse, error) {
	return f.uploadResp, f.uploadErr
}

func (f *fakeUsecase) List(context.Context) ([]*entity.Document, error) {
	return f.docs, nil
}

func (f *fakeUsecase) Delete(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeUsecase) Reset(context.Context) error {
	return nil
}

func newRouter(uc *fakeUsecase) http.Handler {
	r := chi.NewRouter()
	document.RegisterRoutes(r, document.NewHandler(uc, config.FileUploadConfig{
		MaxFileSize:   10 << 20,
		MaxUploadSize: 32 << 20,
		AllowedExts:   ".pdf,.txt,.md,.docx",
	}))
	return r
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadEndpoint_Created(t *testing.T) {
	router := newRouter(&fakeUsecase{
		uploadResp: &entity.UploadResponse{
			DocumentID:    "doc-1",
			Filename:      "notes.txt",
			ChunksCreated: 3,
			Message:       "document processed successfully",
		},
	})

	body, contentType := multipartUpload(t, "notes.txt", []byte("some text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"document_id":"doc-1"`)
	assert.Contains(t, rec.Body.String(), `"chunks_created":3`)
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	router := newRouter(&fakeUsecase{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadEndpoint_UnsupportedType(t *testing.T) {
	router := newRouter(&fakeUsecase{uploadErr: entity.ErrInvalidExtension})

	body, contentType := multipartUpload(t, "image.png", []byte{0x89, 'P', 'N', 'G'})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestListEndpoint(t *testing.T) {
	router := newRouter(&fakeUsecase{
		docs: []*entity.Document{
			{ID: "doc-1", Filename: "paper.pdf"},
			{ID: "doc-2", Filename: "notes.md"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), "paper.pdf")
}

func TestListEndpoint_Empty(t *testing.T) {
	router := newRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"documents":[]`)
}

func TestDeleteEndpoint_NotFound(t *testing.T) {
	router := newRouter(&fakeUsecase{deleteErr: entity.ErrDocumentNotFound})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEndpoint_NoContent(t *testing.T) {
	router := newRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	router := newRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/reset", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"reset"`)
}
