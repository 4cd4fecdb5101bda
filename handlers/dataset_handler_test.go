package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"bailbridge-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "s3cret"

func datasetRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		Suggester:    &stubSuggester{},
		DatasetStore: store,
		DatasetKey:   "reference/bns_sections.csv",
		AdminToken:   adminToken,
	})
	return r, dir
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, token, filename, contentType string, content []byte) *http.Request {
	body, ct := multipartBody(t, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPut, "/api/reference/dataset", body)
	req.Header.Set("Content-Type", ct)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestDataset_UploadAndDownload(t *testing.T) {
	r, dir := datasetRouter(t)
	content := []byte("section,offense\nSection 303,Theft\n")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, adminToken, "bns.csv", "text/csv", content))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"key":"reference/bns_sections.csv"`)

	onDisk, err := os.ReadFile(filepath.Join(dir, "reference", "bns_sections.csv"))
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	req := httptest.NewRequest(http.MethodGet, "/api/reference/dataset", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(content), w.Body.String())
}

func TestDataset_UploadRequiresToken(t *testing.T) {
	r, _ := datasetRouter(t)

	for _, token := range []string{"", "wrong"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, token, "bns.csv", "text/csv", []byte("x")))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestDataset_InferCSVFromExtension(t *testing.T) {
	r, _ := datasetRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, adminToken, "bns.CSV", "", []byte("x")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDataset_RejectsFileType(t *testing.T) {
	r, _ := datasetRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, adminToken, "scan.pdf", "application/pdf", []byte("%PDF")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
}

func TestDataset_MissingFile(t *testing.T) {
	r, _ := datasetRouter(t)
	req := httptest.NewRequest(http.MethodPut, "/api/reference/dataset", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
}

func TestDataset_DownloadMissing(t *testing.T) {
	r, _ := datasetRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reference/dataset", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDataset_RoutesDisabledWithoutToken(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	r := NewRouter(RouterConfig{Suggester: &stubSuggester{}, DatasetStore: store})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reference/dataset", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
