package syncsdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transync/transync/internal/filesync"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&Config{BaseURL: srv.URL, ProjectKey: "proj-key", Timeout: timeout})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClient_DoGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/projects/proj-key/files/1/locales/fr", r.URL.Path)
		assert.Equal(t, "proj-key", r.Header.Get(HeaderAPIKey))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))
		assert.True(t, strings.HasPrefix(r.Header.Get(HeaderUserAgent), "transync/"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "fr:\n  hello: bonjour\n")
	}, time.Second)

	req := &filesync.Request{Method: http.MethodGet, Path: "/api/projects/proj-key/files/1/locales/fr"}
	c.Authorizer().Authorize(req)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "200 OK", resp.Status)
	assert.Equal(t, "fr:\n  hello: bonjour\n", string(resp.Body))
}

func TestClient_DoErrorStatusIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":"bad file"}`)
	}, time.Second)

	resp, err := c.Do(context.Background(), &filesync.Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.JSONEq(t, `{"error":"bad file"}`, string(resp.Body))
}

func TestClient_DoPlainErrorBody(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}, time.Second)

	resp, err := c.Do(context.Background(), &filesync.Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "502 Bad Gateway", StatusFormatter{}.Format(resp))
}

func TestClient_DoMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "true", r.FormValue("merge"))
		assert.Equal(t, "release-1", r.FormValue("label"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "fr.yml", header.Filename)
		assert.Equal(t, "text/plain; charset=utf-8", header.Header.Get("Content-Type"))
		content, _ := io.ReadAll(file)
		assert.Equal(t, "fr: {}\n", string(content))

		w.WriteHeader(http.StatusAccepted)
	}, time.Second)

	resp, err := c.Do(context.Background(), &filesync.Request{
		Method: http.MethodPut,
		Path:   "/api/projects/proj-key/files/1/locales/fr",
		Form:   map[string]string{"merge": "true", "label": "release-1"},
		File:   &filesync.FilePart{FieldName: "file", FileName: "fr.yml", Content: []byte("fr: {}\n")},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestClient_DoTimeoutIsRetryable(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	t.Cleanup(func() { close(release) })

	_, err := c.Do(context.Background(), &filesync.Request{Method: http.MethodGet, Path: "/slow"})
	require.Error(t, err)
	assert.Equal(t, filesync.ErrorKindTimeout, filesync.ClassifyError(err))
}

func TestClient_DoConnectionRefusedIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(&Config{BaseURL: url, ProjectKey: "proj-key", Timeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Do(context.Background(), &filesync.Request{Method: http.MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, filesync.ErrorKindOther, filesync.ClassifyError(err))
}

func TestClient_ExecutorFetchRoundTrip(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, "en:\n  hello: hi\n")
	}, time.Second)

	dir := t.TempDir()
	d := filesync.FileDescriptor{
		ID:           "3",
		LocalPath:    filepath.Join(dir, "config", "locales", "en.yml"),
		SourceLocale: "en",
		ProjectKey:   "proj-key",
	}

	e := filesync.NewExecutor(c, filesync.WithAuthorizer(c.Authorizer()), filesync.WithFormatter(StatusFormatter{}), filesync.WithFs(afero.NewOsFs()))
	res := e.Fetch(context.Background(), d, false)
	require.True(t, res.OK, res.Status)

	content, err := os.ReadFile(d.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "en:\n  hello: hi\n", string(content))

	// second run is gated by the checksum the first one produced
	res = e.Fetch(context.Background(), res.Descriptor, false)
	assert.True(t, res.Skipped)
	assert.EqualValues(t, 1, calls.Load())
}
