package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memoryOutput) Write(name string, contents []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = string(contents)
}

func TestSaveResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	out := &memoryOutput{files: map[string]string{}}
	client := resty.New()
	SaveResponses(client, out, ".html")

	_, err := client.R().Get(srv.URL + "/")
	require.NoError(t, err)
	_, err = client.R().Get(srv.URL + "/missing")
	require.NoError(t, err)

	require.Len(t, out.files, 1)
	for name, body := range out.files {
		require.True(t, strings.HasSuffix(name, "-1.html"), name)
		require.Equal(t, "<html>ok</html>", body)
	}
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.Equal(t, dir, out.Dir())

	out.Write("page.html", []byte("contents"))

	contents, err := os.ReadFile(filepath.Join(dir, "page.html"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(contents))
}
