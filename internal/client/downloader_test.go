package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newDownloadServer(t *testing.T, name, content string) *httptest.Server {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/file/", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]interface{}{
			"url":  srv.URL + "/object",
			"name": name,
			"size": len(content),
		})
	})
	mux.HandleFunc("/object", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.Write([]byte(content))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload_WritesFileToDisk(t *testing.T) {
	content := strings.Repeat("payload", 1000)
	srv := newDownloadServer(t, "report.pdf", content)
	dir := t.TempDir()

	var events []ProgressEvent
	downloader := &Downloader{
		BaseURL: srv.URL,
		OnProgress: func(e ProgressEvent) {
			events = append(events, e)
		},
	}

	path, err := downloader.Download(context.Background(), "report-pdf-abc123", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "report.pdf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(got))

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.True(t, last.PercentKnown)
	require.Equal(t, float64(100), last.Percent)
	require.Equal(t, int64(len(content)), last.Loaded)
}

func TestDownload_SanitizesNameToBase(t *testing.T) {
	srv := newDownloadServer(t, "../../escape.txt", "data")
	dir := t.TempDir()

	downloader := &Downloader{BaseURL: srv.URL}
	path, err := downloader.Download(context.Background(), "escape-txt-x", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "escape.txt"), path)
}

func TestDownload_MissingFileSurfacesServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/file/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "file not found",
			"code":    404,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	downloader := &Downloader{BaseURL: srv.URL}
	_, err := downloader.Download(context.Background(), "gone-abc", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "file not found")
}

func TestResolveURL(t *testing.T) {
	srv := newDownloadServer(t, "notes.txt", "hi")

	downloader := &Downloader{BaseURL: srv.URL}
	info, err := downloader.ResolveURL(context.Background(), "notes-txt-x")
	require.NoError(t, err)
	require.Equal(t, "notes.txt", info.Name)
	require.Equal(t, int64(2), info.Size)
	require.Equal(t, srv.URL+"/object", info.URL)
}
