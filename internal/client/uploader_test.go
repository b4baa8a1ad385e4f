package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeServer mimics the presign/PUT/confirm endpoints the uploader
// talks to, recording what it received.
type fakeServer struct {
	t  *testing.T
	mu sync.Mutex

	objects   map[string]string
	confirmed []string
	failPut   map[string]bool
	blockPut  map[string]chan struct{}
	srv       *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	f := &fakeServer{
		t:        t,
		objects:  make(map[string]string),
		failPut:  make(map[string]bool),
		blockPut: make(map[string]chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload/presign", f.handlePresign)
	mux.HandleFunc("/put/", f.handlePut)
	mux.HandleFunc("/api/upload/confirm", f.handleConfirm)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) handlePresign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"file_name"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))

	fileID := req.FileName + "-test"

	writeEnvelope(w, map[string]string{
		"signed_url": f.srv.URL + "/put/" + req.FileName,
		"file_id":    fileID,
	})
}

func (f *fakeServer) handlePut(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/put/")

	f.mu.Lock()
	block := f.blockPut[name]
	fail := f.failPut[name]
	f.mu.Unlock()

	if block != nil {
		close(block)
		<-r.Context().Done()
		return
	}
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	body := new(strings.Builder)
	buf := make([]byte, 1024)
	for {
		n, err := r.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	f.mu.Lock()
	f.objects[name] = body.String()
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (f *fakeServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID string `json:"file_id"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))

	f.mu.Lock()
	f.confirmed = append(f.confirmed, req.FileID)
	f.mu.Unlock()
	writeEnvelope(w, map[string]string{"id": req.FileID})
}

func (f *fakeServer) confirmedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.confirmed...)
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 0,
		"msg":  "success",
		"data": data,
	})
}

func localFile(name, content string) LocalFile {
	return LocalFile{
		Name:   name,
		Size:   int64(len(content)),
		Reader: strings.NewReader(content),
	}
}

func TestUploadBatch_AllFilesUploaded(t *testing.T) {
	f := newFakeServer(t)
	uploader := &Uploader{BaseURL: f.srv.URL}

	results := uploader.UploadBatch(context.Background(), []LocalFile{
		localFile("a.txt", "alpha"),
		localFile("b.txt", "bravo"),
	}, "")

	require.Len(t, results, 2)
	for _, result := range results {
		require.Equal(t, StateUploaded, result.State, "file %s", result.Name)
		require.NoError(t, result.Err)
		require.Equal(t, result.Name+"-test", result.FileID)
	}

	f.mu.Lock()
	require.Equal(t, "alpha", f.objects["a.txt"])
	require.Equal(t, "bravo", f.objects["b.txt"])
	f.mu.Unlock()
	require.ElementsMatch(t, []string{"a.txt-test", "b.txt-test"}, f.confirmedIDs())
}

func TestUploadBatch_ReportsProgressToCompletion(t *testing.T) {
	f := newFakeServer(t)

	var mu sync.Mutex
	var final FileStatus
	uploader := &Uploader{
		BaseURL: f.srv.URL,
		OnProgress: func(s FileStatus) {
			mu.Lock()
			final = s
			mu.Unlock()
		},
	}

	results := uploader.UploadBatch(context.Background(), []LocalFile{
		localFile("a.txt", strings.Repeat("x", 4096)),
	}, "")
	require.Equal(t, StateUploaded, results[0].State)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, StateUploaded, final.State)
	require.True(t, final.PercentKnown)
	require.Equal(t, float64(100), final.Percent)
}

func TestUploadBatch_CancelledFileNeverConfirms(t *testing.T) {
	f := newFakeServer(t)
	started := make(chan struct{})
	f.blockPut["slow.bin"] = started

	ctx, cancel := context.WithCancel(context.Background())
	uploader := &Uploader{BaseURL: f.srv.URL}

	done := make(chan []UploadResult, 1)
	go func() {
		done <- uploader.UploadBatch(ctx, []LocalFile{
			localFile("slow.bin", strings.Repeat("z", 1<<16)),
		}, "")
	}()

	<-started
	cancel()

	select {
	case results := <-done:
		require.Len(t, results, 1)
		require.Equal(t, StateCancelled, results[0].State)
		require.ErrorIs(t, results[0].Err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not resolve after cancel")
	}
	require.Empty(t, f.confirmedIDs())
}

func TestUploadBatch_FailureIsolatedPerFile(t *testing.T) {
	f := newFakeServer(t)
	f.failPut["bad.txt"] = true

	uploader := &Uploader{BaseURL: f.srv.URL}
	results := uploader.UploadBatch(context.Background(), []LocalFile{
		localFile("good.txt", "fine"),
		localFile("bad.txt", "doomed"),
	}, "")

	byName := make(map[string]UploadResult)
	for _, r := range results {
		byName[r.Name] = r
	}
	require.Equal(t, StateUploaded, byName["good.txt"].State)
	require.Equal(t, StateError, byName["bad.txt"].State)
	require.Error(t, byName["bad.txt"].Err)
	require.Equal(t, []string{"good.txt-test"}, f.confirmedIDs())
}

func TestUploadBatch_ServerRejectionSurfacesMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload/presign", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "sign in to upload into folders",
			"code":    403,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	uploader := &Uploader{BaseURL: srv.URL}
	results := uploader.UploadBatch(context.Background(), []LocalFile{
		localFile("a.txt", "alpha"),
	}, "docs-folder")

	require.Equal(t, StateError, results[0].State)
	require.Contains(t, results[0].Err.Error(), "sign in to upload into folders")
}
