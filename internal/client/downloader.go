package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const downloadChunkSize = 32 * 1024

// Downloader resolves a file's signed download URL from a Solven
// server and streams the object to local disk in fixed-size chunks,
// reporting progress along the way.
type Downloader struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	OnProgress func(ProgressEvent)
}

func (d *Downloader) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return http.DefaultClient
}

type downloadURLResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ResolveURL asks the server for a signed GET URL for the file.
func (d *Downloader) ResolveURL(ctx context.Context, fileID string) (*downloadURLResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/api/file/"+fileID+"/url", nil)
	if err != nil {
		return nil, err
	}
	if d.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}

	resp, err := d.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.Body, resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	var info downloadURLResponse
	if err := json.Unmarshal(envelope.Data, &info); err != nil {
		return nil, err
	}
	if info.URL == "" {
		return nil, fmt.Errorf("no download url for file %s", fileID)
	}
	return &info, nil
}

// Download fetches the file and writes it under destDir, named after
// the server-side filename. Returns the path written.
func (d *Downloader) Download(ctx context.Context, fileID, destDir string) (string, error) {
	info, err := d.ResolveURL(ctx, fileID)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	dest := filepath.Join(destDir, filepath.Base(info.Name))
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := d.stream(resp.Body, out, resp.ContentLength); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// stream copies src into dst chunk by chunk. The percentage is only
// reported when the server sent a Content-Length; otherwise progress
// stays indeterminate and only the byte count advances.
func (d *Downloader) stream(src io.Reader, dst io.Writer, total int64) error {
	if total < 0 {
		total = 0
	}
	reader := newProgressReader(src, total, d.OnProgress)
	buf := make([]byte, downloadChunkSize)
	_, err := io.CopyBuffer(dst, reader, buf)
	return err
}
