package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// LocalFile is one file queued for upload.
type LocalFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// UploadResult is the terminal outcome for one file of a batch.
type UploadResult struct {
	Key    string
	Name   string
	FileID string
	State  FileState
	Err    error
}

// Uploader drives the upload lifecycle against a Solven server: ask
// for a presigned PUT URL, stream the bytes straight to the object
// store, then confirm completion so the server writes the metadata
// row. Files of one batch fan out concurrently and share a single
// cancellation signal.
type Uploader struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	// OnProgress receives per-file status updates, addressed by the
	// batch key. Optional.
	OnProgress func(FileStatus)
}

func (u *Uploader) httpClient() *http.Client {
	if u.HTTPClient != nil {
		return u.HTTPClient
	}
	return http.DefaultClient
}

type presignResponse struct {
	SignedURL string `json:"signed_url"`
	FileID    string `json:"file_id"`
}

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UploadBatch uploads all files concurrently and blocks until every
// file reaches a terminal state. Cancelling ctx aborts all in-flight
// transfers; their outcome is StateCancelled, not StateError, and no
// confirmation call is issued for them. A per-file failure never
// aborts its siblings.
func (u *Uploader) UploadBatch(ctx context.Context, files []LocalFile, folderID string) []UploadResult {
	batch := NewBatchState()
	keys := make([]string, len(files))
	for i, file := range files {
		keys[i] = batch.Add(file.Name)
	}

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(key string, file LocalFile) {
			defer wg.Done()
			u.uploadOne(ctx, batch, key, file, folderID)
		}(keys[i], files[i])
	}
	wg.Wait()

	results := make([]UploadResult, 0, len(keys))
	for _, key := range keys {
		status, _ := batch.Get(key)
		results = append(results, UploadResult{
			Key:    status.Key,
			Name:   status.Name,
			FileID: status.FileID,
			State:  status.State,
			Err:    status.Err,
		})
	}
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, batch *BatchState, key string, file LocalFile, folderID string) {
	fail := func(err error) {
		state := StateError
		if isCancelled(ctx, err) {
			state = StateCancelled
			err = context.Canceled
		}
		u.emit(batch.update(key, func(s *FileStatus) {
			s.State = state
			s.Err = err
		}))
	}

	fileID, signedURL, err := u.presign(ctx, file)
	if err != nil {
		fail(err)
		return
	}
	u.emit(batch.update(key, func(s *FileStatus) {
		s.FileID = fileID
		s.State = StateUploading
	}))

	if err := u.transfer(ctx, batch, key, file, signedURL); err != nil {
		fail(err)
		return
	}

	// the transfer may have raced the batch cancel; a cancelled file
	// must never confirm
	if ctx.Err() != nil {
		fail(ctx.Err())
		return
	}

	if err := u.confirm(ctx, fileID, file, folderID); err != nil {
		fail(err)
		return
	}
	u.emit(batch.update(key, func(s *FileStatus) {
		s.State = StateUploaded
		s.Percent = 100
		s.PercentKnown = true
	}))
}

func (u *Uploader) emit(status FileStatus) {
	if u.OnProgress != nil && status.Key != "" {
		u.OnProgress(status)
	}
}

func isCancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

// presign asks the server for a one-shot PUT URL and the file id.
func (u *Uploader) presign(ctx context.Context, file LocalFile) (fileID, signedURL string, err error) {
	body, _ := json.Marshal(map[string]interface{}{
		"file_name": file.Name,
		"file_size": file.Size,
		"file_type": file.ContentType,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/api/upload/presign", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	u.setHeaders(req)

	resp, err := u.httpClient().Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", decodeAPIError(resp.Body, resp.StatusCode)
	}
	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", "", err
	}
	var presign presignResponse
	if err := json.Unmarshal(envelope.Data, &presign); err != nil {
		return "", "", err
	}
	if presign.SignedURL == "" || presign.FileID == "" {
		return "", "", errors.New("presign response incomplete")
	}
	return presign.FileID, presign.SignedURL, nil
}

// transfer PUTs the file body to the presigned URL, reporting progress
// through the batch state.
func (u *Uploader) transfer(ctx context.Context, batch *BatchState, key string, file LocalFile, signedURL string) error {
	reader := newProgressReader(file.Reader, file.Size, func(event ProgressEvent) {
		u.emit(batch.update(key, func(s *FileStatus) {
			s.State = StateUploading
			s.Percent = event.Percent
			s.PercentKnown = event.PercentKnown
			if event.ETAKnown {
				s.TimeRemaining = event.TimeRemaining
				s.ETAKnown = true
			}
		}))
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, reader)
	if err != nil {
		return err
	}
	req.ContentLength = file.Size
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}

	resp, err := u.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

// confirm tells the server the object landed so it creates the row.
func (u *Uploader) confirm(ctx context.Context, fileID string, file LocalFile, folderID string) error {
	payload := map[string]interface{}{
		"file_id":   fileID,
		"file_name": file.Name,
		"file_size": file.Size,
	}
	if folderID != "" && folderID != "/" {
		payload["folder_id"] = folderID
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/api/upload/confirm", bytes.NewReader(body))
	if err != nil {
		return err
	}
	u.setHeaders(req)

	resp, err := u.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.Body, resp.StatusCode)
	}
	return nil
}

func (u *Uploader) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if u.Token != "" {
		req.Header.Set("Authorization", "Bearer "+u.Token)
	}
}

func decodeAPIError(r io.Reader, statusCode int) error {
	var apiErr apiError
	if err := json.NewDecoder(r).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%s (code %d)", apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("request failed with status %d", statusCode)
}
