package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for local development and tests.
// Presigned URLs are synthetic and only meaningful to code that also
// holds the store instance.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailRemove makes RemoveObject fail for the listed keys, letting
	// tests exercise the store-delete-before-row-delete ordering.
	FailRemove map[string]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:    make(map[string][]byte),
		FailRemove: make(map[string]bool),
	}
}

func memKey(bucket, object string) string {
	return bucket + "/" + object
}

// PresignedPutObject returns a synthetic PUT URL.
func (s *MemoryStore) PresignedPutObject(ctx context.Context, bucket, object, contentType string, metadata map[string]string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("memory://put/%s/%s", bucket, object), nil
}

// PresignedGetObject returns a synthetic GET URL.
func (s *MemoryStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[memKey(bucket, object)]; !ok {
		return "", errors.New("object not found")
	}
	return fmt.Sprintf("memory://get/%s/%s", bucket, object), nil
}

// ObjectExists reports object presence.
func (s *MemoryStore) ObjectExists(ctx context.Context, bucket, object string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[memKey(bucket, object)]
	return ok, nil
}

// PutObject stores an object in memory.
func (s *MemoryStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[memKey(bucket, object)] = data
	return nil
}

// RemoveObject deletes an object, honoring FailRemove.
func (s *MemoryStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRemove[object] {
		return errors.New("remove failed")
	}
	delete(s.objects, memKey(bucket, object))
	return nil
}

// Drop removes an object directly, bypassing FailRemove. Tests use it
// to simulate out-of-band deletion from the store.
func (s *MemoryStore) Drop(bucket, object string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, memKey(bucket, object))
}
