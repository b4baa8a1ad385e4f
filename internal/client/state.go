package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileState is the per-file upload state machine. There is no way
// back to idle; a retry is a new entry, never reused state.
type FileState string

const (
	StateIdle      FileState = "idle"
	StateUploading FileState = "uploading"
	StateUploaded  FileState = "uploaded"
	StateError     FileState = "error"
	StateCancelled FileState = "cancelled"
)

// FileStatus is a snapshot of one file's progress. Entries are
// addressed by a generated key, not by position, so reordering a
// caller's file list can never cross wires between transfers.
type FileStatus struct {
	Key           string
	Name          string
	FileID        string
	State         FileState
	Percent       float64
	PercentKnown  bool
	TimeRemaining time.Duration
	ETAKnown      bool
	Err           error
}

// BatchState tracks every file of one upload batch.
type BatchState struct {
	mu    sync.Mutex
	order []string
	files map[string]*FileStatus
}

// NewBatchState creates an empty batch.
func NewBatchState() *BatchState {
	return &BatchState{files: make(map[string]*FileStatus)}
}

// Add registers a file and returns its batch key.
func (b *BatchState) Add(name string) string {
	key := uuid.NewString()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order = append(b.order, key)
	b.files[key] = &FileStatus{Key: key, Name: name, State: StateIdle}
	return key
}

// update mutates one entry under the lock and returns a copy.
func (b *BatchState) update(key string, fn func(*FileStatus)) FileStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	status, ok := b.files[key]
	if !ok {
		return FileStatus{}
	}
	fn(status)
	return *status
}

// Get returns a copy of one entry.
func (b *BatchState) Get(key string) (FileStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status, ok := b.files[key]
	if !ok {
		return FileStatus{}, false
	}
	return *status, true
}

// Snapshot returns copies of all entries in registration order.
func (b *BatchState) Snapshot() []FileStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]FileStatus, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.files[key])
	}
	return out
}
