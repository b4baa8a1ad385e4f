package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ObjectName string
	Size       int64
}

// Store abstracts the object store: presigned URL generation for
// direct client transfers, existence checks, and deletion. The store
// is the source of truth for blob existence; the database is a
// secondary index reconciled against it.
type Store interface {
	// PresignedPutObject returns a time-limited URL authorizing a
	// single PUT of the given object. The signed request pins the
	// content type and carries the original filename as metadata.
	PresignedPutObject(ctx context.Context, bucket, object, contentType string, metadata map[string]string, expiry time.Duration) (string, error)

	// PresignedGetObject returns a time-limited URL authorizing a GET.
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error)

	// ObjectExists reports whether the object is present. A missing
	// object is not an error; anything else is.
	ObjectExists(ctx context.Context, bucket, object string) (bool, error)

	// PutObject uploads an object server-side. The coordination flows
	// never route bytes through the server; this exists for tooling
	// and tests.
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error

	// RemoveObject deletes an object. An error means the deletion did
	// not happen and callers must keep their metadata row.
	RemoveObject(ctx context.Context, bucket, object string) error
}

// Default is the main object store instance.
var Default Store

// DefaultTest is the test object store instance.
var DefaultTest Store
