// Package storage keeps submission photos in an S3-compatible bucket and
// reads them back for newsletter exports.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions describes an upload. Size is the exact byte count, or -1 when
// the length is unknown and the backend should chunk.
type PutOptions struct {
	Size        int64
	ContentType string
	Filename    string
}

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Modified    time.Time
}

// BlobStore is the photo store. The key returned by Put is the locator
// persisted on a submission.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Object, error)
	// Get streams the blob; callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a credential-free download URL valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
