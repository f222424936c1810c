package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// PhotoKey builds the object key for the index-th photo of a submission.
// Author id, upload time and index keep concurrent uploads from colliding.
func PhotoKey(authorID string, at time.Time, index int, name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	if base == "." || base == "/" || base == "" {
		base = "photo"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("submissions/%s/%d_%d_%s", authorID, at.UnixMilli(), index, base)
}

// URLResolver turns photo locators into presigned download URLs.
type URLResolver struct {
	store  BlobStore
	expiry time.Duration
}

// NewURLResolver returns a resolver issuing URLs valid for expiry.
func NewURLResolver(store BlobStore, expiry time.Duration) *URLResolver {
	return &URLResolver{store: store, expiry: expiry}
}

// Resolve presigns locator.
func (u *URLResolver) Resolve(ctx context.Context, locator string) (string, error) {
	url, err := u.store.PresignGet(ctx, locator, u.expiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", locator, err)
	}
	return url, nil
}

// PhotoReader reads photo bytes back from storage for embedding in exports.
type PhotoReader struct {
	store BlobStore
	limit int64
}

// NewPhotoReader returns a reader that refuses objects larger than limit bytes.
func NewPhotoReader(store BlobStore, limit int64) *PhotoReader {
	return &PhotoReader{store: store, limit: limit}
}

// ReadPhoto returns the object content and its content type.
func (p *PhotoReader) ReadPhoto(ctx context.Context, locator string) ([]byte, string, error) {
	rc, info, err := p.store.Get(ctx, locator)
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", locator, err)
	}
	defer rc.Close()

	if p.limit > 0 && info.Size > p.limit {
		return nil, "", fmt.Errorf("photo %s is %d bytes, limit %d", locator, info.Size, p.limit)
	}
	var src io.Reader = rc
	if p.limit > 0 {
		src = io.LimitReader(rc, p.limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", locator, err)
	}
	if p.limit > 0 && int64(len(data)) > p.limit {
		return nil, "", fmt.Errorf("photo %s exceeds limit %d", locator, p.limit)
	}
	return data, info.ContentType, nil
}
