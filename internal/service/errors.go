package service

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a submission arrives without an identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// UploadError reports the photo that failed to reach the blob store.
type UploadError struct {
	Index int
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload photo %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports a failed write of a submission record.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist submission: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// FetchError reports a failed read of a month's records.
type FetchError struct {
	MonthKey string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch submissions for %s: %v", e.MonthKey, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
