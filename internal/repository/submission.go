package repository

import (
	"context"

	"theforum/internal/model"
)

// SubmissionRepository is the document store for submissions.
// It only inserts and reads; records are never updated or deleted.
type SubmissionRepository interface {
	// Save inserts a completed submission.
	Save(ctx context.Context, sub *model.Submission) error

	// FindByMonth returns every submission whose month key equals monthKey,
	// in insertion order. An unknown key yields an empty slice.
	FindByMonth(ctx context.Context, monthKey string) ([]model.Submission, error)
}
