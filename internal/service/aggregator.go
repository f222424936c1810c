package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"theforum/internal/model"
	"theforum/internal/repository"
)

// Aggregator collects the submissions of one month.
type Aggregator interface {
	// Records returns the month's submissions in insertion order. An unknown
	// month yields an empty, non-nil slice.
	Records(ctx context.Context, monthKey string) ([]model.Submission, error)
}

type aggregator struct {
	repo repository.SubmissionRepository
	log  zerolog.Logger
}

// NewAggregator constructs a new Aggregator.
func NewAggregator(repo repository.SubmissionRepository, log zerolog.Logger) Aggregator {
	return &aggregator{repo: repo, log: log}
}

func (a *aggregator) Records(ctx context.Context, monthKey string) ([]model.Submission, error) {
	ctx, span := tracer.Start(ctx, "aggregator.Records")
	defer span.End()
	span.SetAttributes(attribute.String("month_key", monthKey))

	recs, err := a.repo.FindByMonth(ctx, monthKey)
	if err != nil {
		failSpan(span, err, "fetch failed")
		a.log.Error().Err(err).Str("month_key", monthKey).Msg("fetch submissions failed")
		return nil, &FetchError{MonthKey: monthKey, Err: err}
	}
	if recs == nil {
		recs = []model.Submission{}
	}

	span.SetAttributes(attribute.Int("records", len(recs)))
	return recs, nil
}
