package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"theforum/internal/model"
	"theforum/internal/repository"
	"theforum/internal/storage"
)

const defaultUploadConcurrency = 4

// IntakeService turns a draft into a persisted submission.
type IntakeService interface {
	// Submit validates the draft, uploads its photos concurrently and saves the record once.
	// Photo locators keep the input order of draft.Photos. Uploaded blobs are deleted again
	// when a later step fails.
	Submit(ctx context.Context, identity *model.Identity, draft model.Draft) (*model.Submission, error)
}

type intakeService struct {
	store       storage.BlobStore
	repo        repository.SubmissionRepository
	prompts     model.PromptSet
	now         func() time.Time
	loc         *time.Location
	concurrency int
	log         zerolog.Logger
	metrics     *Metrics
}

// IntakeOption configures an IntakeService.
type IntakeOption func(*intakeService)

// WithClock sets the clock and the time zone month keys are derived in.
func WithClock(now func() time.Time, loc *time.Location) IntakeOption {
	return func(s *intakeService) {
		if now != nil {
			s.now = now
		}
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithUploadConcurrency bounds the number of photos uploaded at once.
func WithUploadConcurrency(n int) IntakeOption {
	return func(s *intakeService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithIntakeLogger sets the logger for accepted submissions and failed steps.
func WithIntakeLogger(log zerolog.Logger) IntakeOption {
	return func(s *intakeService) { s.log = log }
}

// WithIntakeMetrics records outcomes on m; nil disables metrics.
func WithIntakeMetrics(m *Metrics) IntakeOption {
	return func(s *intakeService) { s.metrics = m }
}

// NewIntakeService constructs a new IntakeService.
func NewIntakeService(store storage.BlobStore, repo repository.SubmissionRepository, prompts model.PromptSet, opts ...IntakeOption) IntakeService {
	s := &intakeService{
		store:       store,
		repo:        repo,
		prompts:     prompts,
		now:         time.Now,
		loc:         time.UTC,
		concurrency: defaultUploadConcurrency,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *intakeService) Submit(ctx context.Context, identity *model.Identity, draft model.Draft) (*model.Submission, error) {
	if identity == nil || strings.TrimSpace(identity.ID) == "" {
		s.metrics.submissionRejected(RejectUnauthenticated)
		return nil, ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "intake.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("author.id", identity.ID),
		attribute.Int("photos", len(draft.Photos)),
	)

	if err := model.ValidateComplete(s.prompts, draft.Answers); err != nil {
		s.metrics.submissionRejected(RejectIncomplete)
		span.SetStatus(codes.Error, "incomplete submission")
		return nil, err
	}

	at := s.now().In(s.loc)
	locators, err := s.upload(ctx, identity.ID, at, draft.Photos)
	if err != nil {
		s.metrics.submissionRejected(RejectUpload)
		failSpan(span, err, "upload failed")
		s.log.Error().Err(err).Str("author_id", identity.ID).Msg("photo upload failed")
		return nil, err
	}

	sub := &model.Submission{
		ID:            uuid.New().String(),
		AuthorID:      identity.ID,
		AuthorName:    identity.DisplayName,
		MonthKey:      model.DeriveMonthKey(at),
		Answers:       copyAnswers(draft.Answers),
		PhotoLocators: locators,
		CreatedAt:     at,
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		s.cleanup(ctx, locators)
		s.metrics.submissionRejected(RejectPersist)
		failSpan(span, err, "persist failed")
		s.log.Error().Err(err).Str("author_id", identity.ID).Str("month_key", sub.MonthKey).Msg("save submission failed")
		return nil, &PersistError{Err: err}
	}

	s.metrics.submissionAccepted()
	span.SetAttributes(attribute.String("month_key", sub.MonthKey), attribute.String("submission.id", sub.ID))
	s.log.Info().
		Str("submission_id", sub.ID).
		Str("author_id", sub.AuthorID).
		Str("month_key", sub.MonthKey).
		Int("photos", len(locators)).
		Msg("submission accepted")
	return sub, nil
}

// upload stores every photo and returns the locators indexed like photos.
// On failure the blobs that did upload are removed before returning.
func (s *intakeService) upload(ctx context.Context, authorID string, at time.Time, photos []model.PhotoBlob) ([]string, error) {
	locators := make([]string, len(photos))
	if len(photos) == 0 {
		return locators, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range photos {
		g.Go(func() error {
			key := storage.PhotoKey(authorID, at, i, p.Name)
			contentType := p.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			info, err := s.store.Put(gctx, key, bytes.NewReader(p.Data), storage.PutOptions{
				Size:        int64(len(p.Data)),
				ContentType: contentType,
				Filename:    p.Name,
			})
			if err != nil {
				return &UploadError{Index: i, Name: p.Name, Err: err}
			}
			if info.Key == "" {
				info.Key = key
			}
			locators[i] = info.Key
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.cleanup(ctx, locators)
		var ue *UploadError
		if !errors.As(err, &ue) {
			err = &UploadError{Index: -1, Err: err}
		}
		return nil, err
	}
	return locators, nil
}

// cleanup deletes uploaded blobs. Failures are logged and otherwise ignored.
func (s *intakeService) cleanup(ctx context.Context, locators []string) {
	ctx = context.WithoutCancel(ctx)
	for _, loc := range locators {
		if loc == "" {
			continue
		}
		if err := s.store.Delete(ctx, loc); err != nil {
			s.log.Warn().Err(err).Str("locator", loc).Msg("rollback delete failed")
		}
	}
}

func copyAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
