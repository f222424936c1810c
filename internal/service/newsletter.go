package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"theforum/internal/export"
	"theforum/internal/newsletter"
	"theforum/internal/render"
)

// NewsletterService compiles and exports monthly newsletters.
type NewsletterService interface {
	// Compile builds the newsletter document for a month.
	Compile(ctx context.Context, monthKey string) (*newsletter.Document, error)

	// Export compiles the month and captures it in format f.
	Export(ctx context.Context, monthKey string, f export.Format) (*export.Artifact, error)
}

type newsletterService struct {
	agg      Aggregator
	compiler *newsletter.Compiler
	exporter *export.Exporter
	log      zerolog.Logger
	metrics  *Metrics
}

// NewNewsletterService constructs a new NewsletterService. metrics may be nil.
func NewNewsletterService(agg Aggregator, compiler *newsletter.Compiler, exporter *export.Exporter, log zerolog.Logger, metrics *Metrics) NewsletterService {
	return &newsletterService{agg: agg, compiler: compiler, exporter: exporter, log: log, metrics: metrics}
}

func (s *newsletterService) Compile(ctx context.Context, monthKey string) (*newsletter.Document, error) {
	recs, err := s.agg.Records(ctx, monthKey)
	if err != nil {
		return nil, err
	}
	return s.compiler.Compile(monthKey, recs), nil
}

func (s *newsletterService) Export(ctx context.Context, monthKey string, f export.Format) (*export.Artifact, error) {
	if !s.exporter.Supports(f) {
		s.metrics.export(string(f), "unsupported")
		return nil, fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, f)
	}

	ctx, span := tracer.Start(ctx, "newsletter.Export")
	defer span.End()
	span.SetAttributes(attribute.String("month_key", monthKey), attribute.String("format", string(f)))

	doc, err := s.Compile(ctx, monthKey)
	if err != nil {
		s.metrics.export(string(f), "fetch_failed")
		failSpan(span, err, "fetch failed")
		return nil, err
	}

	art, err := s.exporter.Export(ctx, render.Render(doc), f)
	if err != nil {
		s.metrics.export(string(f), "failed")
		failSpan(span, err, "export failed")
		s.log.Error().Err(err).Str("month_key", monthKey).Str("format", string(f)).Msg("export failed")
		return nil, err
	}

	s.metrics.export(string(f), "ok")
	s.log.Info().
		Str("month_key", monthKey).
		Str("format", string(f)).
		Int("articles", len(doc.Articles)).
		Int("bytes", len(art.Data)).
		Msg("newsletter exported")
	return art, nil
}
