// Package app assembles the newsletter services from configuration.
// Both the HTTP server and the operator CLI build on it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"theforum/internal/config"
	"theforum/internal/database"
	"theforum/internal/database/migration"
	"theforum/internal/export"
	"theforum/internal/model"
	"theforum/internal/newsletter"
	"theforum/internal/repository/postgres"
	"theforum/internal/service"
	"theforum/internal/storage"
)

// maxEmbeddedPhotoBytes caps a single photo read back for PDF embedding.
const maxEmbeddedPhotoBytes = 20 << 20

// Services is the wired application.
type Services struct {
	DB         *sql.DB
	Store      storage.BlobStore
	Settings   *config.NewsletterSettings
	Prompts    model.PromptSet
	Intake     service.IntakeService
	Newsletter service.NewsletterService
}

// Close releases the database pool.
func (s *Services) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenDatabase connects to PostgreSQL and applies pending migrations.
func OpenDatabase(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewCompiler builds a newsletter compiler from the settings file.
func NewCompiler(s *config.NewsletterSettings) *newsletter.Compiler {
	opts := []newsletter.Option{
		newsletter.WithTitle(s.Title),
		newsletter.WithPublisher(s.Publisher, s.Contact),
		newsletter.WithColumns(s.Columns),
	}
	if s.FirstIssue != "" {
		opts = append(opts, newsletter.WithIssueNumbers(newsletter.SequentialIssues(s.FirstIssue)))
	}
	return newsletter.NewCompiler(s.PromptSet(), opts...)
}

// NewExporter registers the pdf, html and md capturers. HTML links photos
// through resolver; PDF embeds bytes read from photos.
func NewExporter(resolver export.LocatorResolver, photos export.PhotoSource) *export.Exporter {
	html := export.NewHTMLCapturer(resolver)

	e := export.NewExporter(export.DefaultOptions())
	e.Register(export.FormatPDF, "application/pdf", export.NewPDFCapturer(photos))
	e.Register(export.FormatHTML, "text/html; charset=utf-8", html)
	e.Register(export.FormatMarkdown, "text/markdown; charset=utf-8", export.NewMarkdownCapturer(html))
	return e
}

// Build connects every backing service and wires the pipeline. reg receives
// the domain metrics; pass nil to skip them.
func Build(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger, reg prometheus.Registerer) (*Services, error) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}

	db, err := OpenDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}

	var metrics *service.Metrics
	if reg != nil {
		if metrics, err = service.NewMetrics(reg); err != nil {
			db.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	repo := postgres.NewSubmissionPostgres(db)
	prompts := settings.PromptSet()

	intake := service.NewIntakeService(store, repo, prompts,
		service.WithClock(time.Now, cfg.Location()),
		service.WithUploadConcurrency(cfg.Intake.UploadConcurrency),
		service.WithIntakeLogger(log.With().Str("component", "intake").Logger()),
		service.WithIntakeMetrics(metrics),
	)

	exporter := NewExporter(storage.NewURLResolver(store, cfg.Intake.PhotoURLExpiry), storage.NewPhotoReader(store, maxEmbeddedPhotoBytes))

	agg := service.NewAggregator(repo, log.With().Str("component", "aggregator").Logger())
	news := service.NewNewsletterService(agg, NewCompiler(settings), exporter,
		log.With().Str("component", "newsletter").Logger(), metrics)

	return &Services{
		DB:         db,
		Store:      store,
		Settings:   settings,
		Prompts:    prompts,
		Intake:     intake,
		Newsletter: news,
	}, nil
}
