// Package export captures a rendered newsletter page as a downloadable artifact.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theforum/internal/render"
)

// Format names an export backend; its value doubles as the file extension.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrEmptyArtifact     = errors.New("capture produced no bytes")
)

// ParseFormat maps a query value to a Format. The empty string selects PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options is the physical page geometry handed to capturers.
type Options struct {
	PageSize     string  // fpdf size name, e.g. "Letter"
	MarginInches float64 // applied to all four sides
	Scale        float64 // raster scale for embedded images
}

// DefaultOptions is one letter page per logical page, half-inch margins and 2x images.
func DefaultOptions() Options {
	return Options{PageSize: "Letter", MarginInches: 0.5, Scale: 2}
}

// Capturer serializes a page. Implementations must not modify the page.
type Capturer interface {
	Capture(ctx context.Context, page *render.Page, opts Options) ([]byte, error)
}

// Artifact is a finished export ready for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportError reports a failed capture. No artifact accompanies it.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

type backend struct {
	capturer    Capturer
	contentType string
}

// Exporter dispatches pages to the capturer registered for each format.
type Exporter struct {
	opts     Options
	backends map[Format]backend
}

// NewExporter returns an Exporter with no formats registered.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts, backends: make(map[Format]backend)}
}

// Register binds a capturer to a format.
func (e *Exporter) Register(f Format, contentType string, c Capturer) {
	e.backends[f] = backend{capturer: c, contentType: contentType}
}

// Supports reports whether a capturer is registered for f.
func (e *Exporter) Supports(f Format) bool {
	_, ok := e.backends[f]
	return ok
}

// Export captures page in format f. Any failure, including an empty capture,
// returns an *ExportError and a nil artifact.
func (e *Exporter) Export(ctx context.Context, page *render.Page, f Format) (*Artifact, error) {
	b, ok := e.backends[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	data, err := b.capturer.Capture(ctx, page, e.opts)
	if err != nil {
		return nil, &ExportError{Format: f, Err: err}
	}
	if len(data) == 0 {
		return nil, &ExportError{Format: f, Err: ErrEmptyArtifact}
	}

	return &Artifact{
		Filename:    Filename(page.MonthKey, f),
		ContentType: b.contentType,
		Data:        data,
	}, nil
}

// Filename is the download name for a month's artifact.
func Filename(monthKey string, f Format) string {
	return fmt.Sprintf("newsletter_%s.%s", monthKey, f)
}
