package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theforum/internal/config"
	"theforum/internal/export"
	"theforum/internal/model"
	"theforum/internal/render"
)

func TestNewCompiler(t *testing.T) {
	s, err := config.LoadSettings("")
	require.NoError(t, err)
	s.Title = "Nomad Notes"
	s.Contact = "editor@example.com"

	doc := NewCompiler(s).Compile("June-2025", nil)
	assert.Equal(t, "Nomad Notes", doc.Header.Title)
	// first issue is April-2025
	assert.Equal(t, "Issue #3", doc.IssueLabel)
	assert.Contains(t, doc.Footer.Attribution, "editor@example.com")
}

func TestNewExporter(t *testing.T) {
	e := NewExporter(nil, nil)
	for _, f := range []export.Format{export.FormatPDF, export.FormatHTML, export.FormatMarkdown} {
		assert.True(t, e.Supports(f), f)
	}

	s, err := config.LoadSettings("")
	require.NoError(t, err)
	page := render.Render(NewCompiler(s).Compile("May-2025", []model.Submission{}))

	art, err := e.Export(context.Background(), page, export.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "newsletter_May-2025.md", art.Filename)
	assert.True(t, strings.HasPrefix(art.ContentType, "text/markdown"))
	assert.Contains(t, string(art.Data), "No submissions for this month yet.")

	art, err = e.Export(context.Background(), page, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", art.ContentType)
}

func TestServicesClose(t *testing.T) {
	assert.NoError(t, (&Services{}).Close())
}
