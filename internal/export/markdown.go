package export

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"theforum/internal/render"
)

// MarkdownCapturer converts the HTML rendering of a page to Markdown.
type MarkdownCapturer struct {
	html      *HTMLCapturer
	converter *md.Converter
}

// NewMarkdownCapturer converts the output of html; its resolver decides the
// photo links in the Markdown.
func NewMarkdownCapturer(html *HTMLCapturer) *MarkdownCapturer {
	conv := md.NewConverter("", true, nil)
	conv.Remove("head")
	return &MarkdownCapturer{html: html, converter: conv}
}

// Capture implements Capturer.
func (c *MarkdownCapturer) Capture(ctx context.Context, page *render.Page, opts Options) ([]byte, error) {
	raw, err := c.html.Capture(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	out, err := c.converter.ConvertBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	return out, nil
}
