package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"theforum/internal/render"
)

// LocatorResolver maps a photo locator to a URL a browser can load.
type LocatorResolver interface {
	Resolve(ctx context.Context, locator string) (string, error)
}

// HTMLCapturer renders a page as a standalone HTML document.
type HTMLCapturer struct {
	resolver LocatorResolver
}

// NewHTMLCapturer returns a capturer that resolves photo locators through
// resolver. A nil resolver emits locators verbatim as image sources.
func NewHTMLCapturer(resolver LocatorResolver) *HTMLCapturer {
	return &HTMLCapturer{resolver: resolver}
}

type htmlPhoto struct {
	Src     string
	Caption string
}

type htmlEntry struct {
	Prompt string
	Answer string
}

type htmlArticle struct {
	Heading     string
	Entries     []htmlEntry
	GridHeading string
	Rows        [][]htmlPhoto
}

type htmlView struct {
	Title       string
	Subtitle    string
	Placeholder string
	Articles    []*htmlArticle
	Footer      []string
	Margin      float64
	Columns     int
}

var pageTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>{{.Title}}</title>
  <style>
    @page { size: letter; margin: {{.Margin}}in; }
    body { font-family: Georgia, serif; max-width: 56rem; margin: 0 auto; padding: 2rem; }
    .newsletter { border: 2px solid #000; padding: 1.5rem; }
    header { border-bottom: 4px solid #000; margin-bottom: 1.5rem; padding-bottom: .5rem; text-align: center; }
    header h1 { font-size: 3rem; letter-spacing: .1em; text-transform: uppercase; margin: 0; }
    .columns { columns: 2; column-gap: 1.5rem; }
    article { break-inside: avoid; border-bottom: 1px solid #ccc; margin-bottom: 2rem; padding-bottom: 1rem; }
    h3 { font-style: italic; color: #444; }
    .grid { display: grid; grid-template-columns: repeat({{.Columns}}, 1fr); gap: .75rem; }
    .grid img { width: 100%; height: 8rem; object-fit: cover; border: 1px solid #ccc; }
    .grid p, footer { font-size: .8rem; text-align: center; color: #555; }
    footer { border-top: 4px solid #000; margin-top: 1.5rem; padding-top: .5rem; }
  </style>
</head>
<body>
<div class="newsletter">
  <header>
    <h1>{{.Title}}</h1>
    <p>{{.Subtitle}}</p>
  </header>
{{- if .Placeholder}}
  <p class="placeholder">{{.Placeholder}}</p>
{{- else}}
  <div class="columns">
  {{- range .Articles}}
    <article>
      <h2>{{.Heading}}</h2>
      {{- range .Entries}}
      <h3>{{.Prompt}}</h3>
      <p>{{.Answer}}</p>
      {{- end}}
      {{- if .Rows}}
      <h3>{{.GridHeading}}</h3>
      <div class="grid">
        {{- range .Rows}}{{range .}}
        <figure><img src="{{.Src}}" alt="{{.Caption}}" /><p>{{.Caption}}</p></figure>
        {{- end}}{{end}}
      </div>
      {{- end}}
    </article>
  {{- end}}
  </div>
{{- end}}
  <footer>
  {{- range .Footer}}
    <p>{{.}}</p>
  {{- end}}
  </footer>
</div>
</body>
</html>
`))

// Capture implements Capturer.
func (c *HTMLCapturer) Capture(ctx context.Context, page *render.Page, opts Options) ([]byte, error) {
	view, err := c.view(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *HTMLCapturer) view(ctx context.Context, page *render.Page, opts Options) (*htmlView, error) {
	v := &htmlView{Margin: opts.MarginInches, Columns: 1}

	var (
		cur     *htmlArticle
		pending string
	)
	for _, b := range page.Blocks {
		switch b.Kind {
		case render.KindTitle:
			v.Title = b.Text
		case render.KindSubtitle:
			v.Subtitle = b.Text
		case render.KindPlaceholder:
			v.Placeholder = b.Text
		case render.KindArticleHeading:
			cur = &htmlArticle{Heading: b.Text}
			v.Articles = append(v.Articles, cur)
		case render.KindPrompt:
			pending = b.Text
		case render.KindAnswer:
			if cur != nil {
				cur.Entries = append(cur.Entries, htmlEntry{Prompt: pending, Answer: b.Text})
			}
			pending = ""
		case render.KindPhotoGrid:
			if cur == nil {
				continue
			}
			if pending != "" {
				cur.GridHeading = pending
				pending = ""
			}
			if b.Columns > v.Columns {
				v.Columns = b.Columns
			}
			row := make([]htmlPhoto, 0, len(b.Photos))
			for _, p := range b.Photos {
				src, err := c.resolve(ctx, p.Locator)
				if err != nil {
					return nil, err
				}
				row = append(row, htmlPhoto{Src: src, Caption: p.Caption})
			}
			cur.Rows = append(cur.Rows, row)
		case render.KindArticleEnd:
			cur = nil
		case render.KindFooter:
			v.Footer = append(v.Footer, b.Text)
		}
	}
	return v, nil
}

func (c *HTMLCapturer) resolve(ctx context.Context, locator string) (string, error) {
	if c.resolver == nil {
		return locator, nil
	}
	return c.resolver.Resolve(ctx, locator)
}
