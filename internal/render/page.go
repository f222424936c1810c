// Package render lays a newsletter document out as an ordered block tree.
// Exporters capture the tree as-is; they never re-flow or modify it.
package render

import "theforum/internal/newsletter"

// Kind identifies what a Block draws.
type Kind int

const (
	KindTitle Kind = iota
	KindSubtitle
	KindArticleHeading
	KindPrompt
	KindAnswer
	KindPhotoGrid
	KindPlaceholder
	KindArticleEnd
	KindFooter
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindSubtitle:
		return "subtitle"
	case KindArticleHeading:
		return "article_heading"
	case KindPrompt:
		return "prompt"
	case KindAnswer:
		return "answer"
	case KindPhotoGrid:
		return "photo_grid"
	case KindPlaceholder:
		return "placeholder"
	case KindArticleEnd:
		return "article_end"
	case KindFooter:
		return "footer"
	}
	return "unknown"
}

// Block is one laid-out element. Photos and Columns are only set on photo grids;
// a grid holds one row of at most Columns photos.
type Block struct {
	Kind    Kind
	Text    string
	Photos  []newsletter.Photo
	Columns int
}

// Page is the rendered newsletter.
type Page struct {
	MonthKey string
	Title    string
	Blocks   []Block
}

// GridHeading is the label printed above an article's photos.
const GridHeading = "Snapshots"

// Render lays out doc: header, then one section per article (or the
// placeholder), then the footer. Photo grids are split into rows of doc.Columns.
func Render(doc *newsletter.Document) *Page {
	cols := doc.Columns
	if cols < 1 {
		cols = newsletter.DefaultColumns
	}

	p := &Page{MonthKey: doc.MonthKey, Title: doc.Header.Title}
	p.add(Block{Kind: KindTitle, Text: doc.Header.Title})
	p.add(Block{Kind: KindSubtitle, Text: doc.Header.Subtitle})

	if doc.Empty() {
		text := doc.Placeholder
		if text == "" {
			text = newsletter.PlaceholderText
		}
		p.add(Block{Kind: KindPlaceholder, Text: text})
	}

	for _, a := range doc.Articles {
		p.add(Block{Kind: KindArticleHeading, Text: a.Heading})
		for _, qa := range a.Answers {
			p.add(Block{Kind: KindPrompt, Text: qa.Prompt})
			p.add(Block{Kind: KindAnswer, Text: qa.Answer})
		}
		if len(a.Photos) > 0 {
			p.add(Block{Kind: KindPrompt, Text: GridHeading})
			for start := 0; start < len(a.Photos); start += cols {
				end := start + cols
				if end > len(a.Photos) {
					end = len(a.Photos)
				}
				p.add(Block{Kind: KindPhotoGrid, Photos: a.Photos[start:end], Columns: cols})
			}
		}
		p.add(Block{Kind: KindArticleEnd})
	}

	p.add(Block{Kind: KindFooter, Text: doc.Footer.Attribution})
	p.add(Block{Kind: KindFooter, Text: doc.Footer.Copyright})
	return p
}

func (p *Page) add(b Block) { p.Blocks = append(p.Blocks, b) }

// Photos returns every photo on the page in layout order.
func (p *Page) Photos() []newsletter.Photo {
	var out []newsletter.Photo
	for _, b := range p.Blocks {
		out = append(out, b.Photos...)
	}
	return out
}
