package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"unicode"

	// decoders for photos fetched from storage
	_ "image/gif"
	_ "image/png"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"theforum/internal/newsletter"
	"theforum/internal/render"
)

// PhotoSource loads photo bytes for a locator.
type PhotoSource interface {
	ReadPhoto(ctx context.Context, locator string) ([]byte, string, error)
}

const (
	screenDPI     = 96.0
	photoHeight   = 1.33 // inches, 8rem at 96dpi
	captionHeight = 0.2
	gridGap       = 0.125

	fontFamily = "go"

	// DefaultMaxPhotoPixels bounds the decoded size of an embedded photo;
	// a full RGBA decode costs four bytes per pixel.
	DefaultMaxPhotoPixels = 50_000_000
)

// PDFCapturer lays a page out on fixed-size PDF pages.
type PDFCapturer struct {
	photos    PhotoSource
	maxPixels int64
}

// PDFOption configures a PDFCapturer.
type PDFOption func(*PDFCapturer)

// WithMaxPhotoPixels sets the largest width*height embedded as an image;
// bigger photos are drawn as placeholders without being decoded.
func WithMaxPhotoPixels(n int64) PDFOption {
	return func(c *PDFCapturer) {
		if n > 0 {
			c.maxPixels = n
		}
	}
}

// NewPDFCapturer returns a capturer embedding photos read from photos.
// A nil source draws every photo as a framed placeholder.
func NewPDFCapturer(photos PhotoSource, opts ...PDFOption) *PDFCapturer {
	c := &PDFCapturer{photos: photos, maxPixels: DefaultMaxPhotoPixels}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pdfText makes s safe for fpdf's UTF-8 encoder, which only handles the
// Basic Multilingual Plane. Invalid bytes and astral runes such as emoji
// become U+FFFD.
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return unicode.ReplacementChar
		}
		return r
	}, s)
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	margin float64
	width  float64
	height float64
	scale  float64
	images map[string]image.Point
}

// Capture implements Capturer.
func (c *PDFCapturer) Capture(ctx context.Context, page *render.Page, opts Options) ([]byte, error) {
	if opts.PageSize == "" {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	pdf := fpdf.New("P", "in", opts.PageSize, "")
	m := opts.MarginInches
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(true, m+0.25)
	// the page-count alias must exist before fonts are added so its digits
	// survive font subsetting
	pdf.AliasNbPages("")
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	pdf.SetTitle(pdfText(page.Title), true)
	pdf.SetSubject(pdfText(page.MonthKey), true)
	pdf.SetCreator("theforum", true)

	pw, ph := pdf.GetPageSize()
	w := &pdfWriter{
		pdf:    pdf,
		margin: m,
		width:  pw - 2*m,
		height: ph,
		scale:  opts.Scale,
		images: make(map[string]image.Point),
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-(m + 0.2))
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 0.2, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for _, b := range page.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch b.Kind {
		case render.KindTitle:
			w.text("B", 28, 0.55, strings.ToUpper(b.Text), "C")
		case render.KindSubtitle:
			w.text("", 13, 0.3, b.Text, "C")
			w.rule(0.04)
			pdf.Ln(0.25)
		case render.KindPlaceholder:
			pdf.SetTextColor(100, 100, 100)
			w.text("I", 12, 0.3, b.Text, "C")
		case render.KindArticleHeading:
			w.text("B", 18, 0.32, b.Text, "L")
			pdf.Ln(0.05)
		case render.KindPrompt:
			pdf.SetTextColor(70, 70, 70)
			w.text("I", 13, 0.25, b.Text, "L")
		case render.KindAnswer:
			w.text("", 11, 0.2, b.Text, "L")
			pdf.Ln(0.1)
		case render.KindPhotoGrid:
			c.grid(ctx, w, b)
		case render.KindArticleEnd:
			pdf.Ln(0.1)
			pdf.SetDrawColor(200, 200, 200)
			w.rule(0.01)
			pdf.Ln(0.2)
		case render.KindFooter:
			pdf.SetTextColor(90, 90, 90)
			w.text("", 9, 0.18, b.Text, "C")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(0, 0, 0)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("layout: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) text(style string, size, lineHeight float64, s, align string) {
	w.pdf.SetFont(fontFamily, style, size)
	w.pdf.MultiCell(w.width, lineHeight, pdfText(s), "", align, false)
}

func (w *pdfWriter) rule(thickness float64) {
	y := w.pdf.GetY() + 0.05
	w.pdf.SetLineWidth(thickness)
	w.pdf.Line(w.margin, y, w.margin+w.width, y)
	w.pdf.SetY(y + 0.05)
}

// grid draws one row of photos, starting a new page when the row would not fit.
func (c *PDFCapturer) grid(ctx context.Context, w *pdfWriter, b render.Block) {
	cols := b.Columns
	if cols < 1 {
		cols = newsletter.DefaultColumns
	}
	cellW := (w.width - gridGap*float64(cols-1)) / float64(cols)
	rowH := photoHeight + captionHeight

	y := w.pdf.GetY()
	if y+rowH > w.height-w.margin-0.25 {
		w.pdf.AddPage()
		y = w.pdf.GetY()
	}

	for i, p := range b.Photos {
		x := w.margin + float64(i)*(cellW+gridGap)
		c.photo(ctx, w, p, x, y, cellW)

		w.pdf.SetFont(fontFamily, "", 8)
		w.pdf.SetTextColor(90, 90, 90)
		w.pdf.SetXY(x, y+photoHeight)
		w.pdf.CellFormat(cellW, captionHeight, pdfText(p.Caption), "", 0, "C", false, 0, "")
	}
	w.pdf.SetXY(w.margin, y+rowH+gridGap)
}

// photo embeds the image for p inside the cell at (x, y), or a framed
// placeholder when it cannot be loaded.
func (c *PDFCapturer) photo(ctx context.Context, w *pdfWriter, p newsletter.Photo, x, y, cellW float64) {
	name, iw, ih, ok := c.register(ctx, w, p.Locator)
	if !ok {
		w.pdf.SetDrawColor(160, 160, 160)
		w.pdf.SetLineWidth(0.01)
		w.pdf.Rect(x, y, cellW, photoHeight, "D")
		return
	}

	// source pixels map to inches at the raster scale, never larger than the cell
	dw := float64(iw) / (screenDPI * w.scale)
	dh := float64(ih) / (screenDPI * w.scale)
	if f := cellW / dw; f < 1 {
		dw, dh = dw*f, dh*f
	}
	if f := photoHeight / dh; f < 1 {
		dw, dh = dw*f, dh*f
	}
	ox := x + (cellW-dw)/2
	oy := y + (photoHeight-dh)/2
	w.pdf.ImageOptions(name, ox, oy, dw, dh, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
}

// register loads and re-encodes a photo as baseline JPEG so that every
// decodable format embeds the same way.
func (c *PDFCapturer) register(ctx context.Context, w *pdfWriter, locator string) (string, int, int, bool) {
	if c.photos == nil {
		return "", 0, 0, false
	}
	if size, ok := w.images[locator]; ok {
		return locator, size.X, size.Y, true
	}

	data, _, err := c.photos.ReadPhoto(ctx, locator)
	if err != nil {
		return "", 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > c.maxPixels {
		return "", 0, 0, false
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, false
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", 0, 0, false
	}

	w.pdf.RegisterImageOptionsReader(locator, fpdf.ImageOptions{ImageType: "JPG"}, &buf)
	size := img.Bounds().Size()
	w.images[locator] = size
	return locator, size.X, size.Y, true
}
