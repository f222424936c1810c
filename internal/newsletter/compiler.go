package newsletter

import (
	"fmt"
	"time"

	"theforum/internal/model"
)

const (
	DefaultTitle     = "The Forum Gazette"
	DefaultPublisher = "The Forum App"
	DefaultColumns   = 2

	PlaceholderText = "No submissions for this month yet."
)

// Compiler turns a month's submissions into a Document.
// It holds no per-call state and is safe for concurrent use.
type Compiler struct {
	prompts   model.PromptSet
	title     string
	publisher string
	contact   string
	columns   int
	issue     IssueNumberFunc
	now       func() time.Time
}

// Option customizes a Compiler.
type Option func(*Compiler)

// WithTitle overrides the masthead title. An empty title keeps the default.
func WithTitle(title string) Option {
	return func(c *Compiler) {
		if title != "" {
			c.title = title
		}
	}
}

// WithPublisher sets the footer attribution; contact may be empty.
func WithPublisher(publisher, contact string) Option {
	return func(c *Compiler) {
		if publisher != "" {
			c.publisher = publisher
		}
		c.contact = contact
	}
}

// WithColumns sets the photo grid column count. Values below 1 are ignored.
func WithColumns(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.columns = n
		}
	}
}

// WithIssueNumbers sets how month keys map to issue numbers.
func WithIssueNumbers(f IssueNumberFunc) Option {
	return func(c *Compiler) {
		if f != nil {
			c.issue = f
		}
	}
}

// WithClock sets the clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCompiler returns a Compiler rendering answers in the order of prompts.
func NewCompiler(prompts model.PromptSet, opts ...Option) *Compiler {
	c := &Compiler{
		prompts:   prompts,
		title:     DefaultTitle,
		publisher: DefaultPublisher,
		columns:   DefaultColumns,
		issue:     HashedIssue,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the document for monthKey from records, keeping record order.
func (c *Compiler) Compile(monthKey string, records []model.Submission) *Document {
	issue := c.issue(monthKey)
	display := model.DisplayMonth(monthKey)

	doc := &Document{
		MonthKey:     monthKey,
		DisplayMonth: display,
		IssueNumber:  issue,
		IssueLabel:   fmt.Sprintf("Issue #%d", issue),
		Articles:     make([]Article, 0, len(records)),
		Columns:      c.columns,
	}
	doc.Header = Header{
		Title:    c.title,
		Subtitle: fmt.Sprintf("%s | %s", display, doc.IssueLabel),
	}
	doc.Footer = Footer{
		Attribution: fmt.Sprintf("Published by %s | Contact: %s", c.publisher, c.contact),
		Copyright:   fmt.Sprintf("© %d All Rights Reserved", c.now().Year()),
	}

	for _, rec := range records {
		doc.Articles = append(doc.Articles, c.article(rec))
	}
	if len(doc.Articles) == 0 {
		doc.Placeholder = PlaceholderText
	}
	return doc
}

func (c *Compiler) article(rec model.Submission) Article {
	byline := rec.AuthorName
	if byline == "" {
		byline = rec.AuthorID
	}

	a := Article{
		AuthorID:   rec.AuthorID,
		AuthorName: rec.AuthorName,
		Heading:    "Traveler’s Tale: " + byline,
		Answers:    make([]AnswerEntry, 0, len(c.prompts)),
		Photos:     make([]Photo, 0, len(rec.PhotoLocators)),
	}
	for _, p := range c.prompts {
		answer, ok := rec.Answers[p]
		if !ok {
			continue
		}
		a.Answers = append(a.Answers, AnswerEntry{Prompt: p, Answer: answer})
	}
	for i, loc := range rec.PhotoLocators {
		a.Photos = append(a.Photos, Photo{Locator: loc, Caption: fmt.Sprintf("Photo %d", i+1)})
	}
	return a
}
