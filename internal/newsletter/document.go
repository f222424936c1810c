// Package newsletter compiles a month's submissions into a newsletter document.
package newsletter

// Document is the compiled newsletter for one month. It is built fresh on every
// Compile call and never cached.
type Document struct {
	MonthKey     string    `json:"month_key"`
	DisplayMonth string    `json:"display_month"`
	IssueNumber  int       `json:"issue_number"`
	IssueLabel   string    `json:"issue_label"`
	Header       Header    `json:"header"`
	Articles     []Article `json:"articles"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Footer       Footer    `json:"footer"`
	Columns      int       `json:"columns"`
}

// Header is the masthead: newsletter title and the "<Month YYYY> | Issue #N" line.
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Footer holds the publisher attribution and copyright lines.
type Footer struct {
	Attribution string `json:"attribution"`
	Copyright   string `json:"copyright"`
}

// Article is one submission's section.
type Article struct {
	AuthorID   string        `json:"author_id"`
	AuthorName string        `json:"author_name,omitempty"`
	Heading    string        `json:"heading"`
	Answers    []AnswerEntry `json:"answers"`
	Photos     []Photo       `json:"photos"`
}

// AnswerEntry pairs a prompt with the author's answer.
type AnswerEntry struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// Photo is a stored photo locator with its display caption.
type Photo struct {
	Locator string `json:"locator"`
	Caption string `json:"caption"`
}

// Empty reports whether the document carries no articles.
func (d *Document) Empty() bool { return len(d.Articles) == 0 }
