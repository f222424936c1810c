package model

import "time"

// Submission is one user's completed monthly contribution.
// Records are write-once: nothing in the service updates or deletes them after Save.
type Submission struct {
	ID            string            `json:"id"`
	AuthorID      string            `json:"author_id"`
	AuthorName    string            `json:"author_name,omitempty"`
	MonthKey      string            `json:"month_key"`
	Answers       map[string]string `json:"answers"`
	PhotoLocators []string          `json:"photo_locators"`
	CreatedAt     time.Time         `json:"created_at"`
}

// PhotoBlob is a raw photo attached to a draft, before upload.
type PhotoBlob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Draft is what a user authors before intake: answers plus photos in display order.
type Draft struct {
	Answers map[string]string
	Photos  []PhotoBlob
}

// Identity is the authenticated caller. A nil *Identity means unauthenticated.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
