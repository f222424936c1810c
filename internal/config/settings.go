package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"theforum/internal/model"
)

//go:embed newsletter.yaml
var defaultSettings []byte

// NewsletterSettings describes the newsletter branding and the prompt set.
type NewsletterSettings struct {
	Title      string   `yaml:"title"`
	Publisher  string   `yaml:"publisher"`
	Contact    string   `yaml:"contact"`
	Columns    int      `yaml:"columns"`
	FirstIssue string   `yaml:"first_issue"`
	Prompts    []string `yaml:"prompts"`
}

// PromptSet returns the configured prompts in order.
func (s *NewsletterSettings) PromptSet() model.PromptSet {
	return model.PromptSet(s.Prompts)
}

// LoadSettings reads the newsletter settings file at path. An empty path
// yields the embedded defaults; fields missing from the file keep their default.
func LoadSettings(path string) (*NewsletterSettings, error) {
	s := &NewsletterSettings{}
	if err := yaml.Unmarshal(defaultSettings, s); err != nil {
		return nil, fmt.Errorf("parse default settings: %w", err)
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var override NewsletterSettings
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if override.Title != "" {
		s.Title = override.Title
	}
	if override.Publisher != "" {
		s.Publisher = override.Publisher
	}
	if override.Contact != "" {
		s.Contact = override.Contact
	}
	if override.Columns > 0 {
		s.Columns = override.Columns
	}
	if override.FirstIssue != "" {
		s.FirstIssue = override.FirstIssue
	}
	if len(override.Prompts) > 0 {
		s.Prompts = override.Prompts
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the pipeline cannot work with.
func (s *NewsletterSettings) Validate() error {
	seen := make(map[string]bool, len(s.Prompts))
	for _, p := range s.Prompts {
		if p == "" {
			return fmt.Errorf("invalid settings: empty prompt")
		}
		if seen[p] {
			return fmt.Errorf("invalid settings: duplicate prompt %q", p)
		}
		seen[p] = true
	}
	if len(s.Prompts) == 0 {
		return fmt.Errorf("invalid settings: at least one prompt is required")
	}
	if s.FirstIssue != "" {
		if _, err := model.ParseMonthKey(s.FirstIssue); err != nil {
			return fmt.Errorf("invalid settings: first_issue %q is not a month key", s.FirstIssue)
		}
	}
	return nil
}
