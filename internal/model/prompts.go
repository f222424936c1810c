package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultPrompts is the prompt set used when no settings file overrides it.
var DefaultPrompts = PromptSet{
	"What’s your best moment this month?",
	"What’s the weirdest food you tried?",
	"Share a funny travel story.",
}

// PromptSet is the fixed, ordered list of prompts every submission answers.
// Its order defines the order answers are rendered in.
type PromptSet []string

// Contains reports whether p is one of the prompts.
func (ps PromptSet) Contains(p string) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// ErrIncompleteSubmission is matched by every *IncompleteSubmissionError.
var ErrIncompleteSubmission = errors.New("incomplete submission")

const (
	ReasonMissing    = "missing"
	ReasonUnexpected = "unexpected"
)

// IncompleteSubmissionError names the prompt that made a draft invalid.
type IncompleteSubmissionError struct {
	Prompt string
	Reason string
}

func (e *IncompleteSubmissionError) Error() string {
	if e.Reason == ReasonUnexpected {
		return fmt.Sprintf("incomplete submission: unexpected prompt %q", e.Prompt)
	}
	return fmt.Sprintf("incomplete submission: missing answer for %q", e.Prompt)
}

func (e *IncompleteSubmissionError) Unwrap() error { return ErrIncompleteSubmission }

// ValidateComplete checks that answers cover exactly the prompt set.
// Missing or blank answers are reported first, in prompt order; then unknown keys,
// lowest first so the result is stable.
func ValidateComplete(prompts PromptSet, answers map[string]string) error {
	for _, p := range prompts {
		if strings.TrimSpace(answers[p]) == "" {
			return &IncompleteSubmissionError{Prompt: p, Reason: ReasonMissing}
		}
	}

	var extra []string
	for k := range answers {
		if !prompts.Contains(k) {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return &IncompleteSubmissionError{Prompt: extra[0], Reason: ReasonUnexpected}
	}
	return nil
}
