package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"theforum/internal/model"
	"theforum/internal/repository"
)

// SubmissionPostgres is a PostgreSQL implementation of repository.SubmissionRepository.
// Answers and photo locators are stored as JSONB; seq records arrival order.
type SubmissionPostgres struct {
	db *sql.DB
}

// NewSubmissionPostgres creates a new SubmissionPostgres repository.
func NewSubmissionPostgres(db *sql.DB) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

var _ repository.SubmissionRepository = (*SubmissionPostgres)(nil)

// Save inserts one submission row.
func (r *SubmissionPostgres) Save(ctx context.Context, sub *model.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	locators := sub.PhotoLocators
	if locators == nil {
		locators = []string{}
	}
	photos, err := json.Marshal(locators)
	if err != nil {
		return fmt.Errorf("encode photo locators: %w", err)
	}

	const q = `
		INSERT INTO submissions (id, author_id, author_name, month_key, answers, photo_locators, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, q,
		sub.ID,
		sub.AuthorID,
		sub.AuthorName,
		sub.MonthKey,
		answers,
		photos,
		sub.CreatedAt,
	)
	return err
}

// FindByMonth returns the month's submissions ordered by arrival.
func (r *SubmissionPostgres) FindByMonth(ctx context.Context, monthKey string) ([]model.Submission, error) {
	const q = `
		SELECT id, author_id, author_name, month_key, answers, photo_locators, created_at
		FROM submissions
		WHERE month_key = $1
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q, monthKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Submission, 0)
	for rows.Next() {
		var (
			s       model.Submission
			answers []byte
			photos  []byte
		)
		if err := rows.Scan(
			&s.ID,
			&s.AuthorID,
			&s.AuthorName,
			&s.MonthKey,
			&answers,
			&photos,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of %s: %w", s.ID, err)
		}
		if err := json.Unmarshal(photos, &s.PhotoLocators); err != nil {
			return nil, fmt.Errorf("decode photo locators of %s: %w", s.ID, err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
