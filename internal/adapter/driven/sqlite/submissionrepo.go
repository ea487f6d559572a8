package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubmissionStore = (*SubmissionRepo)(nil)

// SubmissionRepo is the SQLite implementation of the SubmissionStore port
// interface.
type SubmissionRepo struct {
	db *DB
}

// NewSubmissionRepo creates a new SubmissionRepo backed by the given DB.
func NewSubmissionRepo(db *DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Add records an accepted upload and returns it with the assigned ID.
func (r *SubmissionRepo) Add(ctx context.Context, sub model.Submission) (model.Submission, error) {
	const query = `INSERT INTO submissions (date, weight, bmi, body_fat, submitted_at) VALUES (?, ?, ?, ?, ?)`

	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	// Stored as fixed-width RFC 3339 UTC text so lexicographic ORDER BY matches
	// chronological order. Sub-second precision is not needed for history.
	submittedAt = submittedAt.UTC().Truncate(time.Second)
	result, err := r.db.Writer.ExecContext(ctx, query, sub.Date, sub.Weight, sub.BMI, sub.BodyFat, submittedAt.Format(time.RFC3339))
	if err != nil {
		return model.Submission{}, fmt.Errorf("add submission for %s: %w", sub.Date, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Submission{}, fmt.Errorf("submission insert id: %w", err)
	}

	sub.ID = id
	sub.SubmittedAt = submittedAt
	return sub, nil
}

// ListRecent returns the most recent submissions, newest first.
func (r *SubmissionRepo) ListRecent(ctx context.Context, limit int) ([]model.Submission, error) {
	const query = `
		SELECT id, date, weight, bmi, body_fat, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		var submittedAt string
		if err := rows.Scan(&sub.ID, &sub.Date, &sub.Weight, &sub.BMI, &sub.BodyFat, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		sub.SubmittedAt, err = parseTime(submittedAt)
		if err != nil {
			return nil, fmt.Errorf("parse submitted_at: %w", err)
		}

		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
