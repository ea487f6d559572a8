package driven

import (
	"context"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
)

// SubmissionStore defines the driven port for the local submission history.
// History is best-effort bookkeeping: a failed write never fails the upload
// that produced it.
type SubmissionStore interface {
	// Add records an accepted upload.
	Add(ctx context.Context, sub model.Submission) (model.Submission, error)

	// ListRecent returns the most recent submissions, newest first,
	// capped at limit.
	ListRecent(ctx context.Context, limit int) ([]model.Submission, error)
}
