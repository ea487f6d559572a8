package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// Accepted metric bounds, inclusive.
const (
	MinWeight  = 30.0
	MaxWeight  = 300.0
	MinBMI     = 10.0
	MaxBMI     = 60.0
	MinBodyFat = 3.0
	MaxBodyFat = 60.0
)

// historyLimit caps how many submissions the history listing returns.
const historyLimit = 30

// ValidationError reports a missing or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SubmissionRequest carries the raw submitted metrics. Pointer fields
// distinguish absent values from zeroes.
type SubmissionRequest struct {
	Weight  *float64
	BMI     *float64
	BodyFat *float64
}

// SubmissionService validates incoming metrics and forwards them to Garmin
// Connect for today's date.
type SubmissionService struct {
	sessions *SessionService
	history  driven.SubmissionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(sessions *SessionService, history driven.SubmissionStore, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		sessions: sessions,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates the request, acquires the session handle, and uploads
// the record for today's local date. On success the submitted record is
// returned so the caller can echo it back.
func (s *SubmissionService) Submit(ctx context.Context, req SubmissionRequest) (*model.BodyComposition, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	client, err := s.sessions.Client(ctx)
	if err != nil {
		return nil, err
	}

	rec := model.BodyComposition{
		Date:    s.now().Format("2006-01-02"),
		Weight:  *req.Weight,
		BMI:     *req.BMI,
		BodyFat: *req.BodyFat,
	}

	s.logger.Info("submitting body composition",
		"date", rec.Date,
		"weight", rec.Weight,
		"bmi", rec.BMI,
		"body_fat", rec.BodyFat,
	)

	if err := client.UploadBodyComposition(ctx, rec); err != nil {
		return nil, err
	}

	// History is bookkeeping; a failed write never fails the upload.
	if _, err := s.history.Add(ctx, model.Submission{
		Date:    rec.Date,
		Weight:  rec.Weight,
		BMI:     rec.BMI,
		BodyFat: rec.BodyFat,
	}); err != nil {
		s.logger.Warn("failed to record submission history", "error", err)
	}

	return &rec, nil
}

// History returns the most recent submissions, newest first.
func (s *SubmissionService) History(ctx context.Context) ([]model.Submission, error) {
	return s.history.ListRecent(ctx, historyLimit)
}

// validateRequest checks presence and bounds in submission order
// (weight, BMI, body-fat), stopping at the first failure.
func validateRequest(req SubmissionRequest) error {
	if req.Weight == nil {
		return &ValidationError{Field: "weight", Message: "Weight is required and must be a number"}
	}
	if req.BMI == nil {
		return &ValidationError{Field: "bmi", Message: "BMI is required and must be a number"}
	}
	if req.BodyFat == nil {
		return &ValidationError{Field: "bodyFat", Message: "Body fat percentage is required and must be a number"}
	}

	if *req.Weight < MinWeight || *req.Weight > MaxWeight {
		return &ValidationError{Field: "weight", Message: "Weight must be between 30 and 300 kg"}
	}
	if *req.BMI < MinBMI || *req.BMI > MaxBMI {
		return &ValidationError{Field: "bmi", Message: "BMI must be between 10 and 60"}
	}
	if *req.BodyFat < MinBodyFat || *req.BodyFat > MaxBodyFat {
		return &ValidationError{Field: "bodyFat", Message: "Body fat percentage must be between 3 and 60"}
	}

	return nil
}
