// Package httphandler is the HTTP driving adapter that serves the JSON API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/underguiz/garmin-body-composition/internal/application"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	submissions *application.SubmissionService
	health      *application.HealthService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	submissions *application.SubmissionService,
	health *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		submissions: submissions,
		health:      health,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /submit", h.Submit)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/v1/submissions", h.ListSubmissions)
}

// ApplyMiddleware wraps the handler with logging and recovery middleware.
// Recovery is innermost so panics are caught before logging.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// Submit validates and forwards a body composition record for today.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input: request body must be a JSON object with numeric fields")
		return
	}

	rec, err := h.submissions.Submit(r.Context(), application.SubmissionRequest{
		Weight:  req.Weight,
		BMI:     req.BMI,
		BodyFat: req.BodyFat,
	})
	if err != nil {
		status, message := submitFailure(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("submission failed", "error", err)
		} else {
			h.logger.Info("submission rejected", "status", status, "error", err)
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success: true,
		Message: "Body composition data submitted successfully!",
		Data:    toSubmissionData(*rec),
	})
}

// Health reports whether a Garmin session is available, initializing it if
// needed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	connected, err := h.health.Check(r.Context())
	if err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, HealthResponse{
			Status: "unhealthy",
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		GarminConnected: &connected,
	})
}

// ListSubmissions returns the recent submission history.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.History(r.Context())
	if err != nil {
		h.logger.Error("failed to list submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]SubmissionHistoryEntry, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, toHistoryEntry(sub))
	}

	writeJSON(w, http.StatusOK, resp)
}

// submitFailure maps a submission error to its HTTP status and user-facing
// message. The taxonomy is closed; the final arm catches anything
// unclassified.
func submitFailure(err error) (int, string) {
	var (
		validationErr *application.ValidationError
		authErr       *driven.AuthenticationError
		rateErr       *driven.RateLimitError
		connErr       *driven.ConnectionError
		apiErr        *driven.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, driven.ErrCredentialsMissing):
		return http.StatusUnauthorized, "No stored tokens found and EMAIL/PASSWORD environment variables not set. Please set EMAIL and PASSWORD environment variables."
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "Authentication failed. Please check your credentials."
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "Too many requests. Please wait a moment and try again."
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable, "Connection error. Please check your internet connection."
	case errors.As(err, &apiErr):
		return http.StatusInternalServerError, "Garmin API error: " + apiErr.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred: " + err.Error()
	}
}
