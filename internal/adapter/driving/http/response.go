package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, SubmitResponse{Success: false, Error: message})
}

// SubmitRequest is the JSON body for the submit endpoint. Pointer fields
// distinguish absent values from zeroes.
type SubmitRequest struct {
	Weight  *float64 `json:"weight"`
	BMI     *float64 `json:"bmi"`
	BodyFat *float64 `json:"bodyFat"`
}

// SubmitResponse is the JSON representation of a submission outcome.
type SubmitResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *SubmissionData `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SubmissionData echoes the submitted record back to the caller.
type SubmissionData struct {
	Date    string  `json:"date"`
	Weight  float64 `json:"weight"`
	BMI     float64 `json:"bmi"`
	BodyFat float64 `json:"bodyFat"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status          string `json:"status"`
	GarminConnected *bool  `json:"garmin_connected,omitempty"`
	Error           string `json:"error,omitempty"`
}

// SubmissionHistoryEntry is the JSON representation of a past submission.
type SubmissionHistoryEntry struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Weight      float64 `json:"weight"`
	BMI         float64 `json:"bmi"`
	BodyFat     float64 `json:"bodyFat"`
	SubmittedAt string  `json:"submitted_at"`
}

// toSubmissionData converts a domain record to its response representation.
func toSubmissionData(rec model.BodyComposition) *SubmissionData {
	return &SubmissionData{
		Date:    rec.Date,
		Weight:  rec.Weight,
		BMI:     rec.BMI,
		BodyFat: rec.BodyFat,
	}
}

// toHistoryEntry converts a domain submission to its response representation.
func toHistoryEntry(sub model.Submission) SubmissionHistoryEntry {
	return SubmissionHistoryEntry{
		ID:          sub.ID,
		Date:        sub.Date,
		Weight:      sub.Weight,
		BMI:         sub.BMI,
		BodyFat:     sub.BodyFat,
		SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
	}
}
