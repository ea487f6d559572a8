// Package model contains the domain types shared across adapters and services.
package model

import "time"

// BodyComposition is the weight/BMI/body-fat triple submitted to Garmin
// Connect for a single calendar date. It is transient: constructed per
// request and handed to the ingestion endpoint, never stored as-is.
type BodyComposition struct {
	// Date is the local calendar date the measurement belongs to,
	// formatted as an ISO date (2006-01-02).
	Date string

	// Weight in kilograms.
	Weight float64

	// BMI (body mass index).
	BMI float64

	// BodyFat percentage.
	BodyFat float64
}

// Submission is a history record of a body composition upload that was
// accepted by Garmin Connect.
type Submission struct {
	ID          int64
	Date        string
	Weight      float64
	BMI         float64
	BodyFat     float64
	SubmittedAt time.Time
}

// SocialProfile is the subset of the Garmin Connect social profile used to
// verify that a session is usable.
type SocialProfile struct {
	DisplayName string
	FullName    string
}
