package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

const (
	userWeightPath    = "/weight-service/user-weight"
	socialProfilePath = "/userprofile-service/socialProfile"
)

// Compile-time interface satisfaction check.
var _ driven.GarminClient = (*Client)(nil)

// Client implements the driven.GarminClient port. It is created by a
// Connector and carries an OAuth2-authorized http.Client.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// userWeightPayload mirrors the body the weight-service ingestion endpoint
// expects. Timestamps are pinned to the end of the given day so the entry
// sorts after any device sync for the same date.
type userWeightPayload struct {
	DateTimestamp string  `json:"dateTimestamp"`
	GMTTimestamp  string  `json:"gmtTimestamp"`
	UnitKey       string  `json:"unitKey"`
	Weight        float64 `json:"weight"`
	BMI           float64 `json:"bmi"`
	PercentFat    float64 `json:"percentFat"`
}

// UploadBodyComposition sends a body composition record to the
// weight-service ingestion endpoint.
func (c *Client) UploadBodyComposition(ctx context.Context, rec model.BodyComposition) error {
	payload := userWeightPayload{
		DateTimestamp: rec.Date + "T23:59:59.99",
		GMTTimestamp:  rec.Date + "T23:59:59.99",
		UnitKey:       "kg",
		Weight:        rec.Weight,
		BMI:           rec.BMI,
		PercentFat:    rec.BodyFat,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode user-weight payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+userWeightPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build user-weight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError("upload body composition", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("upload body composition", resp)
	}
	return nil
}

// socialProfileResponse is the subset of the social profile body we decode.
type socialProfileResponse struct {
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
}

// SocialProfile fetches the signed-in user's social profile.
func (c *Client) SocialProfile(ctx context.Context) (*model.SocialProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+socialProfilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("build social profile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("fetch social profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch social profile", resp)
	}

	var body socialProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode social profile response: %w", err)
	}

	return &model.SocialProfile{
		DisplayName: body.DisplayName,
		FullName:    body.FullName,
	}, nil
}
