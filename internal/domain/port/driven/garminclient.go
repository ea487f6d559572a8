package driven

import (
	"context"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
)

// GarminClient defines the driven port for an authenticated Garmin Connect
// session. There is at most one per process; it is obtained through the
// session service and reused by every request.
type GarminClient interface {
	// UploadBodyComposition sends a body composition record to the
	// weight-service ingestion endpoint.
	UploadBodyComposition(ctx context.Context, rec model.BodyComposition) error

	// SocialProfile fetches the signed-in user's social profile. It doubles
	// as a cheap session probe: a rejected token surfaces here as
	// *AuthenticationError.
	SocialProfile(ctx context.Context) (*model.SocialProfile, error)
}

// GarminConnector defines the driven port for establishing Garmin Connect
// sessions, either from credentials or from previously persisted tokens.
type GarminConnector interface {
	// Login performs the interactive SSO credential flow and returns an
	// authenticated client together with the token bundle to persist.
	Login(ctx context.Context, email, password string) (GarminClient, *model.TokenBundle, error)

	// Resume constructs a client from a stored token bundle and validates it
	// against the service. Rejected tokens return *AuthenticationError.
	Resume(ctx context.Context, tokens *model.TokenBundle) (GarminClient, error)
}
