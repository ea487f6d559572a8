package driven

import (
	"context"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
)

// TokenStore defines the driven port for persisting session tokens across
// process restarts. The stored format is owned by the adapter; callers only
// see the decoded bundle.
type TokenStore interface {
	// Exists reports whether a token bundle is present on disk. It never
	// touches the bundle contents.
	Exists() bool

	// Load reads and decodes the stored bundle.
	Load(ctx context.Context) (*model.TokenBundle, error)

	// Save writes the bundle, creating parent directories as needed. The
	// write is atomic: a crash never leaves a partial bundle behind.
	Save(ctx context.Context, tokens *model.TokenBundle) error
}
