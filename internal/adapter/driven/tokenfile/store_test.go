package tokenfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underguiz/garmin-body-composition/internal/adapter/driven/tokenfile"
	"github.com/underguiz/garmin-body-composition/internal/domain/model"
)

func testBundle() *model.TokenBundle {
	bundle := &model.TokenBundle{
		OAuth1: model.OAuth1Token{Token: "oauth1-token", Secret: "oauth1-secret"},
	}
	bundle.OAuth2.AccessToken = "access-token"
	bundle.OAuth2.TokenType = "Bearer"
	bundle.OAuth2.RefreshToken = "refresh-token"
	return bundle
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := tokenfile.New(path, "")
	ctx := context.Background()

	assert.False(t, store.Exists())

	require.NoError(t, store.Save(ctx, testBundle()))
	assert.True(t, store.Exists())

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testBundle(), got)
}

func TestStore_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tokens.json")
	store := tokenfile.New(path, "")

	require.NoError(t, store.Save(context.Background(), testBundle()))
	assert.True(t, store.Exists())
}

func TestStore_LoadMissing(t *testing.T) {
	store := tokenfile.New(filepath.Join(t.TempDir(), "absent.json"), "")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestStore_EncryptedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store := tokenfile.New(path, "super-secret")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testBundle()))

	// The raw file must not leak token material.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-token")
	assert.NotContains(t, string(raw), "oauth1-secret")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testBundle(), got)
}

func TestStore_WrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	ctx := context.Background()

	require.NoError(t, tokenfile.New(path, "right-key").Save(ctx, testBundle()))

	_, err := tokenfile.New(path, "wrong-key").Load(ctx)
	assert.Error(t, err)
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := tokenfile.New(path, "")

	require.NoError(t, store.Save(context.Background(), testBundle()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_OverwriteOnSecondSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := tokenfile.New(path, "")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testBundle()))

	updated := testBundle()
	updated.OAuth2.AccessToken = "rotated-token"
	require.NoError(t, store.Save(ctx, updated))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", got.OAuth2.AccessToken)
}
