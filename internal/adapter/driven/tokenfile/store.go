// Package tokenfile implements the TokenStore port on the local filesystem.
// The bundle is stored as a single JSON document, optionally encrypted at
// rest with AES-256-GCM when a secret key is configured.
package tokenfile

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*Store)(nil)

// Store is the filesystem implementation of the TokenStore port.
type Store struct {
	path string
	key  []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// New creates a Store writing to path. secret is optional: when non-empty,
// a 32-byte AES-256 key is derived from it via SHA-256 and the bundle is
// encrypted at rest; when empty, the bundle is stored as plaintext JSON.
func New(path, secret string) *Store {
	var key []byte
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		key = sum[:]
	}
	return &Store{path: path, key: key}
}

// Path returns the filesystem location of the bundle.
func (s *Store) Path() string { return s.path }

// Exists reports whether a token bundle is present on disk.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads and decodes the stored bundle.
func (s *Store) Load(_ context.Context) (*model.TokenBundle, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read token store %q: %w", s.path, err)
	}

	if s.key != nil {
		data, err = s.decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("decrypt token store %q: %w", s.path, err)
		}
	}

	var bundle model.TokenBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode token store %q: %w", s.path, err)
	}
	return &bundle, nil
}

// Save writes the bundle atomically, creating parent directories as needed.
func (s *Store) Save(_ context.Context, tokens *model.TokenBundle) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token bundle: %w", err)
	}

	if s.key != nil {
		data, err = s.encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt token bundle: %w", err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token store directory %q: %w", dir, err)
		}
	}

	if err := atomic.WriteFile(s.path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("write token store %q: %w", s.path, err)
	}

	// Tokens grant full account access; keep them owner-readable only.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("chmod token store %q: %w", s.path, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded
// payload containing the nonce (12 bytes) prepended to the ciphertext.
func (s *Store) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	return []byte(encoded), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM payload.
func (s *Store) decrypt(encoded []byte) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm.Open: %w", err)
	}
	return plaintext, nil
}
