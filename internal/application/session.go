// Package application contains the services orchestrating the domain flow:
// session lifecycle, submission validation and upload, and health checks.
package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

// SessionService owns the process-wide Garmin session handle. The handle is
// created lazily on first use and reused by every subsequent caller; it is
// only discarded when the process exits.
type SessionService struct {
	mu        sync.Mutex
	client    driven.GarminClient
	connector driven.GarminConnector
	tokens    driven.TokenStore
	email     string
	password  string
	logger    *slog.Logger
}

// NewSessionService creates a SessionService. email and password may be
// empty; they are only needed when no token bundle is cached yet.
func NewSessionService(
	connector driven.GarminConnector,
	tokens driven.TokenStore,
	email string,
	password string,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		connector: connector,
		tokens:    tokens,
		email:     email,
		password:  password,
		logger:    logger,
	}
}

// Client returns the session handle, initializing it on first use.
// Initialization order: in-memory handle, cached token bundle, credential
// login (which persists the fresh bundle). The mutex is held across the
// whole initialization so concurrent first requests trigger exactly one
// login and one token-store write.
func (s *SessionService) Client(ctx context.Context) (driven.GarminClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	if s.tokens.Exists() {
		bundle, err := s.tokens.Load(ctx)
		if err != nil {
			return nil, err
		}

		client, err := s.connector.Resume(ctx, bundle)
		if err != nil {
			return nil, err
		}

		s.client = client
		s.logger.Info("session resumed from token store")
		return s.client, nil
	}

	if s.email == "" || s.password == "" {
		return nil, driven.ErrCredentialsMissing
	}

	s.logger.Info("authenticating with credentials")
	client, bundle, err := s.connector.Login(ctx, s.email, s.password)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Save(ctx, bundle); err != nil {
		return nil, err
	}

	s.client = client
	s.logger.Info("login successful, tokens saved")
	return s.client, nil
}

// Connected reports whether a session handle currently exists. It never
// triggers initialization.
func (s *SessionService) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}
