package application

import "context"

// HealthService reports whether the service can reach Garmin Connect.
type HealthService struct {
	sessions *SessionService
}

// NewHealthService creates a HealthService backed by the session service.
func NewHealthService(sessions *SessionService) *HealthService {
	return &HealthService{sessions: sessions}
}

// Check acquires the session handle, initializing it if needed, and reports
// whether a handle exists. A failed acquisition is returned as-is so the
// boundary can surface the underlying cause.
func (s *HealthService) Check(ctx context.Context) (bool, error) {
	if _, err := s.sessions.Client(ctx); err != nil {
		return false, err
	}
	return s.sessions.Connected(), nil
}
