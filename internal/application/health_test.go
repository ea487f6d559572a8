package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

func TestHealthCheck_Healthy(t *testing.T) {
	sessions := NewSessionService(&fakeConnector{client: &fakeClient{}}, &fakeTokenStore{}, "athlete@example.com", "hunter2", slog.Default())
	svc := NewHealthService(sessions)

	connected, err := svc.Check(context.Background())

	require.NoError(t, err)
	assert.True(t, connected)
}

func TestHealthCheck_InitializesSession(t *testing.T) {
	connector := &fakeConnector{client: &fakeClient{}}
	sessions := NewSessionService(connector, &fakeTokenStore{}, "athlete@example.com", "hunter2", slog.Default())
	svc := NewHealthService(sessions)

	require.False(t, sessions.Connected())

	_, err := svc.Check(context.Background())

	require.NoError(t, err)
	assert.True(t, sessions.Connected())
	assert.Equal(t, 1, connector.loginCalls)
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	sessions := NewSessionService(&fakeConnector{}, &fakeTokenStore{}, "", "", slog.Default())
	svc := NewHealthService(sessions)

	connected, err := svc.Check(context.Background())

	assert.ErrorIs(t, err, driven.ErrCredentialsMissing)
	assert.False(t, connected)
}
