package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestSessionContext(t *testing.T) {
	session := Session{Username: "admin", TokenID: "jti-1"}

	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), session)
	got, ok := ContextSessionProvider{}.CurrentSession(ctx)
	assert.True(t, ok)
	assert.Equal(t, session, got)
}

func TestSession_Remaining(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expected  time.Duration
	}{
		{"unset", time.Time{}, 0},
		{"expired", now.Add(-time.Minute), 0},
		{"at expiry", now, 0},
		{"valid", now.Add(90 * time.Minute), 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Session{ExpiresAt: tt.expiresAt}.Remaining(now))
		})
	}
}

func TestErrInvalidCredentials(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidCredentials, shared.ErrUnauthorized))
}
