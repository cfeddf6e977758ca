package identity

import (
	"context"
	"time"

	"github.com/nizy/tailor/internal/domain/shared"
)

// ErrInvalidCredentials is returned for any failed login, without telling
// which of username or password was wrong
var ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")

// Session is the authenticated operator of a request
type Session struct {
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns how long the session stays valid after now
func (s Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() || !s.ExpiresAt.After(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// SessionProvider exposes the session of the current request
type SessionProvider interface {
	CurrentSession(ctx context.Context) (Session, bool)
}

type sessionKey struct{}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by WithSession
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionKey{}).(Session)
	return session, ok
}

// ContextSessionProvider reads sessions placed on the context by the auth middleware
type ContextSessionProvider struct{}

// CurrentSession implements SessionProvider
func (ContextSessionProvider) CurrentSession(ctx context.Context) (Session, bool) {
	return SessionFromContext(ctx)
}

var _ SessionProvider = ContextSessionProvider{}
