package identity

import (
	"context"
	"errors"
	"time"

	"github.com/nizy/tailor/internal/domain/identity"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles the admin login, session checks and logout
type AuthService struct {
	authenticator *auth.AdminAuthenticator
	sessions      *auth.SessionService
	revocations   auth.RevocationList
	provider      identity.SessionProvider
	logger        *zap.Logger
	now           func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	authenticator *auth.AdminAuthenticator,
	sessions *auth.SessionService,
	revocations auth.RevocationList,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		revocations:   revocations,
		provider:      identity.ContextSessionProvider{},
		logger:        logger,
		now:           time.Now,
	}
}

// Login checks the admin credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ok, err := s.authenticator.Verify(input.Username, input.Password)
	if err != nil {
		s.logger.Error("admin credential check failed", zap.Error(err))
		if errors.Is(err, auth.ErrNoAdminConfigured) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to verify credentials")
	}
	if !ok {
		s.logger.Warn("invalid login attempt",
			zap.String("username", input.Username),
			zap.String("ip", input.IP))
		return nil, identity.ErrInvalidCredentials
	}

	token, session, err := s.sessions.Issue(input.Username)
	if err != nil {
		s.logger.Error("failed to issue session token", zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to generate authentication token")
	}

	s.logger.Info("admin logged in",
		zap.String("username", session.Username),
		zap.String("ip", input.IP))

	return &LoginResult{
		AccessToken: token.Value,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Username:    session.Username,
	}, nil
}

// Authenticate validates a bearer token and rejects revoked ones
func (s *AuthService) Authenticate(ctx context.Context, token string) (identity.Session, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return identity.Session{}, err
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// a revocation store outage fails closed
			s.logger.Error("token revocation check failed", zap.Error(err))
			return identity.Session{}, err
		}
		if revoked {
			return identity.Session{}, auth.ErrTokenRevoked
		}
	}
	return claims.Session(), nil
}

// Logout revokes the current session token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context) error {
	session, ok := s.provider.CurrentSession(ctx)
	if !ok {
		return shared.ErrUnauthorized
	}
	if s.revocations == nil {
		return nil
	}

	if err := s.revocations.Revoke(ctx, session.TokenID, session.Remaining(s.now())); err != nil {
		s.logger.Error("failed to revoke session token", zap.Error(err))
		return shared.NewDomainError(shared.CodeInternal, "Failed to log out")
	}
	s.logger.Info("admin logged out", zap.String("username", session.Username))
	return nil
}

// Session describes the session of the current request
func (s *AuthService) Session(ctx context.Context) (*SessionResult, error) {
	session, ok := s.provider.CurrentSession(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	return &SessionResult{
		Username:  session.Username,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
