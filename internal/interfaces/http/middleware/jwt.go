package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/domain/identity"
	"github.com/nizy/tailor/internal/infrastructure/auth"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Header constants
const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// AccessTokenQuery carries the token for EventSource, which cannot set headers
	AccessTokenQuery = "access_token"
)

// Authenticator resolves a bearer token to a live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Session, error)
}

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Authenticator Authenticator
	// SkipPaths are exact paths that don't require authentication
	SkipPaths []string
	// QueryTokenPrefix enables ?access_token= for paths under this prefix
	QueryTokenPrefix string
	Logger           *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked session. The session
// is placed on the request context for identity.SessionFromContext.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c, cfg.QueryTokenPrefix)
		if !ok {
			abortAuth(c, log, auth.ErrInvalidToken, "missing bearer token")
			return
		}

		session, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, log, err, "token rejected")
			return
		}

		c.Set(logger.GinUsernameKey, session.Username)
		ctx := identity.WithSession(c.Request.Context(), session)
		ctx, _ = logger.WithUsername(ctx, logger.FromContext(ctx), session.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context, queryPrefix string) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(header, BearerPrefix) {
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		return token, token != ""
	}
	if header == "" && queryPrefix != "" && strings.HasPrefix(c.Request.URL.Path, queryPrefix) {
		token := c.Query(AccessTokenQuery)
		return token, token != ""
	}
	return "", false
}

// abortAuth answers 401 for token problems. Any other error means the
// revocation store could not be read; the request is refused with 503.
func abortAuth(c *gin.Context, log *zap.Logger, err error, reason string) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	default:
		status = http.StatusServiceUnavailable
		code, message = dto.ErrCodeInternal, "Unable to verify session"
		log.Error("session check failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}

	if status == http.StatusUnauthorized {
		log.Debug("authentication failed",
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, RequestIDOf(c)))
}

// CurrentUsername returns the authenticated username, or ""
func CurrentUsername(c *gin.Context) string {
	return c.GetString(logger.GinUsernameKey)
}
