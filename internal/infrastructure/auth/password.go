package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/nizy/tailor/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for generated admin hashes
const BcryptCost = 12

// ErrNoAdminConfigured is returned when no admin password hash is set
var ErrNoAdminConfigured = errors.New("admin credentials are not configured")

// AdminAuthenticator checks the single shop operator account
type AdminAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewAdminAuthenticator creates an authenticator from the admin config
func NewAdminAuthenticator(cfg config.AdminConfig) *AdminAuthenticator {
	return &AdminAuthenticator{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// Verify reports whether username and password match the admin account.
// The bcrypt comparison runs even on a username mismatch.
func (a *AdminAuthenticator) Verify(username, password string) (bool, error) {
	if len(a.passwordHash) == 0 {
		return false, ErrNoAdminConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, err
	}
	return userOK && err == nil, nil
}

// HashPassword returns the bcrypt hash to put into admin.password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
