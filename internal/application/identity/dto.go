package identity

import "time"

// LoginInput contains the input for the admin login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login logging
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	Username    string    `json:"username"`
}

// SessionResult describes the current session
type SessionResult struct {
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
