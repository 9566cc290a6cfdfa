package models

import "time"

// Session is the authenticated runtime state held after a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`

	// ExpiresAt is read from the token's exp claim. Zero means unknown.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session token is past its expiry at now.
// Sessions with unknown expiry never expire locally.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
