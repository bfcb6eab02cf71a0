package model

import "time"

// TokenClaims is the subset of access token claims the client can read
// without verifying the signature. It is informational only.
type TokenClaims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Expired reports whether the claims carry an expiry that lies before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}
