package models

import "time"

// ShareLink grants time-limited access to the ledger without a user
// account. The token is the only secret; whoever holds it can open the
// share routes until ExpiresAt.
type ShareLink struct {
	// ID is the unique row identifier (UUID format).
	ID string `json:"id"`

	// Token is the opaque string embedded in the shared URL.
	Token string `json:"token"`

	// CreatedAt is the Unix timestamp when the link was created.
	CreatedAt int64 `json:"createdAt"`

	// ExpiresAt is the Unix timestamp after which the link is invalid.
	ExpiresAt int64 `json:"expiresAt"`
}

// Expired reports whether the link is past its expiry at the given time.
func (l ShareLink) Expired(now time.Time) bool {
	return now.Unix() >= l.ExpiresAt
}
