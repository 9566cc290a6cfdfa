// Package revocation keeps the list of access tokens revoked by sign-out.
// Entries live until the token would have expired anyway.
package revocation

import (
	"context"
	"time"
)

// Store records revoked token ids (jti).
type Store interface {
	// Revoke marks jti revoked until the given time. Past times are no-ops.
	Revoke(ctx context.Context, jti string, until time.Time) error
	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
