package ports

import (
	"context"
	"time"
)

// SessionStore holds server-side session records keyed by session id.
// Records are advisory: token validity is derived from signature and
// expiry alone, but deleting the record lets logout take effect before
// the token expires.
type SessionStore interface {
	Put(ctx context.Context, sessionID, token string, ttl time.Duration) error
	// Get returns the stored token, or "" when the record is absent.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
