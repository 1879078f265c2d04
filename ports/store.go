package ports

import (
	"context"
	"time"
)

// ChallengeStore holds outstanding authentication challenges keyed by DID.
// At most one challenge is outstanding per DID.
type ChallengeStore interface {
	// Put registers a pending challenge for a DID, replacing any prior one.
	Put(ctx context.Context, did, challenge string, ttl time.Duration) error

	// Take atomically checks and removes the pending challenge for a DID.
	// The entry is consumed whether or not the value matches, so a failed
	// attempt cannot be retried against the same challenge. False covers
	// unknown, expired and mismatched entries without distinguishing them.
	Take(ctx context.Context, did, challenge string) (bool, error)
}

// RevocationStore tracks refresh token IDs that must no longer be accepted.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
