package ports

import "context"

// Resolver maps an identity reference (e.g. an email) to its registered DID.
// The reference is only a lookup key; the DID is the trust anchor.
type Resolver interface {
	Resolve(ctx context.Context, identityRef string) (string, error)
}
