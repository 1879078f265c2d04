package ports

import (
	"context"

	"github.com/theweboftrust/wot.id/core"
)

// SignatureVerifier checks that signature proves control of did's private key
// over challenge. The signature format is opaque to the caller; the verifier
// alone interprets it.
type SignatureVerifier interface {
	Verify(ctx context.Context, did, challenge, signature string) (core.Verification, error)
}
