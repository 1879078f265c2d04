package directory

import (
	"context"

	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/ports"
)

// StaticResolver resolves identity references from a fixed map. Intended for
// development and tests.
type StaticResolver struct {
	dids map[string]string
}

// NewStaticResolver creates a resolver over the given reference-to-DID map.
func NewStaticResolver(dids map[string]string) *StaticResolver {
	return &StaticResolver{dids: dids}
}

var _ ports.Resolver = (*StaticResolver)(nil)

// Resolve returns the mapped DID or ErrResolution.
func (r *StaticResolver) Resolve(ctx context.Context, identityRef string) (string, error) {
	did, ok := r.dids[identityRef]
	if !ok {
		return "", core.ErrResolution
	}
	return did, nil
}
