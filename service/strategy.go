package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/ports"
)

// Strategy names clients select by.
const (
	// StrategyDIDChallenge verifies the signed challenge through the
	// external identity service.
	StrategyDIDChallenge = "did-challenge"

	// StrategyWalletChallenge verifies a wallet's personal-sign signature
	// over the challenge locally.
	StrategyWalletChallenge = "wallet-challenge"
)

// Strategy is a pluggable authentication capability. A strategy inspects the
// submitted credentials and either yields the authenticated principal or
// rejects the attempt.
type Strategy interface {
	Name() string
	Authorize(ctx context.Context, creds core.Credentials) (*core.Principal, error)
}

// DIDChallengeStrategy authorizes a client that proves control of a DID by
// signing a previously issued challenge.
type DIDChallengeStrategy struct {
	name          string
	challenges    ports.ChallengeStore
	verifier      ports.SignatureVerifier
	verifyTimeout time.Duration
}

// NewDIDChallengeStrategy creates the challenge/response strategy backed by
// the given verifier. The verifier call is bounded by verifyTimeout.
func NewDIDChallengeStrategy(challenges ports.ChallengeStore, verifier ports.SignatureVerifier, verifyTimeout time.Duration) *DIDChallengeStrategy {
	return &DIDChallengeStrategy{
		name:          StrategyDIDChallenge,
		challenges:    challenges,
		verifier:      verifier,
		verifyTimeout: verifyTimeout,
	}
}

// NewWalletChallengeStrategy creates the same challenge/response flow under
// the wallet strategy name. The verifier is expected to check signatures
// locally, so the timeout only bounds pathological cases.
func NewWalletChallengeStrategy(challenges ports.ChallengeStore, verifier ports.SignatureVerifier, verifyTimeout time.Duration) *DIDChallengeStrategy {
	return &DIDChallengeStrategy{
		name:          StrategyWalletChallenge,
		challenges:    challenges,
		verifier:      verifier,
		verifyTimeout: verifyTimeout,
	}
}

// Name returns the strategy identifier clients select by.
func (s *DIDChallengeStrategy) Name() string {
	return s.name
}

// Authorize consumes the stored challenge before anything else. A replayed,
// expired or unknown challenge is rejected without spending a verifier call,
// and a consumed challenge is never restored, not even when the verifier
// times out. The store's lock is released before the verifier round trip.
func (s *DIDChallengeStrategy) Authorize(ctx context.Context, creds core.Credentials) (*core.Principal, error) {
	if creds.DID == "" || creds.Challenge == "" || creds.Signature == "" {
		return nil, core.ErrChallengeInvalid
	}

	ok, err := s.challenges.Take(ctx, creds.DID, creds.Challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to take challenge: %w", err)
	}
	if !ok {
		return nil, core.ErrChallengeInvalid
	}

	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	result, err := s.verifier.Verify(vctx, creds.DID, creds.Challenge, creds.Signature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, core.ErrServiceUnavailable
		}
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}
	if !result.Valid {
		return nil, core.ErrSignatureInvalid
	}

	principal := &core.Principal{
		DID:   creds.DID,
		Email: result.Email,
		Name:  result.Name,
	}
	if principal.Email == "" {
		// Fall back to the submitted reference for display only; it carries
		// no authority.
		principal.Email = creds.Email
	}
	return principal, nil
}
