package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/ports"
)

const challengeBytes = 32

// AuthService orchestrates challenge issuance and the challenge/response
// login flow. It performs no cryptography itself; signature checks are
// delegated to the configured strategies and session minting to the tokenizer.
type AuthService struct {
	resolver    ports.Resolver
	challenges  ports.ChallengeStore
	tokenizer   ports.Tokenizer
	revocations ports.RevocationStore
	eventPub    ports.EventPublisher
	strategies  map[string]Strategy

	challengeTTL time.Duration
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	resolver ports.Resolver,
	challenges ports.ChallengeStore,
	tokenizer ports.Tokenizer,
	revocations ports.RevocationStore,
	eventPub ports.EventPublisher,
	strategies ...Strategy,
) *AuthService {
	byName := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		byName[s.Name()] = s
	}

	return &AuthService{
		resolver:     resolver,
		challenges:   challenges,
		tokenizer:    tokenizer,
		revocations:  revocations,
		eventPub:     eventPub,
		strategies:   byName,
		challengeTTL: 5 * time.Minute,
		accessTTL:    5 * time.Minute,
		refreshTTL:   5 * 24 * time.Hour, // 5 days
	}
}

// Challenge resolves the identity reference to its DID and registers a fresh
// challenge for it. At most one challenge is outstanding per DID; issuing a
// new one supersedes the previous.
func (s *AuthService) Challenge(ctx context.Context, identityRef string) (string, string, error) {
	did, err := s.resolver.Resolve(ctx, identityRef)
	if err != nil {
		if errors.Is(err, core.ErrResolution) || errors.Is(err, core.ErrServiceUnavailable) {
			return "", "", err
		}
		return "", "", fmt.Errorf("failed to resolve identity: %w", err)
	}

	challenge, err := generateChallenge()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate challenge: %w", err)
	}

	if err := s.challenges.Put(ctx, did, challenge, s.challengeTTL); err != nil {
		return "", "", fmt.Errorf("failed to store challenge: %w", err)
	}

	return did, challenge, nil
}

// Login authenticates the submitted credentials via the named strategy and,
// on success, mints session tokens whose subject is the verified DID — never
// the identity reference the client supplied.
func (s *AuthService) Login(ctx context.Context, creds core.Credentials) (string, string, error) {
	name := creds.Strategy
	if name == "" {
		name = StrategyDIDChallenge
	}
	strategy, ok := s.strategies[name]
	if !ok {
		return "", "", fmt.Errorf("unknown authentication strategy %q", name)
	}

	principal, err := strategy.Authorize(ctx, creds)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	session := &core.Session{
		ID:            uuid.New().String(),
		DID:           principal.DID,
		Email:         principal.Email,
		Name:          principal.Name,
		IssuedAt:      now,
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshExpiry: now.Add(s.refreshTTL),
		RefreshID:     uuid.New().String(),
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokenizer.SessionToRefreshToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create refresh token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, session.DID, session.ID); err != nil {
			// The session is already minted; a lost notification must not
			// fail the login.
			log.Printf("warning: failed to publish login event: %v", err)
		}
	}

	return accessToken, refreshToken, nil
}

// Refresh rotates the refresh token and issues new access and refresh tokens
func (s *AuthService) Refresh(ctx context.Context, refreshTokenStr string) (string, string, error) {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", err)
	}

	if time.Now().After(session.RefreshExpiry) {
		return "", "", core.ErrTokenExpired
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.RefreshID)
	if err != nil {
		return "", "", fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return "", "", core.ErrTokenRevoked
	}

	// Revoke the old refresh token for its remaining lifetime so it cannot
	// be replayed after rotation.
	remainingTime := time.Until(session.RefreshExpiry)
	if err := s.revocations.Revoke(ctx, session.RefreshID, remainingTime); err != nil {
		return "", "", fmt.Errorf("failed to revoke old token: %w", err)
	}

	now := time.Now()
	newSession := &core.Session{
		ID:            uuid.New().String(),
		DID:           session.DID,
		Email:         session.Email,
		Name:          session.Name,
		IssuedAt:      now,
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshExpiry: now.Add(s.refreshTTL),
		RefreshID:     uuid.New().String(),
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(newSession)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new access token: %w", err)
	}

	refreshToken, err := s.tokenizer.SessionToRefreshToken(newSession)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshTokenStr string) error {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return fmt.Errorf("invalid refresh token: %w", err)
	}

	// Even an expired token gets a revocation record, so it cannot be
	// reused under clock skew.
	var remainingTime time.Duration
	if time.Now().After(session.RefreshExpiry) {
		remainingTime = time.Hour
	} else {
		remainingTime = time.Until(session.RefreshExpiry)
	}

	if err := s.revocations.Revoke(ctx, session.RefreshID, remainingTime); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogout(ctx, session.DID, session.RefreshID); err != nil {
			// The token is already revoked in the store, which is the part
			// that matters.
			log.Printf("warning: failed to publish logout event: %v", err)
		}
	}

	return nil
}

// ValidateAccessToken checks an access token and returns the session it
// asserts. Expiry is enforced here; there is no silent extension.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Session, error) {
	session, err := s.tokenizer.AccessTokenToSession(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if time.Now().After(session.AccessExpiry) {
		return nil, core.ErrTokenExpired
	}

	// An access token dies with its refresh token.
	if session.RefreshID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, session.RefreshID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, core.ErrTokenRevoked
		}
	}

	return session, nil
}

// generateChallenge produces the random value the DID holder must sign.
// 32 bytes from the CSPRNG, hex encoded.
func generateChallenge() (string, error) {
	buf := make([]byte, challengeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
