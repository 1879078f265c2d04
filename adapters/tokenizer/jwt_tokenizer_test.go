package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/theweboftrust/wot.id/core"
)

func newTestTokenizer(t *testing.T, keyID string) *JWTTokenizer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return NewJWTTokenizer(keyID, key)
}

func testSession(now time.Time) *core.Session {
	return &core.Session{
		ID:            "session-1",
		DID:           "did:example:123",
		Email:         "user@example.com",
		Name:          "Example User",
		IssuedAt:      now,
		AccessExpiry:  now.Add(5 * time.Minute),
		RefreshExpiry: now.Add(120 * time.Hour),
		RefreshID:     "refresh-1",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	j := newTestTokenizer(t, "key-1")
	session := testSession(time.Now())

	tokenStr, err := j.SessionToAccessToken(session)
	require.NoError(t, err)

	got, err := j.AccessTokenToSession(tokenStr)
	require.NoError(t, err)

	require.Equal(t, session.DID, got.DID, "subject must be the DID")
	require.Equal(t, session.ID, got.ID)
	require.Equal(t, session.Email, got.Email)
	require.Equal(t, session.Name, got.Name)
	require.Equal(t, session.RefreshID, got.RefreshID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	j := newTestTokenizer(t, "key-1")
	session := testSession(time.Now())

	tokenStr, err := j.SessionToRefreshToken(session)
	require.NoError(t, err)

	got, err := j.RefreshTokenToSession(tokenStr)
	require.NoError(t, err)

	require.Equal(t, session.DID, got.DID)
	require.Equal(t, session.RefreshID, got.RefreshID)
}

func TestAccessTokenExpired(t *testing.T) {
	j := newTestTokenizer(t, "key-1")
	session := testSession(time.Now().Add(-time.Hour))
	session.AccessExpiry = time.Now().Add(-30 * time.Minute)

	tokenStr, err := j.SessionToAccessToken(session)
	require.NoError(t, err)

	_, err = j.AccessTokenToSession(tokenStr)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenTypeEnforced(t *testing.T) {
	j := newTestTokenizer(t, "key-1")
	session := testSession(time.Now())

	refreshStr, err := j.SessionToRefreshToken(session)
	require.NoError(t, err)

	// A refresh token must not pass as an access token.
	_, err = j.AccessTokenToSession(refreshStr)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestGarbageToken(t *testing.T) {
	j := newTestTokenizer(t, "key-1")

	_, err := j.AccessTokenToSession("not-a-jwt")
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestWrongKeyRejected(t *testing.T) {
	minter := newTestTokenizer(t, "key-1")
	validator := newTestTokenizer(t, "key-1")

	tokenStr, err := minter.SessionToAccessToken(testSession(time.Now()))
	require.NoError(t, err)

	// Same kid, different key material.
	_, err = validator.AccessTokenToSession(tokenStr)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestKeyRotationViaKid(t *testing.T) {
	old := newTestTokenizer(t, "key-1")
	tokenStr, err := old.SessionToAccessToken(testSession(time.Now()))
	require.NoError(t, err)

	current := newTestTokenizer(t, "key-2")

	// Unknown kid is rejected until the old public key is registered.
	_, err = current.AccessTokenToSession(tokenStr)
	require.ErrorIs(t, err, core.ErrInvalidToken)

	current.AddVerificationKey("key-1", &old.signKey.PublicKey)

	got, err := current.AccessTokenToSession(tokenStr)
	require.NoError(t, err)
	require.Equal(t, "did:example:123", got.DID)
}
