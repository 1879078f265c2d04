package verifier

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestEthVerifier_ValidSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(key.PublicKey)
	did := didPKHPrefix + addr.Hex()

	challenge := "6fd2b8a84f1e0eb3f56c3e2dc742a4b2a9186dfa3fd46e0c5b1a1f6a52bd9c4e"
	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge)), key)
	require.NoError(t, err)

	v := NewEthVerifier()

	result, err := v.Verify(context.Background(), did, challenge, hexutil.Encode(sig))
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestEthVerifier_WalletStyleRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(key.PublicKey)
	did := didPKHPrefix + addr.Hex()

	challenge := "abc123"
	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge)), key)
	require.NoError(t, err)
	// Wallets report V as 27/28 rather than 0/1.
	sig[64] += 27

	v := NewEthVerifier()

	result, err := v.Verify(context.Background(), did, challenge, hexutil.Encode(sig))
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestEthVerifier_WrongSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	did := didPKHPrefix + crypto.PubkeyToAddress(key.PublicKey).Hex()

	challenge := "abc123"
	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge)), otherKey)
	require.NoError(t, err)

	v := NewEthVerifier()

	result, err := v.Verify(context.Background(), did, challenge, hexutil.Encode(sig))
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestEthVerifier_WrongChallenge(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	did := didPKHPrefix + crypto.PubkeyToAddress(key.PublicKey).Hex()

	sig, err := crypto.Sign(accounts.TextHash([]byte("issued-challenge")), key)
	require.NoError(t, err)

	v := NewEthVerifier()

	result, err := v.Verify(context.Background(), did, "different-challenge", hexutil.Encode(sig))
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestEthVerifier_MalformedInput(t *testing.T) {
	v := NewEthVerifier()

	tests := []struct {
		name      string
		did       string
		signature string
	}{
		{"unsupported did method", "did:example:123", "0x00"},
		{"not hex", didPKHPrefix + "0x0000000000000000000000000000000000000001", "zzzz"},
		{"short signature", didPKHPrefix + "0x0000000000000000000000000000000000000001", "0x0102"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Verify(context.Background(), tt.did, "abc123", tt.signature)
			require.NoError(t, err)
			require.False(t, result.Valid)
		})
	}
}
