package verifier

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/ports"
)

// didPKHPrefix is the supported method prefix for wallet-held identities:
// did:pkh with an Ethereum mainnet account identifier.
const didPKHPrefix = "did:pkh:eip155:1:"

// EthVerifier verifies personal-sign secp256k1 signatures for did:pkh DIDs
// locally, without calling out to the identity service. The signed payload is
// the challenge value itself under the EIP-191 personal message prefix.
type EthVerifier struct{}

// NewEthVerifier creates a new wallet signature verifier.
func NewEthVerifier() *EthVerifier {
	return &EthVerifier{}
}

var _ ports.SignatureVerifier = (*EthVerifier)(nil)

// Verify recovers the signing address from the signature and matches it
// against the address embedded in the DID. Malformed input is reported as an
// invalid signature, not an error, so the caller cannot probe for structure.
func (v *EthVerifier) Verify(ctx context.Context, did, challenge, signature string) (core.Verification, error) {
	if !strings.HasPrefix(did, didPKHPrefix) {
		return core.Verification{}, nil
	}
	expected := common.HexToAddress(strings.TrimPrefix(did, didPKHPrefix))

	decodedSig, err := hexutil.Decode(signature)
	if err != nil || len(decodedSig) != 65 {
		return core.Verification{}, nil
	}

	// Wallets emit V as 27/28 per EIP-191; SigToPub expects 0/1.
	sig := make([]byte, 65)
	copy(sig, decodedSig)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	digest := accounts.TextHash([]byte(challenge))
	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return core.Verification{}, nil
	}

	if crypto.PubkeyToAddress(*pub) != expected {
		return core.Verification{}, nil
	}
	return core.Verification{Valid: true}, nil
}
