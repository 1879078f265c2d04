package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/ports"
)

const verifyPath = "/api/v1/identity/verify-signature"

// HTTPVerifier delegates signature verification to the external identity
// service. The service resolves the DID document and checks the signature
// against the DID's registered keys; this adapter performs no cryptography.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPVerifier creates a verifier client for the identity service at
// baseURL. Every request carries the given timeout.
func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ ports.SignatureVerifier = (*HTTPVerifier)(nil)

type verifyRequest struct {
	DID       string `json:"did"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	IsValid bool `json:"isValid"`
	User    *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// Verify submits the signed challenge to the identity service. Transport
// errors, timeouts and non-200 responses all surface as ErrServiceUnavailable.
func (v *HTTPVerifier) Verify(ctx context.Context, did, challenge, signature string) (core.Verification, error) {
	body, err := json.Marshal(verifyRequest{
		DID:       did,
		Challenge: challenge,
		Signature: signature,
	})
	if err != nil {
		return core.Verification{}, fmt.Errorf("failed to encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return core.Verification{}, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return core.Verification{}, fmt.Errorf("verify request failed: %w", core.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Verification{}, fmt.Errorf("verify returned status %d: %w", resp.StatusCode, core.ErrServiceUnavailable)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return core.Verification{}, fmt.Errorf("failed to decode verify response: %w", core.ErrServiceUnavailable)
	}

	result := core.Verification{Valid: out.IsValid}
	if out.User != nil {
		result.Email = out.User.Email
		result.Name = out.User.Name
	}
	return result, nil
}
