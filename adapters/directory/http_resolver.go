package directory

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

const resolvePath = "/api/v1/identity/resolve"

// HTTPResolver resolves identity references through the external identity
// directory. The directory owns the email-to-DID mapping; this adapter only
// queries it.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a directory client for the service at baseURL.
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ ports.Resolver = (*HTTPResolver)(nil)

type resolveRequest struct {
	Email string `json:"email"`
}

type resolveResponse struct {
	DID string `json:"did"`
}

// Resolve looks up the DID registered for an identity reference. A 404 means
// no DID is associated (ErrResolution); anything else that is not a 200 is a
// directory outage (ErrServiceUnavailable).
func (r *HTTPResolver) Resolve(ctx context.Context, identityRef string) (string, error) {
	body, err := json.Marshal(resolveRequest{Email: identityRef})
	if err != nil {
		return "", fmt.Errorf("failed to encode resolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+resolvePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve request failed: %w", core.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", core.ErrResolution
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("resolve returned status %d: %w", resp.StatusCode, core.ErrServiceUnavailable)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode resolve response: %w", core.ErrServiceUnavailable)
	}
	if out.DID == "" {
		return "", fmt.Errorf("resolve returned empty did: %w", core.ErrServiceUnavailable)
	}
	return out.DID, nil
}
