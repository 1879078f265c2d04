package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/theweboftrust/wot.id/core"
)

func TestHTTPVerifier_Valid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, verifyPath, r.URL.Path)

		var req struct {
			DID       string `json:"did"`
			Challenge string `json:"challenge"`
			Signature string `json:"signature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "did:example:123", req.DID)
		require.Equal(t, "abc123", req.Challenge)
		require.Equal(t, "sig", req.Signature)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isValid": true, "user": {"email": "user@example.com", "name": "Example User"}}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, time.Second)

	result, err := v.Verify(context.Background(), "did:example:123", "abc123", "sig")
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "user@example.com", result.Email)
	require.Equal(t, "Example User", result.Name)
}

func TestHTTPVerifier_Invalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isValid": false}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, time.Second)

	result, err := v.Verify(context.Background(), "did:example:123", "abc123", "sig")
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Empty(t, result.Email)
}

func TestHTTPVerifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, time.Second)

	_, err := v.Verify(context.Background(), "did:example:123", "abc123", "sig")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)
}

func TestHTTPVerifier_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"isValid": true}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, 20*time.Millisecond)

	_, err := v.Verify(context.Background(), "did:example:123", "abc123", "sig")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)
}

func TestHTTPVerifier_Unreachable(t *testing.T) {
	// Port from a closed listener: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := NewHTTPVerifier(url, time.Second)

	_, err := v.Verify(context.Background(), "did:example:123", "abc123", "sig")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)
}
