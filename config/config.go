// Package config loads service configuration from the environment. Required
// values are validated up front so the service refuses to start instead of
// degrading silently.
package config

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/theweboftrust/wot.id/core"
)

// Config holds the process-wide configuration.
type Config struct {
	ListenAddr         string
	RedisURL           string
	IdentityServiceURL string
	SigningKeyID       string
	SigningKeyPEM      []byte
	ResolveTimeout     time.Duration
	VerifyTimeout      time.Duration
}

// Load reads configuration from the environment. A missing or malformed
// required value is reported as ErrConfiguration.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getenv("WOTID_LISTEN_ADDR", ":9000"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		SigningKeyID:   getenv("SESSION_SIGNING_KEY_ID", "wotid-session-1"),
		ResolveTimeout: 5 * time.Second,
		VerifyTimeout:  10 * time.Second,
	}

	cfg.IdentityServiceURL = os.Getenv("IDENTITY_SERVICE_URL")
	if cfg.IdentityServiceURL == "" {
		return nil, fmt.Errorf("IDENTITY_SERVICE_URL must be set: %w", core.ErrConfiguration)
	}

	keyPEM, err := loadSigningKeyPEM()
	if err != nil {
		return nil, err
	}
	cfg.SigningKeyPEM = keyPEM

	if raw := os.Getenv("WOTID_RESOLVE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid WOTID_RESOLVE_TIMEOUT %q: %w", raw, core.ErrConfiguration)
		}
		cfg.ResolveTimeout = d
	}
	if raw := os.Getenv("WOTID_VERIFY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid WOTID_VERIFY_TIMEOUT %q: %w", raw, core.ErrConfiguration)
		}
		cfg.VerifyTimeout = d
	}

	return cfg, nil
}

// SigningKey parses the configured PEM-encoded ECDSA private key.
func (c *Config) SigningKey() (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(c.SigningKeyPEM)
	if block == nil {
		return nil, fmt.Errorf("session signing key is not PEM: %w", core.ErrConfiguration)
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cannot parse session signing key: %w", core.ErrConfiguration)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("session signing key is not ECDSA: %w", core.ErrConfiguration)
	}
	return key, nil
}

func loadSigningKeyPEM() ([]byte, error) {
	if inline := os.Getenv("SESSION_SIGNING_KEY"); inline != "" {
		return []byte(inline), nil
	}
	if path := os.Getenv("SESSION_SIGNING_KEY_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read SESSION_SIGNING_KEY_FILE: %w", core.ErrConfiguration)
		}
		return data, nil
	}
	return nil, fmt.Errorf("SESSION_SIGNING_KEY or SESSION_SIGNING_KEY_FILE must be set: %w", core.ErrConfiguration)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
