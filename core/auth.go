package core

import "time"

// Challenge represents a pending authentication challenge bound to a DID.
type Challenge struct {
	DID       string    // DID the challenge was issued for
	Value     string    // Random value the holder of the DID's key must sign
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge expires
}

// Session represents an authenticated session for a verified DID.
type Session struct {
	ID            string    // Unique session identifier
	DID           string    // Verified DID; the only identifier trusted downstream
	Email         string    // Display metadata, never an authorization key
	Name          string    // Display metadata
	IssuedAt      time.Time // When the session was created
	AccessExpiry  time.Time // When the access capability expires
	RefreshExpiry time.Time // When the refresh capability expires
	RefreshID     string    // Unique identifier for the refresh token
}

// Verification is the outcome reported by a signature verifier.
// Email and Name are only populated when the verifier vouches for them.
type Verification struct {
	Valid bool
	Email string
	Name  string
}

// Credentials carries the raw material a client submits to an
// authentication strategy. Email is a legacy identity reference kept for
// backward compatibility; it is never used as the trust anchor.
type Credentials struct {
	Strategy  string
	Email     string
	DID       string
	Challenge string
	Signature string
}

// Principal is the identity a successful strategy authorization yields.
type Principal struct {
	DID   string
	Email string
	Name  string
}
