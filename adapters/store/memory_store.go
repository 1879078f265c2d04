package store

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type challengeEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryChallengeStore is an in-memory implementation of the ChallengeStore
// interface for tests and single-node deployments.
type MemoryChallengeStore struct {
	entries map[string]challengeEntry
	mu      sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// NewMemoryChallengeStore creates a new in-memory challenge store and starts
// its background sweeper.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	s := &MemoryChallengeStore{
		entries: make(map[string]challengeEntry),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put registers a pending challenge for a DID, replacing any prior one.
func (s *MemoryChallengeStore) Put(ctx context.Context, did, challenge string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[did] = challengeEntry{
		value:     challenge,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Take consumes the pending challenge for a DID. The entry is removed before
// the value is compared, so a mismatched attempt spends the challenge too.
// False does not reveal whether the entry was missing, expired or mismatched.
func (s *MemoryChallengeStore) Take(ctx context.Context, did, challenge string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[did]
	if !ok {
		return false, nil
	}
	delete(s.entries, did)

	if time.Now().After(entry.expiresAt) {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.value), []byte(challenge)) != 1 {
		return false, nil
	}
	return true, nil
}

// Close stops the background sweeper.
func (s *MemoryChallengeStore) Close() {
	s.once.Do(func() { close(s.done) })
}

// sweep evicts expired entries so abandoned challenges do not accumulate.
func (s *MemoryChallengeStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for did, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, did)
				}
			}
			s.mu.Unlock()
		}
	}
}

// MemoryRevocationStore is an in-memory implementation of the RevocationStore
// interface.
type MemoryRevocationStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

// NewMemoryRevocationStore creates a new in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a token ID as revoked for the given duration.
func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiryTime := time.Now().Add(ttl)
	s.revoked[tokenID] = expiryTime

	// Drop the record once the revocation itself has expired.
	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		if storedExpiry, exists := s.revoked[tokenID]; exists && !storedExpiry.After(expiryTime) {
			delete(s.revoked, tokenID)
		}
	}()

	return nil
}

// IsRevoked checks whether a token ID is currently revoked.
func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiryTime, exists := s.revoked[tokenID]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiryTime) {
		return false, nil
	}
	return true, nil
}
