package auth

import (
	"context"
	"sync"
	"time"

	"storeauth.org/internal/obs"
)

// RevocationStore is the denylist of token identifiers terminated before
// their natural expiry. It is the only shared mutable state in the engine:
// implementations must support many concurrent readers and writers, and
// once Revoke returns, every subsequently started IsRevoked for the same
// id must observe true.
type RevocationStore interface {
	// Revoke inserts a denylist entry. Revoking an already-revoked id is
	// a no-op success.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// IsRevoked is a point lookup by token id.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// PurgeExpired removes entries whose expiry has passed and reports how
	// many were removed. Skipping purges leaks capacity, not correctness:
	// an expired entry can never again match a live token.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// MemoryRevocationStore keeps the denylist in process memory. Suitable for
// a single service instance and for tests; horizontally scaled deployments
// must use the shared PostgreSQL store or the visibility guarantee breaks.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[tokenID]; ok {
		return nil
	}
	s.entries[tokenID] = expiresAt
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[tokenID]
	return ok, nil
}

func (s *MemoryRevocationStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the current number of denylist entries.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RunPurger periodically discards expired denylist entries until ctx is
// cancelled. It is independent of request-serving paths and exits cleanly
// on shutdown.
func RunPurger(ctx context.Context, store RevocationStore, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				obs.LogEvent(map[string]any{
					"level": "error",
					"msg":   "revocation purge failed",
					"error": err.Error(),
				})
				continue
			}
			if removed > 0 {
				obs.RevokedTokensPurged(removed)
				obs.LogEvent(map[string]any{
					"level":   "info",
					"msg":     "revocation purge",
					"removed": removed,
				})
			}
		}
	}
}
