package services

import (
	"sync"
	"time"

	"afdian-bridge/pkg/logging"
)

// CorrelationRegistry maps a correlation token (the payment remark, derived
// from the requesting user's id) to the destination that should receive the
// confirmation once the matching order arrives. Entries resolve at most once.
//
// Entries expire after the configured TTL so that an order the platform never
// reports cannot leak memory or match an unrelated future payment that reuses
// the token. A TTL of zero disables expiry.
type CorrelationRegistry struct {
	entries         map[string]correlationEntry
	mutex           sync.Mutex
	ttl             time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type correlationEntry struct {
	destination  string
	registeredAt time.Time
}

// NewCorrelationRegistry creates a registry; ttl <= 0 keeps entries forever.
func NewCorrelationRegistry(ttl time.Duration) *CorrelationRegistry {
	r := &CorrelationRegistry{
		entries:         make(map[string]correlationEntry),
		ttl:             ttl,
		cleanupInterval: 10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	if ttl > 0 {
		go r.startCleanupRoutine()
	}

	return r
}

// Register records a pending reply target. Re-registration for the same token
// overwrites the previous entry (last registration wins).
func (r *CorrelationRegistry) Register(token, destination string) {
	if token == "" {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.entries[token] = correlationEntry{
		destination:  destination,
		registeredAt: time.Now(),
	}
	logging.Infof("Correlation registered - token: %s, pending: %d", token, len(r.entries))
}

// Resolve atomically removes the entry for token and returns its destination.
// Returns false when the token is unknown or expired, so two concurrent
// deliveries with the same remark resolve at most once.
func (r *CorrelationRegistry) Resolve(token string) (string, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, exists := r.entries[token]
	if !exists {
		return "", false
	}
	delete(r.entries, token)

	if r.ttl > 0 && time.Since(entry.registeredAt) > r.ttl {
		logging.Infof("Correlation expired at resolve - token: %s", token)
		return "", false
	}
	return entry.destination, true
}

// Len returns the number of pending entries.
func (r *CorrelationRegistry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}

// Close stops the cleanup goroutine.
func (r *CorrelationRegistry) Close() {
	r.stopOnce.Do(func() {
		close(r.stopCleanup)
	})
}

// startCleanupRoutine 启动清理协程
func (r *CorrelationRegistry) startCleanupRoutine() {
	ticker := time.NewTicker(r.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

// cleanup 清理过期的关联记录
func (r *CorrelationRegistry) cleanup() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	initialCount := len(r.entries)

	for token, entry := range r.entries {
		if now.Sub(entry.registeredAt) > r.ttl {
			delete(r.entries, token)
		}
	}

	cleanedCount := initialCount - len(r.entries)
	if cleanedCount > 0 {
		logging.Infof("Correlation cleanup: removed %d expired entries, remaining: %d", cleanedCount, len(r.entries))
	}
}
