package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// guardEntry represents a stored identifier with expiration
type guardEntry struct {
	expiresAt time.Time
}

// InMemoryReplayGuard implements shared.ReplayGuard using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryReplayGuard struct {
	mu        sync.RWMutex
	entries   map[string]guardEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReplayGuard creates a new in-memory replay guard.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryReplayGuard() *InMemoryReplayGuard {
	guard := &InMemoryReplayGuard{
		entries:  make(map[string]guardEntry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// MarkProcessed implements shared.ReplayGuard
func (g *InMemoryReplayGuard) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[id]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// Entry exists but expired, will be overwritten
	}

	g.entries[id] = guardEntry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemoryReplayGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (g *InMemoryReplayGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemoryReplayGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for id, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, id)
		}
	}
}

// Size returns the number of entries in the guard (for testing)
func (g *InMemoryReplayGuard) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

var _ shared.ReplayGuard = (*InMemoryReplayGuard)(nil)
