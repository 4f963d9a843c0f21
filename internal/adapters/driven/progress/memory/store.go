// Package memory provides an in-memory progress store with TTL eviction.
package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
)

const (
	// DefaultTTL is how long a terminal progress record stays readable.
	DefaultTTL = 10 * time.Minute

	// DefaultSweepInterval is how often expired records are evicted.
	DefaultSweepInterval = 1 * time.Minute
)

// Ensure Store implements the interface.
var _ driven.ProgressStore = (*Store)(nil)

// entry pairs a progress snapshot with its eviction deadline.
// In-flight records carry a zero deadline and are never evicted;
// the deadline is set when the record turns terminal.
type entry struct {
	progress  domain.IngestProgress
	expiresAt time.Time
}

// Store tracks ingestion progress keyed by request ID. Terminal records
// (completed or failed) are kept for a TTL so late pollers still see the
// outcome, then swept by a background janitor.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl    time.Duration
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewStore creates a progress store with the default TTL and sweep interval.
func NewStore() *Store {
	return NewStoreWithTTL(DefaultTTL, DefaultSweepInterval)
}

// NewStoreWithTTL creates a progress store with explicit timings.
// Non-positive values fall back to the defaults.
func NewStoreWithTTL(ttl, sweepInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.sweepLoop(sweepInterval)

	return s
}

// Put stores or replaces the progress snapshot for a request.
func (s *Store) Put(progress domain.IngestProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{progress: progress}
	if progress.Status.IsTerminal() {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[progress.RequestID] = e
}

// Get returns the progress snapshot for a request.
func (s *Store) Get(requestID string) (domain.IngestProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[requestID]
	if !ok {
		return domain.IngestProgress{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return domain.IngestProgress{}, false
	}
	return e.progress, true
}

// Close stops the eviction janitor.
func (s *Store) Close() error {
	close(s.stopCh)
	s.wg.Wait()
	return nil
}

// sweepLoop evicts expired terminal records until Close is called.
func (s *Store) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep removes entries whose deadline has passed.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
