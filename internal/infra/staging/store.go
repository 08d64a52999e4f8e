package staging

import (
	"sync"
	"time"

	"shop-api/internal/domain/order"
	"shop-api/internal/pkg/clock"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long a staged checkout stays valid before the user
	// must run checkout again.
	DefaultTTL = 5 * time.Minute

	// DefaultSweepInterval is how often the background sweep collects
	// expired entries.
	DefaultSweepInterval = 30 * time.Second
)

type entry struct {
	snapshot  order.Snapshot
	expiresAt time.Time
}

// Store holds at most one pending checkout snapshot per user, in memory.
// Entries expire after the TTL; expiry is checked lazily on read and swept
// periodically in the background. Losing the contents on restart is fine:
// a staged checkout is recoverable by running checkout again.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry

	ttl           time.Duration
	sweepInterval time.Duration
	clock         clock.Clock

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewStore(clk clock.Clock, ttl, sweepInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	return &Store{
		entries:       make(map[uuid.UUID]entry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		clock:         clk,
		stopSweep:     make(chan struct{}),
	}
}

// Set stages a snapshot for the user, overwriting any prior entry and
// restarting its expiry window.
func (s *Store) Set(userID uuid.UUID, snapshot order.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = entry{
		snapshot:  snapshot,
		expiresAt: s.clock.Now().Add(s.ttl),
	}
}

// Get returns the staged snapshot for the user, or false if none is staged
// or the entry has expired. Reading does not consume the entry.
func (s *Store) Get(userID uuid.UUID) (order.Snapshot, bool) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()

	if !ok {
		return order.Snapshot{}, false
	}

	if !s.clock.Now().Before(e.expiresAt) {
		s.clearIfExpired(userID, e)
		return order.Snapshot{}, false
	}

	return e.snapshot, true
}

// clearIfExpired removes the user's entry only if it is still the expired one
// observed by the caller. A snapshot staged between the read and this delete
// must survive, so the entry is re-checked under the write lock.
func (s *Store) clearIfExpired(userID uuid.UUID, observed entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.entries[userID]
	if ok && cur.snapshot.ID == observed.snapshot.ID && cur.expiresAt.Equal(observed.expiresAt) {
		delete(s.entries, userID)
	}
}

// Clear removes the user's staged entry. Clearing an absent entry is a no-op.
func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
}

// Start launches the background sweep goroutine.
func (s *Store) Start() {
	s.wg.Add(1)
	go s.sweepLoop()
}

// Close stops the background sweep and waits for it to finish.
func (s *Store) Close() {
	close(s.stopSweep)
	s.wg.Wait()
}

func (s *Store) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *Store) sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, userID)
		}
	}
}

// Len reports the number of live entries, expired or not yet swept included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
