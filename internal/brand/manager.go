package brand

import (
	"fmt"
	"sync"
	"time"
)

// AudienceStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type AudienceStore interface {
	SaveAudience(p AudienceProfile) error
	ListAudiences() ([]AudienceProfile, error)
	DeleteAudience(id string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached access to the brand's audience profiles. Every
// inference turn reads the profile list, so it is cached with a short TTL
// and invalidated on writes.
type Manager struct {
	store AudienceStore
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   []AudienceProfile
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store AudienceStore) *Manager {
	return &Manager{
		store: store,
		clock: realClock{},
		ttl:   60 * time.Second,
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store AudienceStore, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Audiences returns the brand's audience profiles from cache or storage.
// Callers get their own copy and may not see writes made within the TTL by
// other processes.
func (m *Manager) Audiences() ([]AudienceProfile, error) {
	// Fast path: read lock for cache hit.
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		profiles := copyProfiles(m.cached)
		m.mu.RUnlock()
		return profiles, nil
	}
	m.mu.RUnlock()

	// Slow path: write lock for cache miss.
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return copyProfiles(m.cached), nil
	}

	profiles, err := m.store.ListAudiences()
	if err != nil {
		return nil, fmt.Errorf("loading audience profiles: %w", err)
	}
	if profiles == nil {
		profiles = []AudienceProfile{}
	}

	m.cached = profiles
	m.cachedAt = m.clock.Now()
	return copyProfiles(profiles), nil
}

// Save persists a profile and invalidates the cache.
func (m *Manager) Save(p AudienceProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SaveAudience(p); err != nil {
		return fmt.Errorf("saving audience profile %q: %w", p.ID, err)
	}
	m.cached = nil
	return nil
}

// Delete removes a profile and invalidates the cache.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.DeleteAudience(id); err != nil {
		return fmt.Errorf("deleting audience profile %q: %w", id, err)
	}
	m.cached = nil
	return nil
}

func copyProfiles(profiles []AudienceProfile) []AudienceProfile {
	out := make([]AudienceProfile, len(profiles))
	for i, p := range profiles {
		cp := p
		if p.JobTitles != nil {
			cp.JobTitles = append([]string(nil), p.JobTitles...)
		}
		if p.Industries != nil {
			cp.Industries = append([]string(nil), p.Industries...)
		}
		if p.Psychographics != nil {
			cp.Psychographics = append([]string(nil), p.Psychographics...)
		}
		out[i] = cp
	}
	return out
}
