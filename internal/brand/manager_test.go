package brand

import (
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	profiles []AudienceProfile
	lists    int
	saveErr  error
}

func (f *fakeStore) SaveAudience(p AudienceProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, existing := range f.profiles {
		if existing.ID == p.ID {
			f.profiles[i] = p
			return nil
		}
	}
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeStore) ListAudiences() ([]AudienceProfile, error) {
	f.lists++
	return append([]AudienceProfile(nil), f.profiles...), nil
}

func (f *fakeStore) DeleteAudience(id string) error {
	for i, p := range f.profiles {
		if p.ID == id {
			f.profiles = append(f.profiles[:i], f.profiles[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestManager_CachesWithinTTL(t *testing.T) {
	store := &fakeStore{profiles: []AudienceProfile{{ID: "a1", Name: "Founders"}}}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManagerWithClock(store, clock, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := m.Audiences(); err != nil {
			t.Fatalf("Audiences call %d: %v", i, err)
		}
	}
	if store.lists != 1 {
		t.Errorf("expected 1 storage read within TTL, got %d", store.lists)
	}

	clock.advance(2 * time.Minute)
	if _, err := m.Audiences(); err != nil {
		t.Fatalf("Audiences after expiry: %v", err)
	}
	if store.lists != 2 {
		t.Errorf("expected reload after TTL, got %d reads", store.lists)
	}
}

func TestManager_SaveInvalidatesCache(t *testing.T) {
	store := &fakeStore{}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManagerWithClock(store, clock, time.Minute)

	if _, err := m.Audiences(); err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if err := m.Save(AudienceProfile{ID: "a1", Name: "Founders"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := m.Audiences()
	if err != nil {
		t.Fatalf("Audiences after save: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Founders" {
		t.Errorf("expected fresh read after save, got %v", got)
	}
}

func TestManager_DeleteInvalidatesCache(t *testing.T) {
	store := &fakeStore{profiles: []AudienceProfile{{ID: "a1", Name: "Founders"}}}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManagerWithClock(store, clock, time.Minute)

	if _, err := m.Audiences(); err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if err := m.Delete("a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := m.Audiences()
	if err != nil {
		t.Fatalf("Audiences after delete: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list after delete, got %v", got)
	}
}

func TestManager_SaveErrorKeepsCache(t *testing.T) {
	store := &fakeStore{profiles: []AudienceProfile{{ID: "a1", Name: "Founders"}}}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManagerWithClock(store, clock, time.Minute)

	if _, err := m.Audiences(); err != nil {
		t.Fatalf("Audiences: %v", err)
	}

	store.saveErr = errors.New("disk full")
	if err := m.Save(AudienceProfile{ID: "a2", Name: "Parents"}); err == nil {
		t.Fatal("expected save error")
	}

	if _, err := m.Audiences(); err != nil {
		t.Fatalf("Audiences after failed save: %v", err)
	}
	if store.lists != 1 {
		t.Errorf("failed save must not invalidate cache, got %d reads", store.lists)
	}
}

// TestManager_CallersGetCopies mutating a returned slice must not leak into
// the cache.
func TestManager_CallersGetCopies(t *testing.T) {
	store := &fakeStore{profiles: []AudienceProfile{
		{ID: "a1", Name: "Founders", JobTitles: []string{"CEO"}},
	}}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManagerWithClock(store, clock, time.Minute)

	first, err := m.Audiences()
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	first[0].Name = "Mutated"
	first[0].JobTitles[0] = "Mutated"

	second, err := m.Audiences()
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if second[0].Name != "Founders" || second[0].JobTitles[0] != "CEO" {
		t.Errorf("cache mutated through returned copy: %+v", second[0])
	}
}
