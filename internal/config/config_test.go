package config

import (
	"testing"
)

// fakeBackend is an in-memory ConfigBackend for tests.
type fakeBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (f *fakeBackend) GetString(key string) (string, bool, error) {
	v, ok := f.strings[key]
	return v, ok, nil
}

func (f *fakeBackend) GetInt(key string) (int, bool, error) {
	v, ok := f.ints[key]
	return v, ok, nil
}

func (f *fakeBackend) SetString(key, val string) error {
	if f.strings == nil {
		f.strings = make(map[string]string)
	}
	f.strings[key] = val
	return nil
}

func (f *fakeBackend) SetInt(key string, val int) error {
	if f.ints == nil {
		f.ints = make(map[string]int)
	}
	f.ints[key] = val
	return nil
}

func (f *fakeBackend) Delete(key string) error {
	delete(f.strings, key)
	delete(f.ints, key)
	return nil
}

// TestDefaults verifies all default values are applied over an empty backend.
func TestDefaults(t *testing.T) {
	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Brief.MergePolicy != "monotonic" {
		t.Errorf("Brief.MergePolicy = %q, want %q", cfg.Brief.MergePolicy, "monotonic")
	}
	if cfg.Brief.DraftIdleDays != 14 {
		t.Errorf("Brief.DraftIdleDays = %d, want 14", cfg.Brief.DraftIdleDays)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir must have a default")
	}
}

// TestBackendValues verifies that backend values override defaults.
func TestBackendValues(t *testing.T) {
	b := &fakeBackend{
		strings: map[string]string{
			"storage.data_dir":   "/tmp/briefd-test",
			"log.level":          "debug",
			"brief.merge_policy": "fill-empty",
		},
		ints: map[string]int{
			"server.port":           5600,
			"brief.draft_idle_days": 7,
		},
	}

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5600 {
		t.Errorf("Server.Port = %d, want 5600", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/briefd-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Brief.MergePolicy != "fill-empty" {
		t.Errorf("Brief.MergePolicy = %q", cfg.Brief.MergePolicy)
	}
	if cfg.Brief.DraftIdleDays != 7 {
		t.Errorf("Brief.DraftIdleDays = %d", cfg.Brief.DraftIdleDays)
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	b := &fakeBackend{
		strings: map[string]string{"brief.merge_policy": "monotonic"},
		ints:    map[string]int{"server.port": 5600},
	}

	t.Setenv("BRIEFD_SERVER_PORT", "6600")
	t.Setenv("BRIEFD_BRIEF_MERGE_POLICY", "fill-empty")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6600 {
		t.Errorf("Server.Port = %d, want 6600", cfg.Server.Port)
	}
	if cfg.Brief.MergePolicy != "fill-empty" {
		t.Errorf("Brief.MergePolicy = %q, want %q", cfg.Brief.MergePolicy, "fill-empty")
	}
}

// TestEnvOverrideBadInt verifies a malformed integer env var is ignored.
func TestEnvOverrideBadInt(t *testing.T) {
	t.Setenv("BRIEFD_SERVER_PORT", "not-a-number")

	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want default 4600", cfg.Server.Port)
	}
}

func TestShowAll_CoversEveryKey(t *testing.T) {
	infos := ShowAll(defaults())
	if len(infos) != len(specs) {
		t.Fatalf("ShowAll returned %d keys, want %d", len(infos), len(specs))
	}
	for _, info := range infos {
		if info.Key == "" || info.EnvVar == "" {
			t.Errorf("incomplete key info: %+v", info)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	want := map[string]bool{
		"server.port": true, "storage.data_dir": true, "log.level": true,
		"brief.merge_policy": true, "brief.draft_idle_days": true,
	}
	if len(keys) != len(want) {
		t.Fatalf("ValidKeys returned %d keys, want %d", len(keys), len(want))
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}
