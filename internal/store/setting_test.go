package store

import (
	"errors"
	"testing"
)

func TestSettingRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingEnabled); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}
	if !repo.Bool(SettingEnabled, true) {
		t.Error("expected default true for unset key")
	}

	if err := repo.SetBool(SettingEnabled, false); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if repo.Bool(SettingEnabled, true) {
		t.Error("expected stored false")
	}

	if err := repo.Set(SettingEnabled, "maybe"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if !repo.Bool(SettingEnabled, true) {
		t.Error("unparsable value should fall back to the default")
	}
}
