package store

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDetectionRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Detections()

	d := &Detection{
		Gesture:    "Help",
		Confidence: 90,
		Hands:      2,
		Hints:      []string{"detected", "detected"},
	}
	if err := repo.Create(d); err != nil {
		t.Fatalf("failed to create detection: %v", err)
	}

	if _, err := uuid.Parse(d.ID); err != nil {
		t.Errorf("expected a UUID, got %q", d.ID)
	}
	if d.DetectedAt.IsZero() {
		t.Error("DetectedAt should be set after create")
	}
	if d.Source != "camera" {
		t.Errorf("expected default source camera, got %q", d.Source)
	}

	got, err := repo.GetByID(d.ID)
	if err != nil {
		t.Fatalf("failed to get detection: %v", err)
	}
	if got.Gesture != "Help" || got.Confidence != 90 || got.Hands != 2 {
		t.Errorf("unexpected detection %+v", got)
	}
	if !reflect.DeepEqual(got.Hints, d.Hints) {
		t.Errorf("expected hints %v, got %v", d.Hints, got.Hints)
	}
	if !got.DetectedAt.Equal(d.DetectedAt) {
		t.Errorf("expected time %v, got %v", d.DetectedAt, got.DetectedAt)
	}
}

func TestDetectionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Detections().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDetectionRepository_Recent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Detections()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Hello", "I Love You", "Help", "Hello"} {
		d := &Detection{Gesture: name, Confidence: 85, DetectedAt: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create detection: %v", err)
		}
	}

	recent, err := repo.Recent(3)
	if err != nil {
		t.Fatalf("failed to list detections: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 detections, got %d", len(recent))
	}

	want := []string{"Hello", "Help", "I Love You"}
	for i, d := range recent {
		if d.Gesture != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], d.Gesture)
		}
	}

	counts, err := repo.CountByGesture()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if counts["Hello"] != 2 || counts["Help"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestDetectionRepository_Recent_Empty(t *testing.T) {
	s := newTestStore(t)

	recent, err := s.Detections().Recent(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recent == nil || len(recent) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", recent)
	}
}

func TestDetectionRepository_DeleteBefore(t *testing.T) {
	s := newTestStore(t)
	repo := s.Detections()

	old := &Detection{Gesture: "Hello", DetectedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &Detection{Gesture: "Help", DetectedAt: time.Now()}
	for _, d := range []*Detection{old, fresh} {
		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create detection: %v", err)
		}
	}

	n, err := repo.DeleteBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	if _, err := repo.GetByID(old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old detection should be gone, got %v", err)
	}
	if _, err := repo.GetByID(fresh.ID); err != nil {
		t.Errorf("fresh detection should remain: %v", err)
	}
}
