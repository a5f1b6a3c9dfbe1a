package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/signbridge/internal/app"
	"github.com/ayusman/signbridge/internal/gesture"
)

// recordingHook appends every request it receives to requests.jsonl in its directory.
const recordingHook = `#!/bin/sh
cat >> requests.jsonl
echo >> requests.jsonl
echo '{"success":true}'
`

func readRequests(t *testing.T, hookDir string) []Request {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(hookDir, "requests.jsonl"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read requests: %v", err)
	}

	var reqs []Request
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var r Request
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		reqs = append(reqs, r)
	}
	return reqs
}

func TestRunner(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	gestureDir := writeHook(t, dir, Manifest{Name: "gestures", Executable: "run.sh", Events: []string{EventGesture}}, recordingHook)
	speechDir := writeHook(t, dir, Manifest{Name: "speech", Executable: "run.sh", Events: []string{EventSpeech}}, recordingHook)

	manager := NewManager(dir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	runner := NewRunner(manager, NewExecutor(5*time.Second), nil)

	now := time.Now()
	runner.Gesture(app.Event{Stable: gesture.Hello, Changed: true, Report: gesture.Report{Confidence: 100}, Timestamp: now})
	runner.Gesture(app.Event{Stable: gesture.Hello, Timestamp: now})
	runner.Gesture(app.Event{Stable: "", Changed: true, Timestamp: now})
	runner.Speech("hello", []string{"hello.mp4"})
	runner.Close()

	gestures := readRequests(t, gestureDir)
	if len(gestures) != 1 {
		t.Fatalf("gesture hook got %d requests, want 1", len(gestures))
	}
	if gestures[0].Event != EventGesture || gestures[0].Gesture != gesture.Hello || gestures[0].Confidence != 100 {
		t.Errorf("gesture request = %+v", gestures[0])
	}

	speech := readRequests(t, speechDir)
	if len(speech) != 1 {
		t.Fatalf("speech hook got %d requests, want 1", len(speech))
	}
	if speech[0].Text != "hello" || len(speech[0].Clips) != 1 {
		t.Errorf("speech request = %+v", speech[0])
	}
}

func TestRunner_ClosedDropsEvents(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	hookDir := writeHook(t, dir, Manifest{Name: "speech", Executable: "run.sh", Events: []string{EventSpeech}}, recordingHook)

	manager := NewManager(dir)
	manager.Discover()
	runner := NewRunner(manager, NewExecutor(5*time.Second), nil)
	runner.Close()
	runner.Close()

	runner.Speech("late", []string{"late.mp4"})

	if got := readRequests(t, hookDir); len(got) != 0 {
		t.Errorf("closed runner delivered %d requests", len(got))
	}
}

func TestRunner_SlowHookWithOwnTimeout(t *testing.T) {
	skipOnWindows(t)

	// Stands in for a media player that answers only after playback.
	slowPlayer := `#!/bin/sh
sleep 1
cat >> requests.jsonl
echo >> requests.jsonl
echo '{"success":true}'
`
	dir := t.TempDir()
	hookDir := writeHook(t, dir, Manifest{
		Name:       "player",
		Executable: "play.sh",
		Events:     []string{EventSpeech},
		Timeout:    "10s",
	}, slowPlayer)

	manager := NewManager(dir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	runner := NewRunner(manager, NewExecutor(100*time.Millisecond), nil)

	runner.Speech("hello help", []string{"hello.mp4", "help.mp4"})
	runner.Close()

	got := readRequests(t, hookDir)
	if len(got) != 1 {
		t.Fatalf("player got %d requests, want 1", len(got))
	}
	if len(got[0].Clips) != 2 {
		t.Errorf("clips = %v, want both clips", got[0].Clips)
	}
}
