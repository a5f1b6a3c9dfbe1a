// Package hook runs external executables when gestures are detected or
// speech is resolved to sign clips.
//
// A hook lives in its own directory under the hooks directory and is
// described by a hook.json manifest. Each event is written to the
// executable's stdin as one JSON Request; the executable answers with one
// JSON Response on stdout.
package hook

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/ayusman/signbridge/internal/hook/protocol"
)

const (
	EventGesture = protocol.EventGesture
	EventSpeech  = protocol.EventSpeech
)

// Protocol messages, re-exported for the runner and its callers.
type (
	Request  = protocol.Request
	Response = protocol.Response
)

// Manifest describes a hook's metadata and the events it receives.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	// Timeout overrides the executor's per-run timeout, e.g. "2m" for a hook
	// that plays media before answering.
	Timeout string          `json:"timeout,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// RunTimeout parses Timeout. It returns zero when the manifest sets none.
func (m Manifest) RunTimeout() (time.Duration, error) {
	if m.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", m.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
	// Timeout is the manifest's per-run timeout; zero means the executor default.
	Timeout time.Duration
}

// Wants reports whether the hook subscribed to event.
func (h *Hook) Wants(event string) bool {
	return slices.Contains(h.Manifest.Events, event)
}
