// Package protocol holds the JSON messages exchanged with hook executables.
// It has no dependencies so hooks can import it without the detector stack.
package protocol

import (
	"encoding/json"
	"time"
)

// Event names a hook can subscribe to.
const (
	EventGesture = "gesture"
	EventSpeech  = "speech"
)

// Request is sent to a hook's stdin for one event.
type Request struct {
	Event      string          `json:"event"`
	Gesture    string          `json:"gesture,omitempty"`
	Confidence int             `json:"confidence,omitempty"`
	Text       string          `json:"text,omitempty"`
	Clips      []string        `json:"clips,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Response is what a hook writes back on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
