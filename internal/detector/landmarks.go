// Package detector provides hand tracking types and the bridge to the MediaPipe hand landmarker.
package detector

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

var (
	// ErrMalformedHand is returned when a hand does not carry exactly NumLandmarks points.
	ErrMalformedHand = errors.New("malformed hand")
	// ErrNonFiniteLandmark is returned when a landmark coordinate is NaN or infinite.
	ErrNonFiniteLandmark = errors.New("non-finite landmark coordinate")
)

// Handedness identifies which physical hand a set of landmarks belongs to,
// as reported by the tracker (not mirrored).
type Handedness string

const (
	Left    Handedness = "Left"
	Right   Handedness = "Right"
	Unknown Handedness = ""
)

// ParseHandedness matches a tracker label case-insensitively by prefix.
// Labels that are neither left nor right yield Unknown.
func ParseHandedness(label string) Handedness {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "right"):
		return Right
	case strings.HasPrefix(l, "left"):
		return Left
	default:
		return Unknown
	}
}

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point3D) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// NewHandLandmarks builds a hand from a variable-length point list.
// Anything other than exactly NumLandmarks points is rejected with ErrMalformedHand.
func NewHandLandmarks(points []Point3D, handedness string, score float64) (HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return HandLandmarks{}, fmt.Errorf("%w: got %d landmarks, want %d", ErrMalformedHand, len(points), NumLandmarks)
	}

	h := HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	copy(h.Points[:], points)
	return h, nil
}

// Side returns the parsed handedness label.
func (h HandLandmarks) Side() Handedness {
	return ParseHandedness(h.Handedness)
}

// Validate reports ErrNonFiniteLandmark if any coordinate is NaN or infinite.
func (h HandLandmarks) Validate() error {
	for i, p := range h.Points {
		if !p.finite() {
			return fmt.Errorf("%w: landmark %d", ErrNonFiniteLandmark, i)
		}
	}
	return nil
}

// Hand is a hand as reported by the tracker, before validation. Points may
// have any length; Landmarks enforces the invariants.
type Hand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// Landmarks validates the hand and returns its fixed-size landmark set.
func (h Hand) Landmarks() (HandLandmarks, error) {
	lm, err := NewHandLandmarks(h.Points, h.Handedness, h.Score)
	if err != nil {
		return HandLandmarks{}, err
	}
	if err := lm.Validate(); err != nil {
		return HandLandmarks{}, err
	}
	return lm, nil
}

// Hand converts validated landmarks back to the tracker representation.
func (h HandLandmarks) Hand() Hand {
	points := make([]Point3D, NumLandmarks)
	copy(points, h.Points[:])
	return Hand{Points: points, Handedness: h.Handedness, Score: h.Score}
}

// Frame is the set of hands tracked in a single video frame, in tracker report order.
type Frame struct {
	Hands     []Hand    `json:"hands"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFrame builds a frame from validated hands.
func NewFrame(ts time.Time, hands ...HandLandmarks) Frame {
	f := Frame{Timestamp: ts, Hands: make([]Hand, 0, len(hands))}
	for _, h := range hands {
		f.Hands = append(f.Hands, h.Hand())
	}
	return f
}

// Mirror returns a copy with every x coordinate reflected around 0.5 and the
// handedness label swapped. It is what a selfie-view camera does to a hand.
func (h HandLandmarks) Mirror() HandLandmarks {
	m := h
	for i := range m.Points {
		m.Points[i].X = 1 - m.Points[i].X
	}
	switch h.Side() {
	case Right:
		m.Handedness = string(Left)
	case Left:
		m.Handedness = string(Right)
	}
	return m
}
