package detector

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the validated hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	raw := make([]Hand, 0, len(hands))
	for _, h := range hands {
		raw = append(raw, h.Hand())
	}
	m.SetRawHands(raw...)
}

// SetRawHands sets tracker-level hands, including malformed ones.
func (m *MockDetector) SetRawHands(hands ...Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(img *gocv.Mat) (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return Frame{}, m.err
	}
	return Frame{Hands: m.hands, Timestamp: time.Now()}, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Hand presets. All use image coordinates (y grows downward) for a right
// hand seen palm-forward by a non-mirrored camera: the thumb sits on the
// left of the image and extends further left.

// OpenPalmLandmarks returns an open hand with every finger extended and spread.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: string(Right), Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.72}
	lm.Points[ThumbIP] = Point3D{X: 0.36, Y: 0.66}
	lm.Points[ThumbTip] = Point3D{X: 0.33, Y: 0.60}

	lm.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.62}
	lm.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.52}
	lm.Points[IndexDIP] = Point3D{X: 0.43, Y: 0.46}
	lm.Points[IndexTip] = Point3D{X: 0.42, Y: 0.40}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.50}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.43}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.37}

	lm.Points[RingMCP] = Point3D{X: 0.55, Y: 0.62}
	lm.Points[RingPIP] = Point3D{X: 0.56, Y: 0.52}
	lm.Points[RingDIP] = Point3D{X: 0.57, Y: 0.46}
	lm.Points[RingTip] = Point3D{X: 0.58, Y: 0.40}

	lm.Points[PinkyMCP] = Point3D{X: 0.59, Y: 0.65}
	lm.Points[PinkyPIP] = Point3D{X: 0.61, Y: 0.57}
	lm.Points[PinkyDIP] = Point3D{X: 0.62, Y: 0.52}
	lm.Points[PinkyTip] = Point3D{X: 0.63, Y: 0.48}

	return lm
}

// ILoveYouLandmarks returns the ASL "I love you" hand: thumb, index and
// pinky extended, middle and ring folded.
func ILoveYouLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()

	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.63}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.66}

	lm.Points[RingPIP] = Point3D{X: 0.55, Y: 0.60}
	lm.Points[RingDIP] = Point3D{X: 0.55, Y: 0.65}
	lm.Points[RingTip] = Point3D{X: 0.55, Y: 0.68}

	return lm
}

// FistLandmarks returns a closed fist with the thumb wrapped over the fingers.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: string(Right), Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.42, Y: 0.72}
	lm.Points[ThumbIP] = Point3D{X: 0.45, Y: 0.68}
	lm.Points[ThumbTip] = Point3D{X: 0.49, Y: 0.67}

	lm.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.62}
	lm.Points[IndexPIP] = Point3D{X: 0.45, Y: 0.58}
	lm.Points[IndexDIP] = Point3D{X: 0.46, Y: 0.63}
	lm.Points[IndexTip] = Point3D{X: 0.46, Y: 0.66}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.61}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.57}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.62}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.65}

	lm.Points[RingMCP] = Point3D{X: 0.55, Y: 0.62}
	lm.Points[RingPIP] = Point3D{X: 0.55, Y: 0.58}
	lm.Points[RingDIP] = Point3D{X: 0.55, Y: 0.63}
	lm.Points[RingTip] = Point3D{X: 0.54, Y: 0.66}

	lm.Points[PinkyMCP] = Point3D{X: 0.59, Y: 0.65}
	lm.Points[PinkyPIP] = Point3D{X: 0.59, Y: 0.62}
	lm.Points[PinkyDIP] = Point3D{X: 0.59, Y: 0.66}
	lm.Points[PinkyTip] = Point3D{X: 0.58, Y: 0.69}

	return lm
}

// PointingLandmarks returns a hand with only the index finger raised.
// It matches no single-hand gesture.
func PointingLandmarks() HandLandmarks {
	lm := FistLandmarks()

	lm.Points[IndexPIP] = Point3D{X: 0.45, Y: 0.52}
	lm.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.46}
	lm.Points[IndexTip] = Point3D{X: 0.45, Y: 0.40}

	return lm
}

// ThumbsUpLandmarks returns a fist with the thumb sticking out sideways,
// the pose used as the "thumb" hand of the two-handed Help sign.
func ThumbsUpLandmarks() HandLandmarks {
	lm := FistLandmarks()

	lm.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.66}
	lm.Points[ThumbTip] = Point3D{X: 0.36, Y: 0.60}

	return lm
}

// Translate returns a copy of the hand shifted by (dx, dy).
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	t := h
	for i := range t.Points {
		t.Points[i].X += dx
		t.Points[i].Y += dy
	}
	return t
}

// WithHandedness returns a copy of the hand with a different handedness label.
func (h HandLandmarks) WithHandedness(label string) HandLandmarks {
	c := h
	c.Handedness = label
	return c
}
