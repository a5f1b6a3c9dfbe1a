// Package gesture classifies sign-language gestures from hand landmarks.
//
// The classifiers are rule-based and purely geometric: every call looks only
// at the landmarks passed in, so a Classifier or Dispatcher can be shared by
// any number of goroutines. Temporal smoothing lives in Stabilizer, on top.
package gesture

import "github.com/ayusman/signbridge/internal/detector"

// Gesture names.
const (
	Hello    = "Hello"
	ILoveYou = "I Love You"
	Yes      = "Yes"
	Help     = "Help"
)

// Result is a classified gesture with a heuristic confidence in [0,100].
type Result struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
}

// HandInput is one validated hand and the side used for thumb direction.
type HandInput struct {
	Landmarks *detector.HandLandmarks
	Side      detector.Handedness
}

// Classifier runs the single-hand and two-hand rules.
type Classifier struct {
	thresholds  Thresholds
	defaultSide detector.Handedness
}

// NewClassifier creates a Classifier. Hands whose side is Unknown are
// treated as defaultSide; an Unknown defaultSide means Right.
func NewClassifier(t Thresholds, defaultSide detector.Handedness) *Classifier {
	if defaultSide == detector.Unknown {
		defaultSide = detector.Right
	}
	return &Classifier{thresholds: t, defaultSide: defaultSide}
}

func (c *Classifier) isRight(side detector.Handedness) bool {
	if side == detector.Unknown {
		side = c.defaultSide
	}
	return side == detector.Right
}
