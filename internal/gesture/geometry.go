package gesture

import (
	"math"

	"github.com/ayusman/signbridge/internal/detector"
)

// Box is an axis-aligned bounding box in normalized image coordinates.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
	CX, CY     float64
	W, H       float64
}

// IsFingerExtended reports whether the tip landmark lies above the base
// landmark in image space (y grows downward). Ties are not extended.
func IsFingerExtended(hand *detector.HandLandmarks, tip, base int) bool {
	return hand.Points[tip].Y < hand.Points[base].Y
}

// IsThumbExtended reports whether the thumb points away from the palm.
// Thumb extension is lateral, so the direction depends on handedness.
func IsThumbExtended(hand *detector.HandLandmarks, isRight bool) bool {
	tip := hand.Points[detector.ThumbTip]
	base := hand.Points[detector.ThumbMCP]
	if isRight {
		return tip.X < base.X
	}
	return tip.X > base.X
}

// BoundingBox computes the box enclosing all landmarks of the hand.
func BoundingBox(hand *detector.HandLandmarks) Box {
	b := Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range hand.Points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	b.CX = (b.MinX + b.MaxX) / 2
	b.CY = (b.MinY + b.MaxY) / 2
	b.W = b.MaxX - b.MinX
	b.H = b.MaxY - b.MinY
	return b
}

// IsThumbTouchingPalm approximates "thumb resting on the other hand's palm":
// the thumb tip must fall horizontally inside the palm box grown by a margin,
// and no lower than the palm's vertical center plus the margin.
func IsThumbTouchingPalm(thumbHand *detector.HandLandmarks, palm Box, t Thresholds) bool {
	tip := thumbHand.Points[detector.ThumbTip]
	marginX := math.Max(t.PalmMargin, palm.W*t.PalmMarginRatio)
	marginY := math.Max(t.PalmMargin, palm.H*t.PalmMarginRatio)

	withinX := tip.X >= palm.MinX-marginX && tip.X <= palm.MaxX+marginX
	withinY := tip.Y <= palm.CY+marginY
	return withinX && withinY
}

// CenterDistance is the Euclidean distance between two box centers.
func CenterDistance(a, b Box) float64 {
	return math.Hypot(a.CX-b.CX, a.CY-b.CY)
}

// fingers holds the extension state of each finger of one hand.
type fingers struct {
	thumb, index, middle, ring, pinky bool
}

func readFingers(hand *detector.HandLandmarks, isRight bool) fingers {
	return fingers{
		thumb:  IsThumbExtended(hand, isRight),
		index:  IsFingerExtended(hand, detector.IndexTip, detector.IndexMCP),
		middle: IsFingerExtended(hand, detector.MiddleTip, detector.MiddleMCP),
		ring:   IsFingerExtended(hand, detector.RingTip, detector.RingMCP),
		pinky:  IsFingerExtended(hand, detector.PinkyTip, detector.PinkyMCP),
	}
}

// count returns how many of the five digits are extended.
func (f fingers) count() int {
	n := f.open()
	if f.thumb {
		n++
	}
	return n
}

// open returns how many of the four non-thumb fingers are extended.
func (f fingers) open() int {
	n := 0
	for _, ext := range []bool{f.index, f.middle, f.ring, f.pinky} {
		if ext {
			n++
		}
	}
	return n
}
