package gesture

import (
	"math"

	"github.com/ayusman/signbridge/internal/detector"
)

var fingertips = [5]int{
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// ClassifySingle matches one hand against the single-hand gestures.
// Rules are tried in priority order: Hello, I Love You, Yes.
func (c *Classifier) ClassifySingle(hand *detector.HandLandmarks, side detector.Handedness) (Result, bool) {
	if hand == nil {
		return Result{}, false
	}

	f := readFingers(hand, c.isRight(side))

	if f.count() == 5 && (fingertipSpread(hand) < c.thresholds.HelloSpread || fingerGap(hand) > c.thresholds.HelloFingerGap) {
		return Result{
			Name:       Hello,
			Confidence: int(math.Round(100 * float64(f.count()) / 5)),
		}, true
	}

	if f.thumb && f.index && f.pinky && !f.middle && !f.ring {
		return Result{Name: ILoveYou, Confidence: c.thresholds.ILoveYouConfidence}, true
	}

	if f.count() == 0 {
		return Result{Name: Yes, Confidence: c.thresholds.YesConfidence}, true
	}

	return Result{}, false
}

// fingertipSpread is the vertical range of the five fingertips.
func fingertipSpread(hand *detector.HandLandmarks) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range fingertips {
		y := hand.Points[i].Y
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return hi - lo
}

// fingerGap is the distance between the index and pinky tips.
func fingerGap(hand *detector.HandLandmarks) float64 {
	a := hand.Points[detector.IndexTip]
	b := hand.Points[detector.PinkyTip]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
