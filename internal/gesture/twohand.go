package gesture

import "math"

// ClassifyTwo matches a pair of hands against the two-hand gestures.
// Help is one hand's extended thumb resting on the other hand's open palm;
// the pair is tried in both orders.
func (c *Classifier) ClassifyTwo(a, b HandInput) (Result, bool) {
	if a.Landmarks == nil || b.Landmarks == nil {
		return Result{}, false
	}

	if c.thumbOnPalm(a, b) || c.thumbOnPalm(b, a) {
		return Result{Name: Help, Confidence: c.thresholds.HelpConfidence}, true
	}
	return Result{}, false
}

// thumbOnPalm reports whether thumb's extended thumb rests on palm's open hand.
func (c *Classifier) thumbOnPalm(thumb, palm HandInput) bool {
	t := c.thresholds

	if !IsThumbExtended(thumb.Landmarks, c.isRight(thumb.Side)) {
		return false
	}
	if readFingers(palm.Landmarks, c.isRight(palm.Side)).open() < t.OpenFingerCount {
		return false
	}

	thumbBox := BoundingBox(thumb.Landmarks)
	palmBox := BoundingBox(palm.Landmarks)
	if !IsThumbTouchingPalm(thumb.Landmarks, palmBox, t) {
		return false
	}

	limit := math.Max(palmBox.W, palmBox.H)*t.HelpDistanceFactor + t.HelpDistanceSlack
	return CenterDistance(thumbBox, palmBox) < limit
}
