package gesture

import (
	"testing"

	"github.com/ayusman/signbridge/internal/detector"
)

func input(h detector.HandLandmarks) HandInput {
	return HandInput{Landmarks: &h, Side: h.Side()}
}

// helpPair returns a thumbs-up hand whose thumb rests on an open palm.
func helpPair() (thumb, palm detector.HandLandmarks) {
	return detector.ThumbsUpLandmarks().Translate(0.05, 0), detector.OpenPalmLandmarks()
}

func TestClassifier_ClassifyTwo(t *testing.T) {
	c := NewClassifier(DefaultThresholds(), detector.Right)
	thumb, palm := helpPair()

	tests := []struct {
		name   string
		a, b   detector.HandLandmarks
		wantOK bool
	}{
		{name: "thumb on palm", a: thumb, b: palm, wantOK: true},
		{name: "palm under thumb", a: palm, b: thumb, wantOK: true},
		{name: "left thumb on left palm", a: thumb.Mirror(), b: palm.Mirror(), wantOK: true},
		{name: "hands far apart", a: detector.ThumbsUpLandmarks().Translate(0.45, 0), b: palm, wantOK: false},
		{name: "thumb below the palm", a: detector.ThumbsUpLandmarks().Translate(0.05, 0.2), b: palm, wantOK: false},
		{name: "thumb folded", a: detector.FistLandmarks().Translate(0.05, 0), b: palm, wantOK: false},
		{name: "other hand not open", a: thumb, b: detector.PointingLandmarks().Translate(0.1, 0), wantOK: false},
		{
			name:   "two open palms side by side",
			a:      detector.OpenPalmLandmarks().Translate(-0.3, 0),
			b:      detector.OpenPalmLandmarks().Translate(0.3, 0),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ClassifyTwo(input(tt.a), input(tt.b))
			if ok != tt.wantOK {
				t.Fatalf("ClassifyTwo() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (got.Name != Help || got.Confidence != 90) {
				t.Errorf("ClassifyTwo() = %+v, want Help/90", got)
			}

			// The relation is symmetric in the two hands.
			_, swapped := c.ClassifyTwo(input(tt.b), input(tt.a))
			if swapped != ok {
				t.Errorf("swapped ok = %v, want %v", swapped, ok)
			}
		})
	}
}

func TestClassifier_ClassifyTwo_DistanceLimit(t *testing.T) {
	thumb, palm := helpPair()

	th := DefaultThresholds()
	th.HelpDistanceFactor = 0.01
	th.HelpDistanceSlack = 0.01
	c := NewClassifier(th, detector.Right)

	if got, ok := c.ClassifyTwo(input(thumb), input(palm)); ok {
		t.Errorf("expected the centers to be too far apart, got %+v", got)
	}
}

func TestClassifier_ClassifyTwo_OpenFingerCount(t *testing.T) {
	thumb := detector.ThumbsUpLandmarks().Translate(0.05, 0)

	// Two of four fingers raised.
	palm := detector.OpenPalmLandmarks()
	palm.Points[detector.RingTip].Y = 0.70
	palm.Points[detector.PinkyTip].Y = 0.70

	strict := NewClassifier(DefaultThresholds(), detector.Right)
	if _, ok := strict.ClassifyTwo(input(thumb), input(palm)); ok {
		t.Error("expected no match with two raised fingers and open_finger_count=3")
	}

	th := DefaultThresholds()
	th.OpenFingerCount = 2
	loose := NewClassifier(th, detector.Right)
	if _, ok := loose.ClassifyTwo(input(thumb), input(palm)); !ok {
		t.Error("expected a match with open_finger_count=2")
	}
}

func TestClassifier_ClassifyTwo_Nil(t *testing.T) {
	c := NewClassifier(DefaultThresholds(), detector.Right)
	_, palm := helpPair()

	if _, ok := c.ClassifyTwo(HandInput{}, input(palm)); ok {
		t.Error("expected no match with a missing hand")
	}
}
