package gesture

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/detector"
)

// Hint tells the overlay renderer how to draw one hand.
type Hint string

const (
	// HintNone draws the hand in the default color.
	HintNone Hint = "none"
	// HintDetected highlights a hand that is part of a detected gesture.
	HintDetected Hint = "detected"
	// HintRejected marks a hand whose landmarks were malformed.
	HintRejected Hint = "rejected"
)

// DefaultSurfacedGestures are the gestures a frame may report. Yes is
// classified but not surfaced.
var DefaultSurfacedGestures = []string{Hello, ILoveYou, Help}

// Report is the outcome of dispatching one frame.
type Report struct {
	// Gesture is the frame's detected gesture, or empty.
	Gesture    string `json:"gesture"`
	Confidence int    `json:"confidence"`
	// Hints has one entry per reported hand, in report order. Nil for an empty frame.
	Hints []Hint `json:"hints"`
	Hands int    `json:"hands"`
}

// Detected reports whether the frame carries a gesture.
func (r Report) Detected() bool {
	return r.Gesture != ""
}

// Caption is the status line shown above the camera view.
func (r Report) Caption() string {
	if !r.Detected() {
		return "Sign Language Detector"
	}
	return "Current Gesture: " + r.Gesture
}

// PairSelector picks which two of the reported hands feed the two-hand
// classifier. It is only called with at least two hands.
type PairSelector func(hands []detector.Hand) (first, second int)

// FirstTwo selects the first two hands in tracker report order.
func FirstTwo(hands []detector.Hand) (int, int) {
	return 0, 1
}

// MostConfident selects the two hands with the highest tracker score,
// keeping report order between them and on ties.
func MostConfident(hands []detector.Hand) (int, int) {
	order := make([]int, len(hands))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case hands[a].Score > hands[b].Score:
			return -1
		case hands[a].Score < hands[b].Score:
			return 1
		}
		return 0
	})
	first, second := order[0], order[1]
	if first > second {
		first, second = second, first
	}
	return first, second
}

// Options configures a Dispatcher.
type Options struct {
	Thresholds Thresholds
	// DefaultHandedness applies to hands without a recognizable label. Defaults to Right.
	DefaultHandedness detector.Handedness
	// SurfacedGestures lists the gestures a frame may report. Defaults to DefaultSurfacedGestures.
	SurfacedGestures []string
	// Selector chooses the two-hand pair. Defaults to FirstTwo.
	Selector PairSelector
	Logger   *zap.Logger
}

// DefaultOptions returns the reference dispatch policy.
func DefaultOptions() Options {
	return Options{
		Thresholds:        DefaultThresholds(),
		DefaultHandedness: detector.Right,
		SurfacedGestures:  DefaultSurfacedGestures,
		Selector:          FirstTwo,
	}
}

// Dispatcher turns a tracked frame into at most one gesture plus per-hand hints.
// It holds no per-frame state.
type Dispatcher struct {
	classifier *Classifier
	surfaced   map[string]bool
	selector   PairSelector
	logger     *zap.Logger
}

// NewDispatcher creates a Dispatcher from opts, filling unset fields with defaults.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.SurfacedGestures == nil {
		opts.SurfacedGestures = DefaultSurfacedGestures
	}
	if opts.Selector == nil {
		opts.Selector = FirstTwo
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	surfaced := make(map[string]bool, len(opts.SurfacedGestures))
	for _, name := range opts.SurfacedGestures {
		surfaced[name] = true
	}

	return &Dispatcher{
		classifier: NewClassifier(opts.Thresholds, opts.DefaultHandedness),
		surfaced:   surfaced,
		selector:   opts.Selector,
		logger:     opts.Logger,
	}
}

// Surfaces reports whether a gesture name may be reported for a frame.
func (d *Dispatcher) Surfaces(name string) bool {
	return d.surfaced[name]
}

// Dispatch classifies one frame.
//
// One hand goes through the single-hand rules. Two or more hands go through
// the two-hand rules once for the selected pair; without a match each hand
// is still checked on its own, but only to set its hint: the frame reports
// no gesture.
func (d *Dispatcher) Dispatch(frame detector.Frame) Report {
	report := Report{Hands: len(frame.Hands)}
	if len(frame.Hands) == 0 {
		return report
	}

	report.Hints = make([]Hint, len(frame.Hands))
	inputs := make([]HandInput, len(frame.Hands))
	for i, raw := range frame.Hands {
		report.Hints[i] = HintNone

		lm, err := raw.Landmarks()
		if err != nil {
			report.Hints[i] = HintRejected
			d.logger.Debug("hand rejected", zap.Int("hand", i), zap.Error(err))
			continue
		}
		inputs[i] = HandInput{Landmarks: &lm, Side: lm.Side()}
	}

	if len(frame.Hands) == 1 {
		if res, ok := d.single(inputs[0]); ok {
			report.Gesture = res.Name
			report.Confidence = res.Confidence
			report.Hints[0] = HintDetected
		}
		return report
	}

	first, second := d.selector(frame.Hands)
	if res, ok := d.classifier.ClassifyTwo(inputs[first], inputs[second]); ok && d.Surfaces(res.Name) {
		report.Gesture = res.Name
		report.Confidence = res.Confidence
		report.Hints[first] = HintDetected
		report.Hints[second] = HintDetected
		return report
	}

	for i, in := range inputs {
		if _, ok := d.single(in); ok {
			report.Hints[i] = HintDetected
		}
	}
	return report
}

// single runs the single-hand rules and keeps only surfaced gestures.
func (d *Dispatcher) single(in HandInput) (Result, bool) {
	res, ok := d.classifier.ClassifySingle(in.Landmarks, in.Side)
	if !ok || !d.Surfaces(res.Name) {
		return Result{}, false
	}
	return res, true
}
