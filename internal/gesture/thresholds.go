package gesture

import (
	"errors"
	"fmt"
)

// Thresholds holds every tunable constant of the rule-based classifiers.
// Distances are in normalized image units.
type Thresholds struct {
	// HelloSpread is the maximum vertical spread of the five fingertips for a level open hand.
	HelloSpread float64 `yaml:"hello_spread"`
	// HelloFingerGap is the minimum index-to-pinky tip distance for a spread open hand.
	HelloFingerGap float64 `yaml:"hello_finger_gap"`

	// PalmMargin is the minimum margin added around the palm box for thumb contact.
	PalmMargin float64 `yaml:"palm_margin"`
	// PalmMarginRatio scales the palm margin with the palm box size.
	PalmMarginRatio float64 `yaml:"palm_margin_ratio"`
	// HelpDistanceFactor multiplies the palm box's larger side to bound the hand center distance.
	HelpDistanceFactor float64 `yaml:"help_distance_factor"`
	// HelpDistanceSlack is added to the center distance bound.
	HelpDistanceSlack float64 `yaml:"help_distance_slack"`
	// OpenFingerCount is how many of the four fingers must be extended for an open palm.
	OpenFingerCount int `yaml:"open_finger_count"`

	ILoveYouConfidence int `yaml:"i_love_you_confidence"`
	YesConfidence      int `yaml:"yes_confidence"`
	HelpConfidence     int `yaml:"help_confidence"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HelloSpread:        0.22,
		HelloFingerGap:     0.06,
		PalmMargin:         0.06,
		PalmMarginRatio:    0.25,
		HelpDistanceFactor: 2.0,
		HelpDistanceSlack:  0.1,
		OpenFingerCount:    3,
		ILoveYouConfidence: 85,
		YesConfidence:      90,
		HelpConfidence:     90,
	}
}

// Validate checks that every threshold is usable.
func (t Thresholds) Validate() error {
	var errs []error

	positive := map[string]float64{
		"hello_spread":         t.HelloSpread,
		"hello_finger_gap":     t.HelloFingerGap,
		"palm_margin":          t.PalmMargin,
		"palm_margin_ratio":    t.PalmMarginRatio,
		"help_distance_factor": t.HelpDistanceFactor,
	}
	for name, v := range positive {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	if t.HelpDistanceSlack < 0 {
		errs = append(errs, fmt.Errorf("help_distance_slack must not be negative, got %v", t.HelpDistanceSlack))
	}
	if t.OpenFingerCount < 1 || t.OpenFingerCount > 4 {
		errs = append(errs, fmt.Errorf("open_finger_count must be between 1 and 4, got %d", t.OpenFingerCount))
	}

	confidences := map[string]int{
		"i_love_you_confidence": t.ILoveYouConfidence,
		"yes_confidence":        t.YesConfidence,
		"help_confidence":       t.HelpConfidence,
	}
	for name, v := range confidences {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 100, got %d", name, v))
		}
	}

	return errors.Join(errs...)
}
