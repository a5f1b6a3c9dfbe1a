package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the tracked hands in report order.
	// Returns a frame with no hands if nothing is tracked.
	Detect(img *gocv.Mat) (Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// ModelComplexity selects the landmark model (0 = lite, 1 = full).
	ModelComplexity int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the tracker settings the sign detector was tuned with.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		ModelComplexity: 1,
		MinConfidence:   0.6,
		MinTrackingConf: 0.5,
	}
}

// Args renders the config as command-line flags for the tracking service.
func (c Config) Args() []string {
	return []string{
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--model-complexity", strconv.Itoa(c.ModelComplexity),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
}
