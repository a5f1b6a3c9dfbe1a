package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// GateConfig configures a MotionGate.
type GateConfig struct {
	// Threshold is the percentage of pixels that must change between frames
	// to count as motion. Zero or less disables gating: the gate stays active.
	Threshold float64
	// IdleFPS and ActiveFPS are the frame rates for the two gate states.
	IdleFPS   int
	ActiveFPS int
	// IdleTimeout is how long without motion before the gate goes idle.
	IdleTimeout time.Duration
}

// DefaultGateConfig returns a 1% threshold, 5/15 FPS and a 2s idle timeout.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Threshold:   1.0,
		IdleFPS:     5,
		ActiveFPS:   15,
		IdleTimeout: 2 * time.Second,
	}
}

// GateState is the outcome of observing one frame.
type GateState struct {
	// Active reports whether the frame should go to hand tracking.
	Active bool
	// Changed is set when this frame switched the gate between idle and active.
	Changed bool
	// Percent is the share of changed pixels against the previous frame.
	Percent float64
}

// MotionGate keeps hand tracking off while the scene is still. It uses
// frame differencing with Gaussian blur for noise reduction and stays
// active for IdleTimeout after the last motion.
type MotionGate struct {
	cfg         GateConfig
	prevGray    gocv.Mat
	initialized bool
	active      bool
	lastMotion  time.Time
	mu          sync.Mutex
}

// NewMotionGate creates an idle gate. Unset frame rates fall back to the defaults.
func NewMotionGate(cfg GateConfig) *MotionGate {
	def := DefaultGateConfig()
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = def.IdleFPS
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = def.ActiveFPS
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	return &MotionGate{
		cfg:      cfg,
		prevGray: gocv.NewMat(),
		active:   cfg.Threshold <= 0,
	}
}

// Observe updates the gate with a frame captured at now.
func (g *MotionGate) Observe(frame *gocv.Mat, now time.Time) GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cfg.Threshold <= 0 {
		return GateState{Active: true}
	}

	percent, ok := g.changePercent(frame)
	wasActive := g.active

	switch {
	case ok && percent > g.cfg.Threshold:
		g.lastMotion = now
		g.active = true
	case g.active && now.Sub(g.lastMotion) > g.cfg.IdleTimeout:
		g.active = false
	}

	return GateState{Active: g.active, Changed: g.active != wasActive, Percent: percent}
}

// FPS returns the frame rate for the current state.
func (g *MotionGate) FPS() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active {
		return g.cfg.ActiveFPS
	}
	return g.cfg.IdleFPS
}

// Active reports whether the gate is open.
func (g *MotionGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// changePercent compares frame with the previous one. The first frame only
// sets the baseline and reports ok=false.
func (g *MotionGate) changePercent(frame *gocv.Mat) (float64, bool) {
	if frame == nil || frame.Empty() {
		return 0, false
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return 0, false
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	blurred.CopyTo(&g.prevGray)

	return float64(nonZero) / float64(totalPixels) * 100.0, true
}

// Reset drops the baseline frame and returns the gate to its initial state.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// Close releases the baseline frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *MotionGate) reset() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
	g.active = g.cfg.Threshold <= 0
	g.lastMotion = time.Time{}
}
