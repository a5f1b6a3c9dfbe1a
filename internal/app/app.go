// Package app runs the live sign recognition pipeline: camera, hand tracking,
// gesture dispatch, smoothing and fan-out to listeners.
package app

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/capture"
	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	// Camera overrides the device camera built from CameraOptions.
	Camera        capture.Camera
	CameraOptions capture.Options
	Gate          capture.GateConfig

	// Detector overrides the MediaPipe tracker built from DetectorConfig.
	Detector       detector.Detector
	DetectorConfig detector.Config

	Dispatch gesture.Options
	// StabilizeWindow > 1 smooths the reported gesture over that many frames.
	StabilizeWindow int
	StabilizeVotes  int

	// Store, when set, receives a detection each time the stable gesture changes.
	Store  *store.Store
	Logger *zap.Logger
}

// Event is what listeners receive for every processed frame.
type Event struct {
	Report gesture.Report `json:"report"`
	// Stable is the smoothed gesture. Without a stabilizer it equals Report.Gesture.
	Stable    string    `json:"stable"`
	Changed   bool      `json:"changed"`
	Caption   string    `json:"caption"`
	Timestamp time.Time `json:"timestamp"`
}

// Listener is notified synchronously from the pipeline goroutine and must not block.
type Listener func(Event)

// App is the main application that orchestrates gesture detection.
type App struct {
	config     Config
	logger     *zap.Logger
	camera     capture.Camera
	gate       *capture.MotionGate
	detector   detector.Detector
	dispatcher *gesture.Dispatcher
	stabilizer *gesture.Stabilizer
	listeners  []Listener
	last       Event
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	config.Dispatch.Logger = logger

	a := &App{
		config:     config,
		logger:     logger,
		camera:     config.Camera,
		gate:       capture.NewMotionGate(config.Gate),
		detector:   config.Detector,
		dispatcher: gesture.NewDispatcher(config.Dispatch),
		enabled:    true,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraOptions)
	}

	if config.StabilizeWindow > 1 {
		a.stabilizer = gesture.NewStabilizer(config.StabilizeWindow, config.StabilizeVotes)
	}

	if config.Store != nil {
		a.enabled = config.Store.Settings().Bool(store.SettingEnabled, true)
	}

	// Try MediaPipe first, fall back to mock detector
	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig, logger); err == nil {
			a.detector = mp
			logger.Info("using MediaPipe hand tracking")
		} else {
			logger.Warn("MediaPipe not available, using mock detector", zap.Error(err))
			a.detector = detector.NewMockDetector()
		}
	}

	return a
}

// Subscribe registers a listener for processed frames.
func (a *App) Subscribe(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// SetEnabled enables or disables gesture detection and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	if !enabled && a.stabilizer != nil {
		a.stabilizer.Reset()
	}
	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			a.logger.Warn("persist enabled setting", zap.Error(err))
		}
	}
	a.logger.Info("detection toggled", zap.Bool("enabled", enabled))
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Last returns the most recent event.
func (a *App) Last() Event {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Dispatcher returns the dispatcher used for every frame.
func (a *App) Dispatcher() *gesture.Dispatcher {
	return a.dispatcher
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.gate.FPS())

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.logger.Info("detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("close camera", zap.Error(err))
	}

	a.gate.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.logger.Warn("close detector", zap.Error(err))
		}
	}

	if a.stabilizer != nil {
		a.stabilizer.Reset()
	}

	a.logger.Info("detection pipeline stopped")
}
