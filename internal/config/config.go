// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML thresholds file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
)

// Config holds every runtime setting. Fields map to SIGNBRIDGE_* variables.
type Config struct {
	DataDir string `env:"SIGNBRIDGE_DATA_DIR"`
	WebDir  string `env:"SIGNBRIDGE_WEB_DIR"`
	Addr    string `env:"SIGNBRIDGE_ADDR" envDefault:":8080"`

	CameraID        int     `env:"SIGNBRIDGE_CAMERA_ID"        envDefault:"0"`
	IdleFPS         int     `env:"SIGNBRIDGE_IDLE_FPS"         envDefault:"5"`
	ActiveFPS       int     `env:"SIGNBRIDGE_ACTIVE_FPS"       envDefault:"15"`
	MotionThreshold float64 `env:"SIGNBRIDGE_MOTION_THRESHOLD" envDefault:"1.0"`

	MaxHands        int     `env:"SIGNBRIDGE_MAX_HANDS"               envDefault:"2"`
	ModelComplexity int     `env:"SIGNBRIDGE_MODEL_COMPLEXITY"        envDefault:"1"`
	MinDetection    float64 `env:"SIGNBRIDGE_MIN_DETECTION_CONFIDENCE" envDefault:"0.6"`
	MinTracking     float64 `env:"SIGNBRIDGE_MIN_TRACKING_CONFIDENCE"  envDefault:"0.5"`

	DefaultHandedness string   `env:"SIGNBRIDGE_DEFAULT_HANDEDNESS" envDefault:"Right"`
	SurfacedGestures  []string `env:"SIGNBRIDGE_SURFACED_GESTURES"  envSeparator:","`
	PairSelector      string   `env:"SIGNBRIDGE_PAIR_SELECTOR"      envDefault:"first"`
	StabilizeWindow   int      `env:"SIGNBRIDGE_STABILIZE_WINDOW"   envDefault:"1"`
	StabilizeVotes    int      `env:"SIGNBRIDGE_STABILIZE_VOTES"    envDefault:"0"`
	ThresholdsFile    string   `env:"SIGNBRIDGE_THRESHOLDS_FILE"`
	MappingFile       string   `env:"SIGNBRIDGE_MAPPING_FILE"`

	HooksDir    string        `env:"SIGNBRIDGE_HOOKS_DIR"`
	HookTimeout time.Duration `env:"SIGNBRIDGE_HOOK_TIMEOUT" envDefault:"5s"`

	// DetectionRetention is how long detections are kept; 0 keeps them forever.
	DetectionRetention time.Duration `env:"SIGNBRIDGE_DETECTION_RETENTION" envDefault:"720h"`

	Metrics  bool   `env:"SIGNBRIDGE_METRICS" envDefault:"true"`
	Tray     bool   `env:"SIGNBRIDGE_TRAY"    envDefault:"false"`
	LogLevel string `env:"LOG_LEVEL"          envDefault:"info"`
}

// Load reads a .env file if present, then parses the environment.
// DataDir defaults to ~/.signbridge and HooksDir to DataDir/hooks.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".signbridge")
	}
	if cfg.HooksDir == "" {
		cfg.HooksDir = filepath.Join(cfg.DataDir, "hooks")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got idle=%d active=%d", c.IdleFPS, c.ActiveFPS))
	}
	if c.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("max hands must be at least 1, got %d", c.MaxHands))
	}
	if c.StabilizeWindow < 1 {
		errs = append(errs, fmt.Errorf("stabilize window must be at least 1, got %d", c.StabilizeWindow))
	}
	if c.HookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("hook timeout must be positive, got %s", c.HookTimeout))
	}
	if c.DetectionRetention < 0 {
		errs = append(errs, fmt.Errorf("detection retention must not be negative, got %s", c.DetectionRetention))
	}
	if c.PairSelector != "first" && c.PairSelector != "confident" {
		errs = append(errs, fmt.Errorf("pair selector must be \"first\" or \"confident\", got %q", c.PairSelector))
	}
	return errors.Join(errs...)
}

// DBPath is the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "signbridge.db")
}

// Detector returns the hand tracker settings.
func (c *Config) Detector() detector.Config {
	return detector.Config{
		MaxHands:        c.MaxHands,
		ModelComplexity: c.ModelComplexity,
		MinConfidence:   c.MinDetection,
		MinTrackingConf: c.MinTracking,
	}
}

// Dispatch builds the dispatcher options, loading thresholds from
// ThresholdsFile when set.
func (c *Config) Dispatch() (gesture.Options, error) {
	opts := gesture.DefaultOptions()

	if c.ThresholdsFile != "" {
		t, err := LoadThresholds(c.ThresholdsFile)
		if err != nil {
			return gesture.Options{}, err
		}
		opts.Thresholds = t
	}

	if side := detector.ParseHandedness(c.DefaultHandedness); side != detector.Unknown {
		opts.DefaultHandedness = side
	}
	if len(c.SurfacedGestures) > 0 {
		opts.SurfacedGestures = c.SurfacedGestures
	}
	if c.PairSelector == "confident" {
		opts.Selector = gesture.MostConfident
	}
	return opts, nil
}

// LoadThresholds reads a YAML file over the default thresholds. Keys
// missing from the file keep their defaults.
func LoadThresholds(path string) (gesture.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gesture.Thresholds{}, fmt.Errorf("read thresholds: %w", err)
	}

	t := gesture.DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return gesture.Thresholds{}, fmt.Errorf("parse thresholds %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return gesture.Thresholds{}, fmt.Errorf("invalid thresholds %s: %w", path, err)
	}
	return t, nil
}
