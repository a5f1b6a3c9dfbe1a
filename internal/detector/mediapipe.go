package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// DefaultIdleTimeout is how long the tracking subprocess may sit unused before it is stopped.
const DefaultIdleTimeout = 30 * time.Second

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Protocol: each request is a 4-byte big-endian length followed by a JPEG
// image on stdin; each response is one JSON line on stdout.
type MediaPipeDetector struct {
	config      Config
	scriptPath  string
	idleTimeout time.Duration
	logger      *zap.Logger

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, logger *zap.Logger) (*MediaPipeDetector, error) {
	scriptPath := findScript("hands_service.py")
	if scriptPath == "" {
		return nil, fmt.Errorf("hands_service.py not found")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MediaPipeDetector{
		config:      config,
		scriptPath:  scriptPath,
		idleTimeout: DefaultIdleTimeout,
		logger:      logger,
	}, nil
}

// Detect sends a frame to the tracking service and returns the reported hands.
// Hands are returned as reported; validation happens at classification time.
func (d *MediaPipeDetector) Detect(img *gocv.Mat) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if img == nil || img.Empty() {
		return Frame{}, fmt.Errorf("empty frame")
	}

	if err := d.ensureStarted(); err != nil {
		return Frame{}, err
	}

	buf, err := gocv.IMEncode(".jpg", *img)
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return Frame{}, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return Frame{}, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return Frame{}, fmt.Errorf("read response: %w", err)
	}

	frame, err := DecodeFrame(line)
	if err != nil {
		return Frame{}, err
	}
	frame.Timestamp = time.Now()

	d.resetIdleTimer()

	return frame, nil
}

// DecodeFrame parses one JSON response line from the tracking service.
func DecodeFrame(line []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(line, &frame); err != nil {
		return Frame{}, fmt.Errorf("parse response: %w", err)
	}
	return frame, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findScript("venv/bin/python")
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := append([]string{d.scriptPath}, d.config.Args()...)
	d.cmd = exec.Command(pythonPath, args...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start hands service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	d.logger.Info("hand tracking service started",
		zap.String("python", pythonPath),
		zap.Int("max_hands", d.config.MaxHands))

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	d.logger.Info("hand tracking service stopped")
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.idleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			d.logger.Warn("idle shutdown", zap.Error(err))
		}
	})
}

// findScript looks for a file relative to the working directory, the
// executable, and ~/.signbridge.
func findScript(name string) string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", name),
		filepath.Join("..", "scripts", name),
		name,
		filepath.Join("..", name),
		filepath.Join(execDir, "scripts", name),
		filepath.Join(execDir, name),
		filepath.Join(os.Getenv("HOME"), ".signbridge", "scripts", name),
		filepath.Join(os.Getenv("HOME"), ".signbridge", name),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
