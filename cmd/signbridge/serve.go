package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/app"
	"github.com/ayusman/signbridge/internal/capture"
	"github.com/ayusman/signbridge/internal/hook"
	"github.com/ayusman/signbridge/internal/server"
	"github.com/ayusman/signbridge/internal/store"
	"github.com/ayusman/signbridge/internal/tray"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the camera pipeline and web server",
	Long: `Start the live detector and the web server.
The camera pipeline classifies gestures continuously and streams them to
browsers over /api/stream; the HTTP API also classifies posted frames and
maps speech to sign clips.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (overrides SIGNBRIDGE_ADDR)")
	serveCmd.Flags().Bool("no-camera", false, "Serve the API without opening the camera")
	serveCmd.Flags().Bool("mirror", true, "Mirror camera frames like a selfie view")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if addr := mustGetString(cmd, "addr"); addr != "" {
		cfg.Addr = addr
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	dispatch, err := cfg.Dispatch()
	if err != nil {
		return err
	}

	cameraOpts := capture.DefaultOptions()
	cameraOpts.DeviceID = cfg.CameraID
	cameraOpts.FPS = cfg.ActiveFPS
	cameraOpts.Mirror = mustGetBool(cmd, "mirror")

	gate := capture.DefaultGateConfig()
	gate.Threshold = cfg.MotionThreshold
	gate.IdleFPS = cfg.IdleFPS
	gate.ActiveFPS = cfg.ActiveFPS

	a := app.New(app.Config{
		CameraOptions:   cameraOpts,
		Gate:            gate,
		DetectorConfig:  cfg.Detector(),
		Dispatch:        dispatch,
		StabilizeWindow: cfg.StabilizeWindow,
		StabilizeVotes:  cfg.StabilizeVotes,
		Store:           st,
		Logger:          log,
	})

	hub := server.NewHub(log)
	a.Subscribe(hub.Publish)

	hooks := hook.NewManager(cfg.HooksDir)
	if err := hooks.Discover(); err != nil {
		log.Warn("discover hooks", zap.String("dir", cfg.HooksDir), zap.Error(err))
	}
	for _, h := range hooks.List() {
		log.Info("hook loaded", zap.String("name", h.Manifest.Name), zap.Strings("events", h.Manifest.Events))
	}
	runner := hook.NewRunner(hooks, hook.NewExecutor(cfg.HookTimeout), log)
	defer runner.Close()
	a.Subscribe(runner.Gesture)

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		log.Info("serving static files", zap.String("dir", webDir))
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Dispatcher: a.Dispatcher(),
		Resolver:   loadResolver(cfg, st, log),
		Pipeline:   a,
		Hub:        hub,
		Speech:     runner,
		Metrics:    cfg.Metrics,
		Logger:     log,
	})

	if !mustGetBool(cmd, "no-camera") {
		if err := a.Start(); err != nil {
			log.Warn("camera pipeline not started, API only", zap.Error(err))
		}
	}
	defer a.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retentionDone := make(chan struct{})
	go func() {
		defer close(retentionDone)
		runRetention(ctx, st, cfg.DetectionRetention, retentionInterval, log)
	}()
	defer func() {
		stop()
		<-retentionDone
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Addr)
	}()

	if cfg.Tray {
		runTray(ctx, stop, a, uiURL(cfg.Addr), log)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}
	return nil
}

// runTray blocks in the tray loop until quit is chosen or ctx ends.
func runTray(ctx context.Context, quit context.CancelFunc, a *app.App, url string, log *zap.Logger) {
	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Warn("open browser", zap.Error(err))
		}
	})
	t.OnQuit(quit)
	a.Subscribe(t.HandleEvent)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

// uiURL turns a listen address into a browsable URL.
func uiURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
