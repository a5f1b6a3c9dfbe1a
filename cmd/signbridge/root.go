package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/config"
	"github.com/ayusman/signbridge/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "signbridge",
	Short: "Rule-based sign language gesture detector",
	Long: `SignBridge tracks hands with MediaPipe, classifies a small set of
sign-language gestures (Hello, I Love You, Help) from the landmarks and
maps recognized speech to sign video clips.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration (including an optional .env file) and builds the logger every command uses.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
