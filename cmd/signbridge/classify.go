package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/metrics"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <frames.jsonl|->",
	Short: "Classify recorded landmark frames",
	Long: `Classify a file of recorded frames, one JSON frame per line:

  {"hands": [{"points": [{"x": 0.5, "y": 0.7, "z": 0}, ...], "handedness": "Right", "score": 0.98}]}

Pass "-" to read from stdin. Each frame is dispatched exactly like a camera
frame; a summary of detected gestures is printed at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Bool("json", false, "Print one JSON report per frame")
	classifyCmd.Flags().Int("stabilize", 0, "Smooth reports over this many frames (overrides SIGNBRIDGE_STABILIZE_WINDOW)")
}

// frameResult is one line of --json output.
type frameResult struct {
	Line   int            `json:"line"`
	Report gesture.Report `json:"report"`
	Stable string         `json:"stable"`
	Error  string         `json:"error,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := cfg.Dispatch()
	if err != nil {
		return err
	}
	opts.Logger = log
	dispatcher := gesture.NewDispatcher(opts)

	window := cfg.StabilizeWindow
	if n := mustGetInt(cmd, "stabilize"); n > 0 {
		window = n
	}
	stabilizer := gesture.NewStabilizer(window, cfg.StabilizeVotes)

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	jsonOutput := mustGetBool(cmd, "json")
	out := cmd.OutOrStdout()

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(bytes.Count(data, []byte("\n"))+1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Classifying frames"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	summary, err := classifyFrames(bytes.NewReader(data), dispatcher, stabilizer, func(r frameResult) error {
		if bar != nil {
			bar.Add(1)
		}
		if r.Error != "" {
			log.Warn("skipping frame", zap.Int("line", r.Line), zap.String("error", r.Error))
		}
		if !jsonOutput {
			return nil
		}
		return json.NewEncoder(out).Encode(r)
	})
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	if !jsonOutput {
		printSummary(out, summary)
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	return data, nil
}

// classifySummary counts what a run of frames produced.
type classifySummary struct {
	Frames   int
	Skipped  int
	Rejected int
	// Detections counts changes of the stable gesture to each value.
	Detections map[string]int
}

// classifyFrames dispatches every JSON line of r. Lines that fail to parse
// are reported through emit and skipped.
func classifyFrames(r io.Reader, d *gesture.Dispatcher, s *gesture.Stabilizer, emit func(frameResult) error) (classifySummary, error) {
	summary := classifySummary{Detections: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		var frame detector.Frame
		if err := json.Unmarshal(text, &frame); err != nil {
			summary.Skipped++
			if err := emit(frameResult{Line: line, Error: err.Error()}); err != nil {
				return summary, err
			}
			continue
		}
		if frame.Timestamp.IsZero() {
			frame.Timestamp = time.Now()
		}

		report := d.Dispatch(frame)
		metrics.ObserveReport("file", report)
		summary.Frames++
		for _, h := range report.Hints {
			if h == gesture.HintRejected {
				summary.Rejected++
			}
		}

		stable, changed := s.Push(report)
		if changed && stable != "" {
			summary.Detections[stable]++
		}

		if err := emit(frameResult{Line: line, Report: report, Stable: stable}); err != nil {
			return summary, err
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read frames: %w", err)
	}
	return summary, nil
}

func printSummary(w io.Writer, s classifySummary) {
	fmt.Fprintf(w, "Frames:   %d\n", s.Frames)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:  %d\n", s.Skipped)
	}
	if s.Rejected > 0 {
		fmt.Fprintf(w, "Rejected hands: %d\n", s.Rejected)
	}
	if len(s.Detections) == 0 {
		fmt.Fprintln(w, "No gestures detected")
		return
	}

	names := make([]string, 0, len(s.Detections))
	for name := range s.Detections {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Detections:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %d\n", name, s.Detections[name])
	}
}
