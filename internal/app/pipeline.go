package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/metrics"
	"github.com/ayusman/signbridge/internal/store"
)

// runPipeline is the main detection loop that processes frames from the camera.
// The motion gate switches the tick rate between idle and active; frames are
// only tracked while the gate is active. Errors skip the frame.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.gate.FPS()
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			img, err := a.camera.ReadFrame()
			if err != nil {
				metrics.FrameErrorsTotal.WithLabelValues("capture").Inc()
				a.logger.Debug("read frame", zap.Error(err))
				continue
			}

			state := a.gate.Observe(img, now)
			if state.Changed {
				fps = a.gate.FPS()
				a.camera.SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
				a.logger.Debug("motion gate switched",
					zap.Bool("active", state.Active),
					zap.Float64("change_percent", state.Percent))
			}
			if !state.Active {
				img.Close()
				continue
			}

			start := time.Now()
			frame, err := a.detector.Detect(img)
			img.Close()
			metrics.DetectDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.FrameErrorsTotal.WithLabelValues("detect").Inc()
				a.logger.Warn("detect hands", zap.Error(err))
				continue
			}

			a.ProcessFrame(frame)
		}
	}
}

// ProcessFrame dispatches one tracked frame, smooths the result, records
// gesture changes and notifies listeners.
func (a *App) ProcessFrame(frame detector.Frame) Event {
	report := a.dispatcher.Dispatch(frame)
	metrics.ObserveReport("camera", report)

	ts := frame.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	a.mu.Lock()
	prev := a.last.Stable
	stable, changed := report.Gesture, report.Gesture != prev
	if a.stabilizer != nil {
		stable, changed = a.stabilizer.Push(report)
	}
	ev := Event{
		Report:    report,
		Stable:    stable,
		Changed:   changed,
		Caption:   gesture.Report{Gesture: stable}.Caption(),
		Timestamp: ts,
	}
	a.last = ev
	listeners := a.listeners
	a.mu.Unlock()

	if changed && stable != "" {
		a.record(ev)
	}

	for _, l := range listeners {
		l(ev)
	}
	return ev
}

func (a *App) record(ev Event) {
	a.logger.Info("gesture detected",
		zap.String("gesture", ev.Stable),
		zap.Int("confidence", ev.Report.Confidence),
		zap.Int("hands", ev.Report.Hands))

	if a.config.Store == nil {
		return
	}

	hints := make([]string, len(ev.Report.Hints))
	for i, h := range ev.Report.Hints {
		hints[i] = string(h)
	}
	d := &store.Detection{
		Gesture:    ev.Stable,
		Confidence: ev.Report.Confidence,
		Hands:      ev.Report.Hands,
		Hints:      hints,
		Source:     "camera",
		DetectedAt: ev.Timestamp,
	}
	if err := a.config.Store.Detections().Create(d); err != nil {
		a.logger.Warn("store detection", zap.Error(err))
	}
}
