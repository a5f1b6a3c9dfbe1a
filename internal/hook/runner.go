package hook

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/app"
	"github.com/ayusman/signbridge/internal/metrics"
)

// queueSize bounds pending events; events beyond it are dropped.
const queueSize = 32

// Runner delivers events to subscribed hooks from a single worker goroutine,
// so a slow hook never stalls the camera pipeline or an HTTP request.
type Runner struct {
	manager  *Manager
	executor *Executor
	logger   *zap.Logger
	queue    chan Request
	done     chan struct{}
	closed   bool
	mu       sync.RWMutex
}

// NewRunner creates a Runner and starts its worker.
func NewRunner(m *Manager, e *Executor, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		manager:  m,
		executor: e,
		logger:   logger,
		queue:    make(chan Request, queueSize),
		done:     make(chan struct{}),
	}
	go r.run()
	return r
}

// Gesture is an app.Listener: each change of the stable gesture to a
// non-empty value becomes a gesture event.
func (r *Runner) Gesture(ev app.Event) {
	if !ev.Changed || ev.Stable == "" {
		return
	}
	r.enqueue(Request{
		Event:      EventGesture,
		Gesture:    ev.Stable,
		Confidence: ev.Report.Confidence,
		Timestamp:  ev.Timestamp,
	})
}

// Speech queues a speech event for resolved clips.
func (r *Runner) Speech(text string, clips []string) {
	r.enqueue(Request{
		Event:     EventSpeech,
		Text:      text,
		Clips:     clips,
		Timestamp: time.Now(),
	})
}

// Close stops accepting events and waits for queued ones to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Runner) enqueue(req Request) {
	if len(r.manager.Subscribed(req.Event)) == 0 {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.queue <- req:
	default:
		r.logger.Warn("hook queue full, event dropped", zap.String("event", req.Event))
		metrics.HookRunsTotal.WithLabelValues("", "dropped").Inc()
	}
}

func (r *Runner) run() {
	defer close(r.done)
	for req := range r.queue {
		for _, h := range r.manager.Subscribed(req.Event) {
			r.execute(h, req)
		}
	}
}

func (r *Runner) execute(h *Hook, req Request) {
	log := r.logger.With(zap.String("hook", h.Manifest.Name), zap.String("event", req.Event))

	resp, err := r.executor.Execute(context.Background(), h, req)
	switch {
	case err != nil:
		log.Warn("hook failed", zap.Error(err))
		metrics.HookRunsTotal.WithLabelValues(h.Manifest.Name, "error").Inc()
	case !resp.Success:
		log.Warn("hook reported failure", zap.String("error", resp.Error))
		metrics.HookRunsTotal.WithLabelValues(h.Manifest.Name, "failure").Inc()
	default:
		log.Debug("hook ran")
		metrics.HookRunsTotal.WithLabelValues(h.Manifest.Name, "success").Inc()
	}
}
