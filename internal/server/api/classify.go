package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/metrics"
)

// ClassifyHandler classifies frames posted by clients that run their own hand tracking.
type ClassifyHandler struct {
	dispatcher *gesture.Dispatcher
	logger     *zap.Logger
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(d *gesture.Dispatcher, logger *zap.Logger) *ClassifyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassifyHandler{dispatcher: d, logger: logger}
}

type classifyRequest struct {
	Hands []detector.Hand `json:"hands"`
}

type classifyResponse struct {
	Gesture    string         `json:"gesture"`
	Confidence int            `json:"confidence"`
	Caption    string         `json:"caption"`
	Hints      []gesture.Hint `json:"hints"`
	Hands      int            `json:"hands"`
}

// Classify handles POST /api/classify. Malformed hands come back as
// "rejected" hints, not as request errors.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	report := h.dispatcher.Dispatch(detector.Frame{Hands: req.Hands})
	metrics.ObserveReport("api", report)

	hints := report.Hints
	if hints == nil {
		hints = []gesture.Hint{}
	}

	h.logger.Debug("classified frame",
		zap.Int("hands", report.Hands),
		zap.String("gesture", report.Gesture))

	writeJSON(w, http.StatusOK, classifyResponse{
		Gesture:    report.Gesture,
		Confidence: report.Confidence,
		Caption:    report.Caption(),
		Hints:      hints,
		Hands:      report.Hands,
	})
}
