package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/signbridge/internal/store"
)

const (
	defaultDetectionLimit = 50
	maxDetectionLimit     = 500
)

// DetectionHandler serves the detection log.
type DetectionHandler struct {
	store *store.Store
}

// NewDetectionHandler creates a new DetectionHandler with the given store.
func NewDetectionHandler(s *store.Store) *DetectionHandler {
	return &DetectionHandler{store: s}
}

type listDetectionsResponse struct {
	Detections []*store.Detection `json:"detections"`
	Counts     map[string]int     `json:"counts"`
}

// List handles GET /api/detections?limit=N, newest first.
func (h *DetectionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultDetectionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxDetectionLimit)
	}

	detections, err := h.store.Detections().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	counts, err := h.store.Detections().CountByGesture()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count detections")
		return
	}

	writeJSON(w, http.StatusOK, listDetectionsResponse{Detections: detections, Counts: counts})
}
