package api

import (
	"net/http"

	"github.com/ayusman/signbridge/internal/app"
)

// Pipeline is the part of the live pipeline the API controls.
type Pipeline interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
	Running() bool
	Last() app.Event
}

// StatusHandler reports and toggles live detection.
type StatusHandler struct {
	pipeline Pipeline
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(p Pipeline) *StatusHandler {
	return &StatusHandler{pipeline: p}
}

type statusResponse struct {
	Enabled bool      `json:"enabled"`
	Running bool      `json:"running"`
	Last    app.Event `json:"last"`
}

type updateStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

// Get handles GET /api/status.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

// Update handles PUT /api/status.
func (h *StatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.pipeline.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, h.status())
}

func (h *StatusHandler) status() statusResponse {
	return statusResponse{
		Enabled: h.pipeline.IsEnabled(),
		Running: h.pipeline.Running(),
		Last:    h.pipeline.Last(),
	}
}
