package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/signbridge/internal/speech"
)

// SpeechNotifier is told about every text that resolved to clips.
type SpeechNotifier interface {
	Speech(text string, clips []string)
}

// SpeechHandler turns recognized speech into the clips that sign it.
type SpeechHandler struct {
	resolver *speech.Resolver
	notifier SpeechNotifier
}

// NewSpeechHandler creates a new SpeechHandler. n may be nil.
func NewSpeechHandler(r *speech.Resolver, n SpeechNotifier) *SpeechHandler {
	return &SpeechHandler{resolver: r, notifier: n}
}

type speechRequest struct {
	Text string `json:"text"`
}

type speechResponse struct {
	Normalized string   `json:"normalized"`
	Clips      []string `json:"clips"`
}

// Resolve handles POST /api/speech. Text without any mapped word yields an
// empty clip list.
func (h *SpeechHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	clips, err := h.resolver.Resolve(req.Text)
	if err != nil && !errors.Is(err, speech.ErrNoClips) {
		writeError(w, http.StatusInternalServerError, "Failed to resolve clips")
		return
	}
	normalized := speech.Normalize(req.Text)
	if clips == nil {
		clips = []string{}
	} else if h.notifier != nil {
		h.notifier.Speech(normalized, clips)
	}

	writeJSON(w, http.StatusOK, speechResponse{
		Normalized: normalized,
		Clips:      clips,
	})
}
