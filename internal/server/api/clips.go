package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/speech"
	"github.com/ayusman/signbridge/internal/store"
)

// ClipHandler edits the phrase to clip mapping. Changes go to the resolver
// immediately and to the store when one is configured.
type ClipHandler struct {
	store    *store.Store
	resolver *speech.Resolver
	logger   *zap.Logger
}

// NewClipHandler creates a new ClipHandler. s may be nil.
func NewClipHandler(s *store.Store, r *speech.Resolver, logger *zap.Logger) *ClipHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClipHandler{store: s, resolver: r, logger: logger}
}

type clipResponse struct {
	Phrase string   `json:"phrase"`
	Clips  []string `json:"clips"`
}

type listClipsResponse struct {
	Clips []clipResponse `json:"clips"`
}

type putClipRequest struct {
	Clips []string `json:"clips"`
}

// List handles GET /api/clips and returns the effective mapping sorted by phrase.
func (h *ClipHandler) List(w http.ResponseWriter, r *http.Request) {
	mapping := h.resolver.Mapping()

	response := listClipsResponse{Clips: make([]clipResponse, 0, len(mapping))}
	for phrase, clips := range mapping {
		response.Clips = append(response.Clips, clipResponse{Phrase: phrase, Clips: clips})
	}
	sort.Slice(response.Clips, func(i, j int) bool {
		return response.Clips[i].Phrase < response.Clips[j].Phrase
	})

	writeJSON(w, http.StatusOK, response)
}

// Put handles PUT /api/clips/{phrase}.
func (h *ClipHandler) Put(w http.ResponseWriter, r *http.Request) {
	phrase := speech.Normalize(chi.URLParam(r, "phrase"))
	if phrase == "" {
		writeError(w, http.StatusBadRequest, "phrase is required")
		return
	}

	var req putClipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Clips) == 0 {
		writeError(w, http.StatusBadRequest, "clips must not be empty")
		return
	}

	if h.store != nil {
		if err := h.store.Clips().Upsert(&store.ClipMapping{Phrase: phrase, Clips: req.Clips}); err != nil {
			h.logger.Error("save clip mapping", zap.String("phrase", phrase), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save clip mapping")
			return
		}
	}
	h.resolver.Set(phrase, req.Clips)

	writeJSON(w, http.StatusOK, clipResponse{Phrase: phrase, Clips: req.Clips})
}

// Delete handles DELETE /api/clips/{phrase}.
func (h *ClipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phrase := speech.Normalize(chi.URLParam(r, "phrase"))
	_, known := h.resolver.Mapping()[phrase]

	if h.store != nil {
		err := h.store.Clips().Delete(phrase)
		switch {
		case err == nil:
			known = true
		case !errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusInternalServerError, "Failed to delete clip mapping")
			return
		}
	}

	if !known {
		writeError(w, http.StatusNotFound, "Clip mapping not found")
		return
	}
	h.resolver.Delete(phrase)

	w.WriteHeader(http.StatusNoContent)
}
