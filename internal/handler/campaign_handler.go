package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/render"
	"github.com/freeeve/frontier-dominion/internal/repository"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// CampaignHandler serves read-only views of running and finished campaigns.
type CampaignHandler struct {
	cache   repository.SnapshotCache
	archive repository.CampaignArchive
}

// NewCampaignHandler creates a CampaignHandler. archive may be nil when no
// database is configured.
func NewCampaignHandler(cache repository.SnapshotCache, archive repository.CampaignArchive) *CampaignHandler {
	return &CampaignHandler{cache: cache, archive: archive}
}

// Health handles GET /healthz
func (h *CampaignHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// State handles GET /campaigns/{id}/state
func (h *CampaignHandler) State(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Map handles GET /campaigns/{id}/map and renders the frontier as text.
func (h *CampaignHandler) Map(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	var snap frontier.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Error().Err(err).Str("campaignId", r.PathValue("id")).Msg("Corrupt cached snapshot")
		writeError(w, http.StatusInternalServerError, "corrupt snapshot")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.StatusPanel(snap, len(snap.Events))))
	w.Write([]byte("\n"))
	w.Write([]byte(render.Map(snap)))
}

// Leaderboard handles GET /leaderboard?limit=N
func (h *CampaignHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	entries, err := h.cache.TopScores(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListArchived handles GET /campaigns?limit=N
func (h *CampaignHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	campaigns, err := h.archive.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if campaigns == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// GetArchived handles GET /campaigns/{id}
func (h *CampaignHandler) GetArchived(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	c, err := h.archive.FindCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) loadSnapshot(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	id := r.PathValue("id")
	data, err := h.cache.GetSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if data == nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return nil, false
	}
	return data, true
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return min(n, maxListLimit), nil
}
