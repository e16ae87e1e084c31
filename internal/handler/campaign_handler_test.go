package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freeeve/frontier-dominion/internal/model"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

// --- Mock Repositories ---

type mockCache struct {
	snapshots map[string][]byte
	scores    []model.ScoreEntry
	err       error
}

func (m *mockCache) SetSnapshot(_ context.Context, id string, snapshot []byte, _ time.Duration) error {
	m.snapshots[id] = snapshot
	return nil
}

func (m *mockCache) GetSnapshot(_ context.Context, id string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshots[id], nil
}

func (m *mockCache) PublishEvent(context.Context, []byte) error { return nil }

func (m *mockCache) RecordScore(_ context.Context, id string, score float64) error {
	m.scores = append(m.scores, model.ScoreEntry{CampaignID: id, Score: score})
	return nil
}

func (m *mockCache) TopScores(_ context.Context, limit int) ([]model.ScoreEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.scores) {
		return m.scores[:limit], nil
	}
	return m.scores, nil
}

func (m *mockCache) ScoreRank(context.Context, string) (int, error) { return 0, nil }

type mockArchive struct {
	campaigns map[string]*model.Campaign
	lastLimit int
}

func (m *mockArchive) SaveCampaign(_ context.Context, c *model.Campaign) error {
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockArchive) FindCampaign(_ context.Context, id string) (*model.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockArchive) ListRecent(_ context.Context, limit int) ([]model.Campaign, error) {
	m.lastLimit = limit
	var out []model.Campaign
	for _, c := range m.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func newTestHandler(t *testing.T) (*CampaignHandler, *mockCache, *mockArchive) {
	t.Helper()
	gs, err := frontier.NewDefaultGame(3)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(gs.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	cache := &mockCache{snapshots: map[string][]byte{"camp-1": data}}
	archive := &mockArchive{campaigns: map[string]*model.Campaign{
		"done-1": {ID: "done-1", Name: "Dust and Iron", Victor: "Victory", Turns: 12},
	}}
	return NewCampaignHandler(cache, archive), cache, archive
}

func serve(h *CampaignHandler, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	Routes(mux, h, NewWSHandler(NewHub()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestState(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/campaigns/camp-1/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	var snap frontier.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Turn != 1 || snap.Player != "Frontier League" {
		t.Errorf("unexpected snapshot: turn=%d player=%s", snap.Turn, snap.Player)
	}
	if len(snap.Territories) != 6 {
		t.Errorf("expected 6 territories, got %d", len(snap.Territories))
	}
}

func TestStateNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/campaigns/nope/state")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStateCacheError(t *testing.T) {
	h, cache, _ := newTestHandler(t)
	cache.err = errors.New("redis down")
	rec := serve(h, http.MethodGet, "/campaigns/camp-1/state")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestMap(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/campaigns/camp-1/map")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Dry Gulch", "Riverbend", "Legend:"} {
		if !strings.Contains(body, want) {
			t.Errorf("map missing %q", want)
		}
	}
}

func TestMapCorruptSnapshot(t *testing.T) {
	h, cache, _ := newTestHandler(t)
	cache.snapshots["bad"] = []byte("{not json")
	rec := serve(h, http.MethodGet, "/campaigns/bad/map")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestLeaderboard(t *testing.T) {
	h, cache, _ := newTestHandler(t)
	cache.scores = []model.ScoreEntry{{CampaignID: "a", Score: 9000}, {CampaignID: "b", Score: 4000}}

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 2},
		{"?limit=1", http.StatusOK, 1},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(h, http.MethodGet, "/leaderboard"+tt.query)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var entries []model.ScoreEntry
			if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
				t.Fatal(err)
			}
			if len(entries) != tt.count {
				t.Errorf("expected %d entries, got %d", tt.count, len(entries))
			}
		})
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/leaderboard")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestArchivedCampaigns(t *testing.T) {
	h, _, archive := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/campaigns?limit=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if archive.lastLimit != maxListLimit {
		t.Errorf("expected limit clamped to %d, got %d", maxListLimit, archive.lastLimit)
	}

	rec = serve(h, http.MethodGet, "/campaigns/done-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var c model.Campaign
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatal(err)
	}
	if c.Victor != "Victory" {
		t.Errorf("unexpected campaign: %+v", c)
	}

	rec = serve(h, http.MethodGet, "/campaigns/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestArchiveNotConfigured(t *testing.T) {
	h := NewCampaignHandler(&mockCache{snapshots: map[string][]byte{}}, nil)
	for _, path := range []string{"/campaigns", "/campaigns/x"} {
		rec := serve(h, http.MethodGet, path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rec.Code)
		}
	}
}
