package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/freeeve/frontier-dominion/internal/model"
)

type mockCache struct {
	snapshots map[string][]byte
	ttls      map[string]time.Duration
	published [][]byte
	scores    map[string]float64
	failSet   bool
}

func newMockCache() *mockCache {
	return &mockCache{
		snapshots: make(map[string][]byte),
		ttls:      make(map[string]time.Duration),
		scores:    make(map[string]float64),
	}
}

func (m *mockCache) SetSnapshot(_ context.Context, id string, snapshot []byte, ttl time.Duration) error {
	if m.failSet {
		return errors.New("cache down")
	}
	m.snapshots[id] = snapshot
	m.ttls[id] = ttl
	return nil
}

func (m *mockCache) GetSnapshot(_ context.Context, id string) ([]byte, error) {
	return m.snapshots[id], nil
}

func (m *mockCache) PublishEvent(_ context.Context, payload []byte) error {
	m.published = append(m.published, payload)
	return nil
}

func (m *mockCache) RecordScore(_ context.Context, id string, score float64) error {
	m.scores[id] = score
	return nil
}

func (m *mockCache) TopScores(_ context.Context, limit int) ([]model.ScoreEntry, error) {
	return nil, nil
}

func (m *mockCache) ScoreRank(_ context.Context, id string) (int, error) {
	score, ok := m.scores[id]
	if !ok {
		return 0, nil
	}
	rank := 1
	for _, s := range m.scores {
		if s > score {
			rank++
		}
	}
	return rank, nil
}

type recordedEvent struct {
	campaignID string
	eventType  string
	data       json.RawMessage
}

type mockBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockBroadcaster) BroadcastCampaignEvent(campaignID, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, _ := data.(json.RawMessage)
	m.events = append(m.events, recordedEvent{campaignID: campaignID, eventType: eventType, data: raw})
}
