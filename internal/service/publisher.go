package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/repository"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

// Publisher pushes campaign progress to the snapshot cache, the events
// channel and an optional in-process broadcaster. Either sink may be nil.
type Publisher struct {
	cache repository.SnapshotCache
	ttl   time.Duration
	local Broadcaster
}

// NewPublisher creates a Publisher. A nil cache disables Redis publishing and
// a nil broadcaster disables local delivery.
func NewPublisher(cache repository.SnapshotCache, ttl time.Duration, local Broadcaster) *Publisher {
	if local == nil {
		local = NoopBroadcaster{}
	}
	return &Publisher{cache: cache, ttl: ttl, local: local}
}

// TurnEnded stores the snapshot for a campaign and announces the new turn.
func (p *Publisher) TurnEnded(ctx context.Context, campaignID string, snap frontier.Snapshot) error {
	return p.publish(ctx, EventTurnEnded, campaignID, snap)
}

// CampaignEnded stores the final snapshot, announces the result and records
// the campaign's score on the leaderboard.
func (p *Publisher) CampaignEnded(ctx context.Context, campaignID string, snap frontier.Snapshot, score float64) error {
	if err := p.publish(ctx, EventCampaignEnded, campaignID, snap); err != nil {
		return err
	}
	if p.cache == nil {
		return nil
	}
	if err := p.cache.RecordScore(ctx, campaignID, score); err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Rank returns the campaign's 1-based leaderboard position, or 0 when it has
// no recorded score or no cache is configured.
func (p *Publisher) Rank(ctx context.Context, campaignID string) (int, error) {
	if p.cache == nil {
		return 0, nil
	}
	rank, err := p.cache.ScoreRank(ctx, campaignID)
	if err != nil {
		return 0, fmt.Errorf("score rank: %w", err)
	}
	return rank, nil
}

func (p *Publisher) publish(ctx context.Context, eventType, campaignID string, snap frontier.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	p.local.BroadcastCampaignEvent(campaignID, eventType, json.RawMessage(data))

	if p.cache == nil {
		return nil
	}
	if err := p.cache.SetSnapshot(ctx, campaignID, data, p.ttl); err != nil {
		return err
	}
	payload, err := json.Marshal(Event{Type: eventType, CampaignID: campaignID, Data: data})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.cache.PublishEvent(ctx, payload); err != nil {
		return err
	}
	log.Debug().Str("campaignId", campaignID).Str("type", eventType).Int("turn", snap.Turn).Msg("Published campaign event")
	return nil
}
