package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/frontier-dominion/internal/model"
)

// EventsChannel carries turn and campaign events to every spectator server.
const EventsChannel = "campaign:events"

const leaderboardKey = "leaderboard"

func snapshotKey(campaignID string) string { return "campaign:" + campaignID + ":snapshot" }

// SetSnapshot stores the latest snapshot JSON for a campaign, zstd-compressed.
// A zero ttl keeps the key until it is overwritten.
func (c *Client) SetSnapshot(ctx context.Context, campaignID string, snapshot []byte, ttl time.Duration) error {
	packed := c.codec.pack(snapshot)
	if err := c.rdb.Set(ctx, snapshotKey(campaignID), packed, ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot JSON, or nil if none is cached.
func (c *Client) GetSnapshot(ctx context.Context, campaignID string) ([]byte, error) {
	packed, err := c.rdb.Get(ctx, snapshotKey(campaignID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	data, err := c.codec.unpack(packed)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return data, nil
}

// PublishEvent sends a payload on the events channel.
func (c *Client) PublishEvent(ctx context.Context, payload []byte) error {
	if err := c.rdb.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe listens on the events channel. The caller must close the
// returned PubSub.
func (c *Client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, EventsChannel)
}

// RecordScore adds or updates a finished campaign on the leaderboard.
func (c *Client) RecordScore(ctx context.Context, campaignID string, score float64) error {
	return c.rdb.ZAdd(ctx, leaderboardKey, redis.Z{Score: score, Member: campaignID}).Err()
}

// TopScores returns the best campaigns, highest score first.
func (c *Client) TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	zs, err := c.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	out := make([]model.ScoreEntry, 0, len(zs))
	for _, z := range zs {
		var id string
		switch m := z.Member.(type) {
		case string:
			id = m
		default:
			id = fmt.Sprint(m)
		}
		out = append(out, model.ScoreEntry{CampaignID: id, Score: z.Score})
	}
	return out, nil
}

// ScoreRank returns a campaign's 1-based leaderboard position, or 0 if it
// has no score.
func (c *Client) ScoreRank(ctx context.Context, campaignID string) (int, error) {
	rank, err := c.rdb.ZRevRank(ctx, leaderboardKey, campaignID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("score rank: %w", err)
	}
	return int(rank) + 1, nil
}
