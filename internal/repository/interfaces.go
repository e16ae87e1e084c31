package repository

import (
	"context"
	"time"

	"github.com/freeeve/frontier-dominion/internal/model"
)

// CampaignArchive stores finished campaign outcomes (Postgres or SQLite).
type CampaignArchive interface {
	SaveCampaign(ctx context.Context, c *model.Campaign) error
	FindCampaign(ctx context.Context, id string) (*model.Campaign, error)
	ListRecent(ctx context.Context, limit int) ([]model.Campaign, error)
}

// SnapshotCache holds the latest snapshot of running campaigns and the
// event channel spectators follow (Redis).
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, campaignID string, snapshot []byte, ttl time.Duration) error
	GetSnapshot(ctx context.Context, campaignID string) ([]byte, error)
	PublishEvent(ctx context.Context, payload []byte) error
	RecordScore(ctx context.Context, campaignID string, score float64) error
	TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error)
	ScoreRank(ctx context.Context, campaignID string) (int, error)
}
