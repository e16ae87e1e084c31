// Package sqlite archives finished campaigns in a local SQLite file, for
// single-machine play without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/freeeve/frontier-dominion/internal/model"
)

// CampaignRepo implements repository.CampaignArchive on SQLite.
type CampaignRepo struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at path and applies the schema.
func Open(path string) (*CampaignRepo, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	conn.SetMaxOpenConns(1)

	r := &CampaignRepo{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (r *CampaignRepo) Close() error {
	return r.conn.Close()
}

func (r *CampaignRepo) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		player TEXT NOT NULL,
		victor TEXT NOT NULL,
		turns INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS campaign_standings (
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		faction TEXT NOT NULL,
		territories INTEGER NOT NULL,
		treasury INTEGER NOT NULL,
		PRIMARY KEY (campaign_id, faction)
	);

	CREATE INDEX IF NOT EXISTS idx_campaigns_finished_at ON campaigns(finished_at);
	`
	_, err := r.conn.Exec(schema)
	return err
}

// SaveCampaign writes a campaign and replaces its standings.
func (r *CampaignRepo) SaveCampaign(ctx context.Context, c *model.Campaign) error {
	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.FinishedAt = now

	_, err = tx.NamedExecContext(ctx, `INSERT INTO campaigns
		(id, name, scenario, seed, strategy, player, victor, turns, created_at, finished_at)
		VALUES (:id, :name, :scenario, :seed, :strategy, :player, :victor, :turns, :created_at, :finished_at)
		ON CONFLICT(id) DO UPDATE SET victor = excluded.victor, turns = excluded.turns, finished_at = excluded.finished_at`, c)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM campaign_standings WHERE campaign_id = ?", c.ID); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for i := range c.Standings {
		s := c.Standings[i]
		s.CampaignID = c.ID
		_, err := tx.NamedExecContext(ctx, `INSERT INTO campaign_standings
			(campaign_id, rank, faction, territories, treasury)
			VALUES (:campaign_id, :rank, :faction, :territories, :treasury)`, s)
		if err != nil {
			return fmt.Errorf("insert standing %s: %w", s.Faction, err)
		}
	}
	return tx.Commit()
}

// FindCampaign returns a campaign with its standings, or nil if absent.
func (r *CampaignRepo) FindCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	err := r.conn.GetContext(ctx, &c, `SELECT id, name, scenario, seed, strategy, player, victor, turns, created_at, finished_at
		FROM campaigns WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	if err := r.conn.SelectContext(ctx, &c.Standings, `SELECT campaign_id, rank, faction, territories, treasury
		FROM campaign_standings WHERE campaign_id = ? ORDER BY rank`, id); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return &c, nil
}

// ListRecent returns the most recently finished campaigns, without standings.
func (r *CampaignRepo) ListRecent(ctx context.Context, limit int) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.conn.SelectContext(ctx, &campaigns, `SELECT id, name, scenario, seed, strategy, player, victor, turns, created_at, finished_at
		FROM campaigns ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}
