package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/frontier-dominion/internal/model"
)

// CampaignRepo archives finished campaigns in Postgres.
type CampaignRepo struct {
	db *sql.DB
}

// NewCampaignRepo creates a CampaignRepo.
func NewCampaignRepo(db *sql.DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

// SaveCampaign inserts a campaign and its standings in one transaction.
// Saving the same ID twice replaces the standings.
func (r *CampaignRepo) SaveCampaign(ctx context.Context, c *model.Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO campaigns (id, name, scenario, seed, strategy, player, victor, turns, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (id) DO UPDATE SET victor = EXCLUDED.victor, turns = EXCLUDED.turns, finished_at = now()
		 RETURNING created_at, finished_at`,
		c.ID, c.Name, c.Scenario, c.Seed, c.Strategy, c.Player, c.Victor, c.Turns,
	).Scan(&c.CreatedAt, &c.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM campaign_standings WHERE campaign_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for _, s := range c.Standings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO campaign_standings (campaign_id, rank, faction, territories, treasury)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.ID, s.Rank, s.Faction, s.Territories, s.Treasury)
		if err != nil {
			return fmt.Errorf("insert standing %s: %w", s.Faction, err)
		}
	}
	return tx.Commit()
}

// FindCampaign returns a campaign with its standings, or nil if absent.
func (r *CampaignRepo) FindCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, scenario, seed, strategy, player, victor, turns, created_at, finished_at
		 FROM campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Scenario, &c.Seed, &c.Strategy, &c.Player, &c.Victor, &c.Turns, &c.CreatedAt, &c.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}

	standings, err := r.listStandings(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Standings = standings
	return &c, nil
}

// ListRecent returns the most recently finished campaigns, without standings.
func (r *CampaignRepo) ListRecent(ctx context.Context, limit int) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, scenario, seed, strategy, player, victor, turns, created_at, finished_at
		 FROM campaigns ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Scenario, &c.Seed, &c.Strategy, &c.Player, &c.Victor, &c.Turns, &c.CreatedAt, &c.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) listStandings(ctx context.Context, id string) ([]model.FactionResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT campaign_id, rank, faction, territories, treasury
		 FROM campaign_standings WHERE campaign_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var out []model.FactionResult
	for rows.Next() {
		var s model.FactionResult
		if err := rows.Scan(&s.CampaignID, &s.Rank, &s.Faction, &s.Territories, &s.Treasury); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
