package autopilot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/frontier-dominion/internal/logger"
	"github.com/freeeve/frontier-dominion/internal/model"
	"github.com/freeeve/frontier-dominion/internal/repository"
	"github.com/freeeve/frontier-dominion/internal/scenario"
	"github.com/freeeve/frontier-dominion/internal/service"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

// CampaignConfig configures a single unattended campaign.
type CampaignConfig struct {
	Name         string
	ScenarioFile string // "" = built-in frontier
	Player       string // "" = scenario default
	Strategy     string
	Seed         int64
	MaxTurns     int // 0 = scenario setting
	TurnDelay    time.Duration
}

// CampaignResult describes the outcome of a finished campaign.
type CampaignResult struct {
	CampaignID string
	Strategy   string
	Seed       int64
	Outcome    frontier.Outcome
	Turns      int
	Score      float64
	Standings  []frontier.Standing
}

// RunCampaign plays a campaign to the end with the configured strategy. A
// snapshot is published after every turn when pub is non-nil, and the
// outcome is archived when archive is non-nil.
func RunCampaign(
	ctx context.Context,
	cfg CampaignConfig,
	archive repository.CampaignArchive,
	pub *service.Publisher,
) (*CampaignResult, error) {
	strategy := StrategyForName(cfg.Strategy)
	if strategy == nil {
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}

	sc, err := loadScenario(cfg.ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	if err := sc.WithPlayer(cfg.Player); err != nil {
		return nil, fmt.Errorf("select player: %w", err)
	}
	if cfg.MaxTurns > 0 {
		sc.Config.MaxTurns = cfg.MaxTurns
	}
	gs, err := sc.NewGame(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	campaign := &model.Campaign{
		ID:        uuid.NewString(),
		Name:      cfg.Name,
		Scenario:  sc.Name,
		Seed:      cfg.Seed,
		Strategy:  strategy.Name(),
		Player:    gs.PlayerFaction,
		CreatedAt: time.Now().UTC(),
	}
	if campaign.Name == "" {
		campaign.Name = fmt.Sprintf("%s #%d", strategy.Name(), cfg.Seed)
	}
	log := logger.ForCampaign(campaign.ID)
	log.Info().Str("strategy", strategy.Name()).Int64("seed", cfg.Seed).Str("scenario", sc.Name).Msg("Campaign started")

	// EndTurn always advances, so the loop is bounded by MaxTurns.
	turns := 0
	for !gs.GameOver {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		turns++
		strategy.PlayTurn(gs)
		gs.EndTurn()

		if pub != nil && !gs.GameOver {
			if err := pub.TurnEnded(ctx, campaign.ID, gs.Snapshot()); err != nil {
				log.Warn().Err(err).Int("turn", gs.Turn).Msg("Failed to publish turn")
			}
		}
		if cfg.TurnDelay > 0 && !gs.GameOver {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.TurnDelay):
			}
		}
	}

	RecordOutcome(campaign, gs, turns)
	score := campaign.Score()

	if pub != nil {
		if err := pub.CampaignEnded(ctx, campaign.ID, gs.Snapshot(), score); err != nil {
			log.Warn().Err(err).Msg("Failed to publish campaign result")
		}
	}
	if archive != nil {
		if err := archive.SaveCampaign(ctx, campaign); err != nil {
			return nil, fmt.Errorf("archive campaign: %w", err)
		}
	}

	log.Info().Str("victor", campaign.Victor).Int("turns", campaign.Turns).Float64("score", score).Msg("Campaign finished")
	return &CampaignResult{
		CampaignID: campaign.ID,
		Strategy:   strategy.Name(),
		Seed:       cfg.Seed,
		Outcome:    gs.Victor,
		Turns:      campaign.Turns,
		Score:      score,
		Standings:  gs.Standings(),
	}, nil
}

// RecordOutcome copies a finished game's result and final standings onto
// the campaign record.
func RecordOutcome(c *model.Campaign, gs *frontier.GameState, turns int) {
	c.Victor = string(gs.Victor)
	c.Turns = turns
	c.Standings = c.Standings[:0]
	for i, s := range gs.Standings() {
		c.Standings = append(c.Standings, model.FactionResult{
			CampaignID:  c.ID,
			Rank:        i + 1,
			Faction:     s.Faction,
			Territories: s.Territories,
			Treasury:    s.Treasury,
		})
	}
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.Load(path)
}
