// Command frontier is the interactive single-player game.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/autopilot"
	"github.com/freeeve/frontier-dominion/internal/config"
	"github.com/freeeve/frontier-dominion/internal/logger"
	"github.com/freeeve/frontier-dominion/internal/model"
	"github.com/freeeve/frontier-dominion/internal/repository/archive"
	redisrepo "github.com/freeeve/frontier-dominion/internal/repository/redis"
	"github.com/freeeve/frontier-dominion/internal/scenario"
	"github.com/freeeve/frontier-dominion/internal/service"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{Out: os.Stderr})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	// Logs go to stderr so they never interleave with the game screen.
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev, Out: os.Stderr})

	scenarioFile := flag.String("scenario", cfg.ScenarioFile, "Scenario YAML file (empty = built-in frontier)")
	player := flag.String("player", cfg.PlayerFaction, "Faction to play")
	seed := flag.Int64("seed", cfg.EffectiveSeed(), "Random seed")
	maxTurns := flag.Int("max-turns", cfg.MaxTurns, "Turn limit override (0 = scenario setting)")
	flag.Parse()

	var sc *scenario.Scenario
	if *scenarioFile == "" {
		sc, err = scenario.Default()
	} else {
		sc, err = scenario.Load(*scenarioFile)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load scenario")
	}
	if err := sc.WithPlayer(*player); err != nil {
		log.Fatal().Err(err).Msg("Unknown player faction")
	}
	if *maxTurns > 0 {
		sc.Config.MaxTurns = *maxTurns
	}
	gs, err := sc.NewGame(*seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}

	ctx := context.Background()
	campaign := &model.Campaign{
		ID:        uuid.NewString(),
		Name:      sc.Name,
		Scenario:  sc.Name,
		Seed:      *seed,
		Strategy:  "human",
		Player:    gs.PlayerFaction,
		CreatedAt: time.Now().UTC(),
	}
	log.Info().Str("campaignId", campaign.ID).Int64("seed", *seed).Str("scenario", sc.Name).Msg("Campaign started")

	ui := newCLI(gs, os.Stdin, os.Stdout)

	// Spectators can follow a human game when Redis is configured.
	var pub *service.Publisher
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, spectating disabled")
		} else {
			defer redisClient.Close()
			pub = service.NewPublisher(redisClient, cfg.SnapshotTTL, nil)
			ui.onTurnEnd = func(snap frontier.Snapshot) {
				if snap.GameOver {
					return
				}
				if err := pub.TurnEnded(ctx, campaign.ID, snap); err != nil {
					log.Warn().Err(err).Msg("Failed to publish turn")
				}
			}
			if err := pub.TurnEnded(ctx, campaign.ID, gs.Snapshot()); err != nil {
				log.Warn().Err(err).Msg("Failed to publish opening snapshot")
			}
		}
	}

	ui.run()

	autopilot.RecordOutcome(campaign, gs, ui.turnsPlayed())

	if pub != nil {
		if err := pub.CampaignEnded(ctx, campaign.ID, gs.Snapshot(), campaign.Score()); err != nil {
			log.Warn().Err(err).Msg("Failed to publish campaign result")
		} else if rank, err := pub.Rank(ctx, campaign.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to look up leaderboard rank")
		} else if rank > 0 {
			fmt.Fprintf(os.Stdout, "Leaderboard rank: #%d with %.0f points\n", rank, campaign.Score())
		}
	}

	campaignArchive, closeArchive, err := archive.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Archive unavailable, result not saved")
		return
	}
	defer closeArchive()
	if campaignArchive != nil {
		if err := campaignArchive.SaveCampaign(ctx, campaign); err != nil {
			log.Error().Err(err).Msg("Failed to archive campaign")
			return
		}
		log.Info().Str("campaignId", campaign.ID).Str("victor", campaign.Victor).Msg("Campaign archived")
	}
}
