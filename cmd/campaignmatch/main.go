package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/autopilot"
	"github.com/freeeve/frontier-dominion/internal/config"
	"github.com/freeeve/frontier-dominion/internal/logger"
	"github.com/freeeve/frontier-dominion/internal/render"
	"github.com/freeeve/frontier-dominion/internal/repository"
	"github.com/freeeve/frontier-dominion/internal/repository/archive"
	redisrepo "github.com/freeeve/frontier-dominion/internal/repository/redis"
	"github.com/freeeve/frontier-dominion/internal/service"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{Out: os.Stderr})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev, Out: os.Stderr})

	var (
		strategy  string
		numGames  int
		workers   int
		seed      int64
		maxTurns  int
		scenario  string
		player    string
		turnDelay time.Duration
		dryRun    bool
		jsonOut   bool
	)

	flag.StringVar(&strategy, "strategy", "builder", "Autopilot strategy (passive, builder, raider)")
	flag.IntVar(&numGames, "n", 1, "Number of campaigns to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel campaigns)")
	flag.Int64Var(&seed, "seed", cfg.Seed, "Base seed (0 = random)")
	flag.IntVar(&maxTurns, "max-turns", cfg.MaxTurns, "Turn limit override (0 = scenario setting)")
	flag.StringVar(&scenario, "scenario", cfg.ScenarioFile, "Scenario YAML file (empty = built-in frontier)")
	flag.StringVar(&player, "player", cfg.PlayerFaction, "Faction to play")
	flag.DurationVar(&turnDelay, "turn-delay", 0, "Pause between turns so spectators can follow")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip archive and Redis writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	if autopilot.StrategyForName(strategy) == nil {
		log.Fatal().Str("strategy", strategy).Strs("known", autopilot.StrategyNames).Msg("Unknown strategy")
	}
	if workers < 1 {
		workers = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var campaignArchive repository.CampaignArchive
	var pub *service.Publisher
	if !dryRun {
		a, closeArchive, err := archive.Open(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Archive connection failed")
		}
		defer closeArchive()
		campaignArchive = a

		if cfg.RedisURL != "" {
			redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
			if err != nil {
				log.Fatal().Err(err).Msg("Redis connection failed")
			}
			defer redisClient.Close()
			pub = service.NewPublisher(redisClient, cfg.SnapshotTTL, nil)
		}
	}

	// Run campaigns
	results := make([]*autopilot.CampaignResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			campaignCfg := autopilot.CampaignConfig{
				Name:         fmt.Sprintf("campaignmatch: %s #%d", strategy, idx+1),
				ScenarioFile: scenario,
				Player:       player,
				Strategy:     strategy,
				Seed:         seed + int64(idx),
				MaxTurns:     maxTurns,
				TurnDelay:    turnDelay,
			}

			result, err := autopilot.RunCampaign(ctx, campaignCfg, campaignArchive, pub)
			if err != nil {
				log.Error().Err(err).Int("campaign", idx+1).Msg("Campaign failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("campaign", idx+1).Str("outcome", string(result.Outcome)).Int("turns", result.Turns).Float64("score", result.Score).Msg("Campaign completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(os.Stdout, results, numGames, errCount)
	} else {
		printSummary(os.Stdout, results, strategy, errCount)
	}
}

type summary struct {
	completed  int
	outcomes   map[frontier.Outcome]int
	totalTurns int
	totalScore float64
	best       *autopilot.CampaignResult
}

func summarize(results []*autopilot.CampaignResult) summary {
	s := summary{outcomes: make(map[frontier.Outcome]int)}
	for _, r := range results {
		if r == nil {
			continue
		}
		s.completed++
		s.outcomes[r.Outcome]++
		s.totalTurns += r.Turns
		s.totalScore += r.Score
		if s.best == nil || r.Score > s.best.Score {
			s.best = r
		}
	}
	return s
}

func printSummary(w io.Writer, results []*autopilot.CampaignResult, strategy string, errCount int) {
	s := summarize(results)
	fmt.Fprintf(w, "\nResults (%d campaigns, strategy %s):\n", s.completed, strategy)
	if errCount > 0 {
		fmt.Fprintf(w, "  (%d campaigns failed)\n", errCount)
	}
	if s.completed == 0 {
		return
	}
	fmt.Fprintf(w, "  Victories: %d  Defeats: %d  Retired: %d\n",
		s.outcomes[frontier.OutcomeVictory], s.outcomes[frontier.OutcomeDefeat], s.outcomes[frontier.OutcomeRetired])
	fmt.Fprintf(w, "  Avg turns: %.1f  Avg score: %.0f\n",
		float64(s.totalTurns)/float64(s.completed), s.totalScore/float64(s.completed))
	if s.best != nil {
		fmt.Fprintf(w, "  Best: seed %d, %s in %d turns, score %.0f\n", s.best.Seed, s.best.Outcome, s.best.Turns, s.best.Score)
		for i, st := range s.best.Standings {
			fmt.Fprintf(w, "    %d. %-20s %d territories  %s\n", i+1, st.Faction, st.Territories, render.Money(st.Treasury))
		}
	}
}

func printJSON(w io.Writer, results []*autopilot.CampaignResult, total, errCount int) {
	out := struct {
		Total   int                         `json:"total"`
		Errors  int                         `json:"errors"`
		Results []*autopilot.CampaignResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
