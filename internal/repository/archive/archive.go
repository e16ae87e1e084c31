// Package archive opens the campaign archive selected by DATABASE_URL.
package archive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/frontier-dominion/internal/config"
	"github.com/freeeve/frontier-dominion/internal/repository"
	"github.com/freeeve/frontier-dominion/internal/repository/postgres"
	"github.com/freeeve/frontier-dominion/internal/repository/sqlite"
)

// Open connects to the configured archive. It returns a nil archive and a
// no-op close func when archiving is disabled.
func Open(ctx context.Context, cfg *config.Config) (repository.CampaignArchive, func() error, error) {
	driver, dsn, err := cfg.Archive()
	if err != nil {
		return nil, nil, err
	}
	switch driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect archive: %w", err)
		}
		log.Info().Str("driver", driver).Msg("Campaign archive connected")
		return postgres.NewCampaignRepo(db), db.Close, nil
	case config.DriverSQLite:
		repo, err := sqlite.Open(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive: %w", err)
		}
		log.Info().Str("driver", driver).Str("path", dsn).Msg("Campaign archive opened")
		return repo, repo.Close, nil
	default:
		return nil, func() error { return nil }, nil
	}
}
