package main

import (
	"context"
	"fmt"

	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/config"
	"github.com/okian/unirank/pkg/logger"
)

func openMemory(ctx context.Context, cfg *config.Config, l logger.Logger) (repository.Store, func() error, error) {
	store := repository.NewMemoryStore()
	if cfg.SeedFile != "" {
		records, err := repository.LoadFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Insert(ctx, records...); err != nil {
			return nil, nil, err
		}
	} else {
		l.Warn(ctx, "memory store started without seed_file; every query will be empty")
	}
	l.Info(ctx, "memory store ready", logger.Int("records", store.Len()))
	return store, store.Close, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, l logger.Logger) (repository.Store, func() error, error) {
	db, err := repository.OpenPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)

	store := repository.NewPostgres(db, repository.WithTable(cfg.PostgresTable))
	if err := seedPostgres(ctx, store, cfg.SeedFile, l); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}

// seedPostgres creates the table and, when it is empty and a seed file is
// configured, loads the file into it.
func seedPostgres(ctx context.Context, store *repository.PostgresStore, seedFile string, l logger.Logger) error {
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	if seedFile == "" {
		return nil
	}
	n, err := store.Count(ctx, repository.Filter{})
	if err != nil {
		return err
	}
	if n > 0 {
		l.Info(ctx, "postgres store already populated; skipping seed", logger.Int("records", n))
		return nil
	}
	records, err := repository.LoadFile(seedFile)
	if err != nil {
		return err
	}
	if err := store.Insert(ctx, records...); err != nil {
		return fmt.Errorf("seed postgres: %w", err)
	}
	l.Info(ctx, "postgres store seeded", logger.Int("records", len(records)), logger.String("seed_file", seedFile))
	return nil
}
