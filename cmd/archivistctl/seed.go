package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/config"
	"github.com/kailas-cloud/archivist/internal/db/driver"
	"github.com/kailas-cloud/archivist/internal/logger"
	recordrepo "github.com/kailas-cloud/archivist/internal/repository/record"
	"github.com/kailas-cloud/archivist/internal/repository/seed"
)

type seedOptions struct {
	fixture   string
	env       string
	overwrite bool
	dryRun    bool
}

func newSeedCmd() *cobra.Command {
	o := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a fixture into the store configured for an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.fixture, "fixture", "f", "", "YAML fixture with a top-level records list")
	f.StringVar(&o.env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	f.BoolVar(&o.overwrite, "overwrite", false, "replace records that already exist")
	f.BoolVar(&o.dryRun, "dry-run", false, "validate the fixture without writing")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runSeed(cmd *cobra.Command, o *seedOptions) error {
	recs, err := seed.LoadFile(o.fixture)
	if err != nil {
		return err
	}
	if o.dryRun {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d records valid\n", len(recs))
		return err
	}

	cfg, err := config.Load(o.env)
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(o.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, err := driver.Open(driver.Config{
		Driver:   cfg.Database.Driver,
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	stats, err := seed.NewSeeder(recordrepo.New(store, cfg.Storage.KeyPrefix), logger.Component(log, "seed")).
		Seed(ctx, recs, o.overwrite)
	if err != nil {
		return err
	}
	log.Debug("seed finished", zap.String("driver", cfg.Database.Driver))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", stats.Created, stats.Skipped)
	return err
}
