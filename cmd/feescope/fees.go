package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feeScope/internal/chain"
	"feeScope/internal/config"
	"feeScope/internal/fees"
	"feeScope/internal/graph"
	"feeScope/internal/model"
	"feeScope/internal/storage"
	"feeScope/internal/storage/postgres"
)

func runFees(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFees(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.GraphURL == "" {
		return fmt.Errorf("graph url is required")
	}
	if cfg.Block == 0 {
		return fmt.Errorf("block number is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		if err := chainClient.EnsureBlock(ctx, cfg.Block); err != nil {
			return err
		}
	}

	client, err := graph.NewClient(graph.Config{
		Endpoint:     cfg.GraphURL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	accountant := fees.NewAccountant(nil, logger)
	fetcher := fees.NewFetcher(client, accountant, cfg.BatchSize, logger)

	logger.Info("fees start",
		zap.String("graph_url", cfg.GraphURL),
		zap.Uint64("block", cfg.Block),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	feeSet, err := fetcher.FetchAll(ctx, cfg.Block)
	if err != nil {
		return err
	}

	rows := model.BuildFeeSnapshotRows(cfg.Block, feeSet)

	if cfg.Out != "" {
		sink := storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutFeeSnapshots(rows); err != nil {
			return fmt.Errorf("write snapshots: %w", err)
		}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertFeeSnapshots(ctx, rows); err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
	}

	logger.Info("fees complete",
		zap.Uint64("block", cfg.Block),
		zap.Int("positions", len(rows)),
		zap.Uint64("clamped_fee_diffs", accountant.ClampCount()),
	)

	return nil
}
