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
	"feeScope/internal/report"
	"feeScope/internal/storage"
	"feeScope/internal/storage/postgres"
)

func runGrowth(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadGrowth(cfgFile, cmd.Flags())
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
	if cfg.BlockStart == 0 {
		return fmt.Errorf("start block is required")
	}
	if cfg.BlockEnd == 0 && cfg.RPCURL == "" {
		return fmt.Errorf("end block is required (or pass --rpc to resolve latest)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blockEnd := cfg.BlockEnd
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		if blockEnd == 0 {
			latest, err := chainClient.LatestBlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("get latest block: %w", err)
			}
			blockEnd = latest
			logger.Info("resolved end block to latest", zap.Uint64("block_end", blockEnd))
		}

		if err := chainClient.EnsureBlock(ctx, cfg.BlockStart); err != nil {
			return err
		}
		if err := chainClient.EnsureBlock(ctx, blockEnd); err != nil {
			return err
		}
	}

	if blockEnd <= cfg.BlockStart {
		return fmt.Errorf("end block must be greater than start block")
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
	calculator := fees.NewCalculator(fetcher, logger)

	logger.Info("growth start",
		zap.String("graph_url", cfg.GraphURL),
		zap.Uint64("block_start", cfg.BlockStart),
		zap.Uint64("block_end", blockEnd),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	_, _, growth, err := calculator.ComputeGrowth(ctx, cfg.BlockStart, blockEnd)
	if err != nil {
		return err
	}

	rows := model.BuildGrowthRows(cfg.BlockStart, blockEnd, growth)

	if cfg.Out != "" {
		sink := storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutGrowthRows(rows); err != nil {
			return fmt.Errorf("write growth rows: %w", err)
		}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertGrowthRows(ctx, rows); err != nil {
			return fmt.Errorf("store growth rows: %w", err)
		}
	}

	if !cfg.NoTable {
		if err := report.WriteGrowthTable(os.Stdout, growth); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}

	logger.Info("growth complete",
		zap.Int("positions", len(rows)),
		zap.Uint64("clamped_fee_diffs", accountant.ClampCount()),
	)

	return nil
}
