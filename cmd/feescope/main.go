package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "feescope",
		Short:        "Concentrated-liquidity position fee accounting",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	feesCmd := &cobra.Command{
		Use:   "fees",
		Short: "Compute position fees at a single block",
		RunE:  runFees,
	}

	feesCmd.Flags().String("graph-url", "", "subgraph endpoint URL")
	feesCmd.Flags().String("rpc", "", "optional RPC URL for block checks")
	feesCmd.Flags().Uint64("block", 0, "block number to query")
	feesCmd.Flags().Int("batch-size", 1000, "positions per page")
	feesCmd.Flags().String("out", "", "output JSONL path")
	feesCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	feesCmd.Flags().Int("max-retries", 5, "maximum query retry attempts")
	feesCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	feesCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(feesCmd)

	growthCmd := &cobra.Command{
		Use:   "growth",
		Short: "Compute fee growth between two blocks",
		RunE:  runGrowth,
	}

	growthCmd.Flags().String("graph-url", "", "subgraph endpoint URL")
	growthCmd.Flags().String("rpc", "", "optional RPC URL for block resolution")
	growthCmd.Flags().Uint64("block-start", 0, "start block number")
	growthCmd.Flags().Uint64("block-end", 0, "end block number, 0 means latest (requires --rpc)")
	growthCmd.Flags().Int("batch-size", 1000, "positions per page")
	growthCmd.Flags().String("out", "", "output JSONL path")
	growthCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	growthCmd.Flags().Bool("no-table", false, "suppress the growth table on stdout")
	growthCmd.Flags().Int("max-retries", 5, "maximum query retry attempts")
	growthCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	growthCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(growthCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
