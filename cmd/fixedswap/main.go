package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fixedswap/internal/chain"
	"fixedswap/internal/config"
	"fixedswap/internal/ledger"
	"fixedswap/internal/storage"
	"fixedswap/internal/storage/postgres"
	"fixedswap/internal/swap"
)

func main() {
	root := &cobra.Command{
		Use:          "fixedswap",
		Short:        "Fixed-rate swap pool ledger replay",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a block script through the swap module",
		RunE:  runReplay,
	}

	runCmd.Flags().String("genesis", "", "genesis balances JSONL path")
	runCmd.Flags().String("script", "", "block script JSONL path")
	runCmd.Flags().String("out", "./data/events.jsonl", "output events JSONL path")
	runCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshots")
	runCmd.Flags().String("state-file", "", "optional local state file for resume")
	runCmd.Flags().Uint64("end-height", 0, "stop after this block (0 = run to completion)")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Fold an events file into per-pool summaries",
		RunE:  runReport,
	}

	reportCmd.Flags().String("in", "", "input events JSONL path")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Genesis == "" {
		return fmt.Errorf("genesis path is required")
	}
	if cfg.Script == "" {
		return fmt.Errorf("script path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	balances, err := ledger.LoadGenesis(cfg.Genesis)
	if err != nil {
		return err
	}
	memLedger := ledger.NewMemoryLedger()
	memLedger.ApplyGenesis(balances)

	module := swap.NewModule(swap.NewStore(), memLedger)
	eventsSink := storage.NewJsonlStorage(cfg.Out)

	var snap chain.SnapshotStore
	var stateStore chain.StateStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		snap = store
		stateStore = &chain.DBStateStore{Store: store, Name: "replay"}
	}
	if cfg.StateFile != "" {
		stateStore = &chain.FileStateStore{Path: cfg.StateFile}
	}

	runner := chain.NewRunner(chain.RunConfig{
		ScriptPath: cfg.Script,
		EndHeight:  cfg.EndHeight,
		StateStore: stateStore,
	}, module, eventsSink, snap, logger)

	logger.Info("replay start",
		zap.String("genesis", cfg.Genesis),
		zap.String("script", cfg.Script),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Uint64("end_height", cfg.EndHeight),
		zap.Int("genesis_balances", len(balances)),
	)

	return runner.Run(ctx)
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
