package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixedswap/internal/config"
	"fixedswap/internal/report"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	summaries, err := report.ReadFile(cfg.Input, logger)
	if err != nil {
		return err
	}

	logger.Info("report built",
		zap.String("input", cfg.Input),
		zap.Int("pools", len(summaries)),
	)

	encoder := json.NewEncoder(os.Stdout)
	for _, s := range summaries {
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
