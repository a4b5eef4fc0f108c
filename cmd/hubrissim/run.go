package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Guiguiprim/hubris/internal/config"
	"github.com/Guiguiprim/hubris/internal/journal"
	"github.com/Guiguiprim/hubris/internal/kernel"
	"github.com/Guiguiprim/hubris/internal/logging"
	"github.com/Guiguiprim/hubris/internal/metrics"
	"github.com/Guiguiprim/hubris/internal/scenario"

	"github.com/prometheus/client_golang/prometheus"
)

func newRunCommand() *cobra.Command {
	var configPath, scenarioPath, logLevel string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a scenario file end-to-end and print its trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, configPath, scenarioPath, logLevel)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "boot configuration file (required)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file (required)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func runScenario(cmd *cobra.Command, configPath, scenarioPath, logLevel string) error {
	log := logging.New(logging.Options{Level: logLevel})

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	k := kernel.New(len(cfg.Tasks), cfg.Priorities(), kernel.WithLogger(log), kernel.WithMetrics(collector))
	resolver := scenario.NewResolver(cfg, k)

	journalPath := cfg.JournalPath
	if journalPath == "" {
		journalPath = "hubrissim-trace.db"
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runID := uuid.NewString()

	if err := scenario.Run(k, resolver, s, j, runID, time.Now); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	entries, err := j.ForRun(runID)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  task=%d  %-7s %-40s %s\n", e.Timestamp.Format(time.RFC3339Nano), e.Task, e.Syscall, e.Detail, e.Result)
	}

	return nil
}
