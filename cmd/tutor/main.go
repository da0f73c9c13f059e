package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/tutor"
	"github.com/raykavin/tutor/pkg/config"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath string

	// summary and replay flags
	backupID  int64
	histogram bool
	bins      int
	serverURL string
	metrics   []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tutor",
		Short:   "Live training dashboard",
		Version: "1.0.0",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (e.g. ./tutor.yaml)")

	rootCmd.AddCommand(buildServeCmd(), buildSummaryCmd(), buildReplayCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard until interrupted",
		RunE:  runServe,
	}
}

func buildSummaryCmd() *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print statistics of a stored backup",
		RunE:  runSummary,
	}

	summaryCmd.Flags().Int64VarP(&backupID, "backup", "b", 0, "Backup id (default latest)")
	summaryCmd.Flags().BoolVar(&histogram, "histogram", false, "Print a histogram of every metric")
	summaryCmd.Flags().IntVar(&bins, "bins", 10, "Histogram bins")

	return summaryCmd
}

func buildReplayCmd() *cobra.Command {
	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Push a stored backup into a running dashboard",
		RunE:  runReplay,
	}

	replayCmd.Flags().Int64VarP(&backupID, "backup", "b", 0, "Backup id (default latest)")
	replayCmd.Flags().StringVarP(&serverURL, "url", "u", "http://localhost:8080", "Dashboard URL")
	replayCmd.Flags().StringSliceVarP(&metrics, "metric", "m", nil, "Metrics to replay (default all)")

	return replayCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := tutor.New(cfg)
	if err != nil {
		tutor.DefaultLog.WithError(err).Error("Failed to start")
		return err
	}

	return t.Run(cmd.Context())
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return tutor.PrintSummary(cmd.OutOrStdout(), cfg, backupID, tutor.SummaryOptions{
		Histogram: histogram,
		Bins:      bins,
	})
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return tutor.Replay(cmd.Context(), cfg, serverURL, backupID, metrics...)
}

func loadConfig() (*config.AppConfig, error) {
	return config.Load(configPath)
}
