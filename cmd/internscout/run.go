package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/scheduler"
	"internscout/internal/sink"
	"internscout/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover postings and forward new matches to the sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd)
	},
}

func init() {
	runCmd.Flags().Duration("every", 0, "repeat the run on this interval until interrupted")
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	s, rules, err := prepare(config.ModeLive, log)
	if err != nil {
		log.Error("configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeState, err := openState(ctx, s.StateDir)
	if err != nil {
		log.Error("opening state", zap.String("dir", s.StateDir), zap.Error(err))
		return err
	}
	defer closeState()

	runner := newPipeline(s, rules, store.NewFingerprints(db), sink.NewSheet(s.SheetEndpoint, config.DefaultForwardTimeout), log)
	log.Info("starting the internscout",
		zap.String("version", version),
		zap.String("rules", s.RulesPath),
		zap.Duration("budget", s.RunBudget))

	every, _ := cmd.Flags().GetDuration("every")
	if every <= 0 {
		runner.Run(ctx)
		return nil
	}

	scheduler.Every(ctx, every, "run", log, func(ctx context.Context) error {
		runner.Run(ctx)
		return nil
	})
	log.Info("exiting", zap.String("reason", "interrupted"))
	return nil
}
