package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/domain"
	"internscout/internal/poll"
	"internscout/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the pipeline without forwarding and print what would be sent",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		s, rules, err := prepare(config.ModeValidate, log)
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

		sum, pending := newPipeline(s, rules, store.NewFingerprints(db), nil, log).DryRun(ctx)
		if pending == nil {
			pending = []domain.Posting{}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary  poll.Summary     `json:"summary"`
			Postings []domain.Posting `json:"postings"`
		}{sum, pending})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
