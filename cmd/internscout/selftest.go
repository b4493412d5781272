package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/poll"
	"internscout/internal/sink"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Send one synthetic posting to the sheet endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		s, rules, err := prepare(config.ModeSelfTest, log)
		if err != nil {
			log.Error("configuration", zap.Error(err))
			return err
		}

		p, err := poll.SelfTest(cmd.Context(), sink.NewSheet(s.SheetEndpoint, config.DefaultForwardTimeout), rules, time.Now())
		if err != nil {
			log.Error("self-test failed", zap.Error(err))
			return err
		}
		log.Info("self-test posted", zap.String("hash", p.Hash), zap.Int("score", p.Score))
		fmt.Fprintf(cmd.OutOrStdout(), "self-test ok: hash=%s score=%d\n", p.Hash, p.Score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}
