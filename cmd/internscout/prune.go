package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"internscout/internal/store"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Forget fingerprints first seen longer ago than --older-than",
	RunE: func(cmd *cobra.Command, _ []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return errors.New("--older-than must be a positive duration, e.g. 2160h")
		}

		s, err := loadSettings()
		if err != nil {
			return err
		}
		db, closeState, err := openState(cmd.Context(), s.StateDir)
		if err != nil {
			return err
		}
		defer closeState()

		n, err := store.NewFingerprints(db).Prune(cmd.Context(), time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d fingerprints\n", n)
		return nil
	},
}

func init() {
	pruneCmd.Flags().Duration("older-than", 0, "age cutoff for first-seen fingerprints")
	rootCmd.AddCommand(pruneCmd)
}
