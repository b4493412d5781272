package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"internscout/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter rules file, or tidy an existing one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if normalize, _ := cmd.Flags().GetBool("normalize"); normalize {
			rules, err := config.Load(s.RulesPath)
			if err != nil {
				return err
			}
			if err := config.SaveAtomic(s.RulesPath, rules); err != nil {
				return fmt.Errorf("save rules: %w", err)
			}
			fmt.Fprintf(out, "normalized %s\n", s.RulesPath)
			return nil
		}

		created, err := config.EnsureRules(s.RulesPath)
		if err != nil {
			return fmt.Errorf("write starter rules: %w", err)
		}
		if created {
			fmt.Fprintf(out, "wrote starter rules to %s\n", s.RulesPath)
		} else {
			fmt.Fprintf(out, "%s already exists, left unchanged\n", s.RulesPath)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("normalize", false, "rewrite the existing rules file trimmed and deduplicated")
	rootCmd.AddCommand(initCmd)
}
