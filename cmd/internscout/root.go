package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"internscout/internal/config"
)

const (
	app = "internscout"
)

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "internscout finds public health internship postings and forwards the good ones to a sheet",
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var envBindings = map[string]string{
	"rules":          "INTERNSCOUT_RULES",
	"state-dir":      "INTERNSCOUT_STATE_DIR",
	"sheet-endpoint": "SHEET_ENDPOINT",
	"serp-api-key":   "SERP_API_KEY",
	"serp-endpoint":  "SERP_API_ENDPOINT",
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "rules file (default is config/rules.yaml, env INTERNSCOUT_RULES)")
	pf.String("urls", "", "optional YAML file with extra source URLs")
	pf.String("state-dir", "", "directory holding the fingerprint store (default is .state, env INTERNSCOUT_STATE_DIR)")
	pf.Duration("budget", config.DefaultRunBudget, "time budget for one whole run")
	pf.BoolP("debug", "d", false, "verbose/debug output")
	pf.BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("rules", pf.Lookup("config"))
	viper.BindPFlag("urls", pf.Lookup("urls"))
	viper.BindPFlag("state-dir", pf.Lookup("state-dir"))
	viper.BindPFlag("budget", pf.Lookup("budget"))
	viper.BindPFlag("debug", pf.Lookup("debug"))
	viper.BindPFlag("json", pf.Lookup("json"))
}

// initConfig loads an optional .env file before viper reads the environment.
func initConfig() {
	_ = godotenv.Load()
}
