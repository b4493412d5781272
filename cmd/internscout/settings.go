package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/discover"
	"internscout/internal/ingest"
	"internscout/internal/logger"
	"internscout/internal/poll"
	"internscout/internal/scrape/util"
	"internscout/internal/secrets"
	"internscout/internal/sink"
	"internscout/internal/store"
)

func newLogger() (*zap.Logger, error) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return l, nil
}

// loadSettings resolves flags and environment, then fills empty credentials
// from the keychain.
func loadSettings() (config.Settings, error) {
	var s config.Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	s = s.WithDefaults()

	if s.SheetEndpoint == "" {
		if v, err := secrets.Lookup("SHEET_ENDPOINT"); err == nil {
			s.SheetEndpoint = v
		}
	}
	if s.SerpAPIKey == "" {
		if v, err := secrets.Lookup("SERP_API_KEY"); err == nil {
			s.SerpAPIKey = v
		}
	}
	return s, nil
}

// prepare resolves settings for mode and loads the rules. Nothing touches the
// network before it succeeds.
func prepare(mode config.Mode, log *zap.Logger) (config.Settings, config.RuleSet, error) {
	s, err := loadSettings()
	if err != nil {
		return s, config.RuleSet{}, err
	}
	if err := s.Require(mode); err != nil {
		return s, config.RuleSet{}, err
	}
	rules, v, err := s.LoadRules()
	for _, e := range v.Errors {
		log.Error("rules error", zap.String("path", s.RulesPath), zap.String("error", e))
	}
	if err != nil {
		return s, rules, err
	}
	for _, w := range v.Warnings {
		log.Warn("rules warning", zap.String("path", s.RulesPath), zap.String("warning", w))
	}
	return s, rules, nil
}

// openState locks the state directory and opens the fingerprint store.
// The returned func closes both.
func openState(ctx context.Context, dir string) (*store.DB, func(), error) {
	unlock, err := store.Lock(dir)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(ctx, filepath.Join(dir, store.DBFile))
	if err != nil {
		_ = unlock()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return db, func() {
		_ = db.Close()
		_ = unlock()
	}, nil
}

func newPipeline(s config.Settings, rules config.RuleSet, dedupe store.Dedupe, fwd sink.Forwarder, log *zap.Logger) *poll.Runner {
	client := util.NewClient(s.ConnectorBudget, util.NewHostLimiter(1.0, 2))
	router := ingest.NewDefault(client, s.ConnectorBudget, log.Named("router"))
	serp := discover.NewSerpAPI(s.SerpAPIKey, config.DefaultSearchTimeout)
	if s.SerpEndpoint != "" {
		serp.Endpoint = s.SerpEndpoint
	}
	disc := discover.New(serp, log.Named("discover"))

	r := poll.NewRunner(disc, router, dedupe, fwd, rules, log.Named("pipeline"))
	r.RunBudget = s.RunBudget
	r.URLBudget = s.URLBudget
	return r
}
