package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingSetting = errors.New("missing required setting")

type Mode string

const (
	ModeLive     Mode = "live"
	ModeValidate Mode = "validate"
	ModeSelfTest Mode = "selftest"
)

const (
	DefaultRunBudget       = 600 * time.Second
	DefaultURLBudget       = 30 * time.Second
	DefaultConnectorBudget = 60 * time.Second
	DefaultSearchTimeout   = 30 * time.Second
	DefaultForwardTimeout  = 20 * time.Second
	DefaultMaxURLs         = 30
)

// Settings are the process-level inputs resolved from flags, environment,
// .env and the keychain.
type Settings struct {
	RulesPath     string `mapstructure:"rules"`
	URLsPath      string `mapstructure:"urls"`
	StateDir      string `mapstructure:"state-dir"`
	SheetEndpoint string `mapstructure:"sheet-endpoint"`
	SerpAPIKey    string `mapstructure:"serp-api-key"`
	SerpEndpoint  string `mapstructure:"serp-endpoint"`

	RunBudget       time.Duration `mapstructure:"budget"`
	URLBudget       time.Duration `mapstructure:"url-budget"`
	ConnectorBudget time.Duration `mapstructure:"connector-budget"`
}

// WithDefaults fills zero values.
func (s Settings) WithDefaults() Settings {
	if s.RulesPath == "" {
		s.RulesPath = "config/rules.yaml"
	}
	if s.StateDir == "" {
		s.StateDir = ".state"
	}
	if s.RunBudget <= 0 {
		s.RunBudget = DefaultRunBudget
	}
	if s.URLBudget <= 0 {
		s.URLBudget = DefaultURLBudget
	}
	if s.ConnectorBudget <= 0 {
		s.ConnectorBudget = DefaultConnectorBudget
	}
	return s
}

// Require reports every setting the mode needs but does not have.
func (s Settings) Require(mode Mode) error {
	var missing []string
	if mode != ModeValidate && strings.TrimSpace(s.SheetEndpoint) == "" {
		missing = append(missing, "SHEET_ENDPOINT")
	}
	if mode != ModeSelfTest && strings.TrimSpace(s.SerpAPIKey) == "" {
		missing = append(missing, "SERP_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w for %s mode: %s", ErrMissingSetting, mode, strings.Join(missing, ", "))
	}
	return nil
}

// LoadRules reads, overlays and validates the rule document named by s.
// Warnings are returned alongside a usable rule set; errors are fatal.
func (s Settings) LoadRules() (RuleSet, Validation, error) {
	rules, err := Load(s.RulesPath)
	if err != nil {
		return RuleSet{}, Validation{}, err
	}
	if err := OverlayStaticURLs(&rules, s.URLsPath); err != nil {
		return RuleSet{}, Validation{}, err
	}
	rules, v := NormalizeAndValidate(rules)
	if err := v.Err(); err != nil {
		return RuleSet{}, v, err
	}
	return rules, v, nil
}
