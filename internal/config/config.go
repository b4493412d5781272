package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Score weight names understood by the scorer.
const (
	WeightLocationMatch     = "location_match"
	WeightTermMatch         = "term_match"
	WeightPaid              = "paid"
	WeightPreferredOrgMatch = "preferred_org_match"
	WeightNegativeTerm      = "negative_term"
	WeightSectorMatch       = "sector_match"
)

var KnownWeights = []string{
	WeightLocationMatch,
	WeightTermMatch,
	WeightPaid,
	WeightPreferredOrgMatch,
	WeightNegativeTerm,
	WeightSectorMatch,
}

// RuleSet is the relevance and scoring policy for one run. It is loaded once
// and passed by value; nothing mutates it after load.
type RuleSet struct {
	Keywords               []string       `yaml:"keywords"`
	Exclude                []string       `yaml:"exclude"`
	PreferredStates        []string       `yaml:"preferred_states"`
	PreferredOrganizations []string       `yaml:"preferred_organizations"`
	ScoreWeights           map[string]int `yaml:"score_weights"`
	StaticURLs             []string       `yaml:"static_urls,omitempty"`
}

// Weight returns the configured weight for name, or 0 when unset.
func (r RuleSet) Weight(name string) int {
	return r.ScoreWeights[name]
}

// WeightOr returns the configured weight for name, or def when unset.
func (r RuleSet) WeightOr(name string, def int) int {
	if w, ok := r.ScoreWeights[name]; ok {
		return w
	}
	return def
}

func Load(path string) (RuleSet, error) {
	var rules RuleSet
	b, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return rules, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return rules, nil
}
