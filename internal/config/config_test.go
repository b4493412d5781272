package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndValidate(t *testing.T) {
	t.Parallel()

	rules, v := NormalizeAndValidate(RuleSet{
		Keywords:     []string{" epidemiology ", "Epidemiology", "", "health policy"},
		Exclude:      []string{"health policy"},
		ScoreWeights: map[string]int{"Location_Match": 10, "bogus": 3},
		StaticURLs:   []string{"https://boards.greenhouse.io/acme"},
	})

	assert.True(t, v.OK())
	assert.Equal(t, []string{"epidemiology", "health policy"}, rules.Keywords)
	assert.Equal(t, 10, rules.Weight(WeightLocationMatch))
	assert.Len(t, v.Warnings, 2)
	assert.Contains(t, v.Warnings[0], "bogus")
	assert.Contains(t, v.Warnings[1], "health policy")
}

func TestNormalizeAndValidateRejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, v := NormalizeAndValidate(RuleSet{StaticURLs: []string{"/careers"}})
	require.False(t, v.OK())
	assert.Error(t, v.Err())
}

func TestWeightOr(t *testing.T) {
	t.Parallel()

	r := RuleSet{ScoreWeights: map[string]int{WeightPaid: 0}}
	assert.Equal(t, 0, r.WeightOr(WeightPaid, 7))
	assert.Equal(t, 20, r.WeightOr(WeightPreferredOrgMatch, 20))
	assert.Equal(t, 0, r.Weight(WeightSectorMatch))
}

func TestEnsureRulesAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config", "rules.yaml")

	created, err := EnsureRules(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureRules(path)
	require.NoError(t, err)
	assert.False(t, created)

	urls := filepath.Join(dir, "urls.yaml")
	require.NoError(t, os.WriteFile(urls, []byte("urls:\n  - https://jobs.lever.co/acme\n"), 0o644))

	rules, v, err := Settings{RulesPath: path, URLsPath: urls}.LoadRules()
	require.NoError(t, err)
	assert.True(t, v.OK())
	assert.NotEmpty(t, rules.Keywords)
	assert.Equal(t, 20, rules.Weight(WeightPreferredOrgMatch))
	assert.Contains(t, rules.StaticURLs, "https://jobs.lever.co/acme")
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, SaveAtomic(path, RuleSet{Keywords: []string{"mph"}}))
	require.NoError(t, SaveAtomic(path, RuleSet{Keywords: []string{"epidemiology"}}))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"epidemiology"}, got.Keywords)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, []string{"mph"}, bak.Keywords)
}

func TestSettingsRequire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       Settings
		mode    Mode
		wantErr bool
	}{
		{name: "live complete", s: Settings{SheetEndpoint: "https://x", SerpAPIKey: "k"}, mode: ModeLive},
		{name: "live missing key", s: Settings{SheetEndpoint: "https://x"}, mode: ModeLive, wantErr: true},
		{name: "validate needs only key", s: Settings{SerpAPIKey: "k"}, mode: ModeValidate},
		{name: "selftest needs only endpoint", s: Settings{SheetEndpoint: "https://x"}, mode: ModeSelfTest},
		{name: "selftest missing endpoint", s: Settings{SerpAPIKey: "k"}, mode: ModeSelfTest, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.s.Require(tt.mode)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingSetting)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	s := Settings{}.WithDefaults()
	assert.Equal(t, DefaultRunBudget, s.RunBudget)
	assert.Equal(t, DefaultURLBudget, s.URLBudget)
	assert.Equal(t, DefaultConnectorBudget, s.ConnectorBudget)
	assert.Equal(t, ".state", s.StateDir)
}
