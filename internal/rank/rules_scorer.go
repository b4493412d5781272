package rank

import (
	"fmt"
	"slices"
	"strings"

	"internscout/internal/config"
	"internscout/internal/domain"
	"internscout/internal/textutil"
)

const (
	termYear = "2026"

	keywordBonus    = 5
	mphBonus        = 10
	internshipBonus = 15
	undergradMalus  = -30
	graduateBonus   = 20

	defaultPreferredOrgWeight = 20
)

var (
	paidValues = []string{"paid", "yes", "stipend", "compensated"}

	sectorTerms = []string{"health", "medical", "public health", "epidemiology"}

	mphTerms = []string{"mph", "master of public health", "public health", "epidemiology", "biostatistics", "health policy"}

	internshipTerms = []string{"internship", "intern", "summer program", "fellowship"}

	undergradOnlyTerms = []string{"undergraduate only", "bachelor", "no graduate", "student only"}

	graduateTerms = []string{"graduate", "masters", "mph", "doctoral", "phd"}
)

// Contribution is one factor that moved a posting's score.
type Contribution struct {
	Factor string
	Points int
}

func (c Contribution) String() string { return fmt.Sprintf("%s%+d", c.Factor, c.Points) }

// Score computes a posting's additive relevance score under rules.
func Score(p domain.Posting, rules config.RuleSet) int {
	score, _ := Explain(p, rules)
	return score
}

// Explain returns the score along with every factor that contributed to it,
// in evaluation order. The returned score is never negative.
func Explain(p domain.Posting, rules config.RuleSet) (int, []Contribution) {
	text := textutil.Fold(p.Title + " " + p.Description + " " + p.Term)

	score := 0
	var parts []Contribution
	add := func(factor string, points int) {
		if points == 0 {
			return
		}
		score += points
		parts = append(parts, Contribution{Factor: factor, Points: points})
	}

	state := textutil.Fold(p.StateProvince)
	if state != "" && textutil.ContainsAny(state, rules.PreferredStates) {
		add(config.WeightLocationMatch, rules.Weight(config.WeightLocationMatch))
	}

	if strings.Contains(text, termYear) {
		add(config.WeightTermMatch, rules.Weight(config.WeightTermMatch))
	}

	if slices.Contains(paidValues, strings.ToLower(strings.TrimSpace(p.Paid))) {
		add(config.WeightPaid, rules.Weight(config.WeightPaid))
	}

	org := textutil.Fold(p.Organization)
	if org != "" {
		if name, ok := textutil.FirstMatch(org, rules.PreferredOrganizations); ok {
			add(config.WeightPreferredOrgMatch+":"+name, rules.WeightOr(config.WeightPreferredOrgMatch, defaultPreferredOrgWeight))
		}
	}

	for _, kw := range rules.Keywords {
		if textutil.ContainsAny(text, []string{kw}) {
			add("keyword:"+kw, keywordBonus)
		}
	}

	for _, ex := range rules.Exclude {
		if textutil.ContainsAny(text, []string{ex}) {
			add(config.WeightNegativeTerm+":"+ex, rules.Weight(config.WeightNegativeTerm))
		}
	}

	if textutil.ContainsAny(text, sectorTerms) {
		add(config.WeightSectorMatch, rules.Weight(config.WeightSectorMatch))
	}

	if term, ok := textutil.FirstMatch(text, mphTerms); ok {
		add("mph:"+term, mphBonus)
	}

	if term, ok := textutil.FirstMatch(text, internshipTerms); ok {
		add("internship:"+term, internshipBonus)
	}

	if textutil.ContainsAny(text, undergradOnlyTerms) {
		add("undergraduate_only", undergradMalus)
	}

	if textutil.ContainsAny(text, graduateTerms) {
		add("graduate", graduateBonus)
	}

	if score < 0 {
		score = 0
	}
	return score, parts
}
