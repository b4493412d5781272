package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("rules validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of rules (trimmed,
// de-duplicated lists) together with the problems found.
func NormalizeAndValidate(rules RuleSet) (RuleSet, Validation) {
	var out = rules
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Keywords = trimList(out.Keywords)
	out.Exclude = trimList(out.Exclude)
	out.PreferredStates = trimList(out.PreferredStates)
	out.PreferredOrganizations = trimList(out.PreferredOrganizations)
	out.StaticURLs = trimList(out.StaticURLs)

	weights := make(map[string]int, len(out.ScoreWeights))
	for k, w := range out.ScoreWeights {
		weights[strings.ToLower(strings.TrimSpace(k))] = w
	}
	out.ScoreWeights = weights

	if len(out.Keywords) == 0 {
		res.addWarn("keywords is empty; the search query and keyword bonus are disabled.")
	}
	if len(out.Keywords) > 30 {
		res.addWarn("keywords has %d entries; the search query may be truncated by the provider.", len(out.Keywords))
	}

	names := make([]string, 0, len(weights))
	for k := range weights {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		if !slices.Contains(KnownWeights, k) {
			res.addWarn("score_weights.%s is not a known weight and will be ignored", k)
		}
	}
	if w, ok := weights[WeightNegativeTerm]; ok && w > 0 {
		res.addWarn("score_weights.negative_term is %d; exclusion terms will raise the score", w)
	}

	for i, raw := range out.StaticURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			res.addErr("static_urls[%d] is not an absolute http(s) URL: %q", i, raw)
		}
	}

	excluded := map[string]bool{}
	for _, e := range out.Exclude {
		excluded[strings.ToLower(e)] = true
	}
	for _, k := range out.Keywords {
		if excluded[strings.ToLower(k)] {
			res.addWarn("term appears in both keywords and exclude: %q", k)
		}
	}

	return out, res
}
