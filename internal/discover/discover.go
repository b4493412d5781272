// Package discover assembles the bounded URL list one run will route.
package discover

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/logger"
	"internscout/internal/scrape/util"
)

// Discoverer combines the static list with at most two search queries.
type Discoverer struct {
	Search  Searcher
	Static  []string
	MaxURLs int

	log *zap.Logger
}

func New(search Searcher, log *zap.Logger) *Discoverer {
	log = logger.OrNop(log)
	return &Discoverer{
		Search:  search,
		Static:  BuiltinURLs,
		MaxURLs: config.DefaultMaxURLs,
		log:     log,
	}
}

type Result struct {
	URLs         []string
	SearchErrors int
}

// Queries returns the search queries issued for rules, never more than two.
func Queries(rules config.RuleSet) []string {
	var qs []string
	if len(rules.Keywords) > 0 {
		qs = append(qs, "("+strings.Join(rules.Keywords, " OR ")+`) internship "Summer 2026"`)
	}
	if len(rules.PreferredOrganizations) > 0 {
		qs = append(qs, "("+strings.Join(rules.PreferredOrganizations, " OR ")+") public health internship 2026")
	}
	return qs
}

// Discover returns the ranked, filtered URL list. Search failures are
// logged and counted; the static list is always present.
func (d *Discoverer) Discover(ctx context.Context, rules config.RuleSet) Result {
	var res Result

	candidates := make([]string, 0, len(d.Static)+len(rules.StaticURLs))
	candidates = append(candidates, d.Static...)
	candidates = append(candidates, rules.StaticURLs...)

	if d.Search != nil {
		for _, q := range Queries(rules) {
			if ctx.Err() != nil {
				break
			}
			links, err := d.Search.Search(ctx, q)
			if err != nil {
				res.SearchErrors++
				d.log.Warn("search failed", zap.String("query", q), zap.Error(err))
				continue
			}
			d.log.Debug("search results", zap.String("query", q), zap.Int("links", len(links)))
			candidates = append(candidates, links...)
		}
	}

	res.URLs = Filter(candidates, rules.PreferredOrganizations, d.MaxURLs)
	d.log.Info("discovered urls",
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(res.URLs)),
		zap.Int("search_errors", res.SearchErrors),
	)
	return res
}

// Filter canonicalizes, dedupes, drops junk, keeps job-like URLs and caps
// the ranked result at max. Equal scores keep input order.
func Filter(candidates, orgs []string, max int) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(candidates))
	for _, raw := range candidates {
		u := util.CanonicalizeURL(raw)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		if isJunkURL(u) || !keepURL(u, orgs) {
			continue
		}
		out = append(out, u)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return scoreURL(out[i]) > scoreURL(out[j])
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
