package poll

import (
	"context"
	"fmt"
	"time"

	"internscout/internal/config"
	"internscout/internal/domain"
	"internscout/internal/rank"
	"internscout/internal/sink"
)

// SyntheticRecord is the record the self-test pushes through the pipeline.
func SyntheticRecord() domain.Raw {
	return domain.Raw{
		"title":          "[SELF-TEST] MPH Public Health Internship",
		"organization":   "internscout self-test",
		"location":       "New York, NY",
		"state_province": "NY",
		"term":           "Summer 2026",
		"paid":           "Paid",
		"url":            "https://example.invalid/internscout/selftest",
		"description":    "Synthetic posting used to check the sheet endpoint. Safe to delete.",
		"source_id":      "selftest",
		"ats_type":       domain.SourceSelfTest,
	}
}

// SelfTest validates, fingerprints and scores one synthetic posting and sends
// it to fwd. It never reads or writes the fingerprint store, and the posting is
// forwarded whatever its score.
func SelfTest(ctx context.Context, fwd sink.Forwarder, rules config.RuleSet, now time.Time) (domain.Posting, error) {
	p, _, err := domain.FromRaw(SyntheticRecord())
	if err != nil {
		return p, fmt.Errorf("synthetic posting: %w", err)
	}
	p.Hash = domain.Fingerprint(p)
	p.Score = rank.Score(p, rules)
	p.DateFound = now.UTC().Format(time.DateOnly)

	if err := fwd.Forward(ctx, p); err != nil {
		return p, fmt.Errorf("self-test forward: %w", err)
	}
	return p, nil
}
