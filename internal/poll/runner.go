// Package poll runs one bounded pass of the posting pipeline:
// discover, route, validate, dedupe, score, commit and forward.
package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"internscout/internal/config"
	"internscout/internal/discover"
	"internscout/internal/domain"
	"internscout/internal/ingest"
	"internscout/internal/logger"
	"internscout/internal/rank"
	"internscout/internal/sink"
	"internscout/internal/store"
)

type Discoverer interface {
	Discover(ctx context.Context, rules config.RuleSet) discover.Result
}

type Dispatcher interface {
	Dispatch(ctx context.Context, url string) ingest.Result
}

type Runner struct {
	Discover Discoverer
	Router   Dispatcher
	Store    store.Dedupe
	Sink     sink.Forwarder
	Rules    config.RuleSet

	RunBudget time.Duration
	URLBudget time.Duration

	log *zap.Logger
	now func() time.Time
}

func NewRunner(d Discoverer, r Dispatcher, st store.Dedupe, fwd sink.Forwarder, rules config.RuleSet, log *zap.Logger) *Runner {
	log = logger.OrNop(log)
	return &Runner{
		Discover:  d,
		Router:    r,
		Store:     st,
		Sink:      fwd,
		Rules:     rules,
		RunBudget: config.DefaultRunBudget,
		URLBudget: config.DefaultURLBudget,
		log:       log,
		now:       time.Now,
	}
}

// Run is a live pass: admitted postings are remembered, then forwarded.
func (r *Runner) Run(ctx context.Context) Summary {
	sum, _ := r.run(ctx, r.Store, false)
	return sum
}

// DryRun runs the same pipeline without forwarding or persisting anything
// and returns the payloads a live run would have sent.
func (r *Runner) DryRun(ctx context.Context) (Summary, []domain.Posting) {
	return r.run(ctx, store.NewOverlay(r.Store), true)
}

func (r *Runner) run(ctx context.Context, dedupe store.Dedupe, dry bool) (Summary, []domain.Posting) {
	var (
		sum     Summary
		pending []domain.Posting
		start   = r.now()
	)
	defer func() {
		sum.Elapsed = r.now().Sub(start)
		r.log.Info("run finished", append(sum.Fields(), zap.Bool("dry_run", dry))...)
	}()

	disc := r.Discover.Discover(ctx, r.Rules)
	sum.URLsDiscovered = len(disc.URLs)
	sum.DiscoveryErrors = disc.SearchErrors

	for _, u := range disc.URLs {
		if r.now().Sub(start) >= r.RunBudget {
			sum.BudgetExhausted = true
			r.log.Warn("run budget exhausted",
				zap.Duration("budget", r.RunBudget),
				zap.Int("remaining_urls", sum.URLsDiscovered-sum.URLsProcessed))
			break
		}
		if ctx.Err() != nil {
			r.log.Warn("run cancelled", zap.Error(ctx.Err()))
			break
		}

		res := r.dispatch(ctx, u)
		sum.URLsProcessed++
		switch res.Outcome {
		case ingest.OutcomeTimeout:
			sum.ConnectorTimeouts++
		case ingest.OutcomeError:
			sum.ConnectorErrors++
		}
		sum.RecordsFound += len(res.Postings)

		for _, raw := range res.Postings {
			p, ok := r.admit(ctx, raw, dedupe, &sum)
			if !ok {
				continue
			}
			if dry {
				pending = append(pending, p)
				continue
			}
			if err := r.Sink.Forward(ctx, p); err != nil {
				sum.ForwardFailures++
				r.log.Error("forward failed",
					zap.String("hash", p.Hash),
					zap.String("title", p.Title),
					zap.Error(err))
				continue
			}
			sum.Forwarded++
			r.log.Info("forwarded",
				zap.String("hash", p.Hash),
				zap.String("title", p.Title),
				zap.String("organization", p.Organization),
				zap.Int("score", p.Score))
		}
	}
	return sum, pending
}

func (r *Runner) dispatch(ctx context.Context, u string) ingest.Result {
	uctx, cancel := context.WithTimeout(ctx, r.URLBudget)
	defer cancel()
	return r.Router.Dispatch(uctx, u)
}

// admit takes one raw record through validation, dedupe, scoring and commit.
// It returns the posting ready to forward.
func (r *Runner) admit(ctx context.Context, raw domain.Raw, dedupe store.Dedupe, sum *Summary) (domain.Posting, bool) {
	p, warnings, err := domain.FromRaw(raw)
	if err != nil {
		sum.Invalid++
		r.log.Debug("invalid record", zap.Error(err), zap.String("source_id", raw.Text("source_id")))
		return p, false
	}
	for _, w := range warnings {
		r.log.Warn("record field dropped", zap.String("source_id", p.SourceID), zap.String("reason", w))
	}

	p.Hash = domain.Fingerprint(p)
	seen, err := dedupe.Seen(ctx, p.Hash)
	if err != nil {
		sum.StoreErrors++
		r.log.Error("dedupe lookup failed", zap.String("hash", p.Hash), zap.Error(err))
		return p, false
	}
	if seen {
		sum.Duplicates++
		return p, false
	}

	score, parts := rank.Explain(p, r.Rules)
	p.Score = score
	p.DateFound = r.now().UTC().Format(time.DateOnly)
	if ce := r.log.Check(zap.DebugLevel, "scored"); ce != nil {
		reasons := make([]string, len(parts))
		for i, c := range parts {
			reasons[i] = c.String()
		}
		ce.Write(zap.String("hash", p.Hash), zap.String("title", p.Title), zap.Int("score", score), zap.Strings("factors", reasons))
	}
	if !rank.Admit(score) {
		sum.BelowThreshold++
		return p, false
	}
	sum.Admitted++

	// Remember before forwarding: a failed forward is not retried next run.
	if err := dedupe.Remember(ctx, p.Hash); err != nil {
		sum.StoreErrors++
		r.log.Error("remember failed", zap.String("hash", p.Hash), zap.Error(err))
		return p, false
	}
	return p, true
}
