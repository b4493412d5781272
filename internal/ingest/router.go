// Package ingest routes source URLs to connectors and runs each connector
// under a time budget, turning every failure into an empty result.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"internscout/internal/config"
	"internscout/internal/domain"
	"internscout/internal/logger"
	"internscout/internal/scrape/board"
	"internscout/internal/scrape/greenhouse"
	"internscout/internal/scrape/lever"
	"internscout/internal/scrape/smartrecruiters"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"
	"internscout/internal/scrape/workday"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrPanic = errors.New("connector panicked")

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeEmpty   Outcome = "empty"
	OutcomeTimeout Outcome = "timeout"
	OutcomeError   Outcome = "error"
)

type Result struct {
	URL       string
	Connector string
	Postings  []domain.Raw
	Outcome   Outcome
	Err       error
	Elapsed   time.Duration
}

type Route struct {
	Name      string
	Match     func(url string) bool
	Connector types.Connector
}

// Contains matches URLs containing any of subs, case-insensitively.
func Contains(subs ...string) func(string) bool {
	return func(u string) bool {
		lu := strings.ToLower(u)
		for _, s := range subs {
			if strings.Contains(lu, s) {
				return true
			}
		}
		return false
	}
}

type Router struct {
	routes   []Route
	fallback types.Connector
	budget   time.Duration
	log      *zap.Logger
}

func New(fallback types.Connector, budget time.Duration, log *zap.Logger) *Router {
	log = logger.OrNop(log)
	if budget <= 0 {
		budget = config.DefaultConnectorBudget
	}
	return &Router{fallback: fallback, budget: budget, log: log}
}

// Register appends a route. Routes are tried in registration order.
func (r *Router) Register(name string, match func(string) bool, c types.Connector) {
	r.routes = append(r.routes, Route{Name: name, Match: match, Connector: c})
}

// NewDefault builds the standard route table over one shared HTTP client.
func NewDefault(client *util.Client, budget time.Duration, log *zap.Logger) *Router {
	r := New(board.New(client), budget, log)
	r.Register("greenhouse", Contains("greenhouse.io"), greenhouse.New(client))
	r.Register("lever", Contains("lever.co"), lever.New(client))
	r.Register("workday", Contains("workdayjobs", "/wday/cxs/"), workday.New(client))
	r.Register("brassring", Contains("brassring.com"), board.NewWithProfile(client, board.BrassRing))
	r.Register("neogov", Contains("governmentjobs.com"), board.NewWithProfile(client, board.NEOGOV))
	r.Register("smartrecruiters", Contains("smartrecruiters.com"), smartrecruiters.New(client))
	return r
}

// Resolve returns the connector for url: the first matching route, or the
// generic fallback.
func (r *Router) Resolve(url string) types.Connector {
	for _, rt := range r.routes {
		if rt.Match(url) {
			return rt.Connector
		}
	}
	return r.fallback
}

// Dispatch runs the resolved connector under the router's budget. It never
// returns an error: timeouts, errors and panics all produce an empty result
// with the matching outcome.
func (r *Router) Dispatch(ctx context.Context, url string) Result {
	c := r.Resolve(url)
	res := Result{URL: url, Connector: c.Name()}
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	var (
		out  []domain.Raw
		g    errgroup.Group
		done = make(chan struct{})
	)
	g.Go(func() (err error) {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrPanic, p)
			}
		}()
		out, err = c.Extract(cctx, url)
		return err
	})

	var (
		recs     []domain.Raw
		err      error
		timedOut bool
	)
	select {
	case <-done:
		err = g.Wait()
		recs = out
		timedOut = err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded)
	case <-cctx.Done():
		// The goroutine is abandoned; it exits once the connector honours ctx.
		err = cctx.Err()
		timedOut = errors.Is(err, context.DeadlineExceeded)
	}
	res.Elapsed = time.Since(start)

	switch {
	case timedOut:
		res.Outcome = OutcomeTimeout
		res.Err = context.DeadlineExceeded
		r.log.Warn("connector timed out",
			zap.String("connector", res.Connector),
			zap.String("url", url),
			zap.Duration("elapsed", res.Elapsed))
	case err != nil:
		res.Outcome = OutcomeError
		res.Err = err
		r.log.Warn("connector failed",
			zap.String("connector", res.Connector),
			zap.String("url", url),
			zap.Error(err))
	case len(recs) == 0:
		res.Outcome = OutcomeEmpty
	default:
		res.Outcome = OutcomeOK
		res.Postings = recs
	}

	r.log.Debug("dispatched",
		zap.String("connector", res.Connector),
		zap.String("url", url),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("records", len(res.Postings)),
		zap.Duration("elapsed", res.Elapsed))
	return res
}
