package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"internscout/internal/domain"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fixed(name string, fn func(ctx context.Context, url string) ([]domain.Raw, error)) types.Connector {
	return types.ConnectorFunc{ID: name, Fn: fn}
}

func TestResolveDefaultTable(t *testing.T) {
	t.Parallel()

	r := NewDefault(util.NewClient(time.Second, nil), time.Second, nil)

	tests := map[string]string{
		"https://boards.greenhouse.io/acme":                           "greenhouse",
		"https://jobs.lever.co/acme":                                  "lever",
		"https://acme.wd1.myworkdayjobs.com/en-US/Careers":            "workday",
		"https://acme.example.org/wday/cxs/acme/Careers/jobs":         "workday",
		"https://sjobs.brassring.com/TGnewUI/Search/Home/Home?x=1":    "brassring",
		"https://www.governmentjobs.com/careers/nyc":                  "neogov",
		"https://jobs.smartrecruiters.com/Acme":                       "smartrecruiters",
		"https://www.indeed.com/jobs?q=mph+intern":                    "board",
		"https://careers.example.org/openings":                        "board",
	}
	for url, want := range tests {
		assert.Equal(t, want, r.Resolve(url).Name(), url)
	}
}

func TestDispatchOutcomes(t *testing.T) {
	t.Parallel()

	r := New(fixed("fallback", func(context.Context, string) ([]domain.Raw, error) {
		return nil, nil
	}), 200*time.Millisecond, nil)
	r.Register("ok", Contains("ok.test"), fixed("ok", func(context.Context, string) ([]domain.Raw, error) {
		return []domain.Raw{{"title": "MPH Intern"}}, nil
	}))
	r.Register("err", Contains("err.test"), fixed("err", func(context.Context, string) ([]domain.Raw, error) {
		return nil, errors.New("boom")
	}))
	r.Register("panic", Contains("panic.test"), fixed("panic", func(context.Context, string) ([]domain.Raw, error) {
		panic("bad selector")
	}))
	r.Register("ctx", Contains("ctx.test"), fixed("ctx", func(ctx context.Context, _ string) ([]domain.Raw, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	tests := []struct {
		url     string
		outcome Outcome
		n       int
	}{
		{url: "https://ok.test/", outcome: OutcomeOK, n: 1},
		{url: "https://err.test/", outcome: OutcomeError},
		{url: "https://panic.test/", outcome: OutcomeError},
		{url: "https://ctx.test/", outcome: OutcomeTimeout},
		{url: "https://other.test/", outcome: OutcomeEmpty},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			res := r.Dispatch(context.Background(), tt.url)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Len(t, res.Postings, tt.n)
		})
	}

	res := r.Dispatch(context.Background(), "https://panic.test/")
	require.ErrorIs(t, res.Err, ErrPanic)
}

func TestDispatchAbandonsStuckConnector(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	core, logs := observer.New(zap.WarnLevel)
	r := New(fixed("stuck", func(context.Context, string) ([]domain.Raw, error) {
		// Ignores ctx entirely.
		<-release
		return []domain.Raw{{"title": "late"}}, nil
	}), 50*time.Millisecond, zap.New(core))

	start := time.Now()
	res := r.Dispatch(context.Background(), "https://slow.test/")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Empty(t, res.Postings)
	assert.Equal(t, 1, logs.FilterMessage("connector timed out").Len())
}

func TestDispatchRespectsTighterParentDeadline(t *testing.T) {
	t.Parallel()

	r := New(fixed("slow", func(ctx context.Context, _ string) ([]domain.Raw, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res := r.Dispatch(ctx, "https://slow.test/")
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Less(t, res.Elapsed, time.Second)
}
