package workday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"internscout/internal/scrape/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/External", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "CALYPSO_CSRF_TOKEN", Value: "tok-123", Path: "/"})
		fmt.Fprint(w, "<html></html>")
	})
	mux.HandleFunc("/wday/cxs/statehealth/External/jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok-123", r.Header.Get("x-calypso-csrf-token"))

		var body WDRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "intern", body.SearchText)
		assert.Equal(t, pageSize, body.Limit)

		fmt.Fprint(w, `{"total":2,"jobPostings":[
 {"title":"Public Health Intern - Epidemiology","externalPath":"/job/Albany/Public-Health-Intern_R100",
  "locationsText":"Albany, NY","postedOnDate":"2025-12-01","bulletFields":["R100"]},
 {"title":"IT Intern","externalPath":"/job/Albany/IT-Intern_R101","locationsText":"Albany, NY"}
]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(util.NewClient(5*time.Second, nil))
	got, err := s.Extract(context.Background(), srv.URL+"/wday/cxs/statehealth/External/jobs")
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "Public Health Intern - Epidemiology", r.Text("title"))
	assert.Equal(t, "Statehealth", r.Text("organization"))
	assert.Equal(t, "NY", r.Text("state_province"))
	assert.Equal(t, srv.URL+"/External/job/Albany/Public-Health-Intern_R100", r.Text("url"))
	assert.Equal(t, "workday:statehealth:External:R100", r.Text("source_id"))
	assert.Equal(t, "2025-12-01", r.Text("date_posted"))
}

func TestExtractBlockedHostIsRemembered(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(util.NewClient(5*time.Second, nil))
	src := srv.URL + "/wday/cxs/acme/Careers/jobs"

	_, err := s.Extract(context.Background(), src)
	require.ErrorIs(t, err, ErrWorkdayBlocked)
	_, err = s.Extract(context.Background(), src)
	require.ErrorIs(t, err, ErrWorkdayBlocked)
	assert.Equal(t, int32(1), calls.Load())
}

func TestParseBoardURL(t *testing.T) {
	t.Parallel()

	b, err := parseBoardURL("https://acme.wd1.myworkdayjobs.com/en-us/AcmeCareers/job/NY/Intern_R1")
	require.NoError(t, err)
	assert.Equal(t, "acme", b.Tenant)
	assert.Equal(t, "AcmeCareers", b.Site)
	assert.Equal(t, "en-US", b.Locale)
	assert.Equal(t, "https://acme.wd1.myworkdayjobs.com/wday/cxs/acme/AcmeCareers/jobs?locale=en-US", b.jobsEndpoint())

	b, err = parseBoardURL("https://acme.wd5.myworkdayjobs.com/wday/cxs/acme/Ext/jobs")
	require.NoError(t, err)
	assert.Equal(t, "Ext", b.Site)
	assert.Equal(t, "https://acme.wd5.myworkdayjobs.com/Ext", b.Page)

	_, err = parseBoardURL("https://localhost/")
	require.Error(t, err)
}

func TestParseWorkdayPostedAt(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, parseWorkdayPostedAt("2025-01-02"))
	assert.NotNil(t, parseWorkdayPostedAt("1735776000000"))
	assert.Nil(t, parseWorkdayPostedAt("Posted 3 Days Ago"))
}

func TestSessionBootstrapWaitsOnHostLimiter(t *testing.T) {
	t.Parallel()

	var (
		calls   atomic.Int32
		mu      sync.Mutex
		methods []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		fmt.Fprint(w, `{"total":0,"jobPostings":[]}`)
	}))
	defer srv.Close()

	// One request for the host, ever: the session GET must spend it.
	s := New(util.NewClient(5*time.Second, util.NewHostLimiter(0, 1)))
	_, err := s.Extract(context.Background(), srv.URL+"/wday/cxs/acme/Careers/jobs")
	require.Error(t, err)

	assert.Equal(t, int32(1), calls.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{http.MethodGet}, methods)
}
