package smartrecruiters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internscout/internal/scrape/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/companies/PublicHealthInstitute/postings", r.URL.Path)
		assert.Equal(t, "intern", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"totalFound":2,"content":[
 {"id":"744","name":"Community Health Intern","releasedDate":"2025-12-10T15:04:05Z",
  "company":{"name":"Public Health Institute"},"department":{"label":"Programs"},
  "location":{"city":"Oakland","region":"CA","country":"us"}},
 {"id":"745","name":"Marketing Intern","company":{"name":"Public Health Institute"},
  "location":{"remote":true}}
]}`)
	}))
	defer srv.Close()

	s := New(util.NewClient(5*time.Second, nil))
	s.APIBase = srv.URL

	got, err := s.Extract(context.Background(), "https://jobs.smartrecruiters.com/PublicHealthInstitute")
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "Community Health Intern", r.Text("title"))
	assert.Equal(t, "Public Health Institute", r.Text("organization"))
	assert.Equal(t, "Oakland, CA, us", r.Text("location"))
	assert.Equal(t, "CA", r.Text("state_province"))
	assert.Equal(t, "https://jobs.smartrecruiters.com/PublicHealthInstitute/744", r.Text("url"))
	assert.Equal(t, "2025-12-10T15:04:05Z", r.Text("date_posted"))
}

func TestSlugFromURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme", SlugFromURL("https://careers.smartrecruiters.com/Acme"))
	assert.Equal(t, "Acme", SlugFromURL("https://jobs.smartrecruiters.com/Acme/7441-intern"))
	assert.Equal(t, "Acme", SlugFromURL("https://api.smartrecruiters.com/v1/companies/Acme/postings"))
	assert.Empty(t, SlugFromURL("https://example.org/Acme"))
}
