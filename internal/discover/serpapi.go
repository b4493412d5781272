package discover

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"internscout/internal/scrape/util"
)

const DefaultSerpEndpoint = "https://serpapi.com/search.json"

// Searcher returns result links for one query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// SerpAPI queries the SerpAPI Google engine.
type SerpAPI struct {
	Endpoint string
	APIKey   string
	Num      int

	client *util.Client
}

func NewSerpAPI(apiKey string, timeout time.Duration) *SerpAPI {
	return &SerpAPI{
		Endpoint: DefaultSerpEndpoint,
		APIKey:   apiKey,
		Num:      20,
		client:   util.NewClient(timeout, nil),
	}
}

type serpResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, query string) ([]string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("engine", "google")
	q.Set("api_key", s.APIKey)
	q.Set("num", fmt.Sprint(s.Num))

	var out serpResponse
	if err := s.client.GetJSON(ctx, s.Endpoint+"?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("serpapi search: %w", redacted{err: err, secret: s.APIKey})
	}
	if out.Error != "" {
		return nil, fmt.Errorf("serpapi search: %s", out.Error)
	}

	links := make([]string, 0, len(out.OrganicResults))
	for _, r := range out.OrganicResults {
		if l := strings.TrimSpace(r.Link); l != "" {
			links = append(links, l)
		}
	}
	return links, nil
}

// redacted hides the API key that transport errors echo back in the
// request URL.
type redacted struct {
	err    error
	secret string
}

func (r redacted) Error() string {
	msg := r.err.Error()
	if r.secret == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(r.secret), "REDACTED")
	return strings.ReplaceAll(msg, r.secret, "REDACTED")
}

func (r redacted) Unwrap() error { return r.err }
