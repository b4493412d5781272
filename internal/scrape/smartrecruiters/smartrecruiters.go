package smartrecruiters

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"internscout/internal/domain"
	"internscout/internal/scrape"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"
)

const (
	DefaultAPIBase = "https://api.smartrecruiters.com"

	pageSize = 100
	maxPages = 3
)

type Scraper struct {
	client  *util.Client
	APIBase string
}

var _ types.Connector = (*Scraper)(nil)

func New(client *util.Client) *Scraper {
	return &Scraper{client: client, APIBase: DefaultAPIBase}
}

func (s *Scraper) Name() string { return domain.SourceSmartRecruiters }

// Public API: { "content": [...], "totalFound": N, "offset": O, "limit": L }
type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
}

type posting struct {
	ID           string    `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	ReleasedDate time.Time `json:"releasedDate"`
	Ref          string    `json:"ref"`
	Company      struct {
		Name string `json:"name"`
	} `json:"company"`
	Department struct {
		Label string `json:"label"`
	} `json:"department"`
	Location struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

// SlugFromURL returns the company identifier in
// jobs.smartrecruiters.com/<slug> or careers.smartrecruiters.com/<slug>.
func SlugFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.HasSuffix(strings.ToLower(u.Hostname()), "smartrecruiters.com") {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) >= 3 && segs[0] == "v1" && segs[1] == "companies" {
		return segs[2]
	}
	if len(segs) == 0 || segs[0] == "" {
		return ""
	}
	return segs[0]
}

func (s *Scraper) Extract(ctx context.Context, sourceURL string) ([]domain.Raw, error) {
	slug := SlugFromURL(sourceURL)
	if slug == "" {
		return nil, fmt.Errorf("smartrecruiters: no company slug in %s", sourceURL)
	}

	base := fmt.Sprintf("%s/v1/companies/%s/postings", s.APIBase, url.PathEscape(slug))
	var out []domain.Raw

	for page := 0; page < maxPages; page++ {
		offset := page * pageSize
		u := fmt.Sprintf("%s?q=intern&limit=%d&offset=%d", base, pageSize, offset)

		var pr postingsResponse
		if err := s.client.GetJSON(ctx, u, &pr); err != nil {
			if len(out) > 0 {
				break
			}
			return nil, fmt.Errorf("smartrecruiters %s: %w", slug, err)
		}
		if len(pr.Content) == 0 {
			break
		}

		for _, p := range pr.Content {
			title := util.CleanText(p.Name)
			id := strings.TrimSpace(util.FirstNonEmpty(p.ID, p.UUID, p.Ref))
			if title == "" || id == "" {
				continue
			}

			loc := strings.Join(util.NonEmpty(p.Location.City, p.Location.Region, p.Location.Country), ", ")
			if loc == "" && p.Location.Remote {
				loc = "Remote"
			}
			loc = util.NormalizeLocation(loc)

			r := domain.Raw{}
			r.Set("title", title)
			r.Set("organization", util.FirstNonEmpty(p.Company.Name, slug))
			r.Set("location", loc)
			r.Set("state_province", util.StateFromLocation(loc))
			r.Set("url", fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", slug, id))
			r.Set("department", p.Department.Label)
			r.Set("source_id", fmt.Sprintf("smartrecruiters:%s:%s", slug, id))
			r.Set("ats_type", domain.SourceSmartRecruiters)
			if !p.ReleasedDate.IsZero() {
				r.Set("date_posted", p.ReleasedDate.UTC().Format(time.RFC3339))
			}
			out = append(out, r)
		}

		if pr.TotalFound > 0 && offset+pageSize >= pr.TotalFound {
			break
		}
	}

	return scrape.KeepRelevant(out), nil
}
