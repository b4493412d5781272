package lever

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

const DefaultAPIBase = "https://api.lever.co"

type Scraper struct {
	client  *util.Client
	APIBase string
}

var _ types.Connector = (*Scraper)(nil)

func New(client *util.Client) *Scraper {
	return &Scraper{client: client, APIBase: DefaultAPIBase}
}

func (s *Scraper) Name() string { return domain.SourceLever }

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"` // title
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"` // ms epoch
	Description      string `json:"description"`
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Department string `json:"department"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	SalaryRange *struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"salaryRange"`
}

// SlugFromURL returns the company slug in jobs.lever.co/<slug>[/<id>].
func SlugFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.HasSuffix(strings.ToLower(u.Hostname()), "lever.co") {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(u.Hostname()), "api.") {
		// api.lever.co/v0/postings/<slug>
		if len(segs) >= 3 && segs[1] == "postings" {
			return segs[2]
		}
		return ""
	}
	return segs[0]
}

func (s *Scraper) Extract(ctx context.Context, sourceURL string) ([]domain.Raw, error) {
	slug := SlugFromURL(sourceURL)
	if slug == "" {
		return nil, fmt.Errorf("lever: no company slug in %s", sourceURL)
	}

	apiURL := fmt.Sprintf("%s/v0/postings/%s?mode=json", s.APIBase, url.PathEscape(slug))
	var postings []leverPosting
	if err := s.client.GetJSON(ctx, apiURL, &postings); err != nil {
		return nil, fmt.Errorf("lever postings %s: %w", slug, err)
	}

	org := displayName(slug)
	out := make([]domain.Raw, 0, len(postings))
	for _, p := range postings {
		title := util.CleanText(p.Text)
		if p.ID == "" || title == "" {
			continue
		}

		desc := util.CleanText(p.DescriptionPlain)
		if desc == "" {
			desc = util.HTMLToText(p.Description)
		}
		loc := util.NormalizeLocation(p.Categories.Location)

		r := domain.Raw{}
		r.Set("title", title)
		r.Set("organization", org)
		r.Set("location", loc)
		r.Set("state_province", util.StateFromLocation(loc))
		r.Set("url", p.HostedURL)
		r.Set("description", desc)
		r.Set("department", util.FirstNonEmpty(p.Categories.Department, p.Categories.Team))
		r.Set("source_id", fmt.Sprintf("lever:%s:%s", slug, p.ID))
		r.Set("ats_type", domain.SourceLever)
		if p.CreatedAt > 0 {
			r.Set("date_posted", time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339))
		}
		if p.SalaryRange != nil && p.SalaryRange.Max > 0 {
			r.Set("paid", "paid")
		}
		out = append(out, r)
	}

	out = scrape.KeepRelevant(out)

	for i := range out {
		if out[i].Text("location") == "" {
			s.hydrateLocation(ctx, out[i])
		}
	}
	return out, nil
}

// hydrateLocation reads the location from the hosted posting page when the
// API left it blank. When the page cannot be read the record keeps its empty
// location and is rejected as invalid downstream.
func (s *Scraper) hydrateLocation(ctx context.Context, r domain.Raw) {
	page := r.Text("url")
	if page == "" {
		return
	}
	doc, err := s.client.GetDocument(ctx, page)
	if err != nil {
		return
	}

	candidates := []string{
		".posting-categories .location",
		"[data-qa='location']",
		".location",
	}
	for _, sel := range candidates {
		if t := util.CleanText(doc.Find(sel).First().Text()); t != "" {
			loc := util.NormalizeLocation(t)
			r.Set("location", loc)
			r.Set("state_province", util.StateFromLocation(loc))
			return
		}
	}
	if loc := util.FindLocation(doc.Selection); loc != "" {
		r.Set("location", loc)
		r.Set("state_province", util.StateFromLocation(loc))
	}
}

func displayName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
