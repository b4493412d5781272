package workday

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"internscout/internal/domain"
	"internscout/internal/scrape"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"
)

const (
	pageSize   = 20
	maxPages   = 5
	searchText = "intern"
)

var ErrWorkdayBlocked = errors.New("workday blocked by cloudflare")

type Scraper struct {
	client *util.Client

	mu          sync.Mutex
	blockedHost map[string]bool
}

var _ types.Connector = (*Scraper)(nil)

func New(client *util.Client) *Scraper {
	return &Scraper{
		client:      client,
		blockedHost: map[string]bool{},
	}
}

func (s *Scraper) Name() string { return domain.SourceWorkday }

type board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
	Page   string
}

type WDRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type WDResponse struct {
	Total       int         `json:"total"`
	JobPostings []WDPosting `json:"jobPostings"`
}

type WDPosting struct {
	Title         string   `json:"title"`
	ExternalPath  string   `json:"externalPath"`
	ExternalURL   string   `json:"externalUrl"`
	LocationsText string   `json:"locationsText"`
	Location      string   `json:"location"`
	PostedOn      string   `json:"postedOn"`
	PostedOnDate  string   `json:"postedOnDate"`
	BulletFields  []string `json:"bulletFields"`
}

// parseBoardURL accepts both the public board URL
// (https://<tenant>.wd1.myworkdayjobs.com/en-US/<site>) and the CXS API form
// (https://<host>/wday/cxs/<tenant>/<site>/jobs).
func parseBoardURL(raw string) (board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return board{}, fmt.Errorf("missing host in %q", raw)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	for i := 0; i+3 < len(segs); i++ {
		if segs[i] == "wday" && segs[i+1] == "cxs" {
			return board{
				Scheme: u.Scheme,
				Host:   u.Host,
				Tenant: segs[i+2],
				Site:   segs[i+3],
				Page:   fmt.Sprintf("%s://%s/%s", u.Scheme, u.Host, segs[i+3]),
			}, nil
		}
	}

	parts := strings.Split(u.Hostname(), ".")
	if len(parts) < 3 {
		return board{}, fmt.Errorf("unexpected host %q", u.Host)
	}
	tenant := parts[0]

	if len(segs) == 0 || segs[0] == "" {
		return board{}, fmt.Errorf("unexpected path %q", u.Path)
	}

	// Detect locale like "en-US" (case-insensitive)
	locale := ""
	if len(segs) >= 2 && looksLikeLocale(segs[0]) {
		locale = normalizeLocale(segs[0])
		segs = segs[1:]
	}

	// Site is the first segment after the locale; job detail paths follow it.
	site := segs[0]
	if site == "" {
		return board{}, fmt.Errorf("could not derive site from path %q", u.Path)
	}

	return board{
		Scheme: u.Scheme,
		Host:   u.Host,
		Tenant: tenant,
		Site:   site,
		Locale: locale,
		Page:   raw,
	}, nil
}

func looksLikeLocale(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	return isAlpha(s[0:2]) && isAlpha(s[3:5])
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 && s[2] == '-' {
		return strings.ToLower(s[0:2]) + "-" + strings.ToUpper(s[3:5])
	}
	return s
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func (b board) origin() string { return fmt.Sprintf("%s://%s", b.Scheme, b.Host) }

func (b board) jobsEndpoint() string {
	base := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", b.origin(), b.Tenant, b.Site)
	if b.Locale == "" {
		return base
	}
	return base + "?locale=" + url.QueryEscape(b.Locale)
}

func (b board) absoluteJobURL(p WDPosting) string {
	if p.ExternalURL != "" {
		return strings.TrimSpace(p.ExternalURL)
	}
	path := strings.TrimSpace(p.ExternalPath)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s/%s%s", b.origin(), b.Site, path)
}

func (s *Scraper) isBlocked(host string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockedHost[host]
}

func (s *Scraper) markBlocked(host string) {
	s.mu.Lock()
	s.blockedHost[host] = true
	s.mu.Unlock()
}

func (s *Scraper) Extract(ctx context.Context, sourceURL string) ([]domain.Raw, error) {
	b, err := parseBoardURL(sourceURL)
	if err != nil {
		return nil, err
	}
	if s.isBlocked(b.Host) {
		return nil, ErrWorkdayBlocked
	}

	// Per-board cookie jar so CALYPSO_CSRF_TOKEN and the session persist.
	jar, _ := cookiejar.New(nil)
	hc := &http.Client{Jar: jar, Timeout: s.client.HC.Timeout}
	api := &util.Client{HC: hc, Limiter: s.client.Limiter}

	csrf, bootErr := bootstrapSession(ctx, hc, s.client.Limiter, b.Page)
	if errors.Is(bootErr, ErrWorkdayBlocked) {
		s.markBlocked(b.Host)
		return nil, ErrWorkdayBlocked
	}

	header := http.Header{}
	header.Set("Origin", b.origin())
	header.Set("Referer", strings.TrimRight(b.Page, "/"))
	header.Set("Accept-Language", util.FirstNonEmpty(b.Locale, "en-US"))
	if csrf != "" {
		header.Set("x-calypso-csrf-token", csrf)
	}

	org := displayName(b.Tenant)
	var out []domain.Raw

	for page := 0; page < maxPages; page++ {
		body := WDRequest{
			AppliedFacets: map[string]any{},
			Limit:         pageSize,
			Offset:        page * pageSize,
			SearchText:    searchText,
		}

		var jr WDResponse
		if err := api.PostJSON(ctx, b.jobsEndpoint(), body, header, &jr); err != nil {
			if len(out) > 0 {
				break
			}
			return nil, fmt.Errorf("workday %s/%s: %w", b.Tenant, b.Site, err)
		}
		if len(jr.JobPostings) == 0 {
			break
		}

		for _, p := range jr.JobPostings {
			title := util.CleanText(p.Title)
			jobURL := b.absoluteJobURL(p)
			if title == "" || jobURL == "" {
				continue
			}
			loc := util.NormalizeLocation(util.FirstNonEmpty(p.LocationsText, p.Location))

			jobID := ""
			if len(p.BulletFields) > 0 {
				jobID = strings.TrimSpace(p.BulletFields[0])
			}
			if jobID == "" {
				jobID = strings.TrimSpace(p.ExternalPath)
			}

			r := domain.Raw{}
			r.Set("title", title)
			r.Set("organization", org)
			r.Set("location", loc)
			r.Set("state_province", util.StateFromLocation(loc))
			r.Set("url", jobURL)
			r.Set("source_id", fmt.Sprintf("workday:%s:%s:%s", b.Tenant, b.Site, jobID))
			r.Set("ats_type", domain.SourceWorkday)
			if t := parseWorkdayPostedAt(p.PostedOnDate); t != nil {
				r.Set("date_posted", t.UTC().Format("2006-01-02"))
			} else {
				r.Set("date_posted", p.PostedOn)
			}
			out = append(out, r)
		}

		if jr.Total > 0 && (page+1)*pageSize >= jr.Total {
			break
		}
	}

	return scrape.KeepRelevant(out), nil
}

func bootstrapSession(ctx context.Context, client *http.Client, limiter *util.HostLimiter, boardURL string) (string, error) {
	if err := limiter.WaitURL(ctx, boardURL); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Small preview for CF detection, then drain.
	previewBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_, _ = io.Copy(io.Discard, resp.Body)

	if looksLikeCloudflareBlock(resp, string(previewBytes)) {
		return "", ErrWorkdayBlocked
	}

	u, _ := url.Parse(boardURL)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "CALYPSO_CSRF_TOKEN" && c.Value != "" {
			return c.Value, nil
		}
	}

	return "", fmt.Errorf("workday bootstrap: missing CALYPSO_CSRF_TOKEN cookie (status=%d)", resp.StatusCode)
}

func parseWorkdayPostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	// Sometimes it's epoch ms/seconds as a string.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		var t time.Time
		if n >= 1_000_000_000_000 {
			t = time.UnixMilli(n)
		} else {
			t = time.Unix(n, 0)
		}
		return &t
	}
	return nil
}

func looksLikeCloudflareBlock(resp *http.Response, bodyPreview string) bool {
	server := strings.ToLower(resp.Header.Get("Server"))
	cfRay := resp.Header.Get("CF-RAY")

	if strings.Contains(server, "cloudflare") && cfRay != "" && resp.StatusCode >= 400 {
		return true
	}

	low := strings.ToLower(bodyPreview)
	if strings.Contains(low, "/cdn-cgi/challenge") ||
		(strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser")) ||
		(strings.Contains(low, "attention required") && strings.Contains(low, "cloudflare")) {
		return true
	}

	return resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests
}

func displayName(tenant string) string {
	if tenant == "" {
		return ""
	}
	return strings.ToUpper(tenant[:1]) + tenant[1:]
}
