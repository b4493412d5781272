package greenhouse

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"internscout/internal/domain"
	"internscout/internal/scrape"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const DefaultAPIBase = "https://boards-api.greenhouse.io"

var ErrNoBoard = errors.New("no greenhouse board id found")

var (
	boardIDPattern = regexp.MustCompile(`board_id["']?\s*:\s*["']?([^"'\s,}]+)`)
	embedPattern   = regexp.MustCompile(`greenhouse\.io/embed/job_board(?:/js)?\?for=([A-Za-z0-9_-]+)`)
)

type Scraper struct {
	client  *util.Client
	APIBase string
}

var _ types.Connector = (*Scraper)(nil)

func New(client *util.Client) *Scraper {
	return &Scraper{client: client, APIBase: DefaultAPIBase}
}

func (s *Scraper) Name() string { return domain.SourceGreenhouse }

type boardInfo struct {
	Name string `json:"name"`
}

type jobsResponse struct {
	Jobs []job `json:"jobs"`
}

type job struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

func (s *Scraper) Extract(ctx context.Context, sourceURL string) ([]domain.Raw, error) {
	board := BoardFromURL(sourceURL)
	if board == "" {
		var err error
		board, err = s.sniffBoard(ctx, sourceURL)
		if err != nil {
			return nil, err
		}
	}

	org := s.boardName(ctx, board)

	var jr jobsResponse
	u := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", s.APIBase, url.PathEscape(board))
	if err := s.client.GetJSON(ctx, u, &jr); err != nil {
		return nil, fmt.Errorf("greenhouse jobs %s: %w", board, err)
	}

	out := make([]domain.Raw, 0, len(jr.Jobs))
	for _, j := range jr.Jobs {
		title := util.CleanText(j.Title)
		if title == "" {
			continue
		}
		jobURL := strings.TrimSpace(j.AbsoluteURL)
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://boards.greenhouse.io/%s/jobs/%d", board, j.ID)
		}
		loc := util.NormalizeLocation(j.Location.Name)

		var depts []string
		for _, d := range j.Departments {
			if n := util.CleanText(d.Name); n != "" {
				depts = append(depts, n)
			}
		}

		r := domain.Raw{}
		r.Set("title", title)
		r.Set("organization", org)
		r.Set("location", loc)
		r.Set("state_province", util.StateFromLocation(loc))
		r.Set("url", jobURL)
		r.Set("description", util.HTMLToText(j.Content))
		r.Set("department", strings.Join(depts, ", "))
		r.Set("date_posted", j.UpdatedAt)
		r.Set("source_id", fmt.Sprintf("greenhouse:%s:%d", board, j.ID))
		r.Set("ats_type", domain.SourceGreenhouse)
		out = append(out, r)
	}

	return scrape.KeepRelevant(out), nil
}

// BoardFromURL returns the board token in URLs like
// boards.greenhouse.io/<board>, job-boards.greenhouse.io/<board>/jobs/123 or
// boards.greenhouse.io/embed/job_board?for=<board>.
func BoardFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, "greenhouse.io") || strings.HasPrefix(host, "boards-api.") {
		return ""
	}
	if f := u.Query().Get("for"); f != "" {
		return f
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" || segs[0] == "embed" {
		return ""
	}
	return segs[0]
}

func (s *Scraper) sniffBoard(ctx context.Context, pageURL string) (string, error) {
	doc, err := s.client.GetDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	var found string
	doc.Find("iframe[src], script[src], a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range []string{"src", "href"} {
			v, ok := sel.Attr(attr)
			if !ok {
				continue
			}
			if m := embedPattern.FindStringSubmatch(v); m != nil {
				found = m[1]
				return false
			}
			if b := BoardFromURL(util.ResolveURL(pageURL, v)); b != "" {
				found = b
				return false
			}
		}
		return true
	})
	if found != "" {
		return found, nil
	}

	html, _ := doc.Html()
	if m := boardIDPattern.FindStringSubmatch(html); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoBoard, pageURL)
}

func (s *Scraper) boardName(ctx context.Context, board string) string {
	var info boardInfo
	u := fmt.Sprintf("%s/v1/boards/%s", s.APIBase, url.PathEscape(board))
	if err := s.client.GetJSON(ctx, u, &info); err == nil {
		if n := util.CleanText(info.Name); n != "" {
			return n
		}
	}
	return displayName(board)
}

func displayName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
