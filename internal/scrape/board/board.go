// Package board extracts postings from HTML job listings by class-name
// heuristics. It covers public job boards, BrassRing and NEOGOV pages, and
// any career page no dedicated connector recognizes.
package board

import (
	"context"
	"regexp"
	"strings"

	"internscout/internal/domain"
	"internscout/internal/scrape"
	"internscout/internal/scrape/types"
	"internscout/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const maxCards = 10

type Scraper struct {
	client *util.Client
	name   string
	fixed  *Profile
}

var _ types.Connector = (*Scraper)(nil)

// New returns a scraper that picks a profile per URL from its domain.
func New(client *util.Client) *Scraper {
	return &Scraper{client: client, name: domain.SourceBoard}
}

// NewWithProfile returns a scraper that always uses p.
func NewWithProfile(client *util.Client, p Profile) *Scraper {
	return &Scraper{client: client, name: p.Name, fixed: &p}
}

func (s *Scraper) Name() string { return s.name }

func (s *Scraper) Extract(ctx context.Context, pageURL string) ([]domain.Raw, error) {
	p := ProfileFor(pageURL)
	if s.fixed != nil {
		p = *s.fixed
	}

	doc, err := s.client.GetDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return scrape.KeepRelevant(ParseCards(doc, pageURL, p)), nil
}

// ParseCards reads up to ten job cards from doc. A card yields a record only
// when both a title and a link are found.
func ParseCards(doc *goquery.Document, pageURL string, p Profile) []domain.Raw {
	var out []domain.Raw
	cards := matching(doc.Selection, "div, article", cardPattern)
	for i, card := range cards {
		if i >= maxCards {
			break
		}
		if r, ok := parseCard(card, pageURL, p); ok {
			out = append(out, r)
		}
	}
	return out
}

func parseCard(card *goquery.Selection, pageURL string, p Profile) (domain.Raw, bool) {
	title := firstText(card, "h2, h3, a", titlePattern)

	href, _ := card.Find("a[href]").First().Attr("href")
	link := util.ResolveURL(pageURL, href)

	if title == "" || link == "" {
		return nil, false
	}

	org := firstText(card, "span, div", p.Org)
	for _, re := range p.ExtraOrg {
		if len(org) > 2 {
			break
		}
		org = firstText(card, "span, div, a", re)
	}
	if org == "" && p.OrgFromText {
		org = orgFromText(card.Text())
	}
	if org == "" {
		org = p.DefaultOrg
	}

	loc := util.NormalizeLocation(firstText(card, "span, div", p.Loc))

	r := domain.Raw{}
	r.Set("title", title)
	r.Set("organization", org)
	r.Set("location", loc)
	r.Set("state_province", util.StateFromLocation(loc))
	r.Set("url", link)
	r.Set("ats_type", p.Source)
	return r, true
}

// matching returns elements under root selected by sel whose class attribute
// matches re, in document order.
func matching(root *goquery.Selection, sel string, re *regexp.Regexp) []*goquery.Selection {
	var out []*goquery.Selection
	root.Find(sel).Each(func(_ int, el *goquery.Selection) {
		if class, ok := el.Attr("class"); ok && re.MatchString(class) {
			out = append(out, el)
		}
	})
	return out
}

func firstText(root *goquery.Selection, sel string, re *regexp.Regexp) string {
	if re == nil {
		return ""
	}
	if els := matching(root, sel, re); len(els) > 0 {
		return util.CleanText(els[0].Text())
	}
	return ""
}

var orgIndicators = []string{"at ", "with ", "for ", "•"}

func orgFromText(text string) string {
	for _, ind := range orgIndicators {
		parts := strings.SplitN(text, ind, 2)
		if len(parts) < 2 {
			continue
		}
		candidate := strings.TrimSpace(strings.SplitN(parts[1], "\n", 2)[0])
		if len(candidate) > 2 {
			return util.CleanText(candidate)
		}
	}
	return ""
}
