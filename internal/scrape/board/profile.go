package board

import (
	"regexp"
	"strings"

	"internscout/internal/domain"
	"internscout/internal/scrape/util"
)

// Profile describes how job cards look on one family of pages.
type Profile struct {
	Name   string
	Source string // recorded as ats_type

	Org *regexp.Regexp
	Loc *regexp.Regexp

	// ExtraOrg patterns are tried after Org, in order.
	ExtraOrg []*regexp.Regexp
	// OrgFromText enables the "at <org>" text fallback.
	OrgFromText bool
	DefaultOrg  string
}

var (
	cardPattern  = regexp.MustCompile(`job|card|result|listing`)
	titlePattern = regexp.MustCompile(`title|job-title`)

	companyPattern  = regexp.MustCompile(`company|employer`)
	locationPattern = regexp.MustCompile(`location|place`)
)

var (
	Indeed = Profile{
		Name:   "indeed",
		Source: domain.SourceBoard,
		Org:    companyPattern,
		Loc:    locationPattern,
	}
	LinkedIn = Profile{
		Name:   "linkedin",
		Source: domain.SourceBoard,
		Org:    companyPattern,
		Loc:    locationPattern,
		ExtraOrg: []*regexp.Regexp{
			regexp.MustCompile(`job-card-container__company-name`),
			regexp.MustCompile(`job-card-container__primary-description`),
			regexp.MustCompile(`job-card-container__subtitle`),
			regexp.MustCompile(`entity-result__title-text`),
			regexp.MustCompile(`job-card-container__metadata-item`),
		},
		OrgFromText: true,
		DefaultOrg:  "Unknown Organization",
	}
	Glassdoor = Profile{
		Name:   "glassdoor",
		Source: domain.SourceBoard,
		Org:    companyPattern,
		Loc:    locationPattern,
	}
	USAJobs = Profile{
		Name:   "usajobs",
		Source: domain.SourceBoard,
		Org:    regexp.MustCompile(`agency|department`),
		Loc:    locationPattern,
	}
	Generic = Profile{
		Name:   "generic",
		Source: domain.SourceBoard,
		Org:    regexp.MustCompile(`company|employer|organization`),
		Loc:    regexp.MustCompile(`location|place|address`),
	}
	BrassRing = Profile{
		Name:   "brassring",
		Source: domain.SourceBrassRing,
		Org:    regexp.MustCompile(`company|employer|organization`),
		Loc:    regexp.MustCompile(`location|place|city`),
	}
	NEOGOV = Profile{
		Name:   "neogov",
		Source: domain.SourceNEOGOV,
		Org:    regexp.MustCompile(`agency|department|employer`),
		Loc:    locationPattern,
	}
)

var boardDomains = []struct {
	domain  string
	profile Profile
}{
	{"indeed.com", Indeed},
	{"linkedin.com", LinkedIn},
	{"glassdoor.com", Glassdoor},
	{"usajobs.gov", USAJobs},
}

// ProfileFor picks the card profile for a page by its domain.
func ProfileFor(pageURL string) Profile {
	host := util.HostOf(pageURL)
	for _, bd := range boardDomains {
		if host == bd.domain || strings.HasSuffix(host, "."+bd.domain) {
			return bd.profile
		}
	}
	return Generic
}
