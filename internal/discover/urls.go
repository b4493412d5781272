package discover

import (
	"strings"

	"internscout/internal/scrape/util"
	"internscout/internal/textutil"
)

// BuiltinURLs are searched on every run without a network lookup.
var BuiltinURLs = []string{
	"https://www.usajobs.gov/Search/Results?k=public%20health%20intern",
	"https://www.governmentjobs.com/jobs?keyword=public%20health%20intern",
	"https://www.indeed.com/jobs?q=public+health+internship+summer+2026",
	"https://www.linkedin.com/jobs/search?keywords=public%20health%20internship&location=United%20States",
	"https://www.idealist.org/en/jobs?q=public%20health%20intern",
}

var boardDomains = []string{
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"ziprecruiter.com",
	"simplyhired.com",
	"idealist.org",
	"usajobs.gov",
	"governmentjobs.com",
	"brassring.com",

	// ATS
	"greenhouse.io",
	"lever.co",
	"myworkdayjobs.com",
	"workday.com",
	"smartrecruiters.com",
	"icims.com",
	"jobvite.com",
	"applytojob.com",
}

var jobKeywords = []string{
	"job",
	"career",
	"intern",
	"employment",
	"opportunit",
	"position",
	"vacanc",
	"recruit",
	"apply",
}

var junkMarkers = []string{
	"unsubscribe",
	"preferences",
	"privacy",
	"terms-of",
	"view-in-browser",
	"viewaswebpage",
	"tracking",
	"pixel",
	"beacon",
	"/alerts",
	"/settings",
	"/help",
	"/legal",
	"/login",
	"/signup",
}

func isJunkURL(u string) bool {
	lu := strings.ToLower(u)
	if !strings.HasPrefix(lu, "http://") && !strings.HasPrefix(lu, "https://") {
		return true
	}
	for _, j := range junkMarkers {
		if strings.Contains(lu, j) {
			return true
		}
	}
	return false
}

func onBoardDomain(u string) bool {
	host := util.HostOf(u)
	for _, d := range boardDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// keepURL reports whether u looks like a job source worth routing.
func keepURL(u string, orgs []string) bool {
	lu := textutil.Fold(u)
	for _, k := range jobKeywords {
		if strings.Contains(lu, k) {
			return true
		}
	}
	if onBoardDomain(u) {
		return true
	}
	for _, org := range orgs {
		for _, form := range orgForms(org) {
			if strings.Contains(lu, form) {
				return true
			}
		}
	}
	return false
}

// orgForms returns the spellings an organization name takes inside a URL:
// "Johns Hopkins" -> johns hopkins, johnshopkins, johns-hopkins, johns+hopkins.
func orgForms(org string) []string {
	n := textutil.Fold(strings.TrimSpace(org))
	if n == "" {
		return nil
	}
	words := strings.Fields(n)
	forms := []string{
		n,
		strings.Join(words, ""),
		strings.Join(words, "-"),
		strings.Join(words, "+"),
		strings.Join(words, "%20"),
	}
	return forms
}

// scoreURL ranks likely posting pages above search and landing pages.
func scoreURL(u string) int {
	lu := strings.ToLower(u)
	score := 0

	if strings.Contains(lu, "/jobs/view/") {
		score += 100
	}
	if strings.Contains(lu, "greenhouse.io") || strings.Contains(lu, "lever.co") ||
		strings.Contains(lu, "myworkdayjobs") || strings.Contains(lu, "smartrecruiters.com") {
		score += 80
	}
	if strings.Contains(lu, "brassring.com") || strings.Contains(lu, "governmentjobs.com") || strings.Contains(lu, "usajobs.gov") {
		score += 60
	}
	if strings.Contains(lu, "apply") {
		score += 40
	}
	if strings.Contains(lu, "/job") || strings.Contains(lu, "/careers") {
		score += 20
	}
	if strings.Contains(lu, "intern") {
		score += 10
	}

	if strings.Contains(lu, "linkedin.com/comm/") {
		score -= 10
	}
	return score
}
