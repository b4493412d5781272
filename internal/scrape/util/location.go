package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var usStates = map[string]string{
	"AL": "alabama", "AK": "alaska", "AZ": "arizona", "AR": "arkansas", "CA": "california",
	"CO": "colorado", "CT": "connecticut", "DE": "delaware", "DC": "district of columbia",
	"FL": "florida", "GA": "georgia", "HI": "hawaii", "ID": "idaho", "IL": "illinois",
	"IN": "indiana", "IA": "iowa", "KS": "kansas", "KY": "kentucky", "LA": "louisiana",
	"ME": "maine", "MD": "maryland", "MA": "massachusetts", "MI": "michigan", "MN": "minnesota",
	"MS": "mississippi", "MO": "missouri", "MT": "montana", "NE": "nebraska", "NV": "nevada",
	"NH": "new hampshire", "NJ": "new jersey", "NM": "new mexico", "NY": "new york",
	"NC": "north carolina", "ND": "north dakota", "OH": "ohio", "OK": "oklahoma", "OR": "oregon",
	"PA": "pennsylvania", "RI": "rhode island", "SC": "south carolina", "SD": "south dakota",
	"TN": "tennessee", "TX": "texas", "UT": "utah", "VT": "vermont", "VA": "virginia",
	"WA": "washington", "WV": "west virginia", "WI": "wisconsin", "WY": "wyoming",
	"PR": "puerto rico",
}

// StateFromLocation returns the two-letter US state code for locations like
// "Atlanta, GA", "Boston, Massachusetts" or "Albany, NY, United States".
// It returns "" when no state can be identified.
func StateFromLocation(loc string) string {
	parts := strings.Split(NormalizeLocation(loc), ",")
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		lp := strings.ToLower(p)
		if lp == "united states" || lp == "usa" || lp == "us" {
			continue
		}
		// "NY 10001"
		if f := strings.Fields(p); len(f) == 2 && len(f[0]) == 2 {
			p = f[0]
		}
		up := strings.ToUpper(p)
		if _, ok := usStates[up]; ok && len(p) == 2 {
			return up
		}
		for code, name := range usStates {
			if lp == name {
				return code
			}
		}
		return ""
	}
	return ""
}

// FindLocation looks for a location in a job card or page fragment.
func FindLocation(sel *goquery.Selection) string {
	candidates := []string{
		".location",
		".job__location",
		"[data-testid='job-location']",
		"[data-testid='location']",
		"[itemprop='jobLocation']",
	}

	for _, c := range candidates {
		if t := CleanText(sel.Find(c).First().Text()); t != "" {
			return NormalizeLocation(t)
		}
	}

	if loc := ExtractLocationFromLabeledText(CleanText(sel.Text())); loc != "" {
		return NormalizeLocation(loc)
	}
	return ""
}

// extracts after "Location" patterns in plain text
func ExtractLocationFromLabeledText(s string) string {
	low := strings.ToLower(s)

	labels := []string{
		"job location:",
		"locations:",
		"location:",
	}

	for _, lab := range labels {
		if i := strings.Index(low, lab); i >= 0 {
			start := i + len(lab)
			rest := strings.TrimSpace(s[start:])

			for _, cut := range []string{"\n", "\r", " | ", " · "} {
				if j := strings.Index(rest, cut); j >= 0 {
					rest = rest[:j]
				}
			}

			rest = CleanText(rest)
			if rest != "" && len(rest) <= 80 {
				return rest
			}
		}
	}
	return ""
}
