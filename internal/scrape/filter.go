package scrape

import (
	"internscout/internal/domain"
	"internscout/internal/textutil"
)

// DomainTerms mark a posting as public-health related.
var DomainTerms = []string{
	"mph",
	"public health",
	"epidemiology",
	"biostatistics",
	"health policy",
	"global health",
	"environmental health",
	"health promotion",
	"health education",
	"community health",
	"health administration",
	"health informatics",
	"health services research",
	"health equity",
	"health disparities",
}

// InternshipTerms mark a posting as an internship, fellowship or similar.
var InternshipTerms = []string{
	"internship",
	"intern",
	"fellowship",
	"summer program",
	"graduate program",
	"student",
	"trainee",
	"apprentice",
}

// Relevant reports whether title and description together mention both a
// public-health term and an internship term.
func Relevant(title, description string) bool {
	text := textutil.Fold(title + " " + description)
	return textutil.ContainsAny(text, DomainTerms) && textutil.ContainsAny(text, InternshipTerms)
}

// RelevantInDepartment reports whether a department name is itself a
// public-health unit.
func RelevantInDepartment(department string) bool {
	return textutil.ContainsAny(textutil.Fold(department), DomainTerms)
}

// ShouldKeep applies the relevance filter to a raw record and explains a
// rejection.
func ShouldKeep(r domain.Raw) (keep bool, reason string) {
	if Relevant(r.Text("title"), r.Text("description")) {
		return true, ""
	}
	if r.Text("ats_type") == domain.SourceGreenhouse && RelevantInDepartment(r.Text("department")) {
		return true, ""
	}
	return false, "not_relevant"
}

// KeepRelevant filters records in place.
func KeepRelevant(in []domain.Raw) []domain.Raw {
	out := in[:0]
	for _, r := range in {
		if keep, _ := ShouldKeep(r); keep {
			out = append(out, r)
		}
	}
	return out
}
