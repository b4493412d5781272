package domain

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

var ErrMissingField = errors.New("missing required field")

type Posting struct {
	Title         string `json:"title"`
	Organization  string `json:"organization"`
	Location      string `json:"location"`
	StateProvince string `json:"state_province,omitempty"`
	Term          string `json:"term,omitempty"`
	Paid          string `json:"paid,omitempty"`
	URL           string `json:"url,omitempty"`
	Description   string `json:"description,omitempty"`
	Department    string `json:"department,omitempty"`
	DatePosted    string `json:"date_posted,omitempty"`
	SourceID      string `json:"source_id,omitempty"`
	ATSType       string `json:"ats_type,omitempty"`

	// Attached by the pipeline.
	Hash      string `json:"hash,omitempty"`
	DateFound string `json:"date_found,omitempty"`
	Score     int    `json:"score"`
}

var requiredFields = []string{"title", "organization", "location"}

var optionalFields = []string{
	"state_province",
	"term",
	"paid",
	"url",
	"description",
	"department",
	"date_posted",
	"source_id",
	"ats_type",
}

// FromRaw validates a raw record and decodes it into a Posting.
// Required fields must be non-empty strings. Optional fields holding a
// non-string value are dropped and reported as warnings.
func FromRaw(r Raw) (Posting, []string, error) {
	var p Posting
	var warnings []string

	clean := make(map[string]any, len(requiredFields)+len(optionalFields))
	for _, k := range requiredFields {
		v := r.Text(k)
		if v == "" {
			return p, nil, fmt.Errorf("%w: %s", ErrMissingField, k)
		}
		clean[k] = v
	}
	for _, k := range optionalFields {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if _, isString := v.(string); !isString {
			warnings = append(warnings, fmt.Sprintf("%s: expected text, got %T", k, v))
			continue
		}
		if s := r.Text(k); s != "" {
			clean[k] = s
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &p,
	})
	if err != nil {
		return p, nil, err
	}
	if err := dec.Decode(clean); err != nil {
		return p, nil, fmt.Errorf("decode posting: %w", err)
	}
	return p, warnings, nil
}
