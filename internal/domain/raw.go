package domain

import "strings"

// Raw is a posting record as a connector produced it, before validation.
type Raw map[string]any

// Text returns the trimmed string stored under key, or "" when the key is
// missing or holds a non-string value.
func (r Raw) Text(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Set stores v under key when it is non-empty after trimming.
func (r Raw) Set(key, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	r[key] = v
}
