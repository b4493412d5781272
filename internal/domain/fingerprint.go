package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintLen = 16

// Fingerprint identifies a posting by title, organization and location,
// compared case-insensitively. Every other field is ignored.
func Fingerprint(p Posting) string {
	key := strings.ToLower(p.Title) + "|" + strings.ToLower(p.Organization) + "|" + strings.ToLower(p.Location)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
