package keywords

import (
	"regexp"
	"strings"
)

// DefaultThreshold is the similarity ratio at or above which a new keyword is
// considered a duplicate of a stored one.
const DefaultThreshold = 0.88

var whitespaceRe = regexp.MustCompile(`[\s\x{3000}]+`)

// Normalize collapses internal whitespace, strips trailing punctuation, and
// lower-cases a keyword. The normalized form is used for matching only; the
// store keeps keywords case-preserved.
func Normalize(kw string) string {
	kw = strings.TrimSpace(kw)
	kw = whitespaceRe.ReplaceAllString(kw, " ")
	kw = strings.Trim(strings.TrimSpace(kw), ".,;:")
	return strings.ToLower(kw)
}

// FindSimilar returns the first database entry whose normalized form is
// within threshold of the (already normalized) candidate, or "" when no
// entry qualifies. Scanning in insertion order is a deliberate tie-break:
// the earliest stored variant wins, keeping canonicalization deterministic
// across runs.
func FindSimilar(db []string, candidate string, threshold float64) string {
	if candidate == "" {
		return ""
	}
	for _, entry := range db {
		if ratio(Normalize(entry), candidate) >= threshold {
			return entry
		}
	}
	return ""
}
