package question

import "strings"

// Domain is the closed set of classification labels. Documents classify to
// General or RFIC; questions additionally use Both to mark the core set that
// applies regardless of classification.
type Domain int

const (
	// General covers documents outside the RF IC specialization, including
	// AI-assisted circuit design work.
	General Domain = iota
	// RFIC covers radio-frequency integrated circuit documents.
	RFIC
	// Both tags questions applicable to every document. It is never a
	// classification result.
	Both
)

// Label used on the wire and in prompts for each domain.
const (
	LabelGeneral = "GENERAL"
	LabelRFIC    = "RF_IC"
)

func (d Domain) String() string {
	switch d {
	case RFIC:
		return LabelRFIC
	case Both:
		return "BOTH"
	default:
		return LabelGeneral
	}
}

// AppliesTo reports whether a question tagged with domain d applies to a
// document classified as doc.
func (d Domain) AppliesTo(doc Domain) bool {
	return d == Both || d == doc
}

// ParseDomain resolves a classifier response to a domain label. Matching is
// case-insensitive on label substrings; RF_IC is checked first because a
// well-formed answer contains exactly one label. Anything else — ambiguity,
// an empty response — reports ok=false so the caller can fall back to its
// configured default.
func ParseDomain(response string) (Domain, bool) {
	upper := strings.ToUpper(response)
	switch {
	case strings.Contains(upper, LabelRFIC):
		return RFIC, true
	case strings.Contains(upper, LabelGeneral):
		return General, true
	default:
		return General, false
	}
}
