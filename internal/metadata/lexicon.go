package metadata

import "strings"

// Rating is the star score and importance label derived from the
// worth-reading judgment.
type Rating struct {
	Stars int
	Label string
}

// ratingLexicon is the fixed total order mapping judgment labels to ratings.
// Scan order is shadow-safe: "strongly recommend" and "not recommend" both
// contain "recommend" as a substring, so they are checked before the plain
// label. A text carrying both "strongly recommend" and "recommend" therefore
// resolves to the higher-priority label.
var ratingLexicon = []Rating{
	{Stars: 5, Label: "strongly recommend"},
	{Stars: 1, Label: "not recommend"},
	{Stars: 2, Label: "caution"},
	{Stars: 3, Label: "neutral"},
	{Stars: 4, Label: "recommend"},
}

// defaultRating applies when a judgment exists but carries no known label.
var defaultRating = Rating{Stars: 3, Label: "neutral"}

// DeriveRating maps a judgment text through the lexicon. The second return
// is false when judgment is empty, meaning no rating should be injected.
func DeriveRating(judgment string) (Rating, bool) {
	if strings.TrimSpace(judgment) == "" {
		return Rating{}, false
	}
	lower := strings.ToLower(judgment)
	for _, r := range ratingLexicon {
		if strings.Contains(lower, r.Label) {
			return r, true
		}
	}
	return defaultRating, true
}
