package taxonomy

import (
	"regexp"
	"strings"
)

// EditKind discriminates the directive variants a model answer can carry.
type EditKind int

const (
	// EditNewCategory inserts a new top-level category with subcategories.
	EditNewCategory EditKind = iota
	// EditNewSubcategory appends a subcategory to an existing category.
	EditNewSubcategory
	// EditAssignment records a "belongs to" assertion without mutating the
	// tree; it is informational only.
	EditAssignment
)

// Edit is a parsed taxonomy directive.
type Edit struct {
	Kind EditKind
	Main string
	Sub  string   // set for EditNewSubcategory and EditAssignment
	Subs []string // set for EditNewCategory
}

var (
	newCategoryRe    = regexp.MustCompile(`(?i)create new top-level category:\s*(.+?)\s*->\s*\[(.+?)\]`)
	newSubcategoryRe = regexp.MustCompile(`(?i)add new subcategory:\s*(.+?)\s*->\s*(.+)`)
	assignmentRe     = regexp.MustCompile(`(?i)belongs to:\s*(.+?)\s*->\s*([^\r\n]+)`)
)

// ParseDirective scrapes one taxonomy directive out of free-form model text.
// A new-top-level match takes priority over a new-subcategory match; if
// neither is present, a plain "belongs to" assertion is returned as an
// informational edit. Returns nil when the text carries no directive —
// malformed directive text is a no-op, not an error.
func ParseDirective(text string) *Edit {
	if m := newCategoryRe.FindStringSubmatch(text); m != nil {
		var subs []string
		for _, s := range strings.Split(m[2], ",") {
			if s = strings.TrimSpace(s); s != "" {
				subs = append(subs, s)
			}
		}
		return &Edit{Kind: EditNewCategory, Main: strings.TrimSpace(m[1]), Subs: subs}
	}

	if m := newSubcategoryRe.FindStringSubmatch(text); m != nil {
		sub := strings.TrimSpace(m[2])
		// The subcategory is the remainder of the line only.
		if i := strings.IndexAny(sub, "\r\n"); i >= 0 {
			sub = strings.TrimSpace(sub[:i])
		}
		return &Edit{Kind: EditNewSubcategory, Main: strings.TrimSpace(m[1]), Sub: sub}
	}

	if m := assignmentRe.FindStringSubmatch(text); m != nil {
		return &Edit{Kind: EditAssignment, Main: strings.TrimSpace(m[1]), Sub: strings.TrimSpace(m[2])}
	}

	return nil
}
