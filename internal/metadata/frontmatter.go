package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	fenceRe    = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	keywordsRe = regexp.MustCompile(`(?m)^keywords:\s*\[(.*?)\]\s*$`)
)

// placeholderListFields are list-valued fields that models sometimes fill
// with a bare "none" entry; such entries carry no information and are
// stripped so downstream consumers see an empty list.
var placeholderListFields = []string{"urls", "doi", "venue", "year", "source_code"}

// stripFences removes Markdown code-fence lines so a front-matter block
// wrapped in ```yaml ... ``` still parses.
func stripFences(text string) string {
	return fenceRe.ReplaceAllString(text, "")
}

// extractBlock returns the text between the first and last `---` delimiter
// lines, exclusive. ok is false when fewer than two delimiters exist.
func extractBlock(text string) (string, bool) {
	first := strings.Index(text, "---")
	last := strings.LastIndex(text, "---")
	if first < 0 || last <= first {
		return "", false
	}
	inner := text[first+3 : last]
	inner = strings.Trim(inner, "\r\n")
	if strings.TrimSpace(inner) == "" {
		return "", false
	}
	return inner, true
}

// extractKeywords pulls the bracketed keywords list out of the block and
// returns the individual entries with surrounding quotes stripped.
func extractKeywords(block string) []string {
	m := keywordsRe.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	var out []string
	for _, raw := range strings.Split(m[1], ",") {
		kw := strings.TrimSpace(raw)
		kw = strings.Trim(kw, `"'`)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// rewriteKeywords replaces the keywords field with the canonicalized list,
// each entry double-quoted. No-op when the field is absent.
func rewriteKeywords(block string, canonical []string) string {
	if keywordsRe.FindStringIndex(block) == nil {
		return block
	}
	quoted := make([]string, len(canonical))
	for i, kw := range canonical {
		quoted[i] = fmt.Sprintf("%q", kw)
	}
	repl := "keywords: [" + strings.Join(quoted, ", ") + "]"
	return keywordsRe.ReplaceAllString(block, repl)
}

// stripPlaceholderLists removes list fields whose only content is a "none"
// placeholder, e.g. `urls:` followed by a single `- none` item, or the
// inline form `doi: none`.
func stripPlaceholderLists(block string) string {
	lines := strings.Split(block, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		field, ok := placeholderField(line)
		if !ok {
			out = append(out, line)
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), field+":"))
		if isNone(rest) {
			continue
		}
		if rest == "" {
			// Block-style list: drop the field only when every item is a
			// placeholder.
			j := i + 1
			allNone := j < len(lines)
			for j < len(lines) {
				item := strings.TrimSpace(lines[j])
				if !strings.HasPrefix(item, "-") {
					break
				}
				if !isNone(strings.TrimSpace(strings.TrimPrefix(item, "-"))) {
					allNone = false
				}
				j++
			}
			if j == i+1 {
				allNone = false
			}
			if allNone {
				i = j - 1
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func placeholderField(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, f := range placeholderListFields {
		if strings.HasPrefix(trimmed, f+":") {
			return f, true
		}
	}
	return "", false
}

func isNone(s string) bool {
	s = strings.ToLower(strings.Trim(s, `"' []`))
	return s == "none" || s == "n/a" || s == "null"
}

// setField replaces the named scalar field in the block, or appends it when
// absent. Always leaves exactly one occurrence.
func setField(block, field, value string) string {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(field) + `:.*$`)
	line := field + ": " + value
	if re.FindStringIndex(block) != nil {
		return re.ReplaceAllString(block, line)
	}
	return strings.TrimRight(block, "\n") + "\n" + line
}

// ParseFields unmarshals a front-matter block (without delimiters) into a
// generic map. Used to validate extractor output before it is trusted.
func ParseFields(block string) (map[string]any, error) {
	fields := make(map[string]any)
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return fields, nil
}
