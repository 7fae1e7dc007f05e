package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Iron-Ham/lectern/internal/question"
	"github.com/Iron-Ham/lectern/internal/token"
)

const maxBaseNameRunes = 50

var sanitizeRe = regexp.MustCompile(`\W+`)

// Section is one answered question destined for the report body.
type Section struct {
	Question question.Question
	Answer   string
}

// Report is everything needed to render and persist a document analysis.
type Report struct {
	// SourcePath is the analyzed document's path, used for naming.
	SourcePath string
	// FrontMatter is the normalized metadata block including delimiters.
	// Empty when extraction produced nothing.
	FrontMatter string
	// Narrative is the consolidated cross-question synthesis.
	Narrative string
	// Sections are answered questions in registry order. The presentation
	// summary, when present, is promoted ahead of the rest.
	Sections []Section
	// Usage is the per-document token ledger.
	Usage *token.Usage
}

// Render produces the complete Markdown report text.
func (r *Report) Render() string {
	var b strings.Builder

	if r.FrontMatter != "" {
		b.WriteString(r.FrontMatter)
		b.WriteString("\n\n")
	}

	base := filepath.Base(r.SourcePath)
	b.WriteString("# Analysis of ")
	b.WriteString(base)
	b.WriteString("\n\n")

	if r.Narrative != "" {
		b.WriteString("## Overall Assessment\n\n")
		b.WriteString(strings.TrimSpace(r.Narrative))
		b.WriteString("\n\n")
	}

	for _, s := range r.orderedSections() {
		b.WriteString("## ")
		b.WriteString(s.Question.Text)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(s.Answer))
		b.WriteString("\n\n")
	}

	if r.Usage != nil {
		if summary := r.Usage.Summary(); summary != "" {
			b.WriteString(summary)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// orderedSections promotes the presentation summary to the front; all
// other sections keep their registry order.
func (r *Report) orderedSections() []Section {
	out := make([]Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		if s.Question.ID == question.IDPresentationSummary {
			out = append(out, s)
		}
	}
	for _, s := range r.Sections {
		if s.Question.ID != question.IDPresentationSummary {
			out = append(out, s)
		}
	}
	return out
}

// FileName derives the report file name from the source document and a
// timestamp. Non-word runs in the base name collapse to underscores and
// the result is capped so paths stay manageable.
func FileName(sourcePath string, now time.Time) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = sanitizeRe.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	runes := []rune(base)
	if len(runes) > maxBaseNameRunes {
		base = string(runes[:maxBaseNameRunes])
	}
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s_%s_report.md", now.Format("20060102-150405"), base)
}

// Save renders the report and writes it under dir, creating the directory
// if needed. Returns the written path.
func (r *Report) Save(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, FileName(r.SourcePath, now))
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
