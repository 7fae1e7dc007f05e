package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/lectern/internal/keywords"
	"github.com/Iron-Ham/lectern/internal/llm"
)

const answerExcerptChars = 400

// Answer is a prior question/answer pair offered to the model as context
// for metadata synthesis.
type Answer struct {
	Question string
	Text     string
}

// Input carries everything the extractor needs from a finished analysis.
type Input struct {
	// DocumentPrefix is the leading portion of the document text.
	DocumentPrefix string
	// Answers are prior analysis results, most important first.
	Answers []Answer
	// Judgment is the worth-reading answer, empty when that question was
	// not asked or failed.
	Judgment string
	// Category is the assigned taxonomy path ("Main -> sub"), empty when
	// no assignment was made.
	Category string
	// ReadStatus is forced into the output regardless of what the model
	// produced. Empty means "unread".
	ReadStatus string
}

// Extractor synthesizes a YAML front-matter block describing a document.
// Keyword entries pass through the shared store so spellings stay
// consistent across documents.
type Extractor struct {
	caller   llm.Caller
	keywords *keywords.Store
}

func NewExtractor(caller llm.Caller, kw *keywords.Store) *Extractor {
	return &Extractor{caller: caller, keywords: kw}
}

// Extract asks the model for front matter and normalizes the result.
// An unparseable response returns ok=false with a nil error: missing
// metadata is not a failure of the analysis.
func (e *Extractor) Extract(ctx context.Context, in Input) (string, bool, error) {
	resp, err := e.caller.Call(ctx, llm.Request{Prompt: e.buildPrompt(in)})
	if err != nil {
		return "", false, fmt.Errorf("metadata extraction: %w", err)
	}

	block, ok := extractBlock(stripFences(resp))
	if !ok {
		return "", false, nil
	}

	if extracted := extractKeywords(block); len(extracted) > 0 && e.keywords != nil {
		canonical := e.keywords.MergeAndSave(extracted)
		block = rewriteKeywords(block, canonical)
	}

	block = stripPlaceholderLists(block)

	status := in.ReadStatus
	if status == "" {
		status = "unread"
	}
	block = setField(block, "read_status", status)

	if rating, has := DeriveRating(in.Judgment); has {
		block = setField(block, "star_rating", fmt.Sprintf("%d", rating.Stars))
		block = setField(block, "importance", fmt.Sprintf("%q", rating.Label))
	}

	if in.Category != "" {
		block = setField(block, "category", fmt.Sprintf("%q", in.Category))
	}

	if _, err := ParseFields(block); err != nil {
		return "", false, nil
	}

	return "---\n" + block + "\n---", true, nil
}

func (e *Extractor) buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("Based on the document content and analysis below, produce a YAML front matter block describing the document.\n\n")
	b.WriteString("Output exactly one block delimited by --- lines, with these fields:\n")
	b.WriteString("title, title_translated, authors, affiliation, keywords, urls, doi, venue, year, source_code, read_status, star_rating\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- keywords must be an inline list: keywords: [\"first keyword\", \"second keyword\"]\n")
	b.WriteString("- authors and affiliation are block lists, one entry per line\n")
	b.WriteString("- use none for any field the document does not reveal\n")
	b.WriteString("- output only the front matter block, no commentary\n\n")
	b.WriteString("Document beginning:\n")
	b.WriteString(in.DocumentPrefix)
	if len(in.Answers) > 0 {
		b.WriteString("\n\nAnalysis findings:\n")
		for _, a := range in.Answers {
			b.WriteString("- ")
			b.WriteString(a.Question)
			b.WriteString(": ")
			b.WriteString(truncate(a.Text, answerExcerptChars))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
