package docsource

import (
	"regexp"
	"strings"
)

// PaperID identifies a remotely resolvable document reference.
type PaperID struct {
	Kind  IDKind
	Value string
}

type IDKind string

const (
	IDArxiv IDKind = "arxiv"
	IDDOI   IDKind = "doi"
)

var (
	arxivNewRe = regexp.MustCompile(`(?i)(?:arxiv[:\s/]*|arxiv\.org/(?:abs|pdf)/)(\d{4}\.\d{4,5})(?:v\d+)?`)
	arxivOldRe = regexp.MustCompile(`(?i)(?:arxiv[:\s/]*|arxiv\.org/(?:abs|pdf)/)([a-z-]+(?:\.[A-Z]{2})?/\d{7})(?:v\d+)?`)
	doiRe      = regexp.MustCompile(`(?i)(?:doi[:\s]*|doi\.org/)(10\.\d{4,9}/[^\s"'<>]+)`)

	// Bare forms match only when the whole input is the identifier, so
	// version numbers inside running text are not mistaken for IDs.
	bareArxivNewRe = regexp.MustCompile(`^(\d{4}\.\d{4,5})(?:v\d+)?$`)
	bareArxivOldRe = regexp.MustCompile(`(?i)^([a-z-]+(?:\.[A-Z]{2})?/\d{7})(?:v\d+)?$`)
)

// ExtractPaperID scans free text for an arXiv identifier or a DOI. arXiv
// wins when both appear, since it resolves to full text directly. The
// second return is false when nothing recognizable is found.
func ExtractPaperID(text string) (PaperID, bool) {
	if m := arxivNewRe.FindStringSubmatch(text); m != nil {
		return PaperID{Kind: IDArxiv, Value: m[1]}, true
	}
	if m := arxivOldRe.FindStringSubmatch(text); m != nil {
		return PaperID{Kind: IDArxiv, Value: m[1]}, true
	}
	if m := doiRe.FindStringSubmatch(text); m != nil {
		value := strings.TrimRight(m[1], ".,;)")
		return PaperID{Kind: IDDOI, Value: value}, true
	}
	trimmed := strings.TrimSpace(text)
	if m := bareArxivNewRe.FindStringSubmatch(trimmed); m != nil {
		return PaperID{Kind: IDArxiv, Value: m[1]}, true
	}
	if m := bareArxivOldRe.FindStringSubmatch(trimmed); m != nil {
		return PaperID{Kind: IDArxiv, Value: m[1]}, true
	}
	return PaperID{}, false
}

// ExtractPaperIDs splits a comma-separated reference list and extracts one
// identifier per entry. Entries with nothing recognizable are skipped.
func ExtractPaperIDs(text string) []PaperID {
	var ids []PaperID
	for _, part := range strings.Split(text, ",") {
		if id, ok := ExtractPaperID(strings.TrimSpace(part)); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
