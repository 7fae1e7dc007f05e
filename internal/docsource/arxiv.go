package docsource

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultArxivURL is the public arXiv export API endpoint.
const DefaultArxivURL = "http://export.arxiv.org/api/query"

// Fetcher resolves a remote paper identifier to a document. Only abstracts
// are available through the metadata APIs, so fetched documents carry the
// title, authors, and summary rather than full text.
type Fetcher interface {
	Fetch(ctx context.Context, id PaperID) (*Document, error)
}

// ArxivFetcher resolves arXiv identifiers through the export API.
type ArxivFetcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewArxivFetcher() *ArxivFetcher {
	return &ArxivFetcher{
		BaseURL:    DefaultArxivURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Category []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

func (f *ArxivFetcher) Fetch(ctx context.Context, id PaperID) (*Document, error) {
	if id.Kind != IDArxiv {
		return nil, fmt.Errorf("arxiv fetcher cannot resolve %s identifiers", id.Kind)
	}

	params := url.Values{}
	params.Set("id_list", id.Value)
	params.Set("max_results", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building arxiv request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching from arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading arxiv response: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arxiv feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("arxiv: no entry for %s", id.Value)
	}

	entry := feed.Entries[0]
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(cleanText(entry.Title))
	b.WriteString("\n\n")
	if len(entry.Authors) > 0 {
		names := make([]string, len(entry.Authors))
		for i, a := range entry.Authors {
			names[i] = a.Name
		}
		b.WriteString("Authors: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n\n")
	}
	if entry.Published != "" {
		b.WriteString("Published: ")
		b.WriteString(entry.Published)
		b.WriteString("\n\n")
	}
	b.WriteString("Abstract:\n")
	b.WriteString(cleanText(entry.Summary))

	return &Document{
		Path: "arxiv:" + id.Value,
		Text: b.String(),
	}, nil
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
