package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iron-Ham/lectern/internal/config"
	"github.com/Iron-Ham/lectern/internal/docsource"
)

type stubFetcher struct {
	failing map[string]error
}

func (f *stubFetcher) Fetch(ctx context.Context, id docsource.PaperID) (*docsource.Document, error) {
	if err, ok := f.failing[id.Value]; ok {
		return nil, err
	}
	return &docsource.Document{Path: "arxiv:" + id.Value, Text: "Abstract: stub"}, nil
}

func TestResolveInputsCommaSeparatedIDs(t *testing.T) {
	paths, fetched, failures, err := resolveInputs(context.Background(), &stubFetcher{},
		[]string{"2301.12345, arXiv:2106.09685v2"})
	if err != nil {
		t.Fatalf("resolveInputs: %v", err)
	}
	if len(paths) != 0 || len(failures) != 0 {
		t.Fatalf("paths = %v, failures = %v, want none", paths, failures)
	}
	if len(fetched) != 2 {
		t.Fatalf("fetched %d documents, want 2", len(fetched))
	}
	if fetched[0].Path != "arxiv:2301.12345" || fetched[1].Path != "arxiv:2106.09685" {
		t.Errorf("fetched paths = %q, %q", fetched[0].Path, fetched[1].Path)
	}
}

func TestResolveInputsFailedFetchDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "paper.md")
	if err := os.WriteFile(local, []byte("body"), 0644); err != nil {
		t.Fatal(err)
	}

	fetcher := &stubFetcher{failing: map[string]error{"2301.12345": errors.New("unreachable")}}
	paths, fetched, failures, err := resolveInputs(context.Background(), fetcher,
		[]string{local, "2301.12345"})
	if err != nil {
		t.Fatalf("resolveInputs: %v", err)
	}
	if len(paths) != 1 || paths[0] != local {
		t.Errorf("paths = %v, want the local file", paths)
	}
	if len(fetched) != 0 {
		t.Errorf("fetched %d documents, want 0", len(fetched))
	}
	if len(failures) != 1 || failures[0].ref != "arxiv:2301.12345" {
		t.Fatalf("failures = %+v, want one for arxiv:2301.12345", failures)
	}
}

func TestNewLLMClientUsesConfiguredTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.TimeoutSeconds = 7

	client := newLLMClient(cfg)
	if client.HTTPClient == nil {
		t.Fatal("client has no HTTP client")
	}
	if client.HTTPClient.Timeout != 7*time.Second {
		t.Errorf("HTTP timeout = %v, want 7s", client.HTTPClient.Timeout)
	}
}
