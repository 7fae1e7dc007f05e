package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/lectern/internal/docsource"
	"github.com/Iron-Ham/lectern/internal/event"
	"github.com/Iron-Ham/lectern/internal/keywords"
	"github.com/Iron-Ham/lectern/internal/llm"
	"github.com/Iron-Ham/lectern/internal/question"
	"github.com/Iron-Ham/lectern/internal/session"
	"github.com/Iron-Ham/lectern/internal/taxonomy"
	"github.com/Iron-Ham/lectern/internal/token"
)

func scripted() llm.Caller {
	return llm.CallerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, `"RF_IC" or "GENERAL"`):
			return "GENERAL", nil
		case strings.Contains(req.Prompt, "YAML front matter"):
			return "---\ntitle: X\n---", nil
		default:
			return "an answer", nil
		}
	})
}

func testDeps(t *testing.T) session.Deps {
	t.Helper()
	dir := t.TempDir()
	return session.Deps{
		Caller:    scripted(),
		Registry:  question.NewRegistry(),
		Taxonomy:  taxonomy.NewStore(filepath.Join(dir, "taxonomy.json")),
		Keywords:  keywords.NewStore(filepath.Join(dir, "keywords.txt")),
		Estimator: token.NewEstimator(),
		Bus:       event.NewBus(),
		Model:     "test-model",
		ReportDir: filepath.Join(dir, "reports"),
		Now:       func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func writeDocs(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		p := filepath.Join(dir, "doc"+string(rune('a'+i))+".md")
		if err := os.WriteFile(p, []byte("document body"), 0644); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}
	return paths
}

func TestRunAnalyzesAllDocuments(t *testing.T) {
	deps := testDeps(t)
	paths := writeDocs(t, 5)

	coord := NewCoordinator(deps, docsource.DefaultRegistry())
	summary := coord.Run(context.Background(), paths)

	if summary.Succeeded != 5 || summary.Failed != 0 {
		t.Fatalf("summary = %d succeeded / %d failed, want 5/0", summary.Succeeded, summary.Failed)
	}
	if len(summary.Outcomes) != len(paths) {
		t.Fatalf("outcomes = %d, want %d", len(summary.Outcomes), len(paths))
	}
	// Outcomes keep input order regardless of worker scheduling.
	for i, o := range summary.Outcomes {
		if o.Path != paths[i] {
			t.Errorf("outcome %d path = %q, want %q", i, o.Path, paths[i])
		}
		if o.ReportPath == "" {
			t.Errorf("outcome %d has no report path", i)
		}
		if o.Tokens == 0 {
			t.Errorf("outcome %d recorded no token usage", i)
		}
	}
}

func TestRunIsolatesDocumentFailures(t *testing.T) {
	deps := testDeps(t)
	paths := writeDocs(t, 2)
	// A missing file fails its session without touching the others.
	paths = append(paths, filepath.Join(t.TempDir(), "missing.md"))

	coord := NewCoordinator(deps, docsource.DefaultRegistry())
	summary := coord.Run(context.Background(), paths)

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %d/%d, want 2 succeeded, 1 failed", summary.Succeeded, summary.Failed)
	}
	if summary.Outcomes[2].Err == nil {
		t.Error("missing document did not record an error")
	}
}

func TestRunPublishesBatchEvents(t *testing.T) {
	deps := testDeps(t)
	paths := writeDocs(t, 3)

	var progress, finished atomic.Int32
	deps.Bus.Subscribe("batch.progress", func(event.Event) { progress.Add(1) })
	deps.Bus.Subscribe("batch.finished", func(event.Event) { finished.Add(1) })

	NewCoordinator(deps, docsource.DefaultRegistry()).Run(context.Background(), paths)

	if got := progress.Load(); got != 3 {
		t.Errorf("batch.progress published %d times, want 3", got)
	}
	if got := finished.Load(); got != 1 {
		t.Errorf("batch.finished published %d times, want 1", got)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	deps := testDeps(t)
	summary := NewCoordinator(deps, docsource.DefaultRegistry()).Run(context.Background(), nil)
	if summary.Succeeded != 0 || summary.Failed != 0 || len(summary.Outcomes) != 0 {
		t.Errorf("empty batch summary = %+v", summary)
	}
}
