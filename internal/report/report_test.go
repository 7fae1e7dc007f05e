package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/lectern/internal/question"
	"github.com/Iron-Ham/lectern/internal/token"
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "simple name",
			source:   "/papers/attention.pdf",
			expected: "20260314-092653_attention_report.md",
		},
		{
			name:     "special characters collapse to underscores",
			source:   "/papers/A Survey (v2): LLMs & Beyond.pdf",
			expected: "20260314-092653_A_Survey_v2_LLMs_Beyond_report.md",
		},
		{
			name:     "empty base falls back",
			source:   "/papers/---.pdf",
			expected: "20260314-092653_document_report.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.source, now); got != tt.expected {
				t.Errorf("FileName(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestFileNameCapsLength(t *testing.T) {
	long := "/papers/" + strings.Repeat("verylongname", 20) + ".pdf"
	got := FileName(long, time.Now())
	base := strings.TrimSuffix(strings.SplitN(got, "_", 2)[1], "_report.md")
	if n := len([]rune(base)); n > 50 {
		t.Errorf("base name length = %d runes, want at most 50", n)
	}
}

func TestRenderOrdering(t *testing.T) {
	reg := question.NewRegistry()
	problem, _ := reg.ByID(question.IDProblemDomain)
	method, _ := reg.ByID(question.IDMethodDesign)
	summary, _ := reg.ByID(question.IDPresentationSummary)

	r := &Report{
		SourcePath:  "/papers/test.pdf",
		FrontMatter: "---\ntitle: Test\n---",
		Narrative:   "A solid contribution overall.",
		Sections: []Section{
			{Question: problem, Answer: "problem answer"},
			{Question: method, Answer: "method answer"},
			{Question: summary, Answer: "summary answer"},
		},
	}

	out := r.Render()

	// Front matter leads, then title, then the consolidated narrative.
	if !strings.HasPrefix(out, "---\ntitle: Test\n---") {
		t.Errorf("report does not start with front matter:\n%s", out)
	}
	narrativeIdx := strings.Index(out, "A solid contribution")
	summaryIdx := strings.Index(out, "summary answer")
	problemIdx := strings.Index(out, "problem answer")
	methodIdx := strings.Index(out, "method answer")

	// The presentation summary is promoted ahead of the other sections.
	if !(narrativeIdx < summaryIdx && summaryIdx < problemIdx && problemIdx < methodIdx) {
		t.Errorf("section order wrong: narrative=%d summary=%d problem=%d method=%d",
			narrativeIdx, summaryIdx, problemIdx, methodIdx)
	}
}

func TestRenderOmitsEmptyParts(t *testing.T) {
	reg := question.NewRegistry()
	problem, _ := reg.ByID(question.IDProblemDomain)

	r := &Report{
		SourcePath: "/papers/test.pdf",
		Sections:   []Section{{Question: problem, Answer: "only answer"}},
	}
	out := r.Render()

	if strings.Contains(out, "Overall Assessment") {
		t.Errorf("empty narrative rendered a heading:\n%s", out)
	}
	if strings.Contains(out, "Token Usage") {
		t.Errorf("nil usage rendered a heading:\n%s", out)
	}
	if !strings.Contains(out, "only answer") {
		t.Errorf("section missing:\n%s", out)
	}
}

func TestRenderIncludesUsage(t *testing.T) {
	est := token.NewEstimator()
	usage := token.NewUsage("test-model")
	usage.Record(est, strings.Repeat("a", 40), strings.Repeat("b", 40))

	r := &Report{SourcePath: "/papers/test.pdf", Usage: usage}
	if out := r.Render(); !strings.Contains(out, "## Token Usage") {
		t.Errorf("usage block missing:\n%s", out)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	r := &Report{SourcePath: "/papers/test.pdf", Narrative: "n"}

	path, err := r.Save(dir, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report written to %q, want dir %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "# Analysis of test.pdf") {
		t.Errorf("report content wrong:\n%s", data)
	}
}
