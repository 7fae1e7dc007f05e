package question

import (
	"strings"
	"testing"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Domain
		ok       bool
	}{
		{name: "exact rf label", response: "RF_IC", expected: RFIC, ok: true},
		{name: "exact general label", response: "GENERAL", expected: General, ok: true},
		{name: "lowercase", response: "rf_ic", expected: RFIC, ok: true},
		{name: "label embedded in prose", response: "The document is GENERAL in nature.", expected: General, ok: true},
		{name: "rf wins when both present", response: "RF_IC not GENERAL", expected: RFIC, ok: true},
		{name: "empty response", response: "", expected: General, ok: false},
		{name: "unrelated text", response: "I cannot classify this.", expected: General, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDomain(tt.response)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseDomain(%q) = (%v, %v), want (%v, %v)",
					tt.response, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestRegistryOrderedByImportance(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	if len(all) == 0 {
		t.Fatal("registry is empty")
	}
	for i := 1; i < len(all); i++ {
		if all[i].Importance > all[i-1].Importance {
			t.Errorf("question %s (importance %d) ordered after %s (importance %d)",
				all[i].ID, all[i].Importance, all[i-1].ID, all[i-1].Importance)
		}
	}
	// The category question carries the lowest importance and must come last.
	if all[len(all)-1].ID != IDCategoryAssignment {
		t.Errorf("last question = %s, want %s", all[len(all)-1].ID, IDCategoryAssignment)
	}
}

func TestRegistryForDomain(t *testing.T) {
	r := NewRegistry()

	general := r.ForDomain(General)
	for _, q := range general {
		if q.Domain == RFIC {
			t.Errorf("general document received RF question %s", q.ID)
		}
	}

	rf := r.ForDomain(RFIC)
	if len(rf) <= len(general) {
		t.Errorf("RF document got %d questions, want more than the %d general ones", len(rf), len(general))
	}

	ids := make(map[string]bool)
	for _, q := range rf {
		ids[q.ID] = true
	}
	for _, want := range []string{IDProblemDomain, IDRFCircuitArchitecture, IDCategoryAssignment} {
		if !ids[want] {
			t.Errorf("RF document missing question %s", want)
		}
	}
}

func TestBuildCategoryText(t *testing.T) {
	text := BuildCategoryText("Machine Learning -> Transformers")
	for _, want := range []string{
		"Machine Learning -> Transformers",
		"belongs to:",
		"add new subcategory:",
		"create new top-level category:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("category text missing %q", want)
		}
	}
}

func TestContextBuilderUsesDeclaredDependencies(t *testing.T) {
	r := NewRegistry()
	b := NewContextBuilder(r)
	method, _ := r.ByID(IDMethodDesign)

	answered := map[string]string{
		IDProblemDomain:        "The problem is spectrum crowding.",
		IDTheoreticalFramework: "A new interference model.",
		IDWorthReading:         "recommend",
	}

	got := b.Build(method, answered)
	if !strings.Contains(got, "spectrum crowding") {
		t.Errorf("context missing declared dependency answer: %q", got)
	}
	if !strings.Contains(got, "interference model") {
		t.Errorf("context missing second declared dependency: %q", got)
	}
	// Non-dependency answers must not leak in.
	if strings.Contains(got, "recommend") {
		t.Errorf("context leaked non-dependency answer: %q", got)
	}
	// Dependency order follows the declaration, not answer order.
	if strings.Index(got, "spectrum crowding") > strings.Index(got, "interference model") {
		t.Errorf("dependency answers out of declaration order: %q", got)
	}
}

func TestContextBuilderFallback(t *testing.T) {
	r := NewRegistry()
	b := NewContextBuilder(r)
	// The category question declares no dependencies, so it falls back to
	// the most important prior answers, capped at three.
	category, _ := r.ByID(IDCategoryAssignment)

	answered := map[string]string{
		IDProblemDomain:          "alpha finding",
		IDTheoreticalFramework:   "beta finding",
		IDMethodDesign:           "gamma finding",
		IDExperimentalValidation: "delta finding",
		IDWorthReading:           "epsilon judgment",
	}

	got := b.Build(category, answered)
	count := 0
	for _, answer := range answered {
		if strings.Contains(got, answer) {
			count++
		}
	}
	if count != 3 {
		t.Errorf("fallback surfaced %d answers, want 3: %q", count, got)
	}
	// The importance-4 judgment loses to the importance-5 answers.
	if strings.Contains(got, "epsilon judgment") {
		t.Errorf("fallback included lower-importance answer over higher ones: %q", got)
	}
}

func TestContextBuilderEmptyWhenNothingAnswered(t *testing.T) {
	r := NewRegistry()
	b := NewContextBuilder(r)
	q, _ := r.ByID(IDTheoreticalFramework)
	if got := b.Build(q, nil); got != "" {
		t.Errorf("Build with no answers = %q, want empty", got)
	}
}

func TestContextBuilderTruncatesLongAnswers(t *testing.T) {
	r := NewRegistry()
	b := NewContextBuilder(r)
	q, _ := r.ByID(IDTheoreticalFramework)

	long := strings.Repeat("x", 1000)
	got := b.Build(q, map[string]string{IDProblemDomain: long})
	if strings.Contains(got, strings.Repeat("x", 500)) {
		t.Errorf("dependency answer not truncated, context length %d", len(got))
	}
	if !strings.Contains(got, "...") {
		t.Errorf("truncated answer missing ellipsis marker")
	}
}
