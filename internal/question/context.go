package question

import (
	"sort"
	"strings"
)

// Per-answer character budgets for context injection. Declared dependencies
// get a larger excerpt than heuristic picks.
const (
	dependencyExcerptChars = 400
	fallbackExcerptChars   = 300
	fallbackMaxAnswers     = 3
)

// dependencies is the static dependency graph: question X may surface
// question Y's answer as context only when Y is listed here under X.
var dependencies = map[string][]string{
	IDTheoreticalFramework:   {IDProblemDomain},
	IDMethodDesign:           {IDProblemDomain, IDTheoreticalFramework},
	IDExperimentalValidation: {IDTheoreticalFramework, IDMethodDesign},
	IDWorthReading:           {IDExperimentalValidation},
	IDPresentationSummary:    {IDMethodDesign, IDExperimentalValidation},
	IDRFCircuitArchitecture:  {IDMethodDesign},
	IDRFPerformanceMethods:   {IDMethodDesign, IDRFCircuitArchitecture},
	IDRFManufacturingMarket:  {IDRFPerformanceMethods},
}

// DependsOn returns the declared dependencies of a question ID.
func DependsOn(id string) []string {
	return dependencies[id]
}

// ContextBuilder selects which already-answered questions' results to inject
// as context for a later question.
type ContextBuilder struct {
	registry *Registry
}

// NewContextBuilder creates a builder over the given registry.
func NewContextBuilder(r *Registry) *ContextBuilder {
	return &ContextBuilder{registry: r}
}

// Build renders the context block for current given the answers so far.
// Questions with declared dependencies surface exactly those answered
// dependencies, in declaration order. Questions without dependencies fall
// back to at most the three most important prior answers, truncated harder
// to bound prompt growth. Returns "" when nothing is available.
func (b *ContextBuilder) Build(current Question, answered map[string]string) string {
	if len(answered) == 0 {
		return ""
	}

	type excerpt struct {
		heading string
		body    string
	}
	var excerpts []excerpt

	if deps := dependencies[current.ID]; len(deps) > 0 {
		for _, depID := range deps {
			answer, ok := answered[depID]
			if !ok {
				continue
			}
			q, _ := b.registry.ByID(depID)
			excerpts = append(excerpts, excerpt{q.Description, truncate(answer, dependencyExcerptChars)})
		}
	} else {
		var prior []Question
		for _, q := range b.registry.All() {
			if q.ID == current.ID {
				continue
			}
			if _, ok := answered[q.ID]; ok {
				prior = append(prior, q)
			}
		}
		sort.SliceStable(prior, func(i, j int) bool {
			return prior[i].Importance > prior[j].Importance
		})
		if len(prior) > fallbackMaxAnswers {
			prior = prior[:fallbackMaxAnswers]
		}
		for _, q := range prior {
			excerpts = append(excerpts, excerpt{q.Description, truncate(answered[q.ID], fallbackExcerptChars)})
		}
	}

	if len(excerpts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Key findings from earlier analysis:\n")
	for _, e := range excerpts {
		sb.WriteString("\n")
		sb.WriteString(e.heading)
		sb.WriteString(": ")
		sb.WriteString(e.body)
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
