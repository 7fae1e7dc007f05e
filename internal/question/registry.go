// Package question defines the static analysis question set, its dependency
// graph, and the progressive-context selection that feeds earlier answers
// into later prompts.
package question

import (
	"sort"
	"strings"
)

// Question is one analysis prompt. Questions are immutable once defined; the
// registry is process-wide static configuration.
type Question struct {
	ID          string
	Text        string
	Description string // Short section heading used in reports and context blocks
	Importance  int    // 1..5, 5 highest
	Domain      Domain
}

// Well-known question IDs referenced by the pipeline.
const (
	IDProblemDomain          = "problem_domain_and_motivation"
	IDTheoreticalFramework   = "theoretical_framework_and_contributions"
	IDMethodDesign           = "method_design_and_technical_details"
	IDExperimentalValidation = "experimental_validation_and_effectiveness"
	IDWorthReading           = "worth_reading_judgment"
	IDCategoryAssignment     = "category_assignment"
	IDPresentationSummary    = "presentation_summary_and_materials"
	IDRFCircuitArchitecture  = "rf_ic_circuit_architecture_detail"
	IDRFPerformanceMethods   = "rf_ic_performance_and_methods"
	IDRFManufacturingMarket  = "rf_ic_manufacturing_market_analysis"
)

// Registry is an ordered question set. Ordering is by importance, highest
// first, stable within equal importance.
type Registry struct {
	questions []Question
}

// NewRegistry returns the static registry sorted by importance.
func NewRegistry() *Registry {
	qs := make([]Question, len(defaultQuestions))
	copy(qs, defaultQuestions)
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].Importance > qs[j].Importance
	})
	return &Registry{questions: qs}
}

// All returns every question in importance order.
func (r *Registry) All() []Question {
	out := make([]Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// ForDomain returns the subset applicable to a document classified as doc,
// preserving importance order: questions tagged Both plus those tagged with
// the document's own domain.
func (r *Registry) ForDomain(doc Domain) []Question {
	var out []Question
	for _, q := range r.questions {
		if q.Domain.AppliesTo(doc) {
			out = append(out, q)
		}
	}
	return out
}

// ByID looks a question up by its ID.
func (r *Registry) ByID(id string) (Question, bool) {
	for _, q := range r.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// BuildCategoryText composes the category-assignment question around the
// current taxonomy listing. The directive formats here must stay in sync
// with the taxonomy directive parser.
func BuildCategoryText(taxonomyList string) string {
	var b strings.Builder
	b.WriteString("Determine the most accurate two-level category for this document.\n\n")
	b.WriteString("Current category tree (main -> subcategories):\n")
	b.WriteString(taxonomyList)
	b.WriteString("\n\nAnswer with exactly one of:\n")
	b.WriteString("1) If an existing subcategory fits:\n   belongs to: <MainCategory> -> <Subcategory>\n")
	b.WriteString("2) If a new subcategory is needed:\n   add new subcategory: <MainCategory> -> <NewSubcategory>\n")
	b.WriteString("3) If a new main category is needed:\n   create new top-level category: <NewMainCategory> -> [<sub1>, <sub2>, ...]\n")
	b.WriteString("Then give a one-sentence justification.")
	return b.String()
}

var defaultQuestions = []Question{
	{
		ID:          IDProblemDomain,
		Description: "Problem Domain and Motivation",
		Importance:  5,
		Domain:      Both,
		Text: "Analyze the research background and motivation:\n" +
			"1) The core problem the document addresses and its system-level importance\n" +
			"2) Fundamental shortcomings of existing approaches\n" +
			"3) The key innovations of this work and how they differ\n" +
			"4) Significance for theory or engineering practice",
	},
	{
		ID:          IDTheoreticalFramework,
		Description: "Theoretical Framework and Contributions",
		Importance:  5,
		Domain:      Both,
		Text: "Lay out the theoretical framework and core contributions:\n" +
			"1) Theories, models, or equivalent transformations and their key assumptions\n" +
			"2) Contribution list ordered by theoretical importance\n" +
			"3) How these contributions address the shortcomings identified earlier\n" +
			"4) Scope of applicability and boundary conditions",
	},
	{
		ID:          IDMethodDesign,
		Description: "Method Design and Technical Details",
		Importance:  5,
		Domain:      Both,
		Text: "Break down the method and implementation from a reproducibility standpoint:\n" +
			"1) Key steps and design decisions of the core algorithm or system\n" +
			"2) Essential notation, objectives, and derivation steps\n" +
			"3) Reproduction notes: critical hyperparameters, resources, pitfalls\n" +
			"4) Essential differences and trade-offs versus existing methods",
	},
	{
		ID:          IDExperimentalValidation,
		Description: "Experimental Validation and Effectiveness",
		Importance:  5,
		Domain:      Both,
		Text: "Assess whether the experiments support the claims:\n" +
			"1) Do the validation items cover the theoretical and methodological key points?\n" +
			"2) Soundness of metric choices, baselines, and ablations\n" +
			"3) Consistency between headline results and claims, including reproducibility\n" +
			"4) One or two principal limitations or risks and their impact",
	},
	{
		ID:          IDWorthReading,
		Description: "Worth a Close Read",
		Importance:  4,
		Domain:      Both,
		Text: "Give a close-reading recommendation, choosing exactly one of: " +
			"strongly recommend / recommend / neutral / caution / not recommend. " +
			"Justify the choice in one or two sentences covering novelty, rigor, and likely impact.",
	},
	{
		ID:          IDPresentationSummary,
		Description: "Presentation Summary",
		Importance:  4,
		Domain:      Both,
		Text: "Produce a minimal Markdown summary suitable for slides:\n" +
			"# Overview (1 line)\n- One sentence on what the work does and why it is effective\n\n" +
			"# Key Points (3-5 bullets)\n- Inputs, processing, outputs, and key branches, each bullet under 14 words\n\n" +
			"# Method Highlights (5-8 bullets)\n- Innovations and core mechanisms, each bullet under 16 words\n\n" +
			"# Applications and Results (up to 3 bullets, optional)\n- Scenario, metric, benefit\n\n" +
			"Output only this Markdown structure, with no embedded code.",
	},
	{
		ID:          IDCategoryAssignment,
		Description: "Category Assignment",
		Importance:  1,
		Domain:      Both,
		// Text is composed per run via BuildCategoryText with the live
		// taxonomy listing.
		Text: "",
	},
	{
		ID:          IDRFCircuitArchitecture,
		Description: "RF IC Circuit Architecture and Process Design",
		Importance:  5,
		Domain:      RFIC,
		Text: "Focus on the interplay of circuit architecture and process technology:\n" +
			"1) Core circuit block architecture (LNA, PA, mixer, VCO, PLL, etc.)\n" +
			"2) Process technology choices and device optimization strategy\n" +
			"3) Key process-parameter effects on RF performance\n" +
			"4) Process-device-circuit co-design innovations",
	},
	{
		ID:          IDRFPerformanceMethods,
		Description: "RF IC Performance Metrics and Design Methods",
		Importance:  5,
		Domain:      RFIC,
		Text: "Review the design methodology from a performance-power-area standpoint:\n" +
			"1) Key metrics (frequency, bandwidth, gain, NF, linearity, efficiency) and constraints\n" +
			"2) Design-flow or methodology innovations and EDA tooling strategy\n" +
			"3) Layout, routing, and RF optimization; critical paths and bottlenecks",
	},
	{
		ID:          IDRFManufacturingMarket,
		Description: "RF IC Manufacturing, Test, and Market",
		Importance:  4,
		Domain:      RFIC,
		Text: "1) Manufacturing feasibility, yield, cost, packaging, and reliability\n" +
			"2) RF test strategy, coverage, and volume-production consistency\n" +
			"3) Application scenarios, market positioning, and commercialization outlook",
	},
}
