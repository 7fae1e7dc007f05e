package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/lectern/internal/classify"
	"github.com/Iron-Ham/lectern/internal/docsource"
	"github.com/Iron-Ham/lectern/internal/event"
	"github.com/Iron-Ham/lectern/internal/keywords"
	"github.com/Iron-Ham/lectern/internal/llm"
	"github.com/Iron-Ham/lectern/internal/logging"
	"github.com/Iron-Ham/lectern/internal/metadata"
	"github.com/Iron-Ham/lectern/internal/question"
	"github.com/Iron-Ham/lectern/internal/report"
	"github.com/Iron-Ham/lectern/internal/taxonomy"
	"github.com/Iron-Ham/lectern/internal/token"
)

const (
	// historyTokenCeiling bounds the conversational history injected into
	// each call. The document seed pair is never pruned; the oldest
	// question/answer pairs go first.
	historyTokenCeiling = 15000
	// seedTurns is the number of history turns making up the document seed.
	seedTurns = 2
	// metadataPrefixChars is how much of the document the metadata
	// extractor sees.
	metadataPrefixChars = 4000
)

// Result is one successfully answered question.
type Result struct {
	Question question.Question
	Answer   string
}

// Failure records a question that could not be answered. Failures do not
// abort the session; they are reported alongside the results.
type Failure struct {
	QuestionID string
	Err        error
}

// Deps bundles the collaborators a session needs. All fields are required
// except Now, which defaults to time.Now, and Bus and Logger, which default
// to inert instances.
type Deps struct {
	Caller    llm.Caller
	Registry  *question.Registry
	Taxonomy  *taxonomy.Store
	Keywords  *keywords.Store
	Estimator *token.Estimator
	Bus       *event.Bus
	Logger    *logging.Logger
	Model     string
	ReportDir string
	// ForceDomain skips classification and pins the question domain.
	ForceDomain *question.Domain
	Now         func() time.Time
}

// Session drives one document through the full analysis pipeline:
// classification, the question sequence, consolidation, metadata
// extraction, and report persistence.
type Session struct {
	doc        *docsource.Document
	caller     llm.Caller
	classifier *classify.Classifier
	extractor  *metadata.Extractor
	deps       Deps
	logger     *logging.Logger
	bus        *event.Bus

	state    State
	history  []llm.Turn
	usage    *token.Usage
	results  []Result
	failures []Failure
	domain   question.Domain
	judgment string
	category string
}

// New creates a session for a loaded document. The session records token
// usage for every model interaction it makes, including classification and
// metadata extraction.
func New(doc *docsource.Document, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	if deps.Bus == nil {
		deps.Bus = event.NewBus()
	}
	usage := token.NewUsage(deps.Model)
	s := &Session{
		doc:    doc,
		deps:   deps,
		logger: deps.Logger.WithDocument(doc.Path),
		bus:    deps.Bus,
		state:  StateCreated,
		usage:  usage,
	}
	s.caller = &recordingCaller{
		inner:     deps.Caller,
		usage:     usage,
		estimator: deps.Estimator,
	}
	// Classification and metadata extraction go through the recording
	// caller so the token ledger covers every interaction in the session.
	s.classifier = classify.New(s.caller)
	s.extractor = metadata.NewExtractor(s.caller, deps.Keywords)
	return s
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Results returns the answered questions in the order they were asked.
func (s *Session) Results() []Result { return s.results }

// Failures returns the questions that could not be answered.
func (s *Session) Failures() []Failure { return s.failures }

// Usage returns the token ledger for this session.
func (s *Session) Usage() *token.Usage { return s.usage }

// Run executes the pipeline and returns the written report path. A session
// fails only when no question at all could be answered or the report cannot
// be written; individual question failures and a missing metadata block are
// tolerated.
func (s *Session) Run(ctx context.Context) (string, error) {
	if err := s.setState(StateLoaded); err != nil {
		return "", err
	}
	s.bus.Publish(event.NewDocumentLoadedEvent(s.doc.Path, len(s.doc.Text)))

	s.classify(ctx)

	if err := s.setState(StateAnalyzing); err != nil {
		return "", err
	}
	s.seedHistory()
	s.askQuestions(ctx)

	if len(s.results) == 0 {
		err := fmt.Errorf("no question produced an answer for %s", s.doc.Path)
		s.fail(err)
		return "", err
	}

	if stErr := s.setState(StateSummarizing); stErr != nil {
		return "", stErr
	}
	narrative := s.consolidate(ctx)

	if stErr := s.setState(StateExtractingMetadata); stErr != nil {
		return "", stErr
	}
	frontMatter := s.extractMetadata(ctx)

	if stErr := s.setState(StateSaving); stErr != nil {
		return "", stErr
	}
	path, err := s.saveReport(narrative, frontMatter)
	if err != nil {
		s.fail(err)
		return "", err
	}

	if stErr := s.setState(StateDone); stErr != nil {
		return "", stErr
	}
	s.bus.Publish(event.NewSessionDoneEvent(s.doc.Path, path, nil))
	s.logger.Info("analysis complete",
		"report", path,
		"answered", len(s.results),
		"failed", len(s.failures),
		"tokens", s.usage.Total())
	return path, nil
}

// classify determines the question domain. Classification never fails the
// session: on any error the classifier's default domain applies.
func (s *Session) classify(ctx context.Context) {
	if s.deps.ForceDomain != nil {
		s.domain = *s.deps.ForceDomain
	} else {
		domain, err := s.classifier.Classify(ctx, s.doc.Text)
		if err != nil {
			s.logger.Warn("classification fell back to default", "error", err)
		}
		s.domain = domain
	}
	// Transition is infallible here: LOADED -> CLASSIFIED is always legal.
	_ = s.setState(StateClassified)
	s.bus.Publish(event.NewDomainClassifiedEvent(s.doc.Path, s.domain.String()))
	s.logger.Info("document classified", "domain", s.domain.String())
}

func (s *Session) askQuestions(ctx context.Context) {
	questions := s.deps.Registry.ForDomain(s.domain)
	answered := make(map[string]string)
	builder := question.NewContextBuilder(s.deps.Registry)
	logger := s.logger.WithPhase(string(StateAnalyzing))

	for i, q := range questions {
		text := q.Text
		if q.ID == question.IDCategoryAssignment {
			text = question.BuildCategoryText(s.deps.Taxonomy.PromptList())
		}

		var prompt strings.Builder
		if extra := builder.Build(q, answered); extra != "" {
			prompt.WriteString(extra)
			prompt.WriteString("\n")
		}
		prompt.WriteString(text)

		answer, err := s.call(ctx, prompt.String())
		if err != nil {
			logger.Warn("question failed", "question", q.ID, "error", err)
			s.failures = append(s.failures, Failure{QuestionID: q.ID, Err: err})
			s.bus.Publish(event.NewQuestionAnsweredEvent(s.doc.Path, q.ID, false, i+1, len(questions)))
			if ctx.Err() != nil {
				return
			}
			continue
		}

		answered[q.ID] = answer
		s.results = append(s.results, Result{Question: q, Answer: answer})
		s.bus.Publish(event.NewQuestionAnsweredEvent(s.doc.Path, q.ID, true, i+1, len(questions)))

		switch q.ID {
		case question.IDWorthReading:
			s.judgment = answer
		case question.IDCategoryAssignment:
			if edit := s.deps.Taxonomy.Apply(answer); edit != nil {
				s.category = categoryFromEdit(edit)
				logger.Info("category assigned", "category", s.category)
			}
		}
	}
}

// consolidate asks for a cross-question synthesis. Failure is tolerated;
// the report simply omits the overall assessment.
func (s *Session) consolidate(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("Synthesize the findings below into a single coherent assessment of the document. ")
	b.WriteString("Cover what it contributes, how sound the approach is, and who should read it. ")
	b.WriteString("Write flowing prose, not a list.\n\n")
	for _, r := range s.results {
		b.WriteString("### ")
		b.WriteString(r.Question.Text)
		b.WriteString("\n")
		b.WriteString(r.Answer)
		b.WriteString("\n\n")
	}

	narrative, err := s.call(ctx, b.String())
	if err != nil {
		s.logger.Warn("consolidation failed, report will omit overall assessment", "error", err)
		return ""
	}
	return narrative
}

func (s *Session) extractMetadata(ctx context.Context) string {
	answers := make([]metadata.Answer, len(s.results))
	for i, r := range s.results {
		answers[i] = metadata.Answer{Question: r.Question.Text, Text: r.Answer}
	}
	in := metadata.Input{
		DocumentPrefix: prefix(s.doc.Text, metadataPrefixChars),
		Answers:        answers,
		Judgment:       s.judgment,
		Category:       s.category,
	}
	block, ok, err := s.extractor.Extract(ctx, in)
	if err != nil {
		s.logger.Warn("metadata extraction failed", "error", err)
		return ""
	}
	if !ok {
		s.logger.Warn("metadata response had no front matter block")
		return ""
	}
	return block
}

func (s *Session) saveReport(narrative, frontMatter string) (string, error) {
	sections := make([]report.Section, len(s.results))
	for i, r := range s.results {
		sections[i] = report.Section{Question: r.Question, Answer: r.Answer}
	}
	rep := &report.Report{
		SourcePath:  s.doc.Path,
		FrontMatter: frontMatter,
		Narrative:   narrative,
		Sections:    sections,
		Usage:       s.usage,
	}
	return rep.Save(s.deps.ReportDir, s.deps.Now())
}

func (s *Session) fail(err error) {
	if CanTransition(s.state, StateFailed) {
		_ = s.setState(StateFailed)
	}
	s.bus.Publish(event.NewSessionDoneEvent(s.doc.Path, "", err))
	s.logger.Error("session failed", "error", err)
}

func (s *Session) phaseEvent(st State) event.SessionPhaseEvent {
	return event.NewSessionPhaseEvent(s.doc.Path, string(st))
}

// call issues one model interaction carrying the conversational history,
// then appends the exchange and prunes old pairs past the token ceiling.
func (s *Session) call(ctx context.Context, prompt string) (string, error) {
	resp, err := s.caller.Call(ctx, llm.Request{
		Prompt:  prompt,
		History: s.history,
	})
	if err != nil {
		return "", err
	}
	s.appendHistory(prompt, resp)
	return resp, nil
}

// seedHistory installs the document as the opening exchange. The seed pair
// survives pruning so every later question keeps access to the full text.
func (s *Session) seedHistory() {
	s.history = []llm.Turn{
		{Role: "user", Content: "Please read and remember the following document. Answer all subsequent questions based on its content.\n\n" + s.doc.Text},
		{Role: "assistant", Content: "I have read the document and will answer questions based on its content."},
	}
}

func (s *Session) appendHistory(prompt, response string) {
	s.history = append(s.history,
		llm.Turn{Role: "user", Content: prompt},
		llm.Turn{Role: "assistant", Content: response},
	)
	for s.historyTokens() > historyTokenCeiling && len(s.history) > seedTurns+2 {
		// Drop the oldest non-seed pair.
		s.history = append(s.history[:seedTurns], s.history[seedTurns+2:]...)
	}
}

func (s *Session) historyTokens() int {
	total := 0
	for _, t := range s.history[seedTurns:] {
		total += s.deps.Estimator.Estimate(t.Content, s.deps.Model)
	}
	return total
}

func categoryFromEdit(e *taxonomy.Edit) string {
	switch e.Kind {
	case taxonomy.EditAssignment, taxonomy.EditNewSubcategory:
		return e.Main + " -> " + e.Sub
	case taxonomy.EditNewCategory:
		if len(e.Subs) > 0 {
			return e.Main + " -> " + e.Subs[0]
		}
		return e.Main
	}
	return ""
}

// recordingCaller wraps a Caller and records token usage for every
// successful interaction.
type recordingCaller struct {
	inner     llm.Caller
	usage     *token.Usage
	estimator *token.Estimator
}

func (r *recordingCaller) Call(ctx context.Context, req llm.Request) (string, error) {
	resp, err := r.inner.Call(ctx, req)
	if err != nil {
		return "", err
	}
	r.usage.Record(r.estimator, req.Prompt, resp)
	return resp, nil
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
