package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Iron-Ham/lectern/internal/batch"
	"github.com/Iron-Ham/lectern/internal/config"
	"github.com/Iron-Ham/lectern/internal/docsource"
	"github.com/Iron-Ham/lectern/internal/event"
	"github.com/Iron-Ham/lectern/internal/keywords"
	"github.com/Iron-Ham/lectern/internal/llm"
	"github.com/Iron-Ham/lectern/internal/logging"
	"github.com/Iron-Ham/lectern/internal/question"
	"github.com/Iron-Ham/lectern/internal/session"
	"github.com/Iron-Ham/lectern/internal/taxonomy"
	"github.com/Iron-Ham/lectern/internal/token"
	"github.com/Iron-Ham/lectern/internal/tui"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path|arxiv-id>...",
	Short: "Analyze documents and write Markdown reports",
	Long: `Analyze one or more documents. Each argument is a file, a directory
(walked recursively for supported formats), or an arXiv reference such as
"arxiv:2106.09685". One report is written per document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeOutput string
	analyzeDomain string
	analyzeNoTUI  bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "report output directory (overrides paths.output_dir)")
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "force question domain: general or rf_ic")
	analyzeCmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable the progress display")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if analyzeOutput != "" {
		cfg.Paths.OutputDir = analyzeOutput
	}
	if analyzeDomain != "" {
		cfg.Analysis.Domain = analyzeDomain
	}

	logger, err := logging.NewLogger(config.ExpandPath(cfg.Paths.LogDir), cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, fetched, fetchFailures, err := resolveInputs(ctx, docsource.NewArxivFetcher(), args)
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}

	coord := batch.NewCoordinator(deps, docsource.DefaultRegistry())
	total := len(paths) + len(fetched)

	var app *tui.App
	if !analyzeNoTUI {
		app = tui.New(total)
		detach := app.Attach(deps.Bus)
		defer detach()
		go func() {
			if err := app.Run(); err != nil {
				logger.Warn("progress display exited", "error", err)
			}
		}()
		defer app.Quit()
	}

	summary := runBatch(ctx, coord, deps, paths, fetched)
	for _, f := range fetchFailures {
		summary.Outcomes = append(summary.Outcomes, batch.Outcome{Path: f.ref, Err: f.err})
		summary.Failed++
	}

	printSummary(cmd, summary)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, len(summary.Outcomes))
	}
	return ctx.Err()
}

// fetchFailure records a remote reference that could not be downloaded. It
// is reported as one failed document so mixed local/remote batches still run
// to completion.
type fetchFailure struct {
	ref string
	err error
}

// resolveInputs splits arguments into local paths (expanded through
// directory discovery), pre-fetched remote documents, and failed fetches.
// An argument may carry a comma-separated list of identifiers.
func resolveInputs(ctx context.Context, fetcher docsource.Fetcher, args []string) ([]string, []*docsource.Document, []fetchFailure, error) {
	var paths []string
	var fetched []*docsource.Document
	var failures []fetchFailure

	for _, arg := range args {
		if ids, ok := remoteIDs(arg); ok {
			for _, id := range ids {
				doc, err := fetcher.Fetch(ctx, id)
				if err != nil {
					failures = append(failures, fetchFailure{
						ref: string(id.Kind) + ":" + id.Value,
						err: err,
					})
					continue
				}
				fetched = append(fetched, doc)
			}
			continue
		}
		found, err := docsource.Discover(arg)
		if err != nil {
			return nil, nil, nil, err
		}
		paths = append(paths, found...)
	}
	return paths, fetched, failures, nil
}

func remoteIDs(arg string) ([]docsource.PaperID, bool) {
	if _, err := os.Stat(arg); err == nil {
		return nil, false
	}
	ids := docsource.ExtractPaperIDs(arg)
	return ids, len(ids) > 0
}

// newLLMClient builds the provider client from config, including the
// configured request timeout.
func newLLMClient(cfg *config.Config) *llm.Client {
	return &llm.Client{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		HTTPClient: &http.Client{Timeout: cfg.LLM.Timeout()},
	}
}

func buildDeps(cfg *config.Config, logger *logging.Logger) (session.Deps, error) {
	limiter := llm.NewLimiter(newLLMClient(cfg), llm.LimiterConfig{
		MaxConcurrent:  cfg.Limiter.MaxConcurrent,
		MaxRetries:     cfg.Limiter.MaxRetries,
		BaseDelay:      cfg.Limiter.BaseDelay(),
		MaxPromptChars: cfg.Limiter.MaxPromptChars,
	})

	deps := session.Deps{
		Caller:    limiter,
		Registry:  question.NewRegistry(),
		Taxonomy:  taxonomy.NewStore(config.ExpandPath(cfg.Paths.TaxonomyFile)),
		Keywords:  keywords.NewStore(config.ExpandPath(cfg.Paths.KeywordsFile)),
		Estimator: token.NewEstimator(),
		Bus:       event.NewBus(),
		Logger:    logger,
		Model:     cfg.LLM.Model,
		ReportDir: config.ExpandPath(cfg.Paths.OutputDir),
	}

	switch strings.ToLower(cfg.Analysis.Domain) {
	case "general":
		d := question.General
		deps.ForceDomain = &d
	case "rf_ic":
		d := question.RFIC
		deps.ForceDomain = &d
	}
	return deps, nil
}

// runBatch analyzes local paths through the coordinator, then fetched
// remote documents one by one with the same dependencies.
func runBatch(ctx context.Context, coord *batch.Coordinator, deps session.Deps, paths []string, fetched []*docsource.Document) batch.Summary {
	var summary batch.Summary
	if len(paths) > 0 {
		summary = coord.Run(ctx, paths)
	}
	for _, doc := range fetched {
		sess := session.New(doc, deps)
		reportPath, err := sess.Run(ctx)
		out := batch.Outcome{
			Path:       doc.Path,
			ReportPath: reportPath,
			Answered:   len(sess.Results()),
			Failed:     len(sess.Failures()),
			Tokens:     sess.Usage().Total(),
			Err:        err,
		}
		summary.Outcomes = append(summary.Outcomes, out)
		if err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

func printSummary(cmd *cobra.Command, summary batch.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	for _, o := range summary.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "  FAIL %s: %v\n", o.Path, o.Err)
			continue
		}
		fmt.Fprintf(out, "  OK   %s -> %s (%d answered, %d failed, %d tokens)\n",
			o.Path, o.ReportPath, o.Answered, o.Failed, o.Tokens)
	}
}
