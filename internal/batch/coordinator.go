package batch

import (
	"context"
	"sync"

	"github.com/Iron-Ham/lectern/internal/docsource"
	"github.com/Iron-Ham/lectern/internal/event"
	"github.com/Iron-Ham/lectern/internal/logging"
	"github.com/Iron-Ham/lectern/internal/session"
)

// maxWorkers caps batch parallelism. The LLM limiter bounds in-flight
// provider calls separately; this only bounds concurrent sessions.
const maxWorkers = 3

// Outcome is the result of one document's analysis.
type Outcome struct {
	Path       string
	ReportPath string
	Answered   int
	Failed     int
	Tokens     int
	Err        error
}

// Summary aggregates a finished batch.
type Summary struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// Coordinator fans a set of documents out over a bounded worker pool, one
// session per document. Document failures are isolated: a session that
// errors is recorded and the rest of the batch continues.
type Coordinator struct {
	deps    session.Deps
	loaders *docsource.Registry
	logger  *logging.Logger
	bus     *event.Bus

	mu        sync.Mutex
	completed int
	failed    int
}

func NewCoordinator(deps session.Deps, loaders *docsource.Registry) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	bus := deps.Bus
	if bus == nil {
		bus = event.NewBus()
		deps.Bus = bus
	}
	return &Coordinator{
		deps:    deps,
		loaders: loaders,
		logger:  logger,
		bus:     bus,
	}
}

// Run analyzes every path and returns the per-document outcomes in input
// order. Worker count is min(maxWorkers, len(paths)).
func (c *Coordinator) Run(ctx context.Context, paths []string) Summary {
	outcomes := make([]Outcome, len(paths))

	workers := maxWorkers
	if len(paths) < workers {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = c.analyze(ctx, paths[i])
				c.recordProgress(outcomes[i].Err == nil, len(paths))
			}
		}()
	}

	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Mark everything not yet dispatched as failed.
			close(jobs)
			wg.Wait()
			return c.finish(c.markCancelled(outcomes, paths, ctx.Err()))
		}
	}
	close(jobs)
	wg.Wait()

	return c.finish(outcomes)
}

func (c *Coordinator) analyze(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path}

	doc, err := c.loaders.Load(path)
	if err != nil {
		c.logger.Error("document load failed", "path", path, "error", err)
		out.Err = err
		return out
	}

	sess := session.New(doc, c.deps)
	reportPath, err := sess.Run(ctx)
	out.ReportPath = reportPath
	out.Answered = len(sess.Results())
	out.Failed = len(sess.Failures())
	out.Tokens = sess.Usage().Total()
	out.Err = err
	return out
}

func (c *Coordinator) recordProgress(ok bool, total int) {
	c.mu.Lock()
	if ok {
		c.completed++
	} else {
		c.failed++
	}
	completed, failed := c.completed, c.failed
	c.mu.Unlock()
	c.bus.Publish(event.NewBatchProgressEvent(completed, failed, total))
}

func (c *Coordinator) markCancelled(outcomes []Outcome, paths []string, err error) []Outcome {
	for i := range outcomes {
		if outcomes[i].Path == "" {
			outcomes[i] = Outcome{Path: paths[i], Err: err}
		}
	}
	return outcomes
}

func (c *Coordinator) finish(outcomes []Outcome) Summary {
	summary := Summary{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	c.bus.Publish(event.NewBatchFinishedEvent(summary.Succeeded, summary.Failed))
	c.logger.Info("batch finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary
}
