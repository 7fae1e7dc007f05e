// Package token approximates token costs of prompts and responses and tracks
// per-session usage totals. Estimates are heuristic; they exist to size
// prompts and to render an accounting block in the report, not for billing.
package token

import "strings"

// charsPerToken is the rough ratio used for models without a registered
// estimator. Four characters per token tracks English prose closely enough
// for budget checks.
const charsPerToken = 4

// Estimator approximates the token cost of a text span for a named model.
type Estimator struct {
	// perModel maps a model name to a custom counting function. Models
	// without an entry use the character heuristic.
	perModel map[string]func(string) int
}

// NewEstimator returns an Estimator with no model-specific counters.
func NewEstimator() *Estimator {
	return &Estimator{perModel: make(map[string]func(string) int)}
}

// Register installs a counting function for a model name. A nil fn is ignored.
func (e *Estimator) Register(model string, fn func(string) int) {
	if fn == nil {
		return
	}
	e.perModel[model] = fn
}

// Estimate returns a non-negative token estimate for text under the given
// model. It never fails: a panicking model-specific counter falls back to
// the character count of the text.
func (e *Estimator) Estimate(text, model string) (n int) {
	if text == "" {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			n = len(text)
		}
	}()

	if fn, ok := e.perModel[model]; ok {
		if got := fn(text); got >= 0 {
			return got
		}
		return len(text)
	}
	return heuristic(text)
}

// heuristic divides the character count by the chars-per-token ratio,
// flooring at 1 for any non-blank text.
func heuristic(text string) int {
	n := len(text) / charsPerToken
	if n == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return n
}
