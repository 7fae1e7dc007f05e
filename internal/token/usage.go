package token

import (
	"fmt"
	"strings"
)

// Interaction records the token cost of one prompt/response exchange.
type Interaction struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the combined cost of the interaction.
func (i Interaction) Total() int { return i.InputTokens + i.OutputTokens }

// Usage accumulates per-session token counters. Counters grow monotonically
// and are reset by creating a fresh Usage at session start. Usage is owned by
// a single session and is not safe for concurrent use.
type Usage struct {
	Model        string
	Items        []Interaction
	InputTokens  int
	OutputTokens int
	Interactions int
}

// NewUsage returns zeroed usage counters for the given model.
func NewUsage(model string) *Usage {
	return &Usage{Model: model}
}

// Record estimates and accumulates one interaction's cost.
func (u *Usage) Record(est *Estimator, input, output string) {
	in := est.Estimate(input, u.Model)
	out := est.Estimate(output, u.Model)
	u.Items = append(u.Items, Interaction{InputTokens: in, OutputTokens: out})
	u.InputTokens += in
	u.OutputTokens += out
	u.Interactions++
}

// Total returns the combined input and output token count.
func (u *Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Summary renders the accounting block appended to reports. Returns an empty
// string when nothing was recorded, so callers can skip the section.
func (u *Usage) Summary() string {
	if u.Interactions == 0 {
		return ""
	}
	avg := float64(u.Total()) / float64(u.Interactions)

	var b strings.Builder
	b.WriteString("## Token Usage\n\n")
	fmt.Fprintf(&b, "- Model: %s\n", u.Model)
	fmt.Fprintf(&b, "- Interactions: %d\n", u.Interactions)
	fmt.Fprintf(&b, "- Input tokens: %d\n", u.InputTokens)
	fmt.Fprintf(&b, "- Output tokens: %d\n", u.OutputTokens)
	fmt.Fprintf(&b, "- Total tokens: %d\n", u.Total())
	fmt.Fprintf(&b, "- Average per interaction: %.1f\n", avg)
	return b.String()
}
