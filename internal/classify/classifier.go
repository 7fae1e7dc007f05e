// Package classify labels a document with a domain tag via a single LLM call.
// Classification failure is never fatal: any ambiguity, empty response, or
// call error resolves to the configured default domain.
package classify

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/lectern/internal/llm"
	"github.com/Iron-Ham/lectern/internal/question"
)

// prefixChars bounds how much document text the classification prompt carries.
const prefixChars = 2000

const systemPrompt = "You are a document classification assistant. " +
	"Judge the document's field precisely from its content."

// Classifier issues the single domain-classification call.
type Classifier struct {
	caller  llm.Caller
	Default question.Domain
}

// New creates a classifier with General as the fallback domain.
func New(caller llm.Caller) *Classifier {
	return &Classifier{caller: caller, Default: question.General}
}

// Classify labels the document text. The returned domain is always usable;
// when the call fails or the answer matches no known label, the configured
// default is returned along with the underlying error for logging.
func (c *Classifier) Classify(ctx context.Context, text string) (question.Domain, error) {
	resp, err := c.caller.Call(ctx, llm.Request{
		Prompt:       buildPrompt(text),
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return c.Default, err
	}
	domain, ok := question.ParseDomain(resp)
	if !ok {
		return c.Default, fmt.Errorf("classify: no domain label in response")
	}
	return domain, nil
}

func buildPrompt(text string) string {
	prefix := text
	if len(prefix) > prefixChars {
		prefix = prefix[:prefixChars]
	}
	return fmt.Sprintf(`Decide whether the following document belongs to the radio-frequency integrated circuit (RF IC) field:

Document excerpt:
%s...

Judge by these criteria:
1. RF front-end circuits (LNA, PA, mixer, VCO, PLL, etc.)
2. Wireless system integration, millimeter-wave, or terahertz technology
3. RF circuit design or semiconductor processes for RF applications
4. RF performance metrics (noise figure, linearity, efficiency, etc.)
5. Work centered on ML or EDA tooling is GENERAL, even when applied to RF IC

Answer with exactly one token: "RF_IC" or "GENERAL".`, prefix)
}
