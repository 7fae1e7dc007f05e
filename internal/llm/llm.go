// Package llm defines the outbound LLM call boundary and the rate-limited,
// retrying wrapper every pipeline call goes through. The core treats the
// provider as an opaque, possibly-slow, possibly-failing remote procedure;
// it knows nothing about the model beyond a name used for token estimation
// and logging.
package llm

import (
	"context"
	"errors"
)

// Turn is one prior exchange in a conversation history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request is a single outbound call.
type Request struct {
	Prompt       string
	SystemPrompt string
	History      []Turn
}

// Caller issues one LLM call. An empty response must be reported as an
// error; callers treat ("", nil) as a contract violation.
type Caller interface {
	Call(ctx context.Context, req Request) (string, error)
}

// ErrEmptyResponse is returned when the provider answers with no content.
var ErrEmptyResponse = errors.New("llm: empty response")

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, req Request) (string, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
