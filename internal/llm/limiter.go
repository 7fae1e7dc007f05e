package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// TruncationMarker is appended when a prompt exceeds the safety threshold.
const TruncationMarker = "\n\n[content truncated]"

// LimiterConfig tunes the rate-limited wrapper.
type LimiterConfig struct {
	// MaxConcurrent bounds in-flight calls per process, independent of how
	// many documents run in parallel.
	MaxConcurrent int
	// MaxRetries is the number of attempts per call.
	MaxRetries int
	// BaseDelay is the fixed part of the retry backoff; a uniform 1-3s
	// jitter is added on top.
	BaseDelay time.Duration
	// MaxPromptChars is the pre-flight length guard. Longer prompts are
	// truncated with an explicit marker to avoid provider-side rejection.
	MaxPromptChars int
}

// DefaultLimiterConfig returns the stock limits.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		MaxConcurrent:  2,
		MaxRetries:     3,
		BaseDelay:      5 * time.Second,
		MaxPromptChars: 80000,
	}
}

// ErrExhausted is returned once every retry attempt has failed. The caller
// decides whether to skip, log, or abort; one question's failure never aborts
// a session.
var ErrExhausted = errors.New("llm: retries exhausted")

// Limiter wraps a Caller with a concurrency semaphore, bounded retries, and
// jittered backoff. It is safe for concurrent use.
type Limiter struct {
	inner Caller
	cfg   LimiterConfig
	sem   chan struct{}

	// jitter returns the random addition to BaseDelay; replaceable in tests.
	jitter func() time.Duration

	// sleep waits for the backoff duration or context cancellation;
	// replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter wraps inner with the given limits. Zero-value config fields fall
// back to the defaults.
func NewLimiter(inner Caller, cfg LimiterConfig) *Limiter {
	def := DefaultLimiterConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = def.MaxPromptChars
	}
	return &Limiter{
		inner: inner,
		cfg:   cfg,
		sem:   make(chan struct{}, cfg.MaxConcurrent),
		jitter: func() time.Duration {
			return time.Duration((1 + 2*rand.Float64()) * float64(time.Second))
		},
		sleep: sleepCtx,
	}
}

// Call issues the request through the semaphore with up to MaxRetries
// attempts. A provider error or empty response counts as a failed attempt.
// After exhausting retries the last error is wrapped in ErrExhausted.
func (l *Limiter) Call(ctx context.Context, req Request) (string, error) {
	req.Prompt = l.guardLength(req.Prompt)

	var lastErr error
	for attempt := 1; attempt <= l.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := l.sleep(ctx, l.cfg.BaseDelay+l.jitter()); err != nil {
				return "", err
			}
		}

		resp, err := l.attempt(ctx, req)
		if err == nil && strings.TrimSpace(resp) != "" {
			return resp, nil
		}
		if err == nil {
			err = ErrEmptyResponse
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrExhausted, l.cfg.MaxRetries, lastErr)
}

// attempt holds a semaphore slot for the duration of one provider call.
func (l *Limiter) attempt(ctx context.Context, req Request) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()

	return l.inner.Call(ctx, req)
}

// guardLength truncates prompts above the safety threshold, marking the cut.
// The cut lands on a rune boundary so the provider never sees invalid UTF-8.
func (l *Limiter) guardLength(prompt string) string {
	if len(prompt) <= l.cfg.MaxPromptChars {
		return prompt
	}
	cut := l.cfg.MaxPromptChars
	for cut > 0 && !utf8.RuneStart(prompt[cut]) {
		cut--
	}
	return prompt[:cut] + TruncationMarker
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
