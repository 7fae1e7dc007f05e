package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config invalid: %v", ValidationErrors(errs))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "empty base url",
			mutate: func(c *Config) { c.LLM.BaseURL = " " },
			field:  "llm.base_url",
		},
		{
			name:   "empty model",
			mutate: func(c *Config) { c.LLM.Model = "" },
			field:  "llm.model",
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.LLM.TimeoutSeconds = 0 },
			field:  "llm.timeout_seconds",
		},
		{
			name:   "zero concurrency",
			mutate: func(c *Config) { c.Limiter.MaxConcurrent = 0 },
			field:  "limiter.max_concurrent",
		},
		{
			name:   "zero retries",
			mutate: func(c *Config) { c.Limiter.MaxRetries = 0 },
			field:  "limiter.max_retries",
		},
		{
			name:   "negative delay",
			mutate: func(c *Config) { c.Limiter.BaseDelaySeconds = -1 },
			field:  "limiter.base_delay_seconds",
		},
		{
			name:   "tiny prompt guard",
			mutate: func(c *Config) { c.Limiter.MaxPromptChars = 10 },
			field:  "limiter.max_prompt_chars",
		},
		{
			name:   "unknown domain",
			mutate: func(c *Config) { c.Analysis.Domain = "quantum" },
			field:  "analysis.domain",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			field:  "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate found no errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.field, ValidationErrors(errs))
			}
		})
	}
}

func TestValidateDomainCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Domain = "RF_IC"
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("uppercase domain rejected: %v", ValidationErrors(errs))
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: "x", Message: "worse"},
	}
	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "a: bad (got: 1)") {
		t.Errorf("message = %q", msg)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if got := cfg.LLM.Timeout().Seconds(); got != 120 {
		t.Errorf("Timeout = %vs, want 120", got)
	}
	if got := cfg.Limiter.BaseDelay().Seconds(); got != 5 {
		t.Errorf("BaseDelay = %vs, want 5", got)
	}
}
