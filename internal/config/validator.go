package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "limiter.max_concurrent")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidDomains returns the list of valid forced-domain values
func ValidDomains() []string {
	return []string{"", "general", "rf_ic"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLLM()...)
	errors = append(errors, c.validateLimiter()...)
	errors = append(errors, c.validateAnalysis()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateLLM() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Value:   c.LLM.BaseURL,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.model",
			Value:   c.LLM.Model,
			Message: "must not be empty",
		})
	}
	if c.LLM.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout_seconds",
			Value:   c.LLM.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateLimiter() []ValidationError {
	var errors []ValidationError

	if c.Limiter.MaxConcurrent < 1 {
		errors = append(errors, ValidationError{
			Field:   "limiter.max_concurrent",
			Value:   c.Limiter.MaxConcurrent,
			Message: "must be at least 1",
		})
	}
	if c.Limiter.MaxRetries < 1 {
		errors = append(errors, ValidationError{
			Field:   "limiter.max_retries",
			Value:   c.Limiter.MaxRetries,
			Message: "must be at least 1",
		})
	}
	if c.Limiter.BaseDelaySeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "limiter.base_delay_seconds",
			Value:   c.Limiter.BaseDelaySeconds,
			Message: "must not be negative",
		})
	}
	if c.Limiter.MaxPromptChars < 1000 {
		errors = append(errors, ValidationError{
			Field:   "limiter.max_prompt_chars",
			Value:   c.Limiter.MaxPromptChars,
			Message: "must be at least 1000",
		})
	}

	return errors
}

func (c *Config) validateAnalysis() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidDomains(), strings.ToLower(c.Analysis.Domain)) {
		errors = append(errors, ValidationError{
			Field:   "analysis.domain",
			Value:   c.Analysis.Domain,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDomains()[1:], ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
