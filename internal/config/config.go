package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Lectern configuration
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Limiter  LimiterConfig  `mapstructure:"limiter"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LLMConfig describes the model endpoint used for analysis
type LLMConfig struct {
	// BaseURL is the full OpenAI-compatible chat completions endpoint,
	// e.g. "https://api.openai.com/v1/chat/completions"
	BaseURL string `mapstructure:"base_url"`
	// Model is the model identifier sent with every request
	Model string `mapstructure:"model"`
	// APIKey authenticates requests. LECTERN_LLM_API_KEY overrides the file value
	APIKey string `mapstructure:"api_key"`
	// TimeoutSeconds bounds a single HTTP request (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LimiterConfig controls rate limiting and retry behavior for model calls
type LimiterConfig struct {
	// MaxConcurrent is the number of model calls allowed in flight at once (default: 2)
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// MaxRetries is the number of attempts per call before giving up (default: 3)
	MaxRetries int `mapstructure:"max_retries"`
	// BaseDelaySeconds is the fixed wait before each retry; a small random
	// jitter is added on top (default: 5)
	BaseDelaySeconds int `mapstructure:"base_delay_seconds"`
	// MaxPromptChars truncates oversized prompts before sending (default: 80000)
	MaxPromptChars int `mapstructure:"max_prompt_chars"`
}

// AnalysisConfig controls the analysis pipeline
type AnalysisConfig struct {
	// Domain forces the question domain instead of classifying.
	// Options: "" (classify), "general", "rf_ic"
	Domain string `mapstructure:"domain"`
}

// PathsConfig controls where Lectern reads and writes its data
type PathsConfig struct {
	// OutputDir is where reports are written (default: "./reports")
	OutputDir string `mapstructure:"output_dir"`
	// KeywordsFile is the shared canonical keyword list (default: "<config>/keywords.txt")
	KeywordsFile string `mapstructure:"keywords_file"`
	// TaxonomyFile is the category tree (default: "<config>/taxonomy.json")
	TaxonomyFile string `mapstructure:"taxonomy_file"`
	// LogDir is where log files go; empty logs to stderr
	LogDir string `mapstructure:"log_dir"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// Timeout returns the HTTP request timeout as a time.Duration
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BaseDelay returns the retry base delay as a time.Duration
func (c *LimiterConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds) * time.Second
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		Limiter: LimiterConfig{
			MaxConcurrent:    2,
			MaxRetries:       3,
			BaseDelaySeconds: 5,
			MaxPromptChars:   80000,
		},
		Analysis: AnalysisConfig{
			Domain: "",
		},
		Paths: PathsConfig{
			OutputDir:    "./reports",
			KeywordsFile: filepath.Join(ConfigDir(), "keywords.txt"),
			TaxonomyFile: filepath.Join(ConfigDir(), "taxonomy.json"),
			LogDir:       "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("llm.base_url", defaults.LLM.BaseURL)
	viper.SetDefault("llm.model", defaults.LLM.Model)
	viper.SetDefault("llm.api_key", defaults.LLM.APIKey)
	viper.SetDefault("llm.timeout_seconds", defaults.LLM.TimeoutSeconds)

	viper.SetDefault("limiter.max_concurrent", defaults.Limiter.MaxConcurrent)
	viper.SetDefault("limiter.max_retries", defaults.Limiter.MaxRetries)
	viper.SetDefault("limiter.base_delay_seconds", defaults.Limiter.BaseDelaySeconds)
	viper.SetDefault("limiter.max_prompt_chars", defaults.Limiter.MaxPromptChars)

	viper.SetDefault("analysis.domain", defaults.Analysis.Domain)

	viper.SetDefault("paths.output_dir", defaults.Paths.OutputDir)
	viper.SetDefault("paths.keywords_file", defaults.Paths.KeywordsFile)
	viper.SetDefault("paths.taxonomy_file", defaults.Paths.TaxonomyFile)
	viper.SetDefault("paths.log_dir", defaults.Paths.LogDir)

	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load unmarshals the current viper state into a validated Config
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lectern")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lectern"
	}
	return filepath.Join(home, ".config", "lectern")
}

// ExpandPath resolves ~ prefixes to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
