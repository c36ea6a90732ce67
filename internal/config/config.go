// Package config provides configuration types and defaults for formdom.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/formdom/internal/log"
	"github.com/zjrosen/formdom/internal/tracing"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for formdom.
type Config struct {
	Debug   bool          `mapstructure:"debug"`
	LogFile string        `mapstructure:"log_file"`
	Output  OutputConfig  `mapstructure:"output"`
	Store   StoreConfig   `mapstructure:"store"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// OutputConfig controls how commands print results.
type OutputConfig struct {
	Format        string `mapstructure:"format"`         // "table" (default), "json" or "markdown"
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light" or "notty"
}

// StoreConfig locates the snapshot database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig tunes the parsed-tree cache.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/formdom/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// MetricsConfig controls the Prometheus endpoint served in watch mode.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9464". Empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// ProviderConfig converts to the tracing package's config.
func (t TracingConfig) ProviderConfig() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// DefaultStorePath returns ~/.config/formdom/formdom.db, or a path in the
// working directory when the home directory is unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".formdom", "formdom.db")
	}
	return filepath.Join(home, ".config", "formdom", "formdom.db")
}

// DefaultTracesFilePath returns ~/.config/formdom/traces/traces.jsonl or ""
// when the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "formdom", "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Output: OutputConfig{
			Format:        FormatTable,
			MarkdownStyle: "dark",
		},
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL:             10 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidateOutput checks the output section.
func ValidateOutput(out OutputConfig) error {
	switch out.Format {
	case "", FormatTable, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("output.format must be %q, %q or %q, got %q", FormatTable, FormatJSON, FormatMarkdown, out.Format)
	}
	switch out.MarkdownStyle {
	case "", "dark", "light", "notty":
	default:
		return fmt.Errorf("output.markdown_style must be \"dark\", \"light\" or \"notty\", got %q", out.MarkdownStyle)
	}
	return nil
}

// ValidateWatch checks the watch section.
func ValidateWatch(w WatchConfig) error {
	if w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", w.Debounce)
	}
	return nil
}

// ValidateCache checks the cache section.
func ValidateCache(c CacheConfig) error {
	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.TTL)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanup_interval must not be negative, got %s", c.CleanupInterval)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// Validate runs every section validator and joins their errors.
func Validate(c Config) error {
	return errors.Join(
		ValidateOutput(c.Output),
		ValidateWatch(c.Watch),
		ValidateCache(c.Cache),
		ValidateTracing(c.Tracing),
	)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# formdom configuration

# Write debug logs (also enabled by FORMDOM_DEBUG=1)
debug: false
# log_file: formdom.log

output:
  format: table          # "table", "json" or "markdown"
  markdown_style: dark   # "dark", "light" or "notty"

# Snapshot database
# store:
#   path: ~/.config/formdom/formdom.db

watch:
  debounce: 300ms

cache:
  ttl: 10m
  cleanup_interval: 30m

# Tracing (disabled by default)
# tracing:
#   enabled: true
#   exporter: file        # "none", "file", "stdout" or "otlp"
#   file_path: ~/.config/formdom/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Prometheus endpoint for watch mode
# metrics:
#   addr: ":9464"
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
