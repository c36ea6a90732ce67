package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, FormatTable, cfg.Output.Format)
	require.Equal(t, "dark", cfg.Output.MarkdownStyle)
	require.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Tracing.Enabled)
	require.NotEmpty(t, cfg.Store.Path)
	require.NoError(t, Validate(cfg))
}

func TestValidateOutput(t *testing.T) {
	require.NoError(t, ValidateOutput(OutputConfig{Format: FormatJSON}))
	require.ErrorContains(t, ValidateOutput(OutputConfig{Format: "xml"}), "output.format")
	require.ErrorContains(t, ValidateOutput(OutputConfig{MarkdownStyle: "neon"}), "markdown_style")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr string
	}{
		{name: "empty", cfg: TracingConfig{}},
		{name: "rate too high", cfg: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "bad exporter", cfg: TracingConfig{Exporter: "kafka"}, wantErr: "exporter"},
		{name: "file without path", cfg: TracingConfig{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", cfg: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled file without path", cfg: TracingConfig{Exporter: "file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Format = "xml"
	cfg.Cache.TTL = -time.Second

	err := Validate(cfg)
	require.ErrorContains(t, err, "output.format")
	require.ErrorContains(t, err, "cache.ttl")
}

func TestTracingConfig_ProviderConfig(t *testing.T) {
	pc := TracingConfig{Enabled: true, FilePath: "/tmp/t.jsonl"}.ProviderConfig()
	require.True(t, pc.Enabled)
	require.Equal(t, "file", pc.Exporter)
	require.Equal(t, 1.0, pc.SampleRate)
	require.Equal(t, "/tmp/t.jsonl", pc.FilePath)
}

func TestDefaultConfigTemplate_DecodesWithViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, FormatTable, cfg.Output.Format)
	require.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.NoError(t, Validate(cfg))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
