package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecortex/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "codecortex.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAnalyzer, cfg.Analysis.Analyzer)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.Analysis.MaxFileSize)
	assert.False(t, cfg.Analysis.RespectGitignore)
	assert.InDelta(t, config.DefaultQualityThreshold, cfg.Quality.Threshold, 1e-9)
	assert.Equal(t, config.DefaultQualityBlockLines, cfg.Quality.BlockLines)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Telemetry.SampleRatio, 1e-9)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), size)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
}

func TestLoadConfig_ValidFileUnmarshals(t *testing.T) {
	t.Parallel()

	content := `analysis:
  analyzer: laravel
  ignore: [tmp, resources/js/generated]
  exclude: ["**/*.min.js"]
  respect_gitignore: true
  max_file_size: 512KiB
quality:
  threshold: 0.9
  block_lines: 8
  ignore: [legacy]
output:
  format: json
  no_color: true
  width: 100
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  otlp_headers: "x-team=core"
  prometheus_textfile: /tmp/codecortex.prom
  sample_ratio: 0.5
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, "laravel", cfg.Analysis.Analyzer)
	assert.Equal(t, []string{"tmp", "resources/js/generated"}, cfg.Analysis.Ignore)
	assert.Equal(t, []string{"**/*.min.js"}, cfg.Analysis.Exclude)
	assert.True(t, cfg.Analysis.RespectGitignore)
	assert.InDelta(t, 0.9, cfg.Quality.Threshold, 1e-9)
	assert.Equal(t, 8, cfg.Quality.BlockLines)
	assert.Equal(t, []string{"legacy"}, cfg.Quality.Ignore)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, 100, cfg.Output.Width)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "/tmp/codecortex.prom", cfg.Telemetry.PrometheusTextfile)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024), size)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"threshold", "quality:\n  threshold: 1.5\n", config.ErrInvalidThreshold},
		{"zero threshold", "quality:\n  threshold: 0\n", config.ErrInvalidThreshold},
		{"block lines", "quality:\n  block_lines: 0\n", config.ErrInvalidBlockLines},
		{"format", "output:\n  format: xml\n", config.ErrInvalidFormat},
		{"max size", "analysis:\n  max_file_size: lots\n", config.ErrInvalidMaxFileSize},
		{"log level", "logging:\n  level: chatty\n", config.ErrInvalidLogLevel},
		{"analyzer", "analysis:\n  analyzer: \"\"\n", config.ErrInvalidAnalyzer},
		{"sample ratio", "telemetry:\n  sample_ratio: 2\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_UnknownAnalyzerIsKept(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "analysis:\n  analyzer: rails\n"))
	require.NoError(t, err)
	assert.Equal(t, "rails", cfg.Analysis.Analyzer)
}

func TestMaxFileSizeBytes_ZeroDisables(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Analysis: config.AnalysisConfig{MaxFileSize: "0"}}

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}
