// Package config loads and validates codecortex configuration from a YAML
// file, CODECORTEX_ environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codecortex/pkg/safeconv"
)

// Sentinel validation errors.
var (
	ErrInvalidAnalyzer    = errors.New("invalid analyzer")
	ErrInvalidThreshold   = errors.New("quality threshold must be in (0, 1]")
	ErrInvalidBlockLines  = errors.New("quality block lines must be positive")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidSampleRatio = errors.New("sample ratio must be in [0, 1]")
)

// ConfigName is the base name of the configuration file searched for when
// no explicit path is given.
const ConfigName = "codecortex"

// EnvPrefix prefixes every environment override, e.g.
// CODECORTEX_ANALYSIS_ANALYZER.
const EnvPrefix = "CODECORTEX"

// Analyzers accepted by analysis.analyzer. Unknown names are not rejected at
// load time; the analyze command falls back to auto-detection.
var Analyzers = []string{"auto", "project", "laravel"}

// Formats accepted by output.format.
var Formats = []string{"text", "compact", "json", "yaml", "plot"}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds all codecortex configuration.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Quality   QualityConfig   `mapstructure:"quality"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AnalysisConfig controls the traversal.
type AnalysisConfig struct {
	Analyzer string `mapstructure:"analyzer"`
	// Ignore adds basenames or slash-containing paths to the analyzer's
	// built-in ignore set.
	Ignore []string `mapstructure:"ignore"`
	// Exclude holds doublestar globs matched against root-relative paths.
	Exclude          []string `mapstructure:"exclude"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	// MaxFileSize is a humanized size ("5MB", "512KiB"). "0" disables it.
	MaxFileSize string `mapstructure:"max_file_size"`
}

// QualityConfig tunes the dead and duplicate code scans.
type QualityConfig struct {
	Threshold  float64  `mapstructure:"threshold"`
	BlockLines int      `mapstructure:"block_lines"`
	Ignore     []string `mapstructure:"ignore"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
	// Width overrides the detected terminal width. Zero means detect.
	Width int `mapstructure:"width"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	PrometheusTextfile string  `mapstructure:"prometheus_textfile"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
}

// MaxFileSizeBytes parses Analysis.MaxFileSize.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	return parseSize(c.Analysis.MaxFileSize)
}

// LogLevel returns the slog level of Logging.Level.
func (c *Config) LogLevel() slog.Level {
	return logLevels[strings.ToLower(c.Logging.Level)]
}

// LoadConfig loads configuration from configPath, or from codecortex.yaml
// in the working directory, ./.config or $HOME/.config/codecortex when
// configPath is empty. A missing default file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(ConfigName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./.config")
		viperCfg.AddConfigPath("$HOME/.config/codecortex")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.analyzer", DefaultAnalyzer)
	viperCfg.SetDefault("analysis.ignore", []string{})
	viperCfg.SetDefault("analysis.exclude", []string{})
	viperCfg.SetDefault("analysis.respect_gitignore", DefaultRespectGitignore)
	viperCfg.SetDefault("analysis.max_file_size", DefaultMaxFileSize)

	viperCfg.SetDefault("quality.threshold", DefaultQualityThreshold)
	viperCfg.SetDefault("quality.block_lines", DefaultQualityBlockLines)
	viperCfg.SetDefault("quality.ignore", []string{})

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.no_color", false)
	viperCfg.SetDefault("output.width", DefaultOutputWidth)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.prometheus_textfile", "")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}

// Validate checks a Config built outside LoadConfig, e.g. after flag
// overrides.
func Validate(config *Config) error {
	return validateConfig(config)
}

func validateConfig(config *Config) error {
	if config.Analysis.Analyzer == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAnalyzer)
	}

	if config.Quality.Threshold <= 0 || config.Quality.Threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, config.Quality.Threshold)
	}

	if config.Quality.BlockLines <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockLines, config.Quality.BlockLines)
	}

	if !slices.Contains(Formats, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	if _, err := parseSize(config.Analysis.MaxFileSize); err != nil {
		return err
	}

	if _, ok := logLevels[strings.ToLower(config.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, s, err)
	}

	return safeconv.Uint64ToInt64(n), nil
}
