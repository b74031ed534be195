// Package commands implements the codecortex CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/config"
	"github.com/Sumatoshi-tech/codecortex/pkg/observability"
	"github.com/Sumatoshi-tech/codecortex/pkg/report"
	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
	"github.com/Sumatoshi-tech/codecortex/pkg/version"
)

// ErrNotDirectory is returned when the analyze target is a file.
var ErrNotDirectory = errors.New("target is not a directory")

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	configPath       string
	analyzer         string
	format           string
	jsonPath         string
	noColor          bool
	width            int
	maxFileSize      string
	ignore           []string
	exclude          []string
	respectGitignore bool
	threshold        float64
	blockLines       int
	logLevel         string
	logJSON          bool
	silent           bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project directory",
		Long: `Analyze walks a project directory, dispatches every file to the most
specific language or framework driver and reports the aggregated metrics.

The laravel analyzer adds dead code, duplicate code and security checks
and a quality score.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ac.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&ac.configPath, "config", "c", "", "Config file (default: codecortex.yaml search path)")
	flags.StringVarP(&ac.analyzer, "analyzer", "a", config.DefaultAnalyzer, "Analyzer: auto, project or laravel")
	flags.StringVarP(&ac.format, "format", "f", config.DefaultOutputFormat, "Output format: text, compact, json, yaml, plot")
	flags.StringVarP(&ac.jsonPath, "json", "j", "", "Export the report to a file (.json, .json.lz4, .yaml)")
	flags.BoolVar(&ac.noColor, "no-color", false, "Disable colored output")
	flags.IntVar(&ac.width, "width", config.DefaultOutputWidth, "Report width (0 = detect)")
	flags.StringVar(&ac.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "Skip files larger than this (0 = no limit)")
	flags.StringSliceVar(&ac.ignore, "ignore", nil, "Extra names or paths to ignore")
	flags.StringSliceVarP(&ac.exclude, "exclude", "e", nil, "Glob patterns to exclude (e.g. '**/*.min.js')")
	flags.BoolVar(&ac.respectGitignore, "respect-gitignore", config.DefaultRespectGitignore, "Also honor .gitignore")
	flags.Float64Var(&ac.threshold, "threshold", config.DefaultQualityThreshold, "Duplicate similarity threshold")
	flags.IntVar(&ac.blockLines, "block-lines", config.DefaultQualityBlockLines, "Duplicate block size in lines")
	flags.StringVar(&ac.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	flags.BoolVar(&ac.logJSON, "log-json", false, "Log in JSON")
	flags.BoolVar(&ac.silent, "silent", false, "Disable progress output")

	return cmd
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	cfg, err := ac.loadConfig(cmd)
	if err != nil {
		return err
	}

	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	providers, err := observability.Init(observabilityConfig(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	metrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create scan metrics: %w", err)
	}

	prog := newProgress(cmd.ErrOrStderr(), !ac.silent && interactive(cfg.Output.Format))
	defer prog.finish()

	res, err := analysis.Run(ctx, analysis.Options{
		Root:              root,
		Analyzer:          cfg.Analysis.Analyzer,
		Ignore:            cfg.Analysis.Ignore,
		Exclude:           cfg.Analysis.Exclude,
		RespectGitignore:  cfg.Analysis.RespectGitignore,
		MaxFileSize:       maxFileSize,
		QualityThreshold:  cfg.Quality.Threshold,
		QualityBlockLines: cfg.Quality.BlockLines,
		QualityIgnore:     cfg.Quality.Ignore,
		Logger:            providers.Logger,
		Tracer:            providers.Tracer,
		Metrics:           metrics,
		Progress:          prog.step,
	})
	if err != nil {
		return err
	}

	prog.finish()

	termCfg := terminal.NewConfig(cfg.Output.Width, cfg.Output.NoColor)

	if err := report.Render(cmd.OutOrStdout(), res, cfg.Output.Format, termCfg); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if ac.jsonPath == "" {
		return nil
	}

	if err := report.Export(ac.jsonPath, report.Build(res)); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	if cfg.Output.Format == report.FormatText || cfg.Output.Format == report.FormatCompact {
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport exported to %s\n", ac.jsonPath)
	}

	return nil
}

// loadConfig reads the configuration and applies explicitly set flags on
// top of it.
func (ac *AnalyzeCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(ac.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()

	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	override("analyzer", func() { cfg.Analysis.Analyzer = ac.analyzer })
	override("format", func() { cfg.Output.Format = ac.format })
	override("no-color", func() { cfg.Output.NoColor = ac.noColor })
	override("width", func() { cfg.Output.Width = ac.width })
	override("max-file-size", func() { cfg.Analysis.MaxFileSize = ac.maxFileSize })
	override("ignore", func() { cfg.Analysis.Ignore = append(cfg.Analysis.Ignore, ac.ignore...) })
	override("exclude", func() { cfg.Analysis.Exclude = append(cfg.Analysis.Exclude, ac.exclude...) })
	override("respect-gitignore", func() { cfg.Analysis.RespectGitignore = ac.respectGitignore })
	override("threshold", func() { cfg.Quality.Threshold = ac.threshold })
	override("block-lines", func() { cfg.Quality.BlockLines = ac.blockLines })
	override("log-level", func() { cfg.Logging.Level = ac.logLevel })
	override("log-json", func() {
		if ac.logJSON {
			cfg.Logging.Format = "json"
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func observabilityConfig(cfg *config.Config, logOut io.Writer) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = version.Version
	obs.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obs.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obs.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obs.SampleRatio = cfg.Telemetry.SampleRatio
	obs.PrometheusTextfile = cfg.Telemetry.PrometheusTextfile
	obs.LogLevel = cfg.LogLevel()
	obs.LogJSON = cfg.Logging.Format == "json"
	obs.LogOutput = logOut

	return obs
}

// interactive reports whether format is meant for a person at a terminal.
func interactive(format string) bool {
	return slices.Contains([]string{report.FormatText, report.FormatCompact}, format)
}
