// Package analysis runs one codecortex analysis: project detection, the
// optional Laravel quality scans, the walk and the enhanced pass.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/drivers"
	"github.com/Sumatoshi-tech/codecortex/pkg/ignore"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/observability"
	"github.com/Sumatoshi-tech/codecortex/pkg/project"
	"github.com/Sumatoshi-tech/codecortex/pkg/quality"
	"github.com/Sumatoshi-tech/codecortex/pkg/walker"
)

// Analyzer names.
const (
	AnalyzerAuto    = "auto"
	AnalyzerProject = project.AnalyzerProject
	AnalyzerLaravel = project.AnalyzerLaravel
)

// NotLaravelNotice is reported when the Laravel analyzer runs on a root
// without laravel/framework.
const NotLaravelNotice = "Not a Laravel project, running general analysis"

// ErrNoRoot is returned when Options.Root is empty.
var ErrNoRoot = errors.New("no root directory given")

// Info describes an analyzer for listings.
type Info struct {
	Name        string
	Description string
}

var analyzers = []Info{
	{AnalyzerProject, "General project analyzer for any codebase"},
	{AnalyzerLaravel, "Laravel project analyzer with dead code, duplicate and security checks"},
}

// Analyzers lists the selectable analyzers.
func Analyzers() []Info {
	return slices.Clone(analyzers)
}

// Options configures a run. Zero values fall back to the package defaults.
type Options struct {
	Root string
	// Analyzer is "auto", "project" or "laravel". Anything else logs a
	// warning and auto-detects.
	Analyzer string

	Ignore           []string
	Exclude          []string
	RespectGitignore bool
	MaxFileSize      int64

	QualityThreshold  float64
	QualityBlockLines int
	QualityIgnore     []string

	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  *observability.ScanMetrics
	Progress walker.Progress
}

// Enhanced holds the Laravel-only results computed around the walk.
type Enhanced struct {
	ProjectType     string
	LaravelVersion  string
	FrontendStack   []string
	DeadCode        quality.DeadCode
	Duplicates      []quality.Duplicate
	SecurityIssues  metric.Findings
	Score           int
	Recommendations []string
}

// Result is the outcome of Run.
type Result struct {
	RunID    string
	Analyzer string
	Root     string
	// Notice is a user-facing remark about the run, e.g. a fallback.
	Notice   string
	Project  *project.Context
	Registry *driver.Registry
	Walk     *walker.Result
	// Enhanced is nil unless the Laravel analyzer ran on a Laravel root.
	Enhanced *Enhanced
}

// Sections formats the aggregate of the named driver.
func (r *Result) Sections(name string) []driver.Section {
	d, ok := r.Registry.Lookup(name)
	if !ok {
		return nil
	}

	return d.FormatMetrics(r.Walk.Drivers[name])
}

// Run analyzes opts.Root.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, ErrNoRoot
	}

	opts = withDefaults(opts)
	root := filepath.Clean(opts.Root)
	runID := uuid.NewString()
	logger := opts.Logger.With(observability.AttrRunID, runID)

	name := selectAnalyzer(ctx, logger, opts.Analyzer, root)

	ctx, span := opts.Tracer.Start(ctx, "codecortex.analysis.run", trace.WithAttributes(
		attribute.String(observability.AttrRoot, root),
		attribute.String(observability.AttrAnalyzer, name),
	))
	defer span.End()

	pc, err := project.Detect(root)
	if err != nil {
		logger.WarnContext(ctx, "project detection incomplete", "error", err)
	}

	res := &Result{RunID: runID, Analyzer: name, Root: root, Project: pc}

	if name == AnalyzerLaravel && !pc.IsLaravel() {
		res.Notice = NotLaravelNotice
		res.Analyzer = AnalyzerProject
		logger.InfoContext(ctx, NotLaravelNotice, "root", root)
	}

	if res.Analyzer == AnalyzerLaravel {
		if err := scanQuality(ctx, opts, logger, pc); err != nil {
			return nil, err
		}
	}

	res.Registry, err = newRegistry(res.Analyzer, pc)
	if err != nil {
		return nil, err
	}

	// A laravel run that fell back still walks with the Laravel ignore set.
	matcher, err := newMatcher(name, root, opts)
	if err != nil {
		return nil, err
	}

	w := walker.New(res.Registry,
		walker.WithMatcher(matcher),
		walker.WithMaxFileSize(opts.MaxFileSize),
		walker.WithLogger(logger),
		walker.WithTracer(opts.Tracer),
		walker.WithMetrics(opts.Metrics),
		walker.WithProgress(opts.Progress),
	)

	res.Walk, err = w.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", root, err)
	}

	if res.Analyzer == AnalyzerLaravel {
		res.Enhanced = enhance(pc, res.Walk)
		opts.Metrics.RecordQuality(ctx, res.Enhanced.Score)
		span.SetAttributes(attribute.Int(observability.AttrQualityScore, res.Enhanced.Score))
	}

	span.SetAttributes(
		attribute.Int(observability.AttrFilesTotal, res.Walk.Stats.TotalFiles),
		attribute.Int(observability.AttrFilesAnalyzed, res.Walk.Stats.AnalyzedFiles),
	)

	logger.InfoContext(ctx, "analysis complete",
		"analyzer", res.Analyzer,
		"files", res.Walk.Stats.TotalFiles,
		"analyzed", res.Walk.Stats.AnalyzedFiles,
		"duration", res.Walk.Stats.Duration(),
	)

	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("codecortex/analysis")
	}

	if opts.QualityThreshold <= 0 {
		opts.QualityThreshold = quality.DefaultThreshold
	}

	if opts.QualityBlockLines <= 0 {
		opts.QualityBlockLines = quality.DefaultBlockLines
	}

	return opts
}

// selectAnalyzer resolves auto and unknown names against the root.
func selectAnalyzer(ctx context.Context, logger *slog.Logger, requested, root string) string {
	switch requested {
	case AnalyzerProject, AnalyzerLaravel:
		return requested
	case "", AnalyzerAuto:
	default:
		logger.WarnContext(ctx, "unknown analyzer, auto-detecting", "analyzer", requested)
	}

	name := project.Suggest(root)
	logger.DebugContext(ctx, "analyzer detected", "analyzer", name)

	return name
}

func scanQuality(ctx context.Context, opts Options, logger *slog.Logger, pc *project.Context) error {
	qa := quality.NewAnalyzer(
		quality.WithThreshold(opts.QualityThreshold),
		quality.WithBlockLines(opts.QualityBlockLines),
		quality.WithIgnore(opts.QualityIgnore...),
		quality.WithLogger(logger),
		quality.WithTracer(opts.Tracer),
	)

	dead, err := qa.DeadCode(ctx, pc.Root)
	if err != nil {
		return fmt.Errorf("dead code scan: %w", err)
	}

	dups, err := qa.Duplicates(ctx, pc.Root)
	if err != nil {
		return fmt.Errorf("duplicate scan: %w", err)
	}

	pc.DeadCode = &dead
	pc.Duplicates = dups

	return nil
}

func newRegistry(name string, pc *project.Context) (*driver.Registry, error) {
	set := drivers.ProjectSet()
	if name == AnalyzerLaravel {
		set = drivers.LaravelSet()
	}

	reg, err := drivers.NewRegistry(pc, set)
	if err != nil {
		return nil, fmt.Errorf("register drivers: %w", err)
	}

	return reg, nil
}

func newMatcher(name, root string, opts Options) (*ignore.Matcher, error) {
	base := ignore.Project
	if name == AnalyzerLaravel {
		base = ignore.Laravel
	}

	files := []string{ignore.IgnoreFileName}
	if opts.RespectGitignore {
		files = append(files, ignore.GitIgnoreFileName)
	}

	m, err := ignore.New(append(slices.Clone(base), opts.Ignore...),
		ignore.SkipDotfiles(name == AnalyzerProject),
		ignore.Exclude(opts.Exclude...),
		ignore.IgnoreFiles(root, files...),
	)
	if err != nil {
		return nil, fmt.Errorf("build ignore policy: %w", err)
	}

	return m, nil
}

func enhance(pc *project.Context, walk *walker.Result) *Enhanced {
	var dead quality.DeadCode
	if pc.DeadCode != nil {
		dead = *pc.DeadCode
	}

	security := walk.Drivers[drivers.NameLaravel].Findings(drivers.KeySecurityIssues)
	score := quality.Score(dead, pc.Duplicates, security)

	return &Enhanced{
		ProjectType:     pc.Type(),
		LaravelVersion:  pc.LaravelVersion,
		FrontendStack:   pc.FrontendStack,
		DeadCode:        dead,
		Duplicates:      pc.Duplicates,
		SecurityIssues:  security,
		Score:           score,
		Recommendations: quality.Recommendations(dead, pc.Duplicates, score),
	}
}
