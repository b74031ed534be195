// Package quality finds dead code and duplicated blocks in PHP sources and
// turns the findings into a quality score.
package quality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codecortex/pkg/ignore"
	"github.com/Sumatoshi-tech/codecortex/pkg/observability"
)

// Defaults for duplicate detection.
const (
	DefaultThreshold  = 0.8
	DefaultBlockLines = 5
)

const tracerName = "codecortex/quality"

// Sentinel errors.
var (
	ErrNotFound     = errors.New("path not found")
	ErrNotPHP       = errors.New("file is not a PHP file")
	ErrNotDirectory = errors.New("path is not a directory")
)

// Analyzer runs dead code and duplicate scans.
type Analyzer struct {
	threshold  float64
	blockLines int
	ignore     *ignore.Matcher
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThreshold sets the minimum similarity for a duplicate block.
func WithThreshold(t float64) Option {
	return func(a *Analyzer) { a.threshold = t }
}

// WithBlockLines sets the duplicate window size in lines.
func WithBlockLines(n int) Option {
	return func(a *Analyzer) { a.blockLines = n }
}

// WithIgnore adds names or paths skipped during PHP discovery.
func WithIgnore(entries ...string) Option {
	return func(a *Analyzer) { a.ignore = newQualityMatcher(entries) }
}

// WithLogger sets the logger for unreadable files.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyzer) { a.tracer = t }
}

// NewAnalyzer returns an Analyzer with the default threshold and window.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		threshold:  DefaultThreshold,
		blockLines: DefaultBlockLines,
		ignore:     newQualityMatcher(nil),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}

	return a
}

// DeadCode scans target. A directory scans every PHP file below it. A file
// is scanned together with its sibling PHP files, so references from
// neighbours count as usages.
func (a *Analyzer) DeadCode(ctx context.Context, target string) (DeadCode, error) {
	ctx, span := a.tracer.Start(ctx, "quality.DeadCode", trace.WithAttributes(attribute.String(observability.AttrQualityTarget, target)))
	defer span.End()

	c, err := a.load(ctx, target, true)
	if err != nil {
		return DeadCode{}, err
	}

	dead := findDeadCode(c)

	span.SetAttributes(
		attribute.Int(observability.AttrQualityFiles, len(c.files)),
		attribute.Int(observability.AttrQualityUnused, dead.Total()),
	)

	return dead, nil
}

// Duplicates scans target for similar blocks. A directory compares every
// pair of PHP files; a single file is compared with itself.
func (a *Analyzer) Duplicates(ctx context.Context, target string) ([]Duplicate, error) {
	ctx, span := a.tracer.Start(ctx, "quality.Duplicates", trace.WithAttributes(attribute.String(observability.AttrQualityTarget, target)))
	defer span.End()

	c, err := a.load(ctx, target, false)
	if err != nil {
		return nil, err
	}

	m := newMatcher(a.blockLines, a.threshold)

	var dups []Duplicate

	if isDir(target) {
		dups = m.pairwise(c)
	} else if len(c.files) == 1 {
		f := c.files[0]
		if sims := m.within(m.windows(f.content)); len(sims) > 0 {
			dups = []Duplicate{{File1: f.path, File2: f.path, Similarities: sims}}
		}
	}

	span.SetAttributes(attribute.Int(observability.AttrQualityFiles, len(c.files)), attribute.Int(observability.AttrQualityPairs, len(dups)))

	return dups, nil
}

// FileReport is the result of AnalyzeFile.
type FileReport struct {
	File       string      `json:"file"       yaml:"file"`
	DeadCode   DeadCode    `json:"deadCode"   yaml:"deadCode"`
	Duplicates []Duplicate `json:"duplicates" yaml:"duplicates"`
}

// AnalyzeFile runs both scans on a single PHP file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileReport, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if !strings.HasSuffix(path, phpExt) {
		return nil, fmt.Errorf("%w: %s", ErrNotPHP, path)
	}

	dead, err := a.DeadCode(ctx, path)
	if err != nil {
		return nil, err
	}

	dups, err := a.Duplicates(ctx, path)
	if err != nil {
		return nil, err
	}

	return &FileReport{File: path, DeadCode: dead, Duplicates: dups}, nil
}

// DirectoryReport is the result of AnalyzeDirectory.
type DirectoryReport struct {
	Directory  string      `json:"directory"  yaml:"directory"`
	DeadCode   DeadCode    `json:"deadCode"   yaml:"deadCode"`
	Duplicates []Duplicate `json:"duplicates" yaml:"duplicates"`
}

// AnalyzeDirectory runs both scans on every PHP file under dir.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) (*DirectoryReport, error) {
	if !isDir(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	dead, err := a.DeadCode(ctx, dir)
	if err != nil {
		return nil, err
	}

	dups, err := a.Duplicates(ctx, dir)
	if err != nil {
		return nil, err
	}

	return &DirectoryReport{Directory: dir, DeadCode: dead, Duplicates: dups}, nil
}

// load reads the corpus for target. With siblings set, a file target also
// pulls in the PHP files of its directory.
func (a *Analyzer) load(ctx context.Context, target string, siblings bool) (*corpus, error) {
	files, err := a.findPHP(ctx, target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
		}

		return nil, fmt.Errorf("list php files in %s: %w", target, err)
	}

	c := newCorpus()
	a.read(c, files)

	if siblings && !isDir(target) {
		related, relErr := a.findPHP(ctx, filepath.Dir(target))
		if relErr != nil {
			a.logger.Warn("quality: could not list sibling files", slog.String("path", target), slog.Any("error", relErr))
		}

		a.read(c, related)
	}

	return c, nil
}
