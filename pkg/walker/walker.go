// Package walker traverses a project tree, dispatches every file to the
// driver that claims it and folds the per-file records into per-driver and
// global aggregates.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/ignore"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/observability"
	"github.com/Sumatoshi-tech/codecortex/pkg/textutil"
)

// Walk errors.
var (
	ErrRootNotFound   = errors.New("root not found")
	ErrRootUnreadable = errors.New("root unreadable")
	ErrRootNotDir     = errors.New("root is not a directory")
	ErrDriverPanic    = errors.New("driver panic")
)

// UnknownLanguage tallies unclaimed files enry cannot name.
const UnknownLanguage = "Other"

// Outcomes reported to the progress callback and the scan metrics.
const (
	OutcomeAnalyzed   = "analyzed"
	OutcomeUnclaimed  = "unclaimed"
	OutcomeTooLarge   = "too_large"
	OutcomeBinary     = "binary"
	OutcomeReadError  = "read_error"
	OutcomeParseError = "parse_error"
	OutcomePanic      = "panic"
	OutcomeBrokenLink = "broken_link"
)

// Stats are the scan statistics of one run.
type Stats struct {
	Directories   map[string]struct{}
	TotalFiles    int
	AnalyzedFiles int
	SkippedFiles  int
	// ClaimedFiles counts files some driver accepted, parsed or not.
	ClaimedFiles int
	ParseErrors  int
	Bytes        int64
	// Unclaimed tallies files no driver accepted by enry language.
	Unclaimed map[string]int
	StartTime time.Time
	EndTime   time.Time
}

func newStats() *Stats {
	return &Stats{
		Directories: map[string]struct{}{},
		Unclaimed:   map[string]int{},
	}
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Result is the output of a walk.
type Result struct {
	Root  string
	Stats *Stats
	// Drivers maps driver names to aggregates; Order lists those names in
	// resolution order.
	Drivers map[string]metric.Record
	Order   []string
	Global  metric.Record
}

// Progress is called once per regular file with its outcome.
type Progress func(path, outcome string)

// Walker walks one project tree.
type Walker struct {
	registry    *driver.Registry
	matcher     *ignore.Matcher
	maxFileSize int64
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.ScanMetrics
	progress    Progress
}

// Option configures a Walker.
type Option func(*Walker)

// WithMatcher sets the ignore policy. Without one nothing is ignored.
func WithMatcher(m *ignore.Matcher) Option {
	return func(w *Walker) { w.matcher = m }
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(w *Walker) { w.maxFileSize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Walker) { w.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(w *Walker) { w.tracer = t }
}

// WithMetrics records per-file outcomes.
func WithMetrics(m *observability.ScanMetrics) Option {
	return func(w *Walker) { w.metrics = m }
}

// WithProgress sets the per-file callback.
func WithProgress(p Progress) Option {
	return func(w *Walker) { w.progress = p }
}

// New returns a Walker resolving files against reg.
func New(reg *driver.Registry, opts ...Option) *Walker {
	w := &Walker{
		registry: reg,
		logger:   slog.Default(),
		tracer:   otel.Tracer("codecortex/walker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// run holds the mutable state of one walk.
type run struct {
	*Walker

	root    string
	stats   *Stats
	drivers map[string]metric.Record
	global  metric.Record
	// visited holds the real paths of entered directories.
	visited map[string]struct{}
}

// Walk traverses root depth first in lexical order.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	}

	ctx, span := w.tracer.Start(ctx, "codecortex.walk", trace.WithAttributes(attribute.String(observability.AttrRoot, root)))
	defer span.End()

	r := &run{
		Walker:  w,
		root:    root,
		stats:   newStats(),
		drivers: map[string]metric.Record{},
		global:  metric.Initial(),
		visited: map[string]struct{}{},
	}

	r.enter(root)

	r.stats.StartTime = time.Now()
	walkErr := r.dir(ctx, root)
	r.stats.EndTime = time.Now()

	span.SetAttributes(
		attribute.Int(observability.AttrFilesTotal, r.stats.TotalFiles),
		attribute.Int(observability.AttrFilesAnalyzed, r.stats.AnalyzedFiles),
		attribute.Int(observability.AttrFilesSkipped, r.stats.SkippedFiles),
	)

	w.metrics.RecordRun(ctx, r.stats.Duration())

	if walkErr != nil {
		return nil, walkErr
	}

	return r.result(), nil
}

func (r *run) result() *Result {
	res := &Result{
		Root:    r.root,
		Stats:   r.stats,
		Drivers: r.drivers,
		Global:  r.global,
	}

	for _, d := range r.registry.Drivers() {
		if _, ok := r.drivers[d.Descriptor().Name]; ok {
			res.Order = append(res.Order, d.Descriptor().Name)
		}
	}

	return res
}

func (r *run) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

func (r *run) dir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.WarnContext(ctx, "read directory failed", "path", dir, "error", err)

		return nil
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk %s: %w", r.root, err)
		}

		path := filepath.Join(dir, e.Name())

		info, err := e.Info()
		if err != nil {
			r.logger.WarnContext(ctx, "stat failed", "path", path, "error", err)

			continue
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				r.brokenLink(ctx, path, err)

				continue
			}

			info = target
		}

		if r.matcher.Match(r.rel(path), info.IsDir()) {
			continue
		}

		switch {
		case info.IsDir():
			if !r.enter(path) {
				r.logger.DebugContext(ctx, "directory already visited", "path", path)

				continue
			}

			r.stats.Directories[path] = struct{}{}

			if err := r.dir(ctx, path); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			r.file(ctx, path, info.Size())
		}
	}

	return nil
}

// enter marks the real path of dir as visited. It reports false when the
// directory was reached before, which breaks symlink cycles.
func (r *run) enter(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}

	if _, ok := r.visited[resolved]; ok {
		return false
	}

	r.visited[resolved] = struct{}{}

	return true
}

func (r *run) brokenLink(ctx context.Context, path string, err error) {
	if r.matcher.Match(r.rel(path), false) {
		return
	}

	r.logger.WarnContext(ctx, "broken symlink", "path", path, "error", err)

	r.stats.TotalFiles++
	r.skip(ctx, path, "", OutcomeBrokenLink)
}

func (r *run) file(ctx context.Context, path string, size int64) {
	r.stats.TotalFiles++

	d, ok := r.registry.Resolve(path)
	if !ok {
		lang := enry.GetLanguage(filepath.Base(path), nil)
		if lang == "" {
			lang = UnknownLanguage
		}

		r.stats.Unclaimed[lang]++
		r.skip(ctx, path, "", OutcomeUnclaimed)

		return
	}

	name := d.Descriptor().Name

	if r.maxFileSize > 0 && size > r.maxFileSize {
		r.logger.DebugContext(ctx, "file too large", "path", path, "size", size)
		r.skip(ctx, path, name, OutcomeTooLarge)

		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.WarnContext(ctx, "read failed", "path", path, "error", err)
		r.skip(ctx, path, name, OutcomeReadError)

		return
	}

	if textutil.IsBinary(data) {
		r.skip(ctx, path, name, OutcomeBinary)

		return
	}

	r.stats.ClaimedFiles++

	content := string(textutil.StripBOM(data))

	rec, err := parse(d, &driver.Source{Path: path, Content: content, Project: r.registry.Project()})
	if err != nil {
		r.logger.ErrorContext(ctx, "driver panicked", "path", path, "driver", name, "error", err)
		trace.SpanFromContext(ctx).RecordError(err,
			trace.WithAttributes(attribute.String(observability.AttrDriver, name)))
		r.skip(ctx, path, name, OutcomePanic)

		return
	}

	if rec.IsParseError() {
		r.stats.ParseErrors++
		r.logger.DebugContext(ctx, "parse error", "path", path, "driver", name)
		r.skip(ctx, path, name, OutcomeParseError)

		return
	}

	agg, ok := r.drivers[name]
	if !ok {
		agg = d.InitialMetrics()
		r.drivers[name] = agg
	}

	agg.Merge(rec)
	r.global.Merge(rec)

	r.stats.AnalyzedFiles++
	r.stats.Bytes += int64(len(data))
	r.done(ctx, path, name, OutcomeAnalyzed, int64(len(data)))
}

func (r *run) skip(ctx context.Context, path, driverName, outcome string) {
	r.stats.SkippedFiles++
	r.done(ctx, path, driverName, outcome, 0)
}

func (r *run) done(ctx context.Context, path, driverName, outcome string, bytes int64) {
	r.metrics.RecordFile(ctx, driverName, outcome, bytes)

	if r.progress != nil {
		r.progress(path, outcome)
	}
}

func parse(d driver.Driver, src *driver.Source) (rec metric.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrDriverPanic, p)
		}
	}()

	return d.Parse(src), nil
}
