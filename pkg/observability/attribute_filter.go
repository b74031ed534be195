package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Span attribute keys recorded by a scan.
const (
	AttrRoot          = "analysis.root"
	AttrAnalyzer      = "analysis.analyzer"
	AttrFilesTotal    = "analysis.files.total"
	AttrFilesAnalyzed = "analysis.files.analyzed"
	AttrFilesSkipped  = "analysis.files.skipped"
	AttrQualityTarget = "quality.target"
	AttrQualityFiles  = "quality.files"
	AttrQualityPairs  = "quality.pairs"
	AttrQualityUnused = "quality.unused.total"
	AttrQualityScore  = "quality.score"
	AttrDriver        = "driver.name"
)

// allowedPrefixes are the namespaces a scan records under.
var allowedPrefixes = []string{
	"analysis.",
	"quality.",
	"driver.",
}

// allowedKeys pass outside the allowed namespaces.
var allowedKeys = map[string]bool{
	"error":      true,
	"error.type": true,
}

// blockedPrefixes never leave the process: env.* carries values read from a
// project's .env file and source.* carries file text.
var blockedPrefixes = []string{
	"env.",
	"source.",
}

// blockedKeys are per-file keys that are always stripped.
var blockedKeys = map[string]bool{
	"file.path":    true,
	"file.content": true,
}

// attributeFilter is a SpanProcessor that strips blocked and unknown
// attributes before forwarding to a delegate processor.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter returns a SpanProcessor that keeps only scan attributes.
// Keys outside the allow-list are stripped, and so are file paths and .env
// values. A non-nil logger receives a warning per stripped key.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

// OnStart delegates to the wrapped processor.
func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd filters attributes, then delegates to the wrapped processor.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	// ReadOnlySpan attributes cannot be mutated; wrap with filtered view.
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

// Shutdown delegates to the wrapped processor.
func (f *attributeFilter) Shutdown(ctx context.Context) error {
	err := f.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

// ForceFlush delegates to the wrapped processor.
func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	err := f.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) isAllowed(key string) bool {
	if blockedKeys[key] {
		f.warn(key)

		return false
	}

	for _, prefix := range blockedPrefixes {
		if strings.HasPrefix(key, prefix) {
			f.warn(key)

			return false
		}
	}

	if allowedKeys[key] {
		return true
	}

	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	f.warn(key)

	return false
}

func (f *attributeFilter) warn(key string) {
	if f.logger != nil {
		f.logger.Warn("attribute blocked by filter", "key", key)
	}
}

// filteredSpan wraps a ReadOnlySpan and returns only allowed attributes.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

// Attributes returns only the allowed attributes.
func (s *filteredSpan) Attributes() []attribute.KeyValue {
	orig := s.ReadOnlySpan.Attributes()
	filtered := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if s.filter.isAllowed(string(kv.Key)) {
			filtered = append(filtered, kv)
		}
	}

	return filtered
}
