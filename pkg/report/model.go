// Package report renders analysis results as text, compact lines, JSON,
// YAML or an HTML chart page, and exports them to files.
package report

import (
	"time"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/quality"
)

// Report is the serializable shape of an analysis.
type Report struct {
	RunID            string                    `json:"runId"                     yaml:"runId"`
	Analyzer         string                    `json:"analyzer"                  yaml:"analyzer"`
	Root             string                    `json:"root"                      yaml:"root"`
	Notice           string                    `json:"notice,omitempty"          yaml:"notice,omitempty"`
	GlobalStats      GlobalStats               `json:"globalStats"               yaml:"globalStats"`
	DriverOrder      []string                  `json:"driverOrder"               yaml:"driverOrder"`
	DriverMetrics    map[string]map[string]any `json:"driverMetrics"             yaml:"driverMetrics"`
	AggregateMetrics map[string]any            `json:"aggregateMetrics"          yaml:"aggregateMetrics"`
	EnhancedMetrics  *EnhancedMetrics          `json:"enhancedMetrics,omitempty" yaml:"enhancedMetrics,omitempty"`
}

// Directories carries the directory count.
type Directories struct {
	Size int `json:"size" yaml:"size"`
}

// GlobalStats mirrors the walker statistics.
type GlobalStats struct {
	Directories   Directories    `json:"directories"         yaml:"directories"`
	TotalFiles    int            `json:"totalFiles"          yaml:"totalFiles"`
	AnalyzedFiles int            `json:"analyzedFiles"       yaml:"analyzedFiles"`
	SkippedFiles  int            `json:"skippedFiles"        yaml:"skippedFiles"`
	ClaimedFiles  int            `json:"claimedFiles"        yaml:"claimedFiles"`
	ParseErrors   int            `json:"parseErrors"         yaml:"parseErrors"`
	TotalBytes    int64          `json:"totalBytes"          yaml:"totalBytes"`
	Unclaimed     map[string]int `json:"unclaimed,omitempty" yaml:"unclaimed,omitempty"`
	StartTime     time.Time      `json:"startTime"           yaml:"startTime"`
	EndTime       time.Time      `json:"endTime"             yaml:"endTime"`
	DurationMs    int64          `json:"durationMs"          yaml:"durationMs"`
}

// EnhancedMetrics holds the Laravel results.
type EnhancedMetrics struct {
	ProjectType     string              `json:"projectType"              yaml:"projectType"`
	LaravelVersion  string              `json:"laravelVersion,omitempty" yaml:"laravelVersion,omitempty"`
	FrontendStack   []string            `json:"frontendStack"            yaml:"frontendStack"`
	DeadCode        quality.DeadCode    `json:"deadCode"                 yaml:"deadCode"`
	DuplicateCode   []quality.Duplicate `json:"duplicateCode"            yaml:"duplicateCode"`
	SecurityIssues  []metric.Finding    `json:"securityIssues"           yaml:"securityIssues"`
	QualityScore    int                 `json:"qualityScore"             yaml:"qualityScore"`
	Recommendations []string            `json:"recommendations"          yaml:"recommendations"`
}

// Build converts res into its serializable shape.
func Build(res *analysis.Result) *Report {
	stats := res.Walk.Stats

	rep := &Report{
		RunID:    res.RunID,
		Analyzer: res.Analyzer,
		Root:     res.Root,
		Notice:   res.Notice,
		GlobalStats: GlobalStats{
			Directories:   Directories{Size: len(stats.Directories)},
			TotalFiles:    stats.TotalFiles,
			AnalyzedFiles: stats.AnalyzedFiles,
			SkippedFiles:  stats.SkippedFiles,
			ClaimedFiles:  stats.ClaimedFiles,
			ParseErrors:   stats.ParseErrors,
			TotalBytes:    stats.Bytes,
			Unclaimed:     stats.Unclaimed,
			StartTime:     stats.StartTime,
			EndTime:       stats.EndTime,
			DurationMs:    stats.Duration().Milliseconds(),
		},
		DriverOrder:      append([]string{}, res.Walk.Order...),
		DriverMetrics:    make(map[string]map[string]any, len(res.Walk.Drivers)),
		AggregateMetrics: res.Walk.Global.Plain(),
	}

	for name, agg := range res.Walk.Drivers {
		rep.DriverMetrics[name] = agg.Plain()
	}

	if enh := res.Enhanced; enh != nil {
		rep.EnhancedMetrics = &EnhancedMetrics{
			ProjectType:     enh.ProjectType,
			LaravelVersion:  enh.LaravelVersion,
			FrontendStack:   nonNil(enh.FrontendStack),
			DeadCode:        enh.DeadCode,
			DuplicateCode:   nonNil(enh.Duplicates),
			SecurityIssues:  nonNil([]metric.Finding(enh.SecurityIssues)),
			QualityScore:    enh.Score,
			Recommendations: nonNil(enh.Recommendations),
		}
	}

	return rep
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
