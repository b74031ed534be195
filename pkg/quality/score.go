package quality

import (
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

// Score weights.
const (
	MaxScore = 100

	weightUnusedClass  = 2.0
	weightUnusedMethod = 1.0
	weightUnusedImport = 0.5
	weightDuplicate    = 3.0

	penaltyHigh   = 10.0
	penaltyMedium = 5.0
	penaltyLow    = 2.0

	// GoodScore is the score below which automated checks are recommended.
	GoodScore = 80
	// FairScore separates fair from poor scores in reports.
	FairScore = 60
)

// Score rates a codebase from 0 to 100.
func Score(dead DeadCode, dups []Duplicate, security metric.Findings) int {
	score := float64(MaxScore)

	score -= weightUnusedClass * float64(len(dead.UnusedClasses))
	score -= weightUnusedMethod * float64(len(dead.UnusedMethods))
	score -= weightUnusedImport * float64(len(dead.UnusedImports))
	score -= weightDuplicate * float64(len(dups))

	for _, f := range security {
		switch f.Severity {
		case metric.SeverityHigh:
			score -= penaltyHigh
		case metric.SeverityMedium:
			score -= penaltyMedium
		case metric.SeverityLow:
			score -= penaltyLow
		}
	}

	return int(math.Max(0, math.Round(score)))
}

// NoIssues is the single recommendation for a clean codebase.
const NoIssues = "Great job! No major issues found."

// Recommendations turns scan results into actionable advice, most
// impactful first. A clean codebase gets NoIssues.
func Recommendations(dead DeadCode, dups []Duplicate, score int) []string {
	var recs []string

	if n := len(dead.UnusedClasses); n > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d unused classes to reduce codebase size", n))
	}

	if n := len(dead.UnusedMethods); n > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d unused methods to improve maintainability", n))
	}

	if n := len(dead.UnusedImports); n > 0 {
		recs = append(recs, fmt.Sprintf("Clean up %d unused imports", n))
	}

	if n := len(dups); n > 0 {
		recs = append(recs, fmt.Sprintf("Refactor %d duplicate code blocks into reusable functions", n))
	}

	if score < GoodScore {
		recs = append(recs, "Consider implementing automated code quality checks in your CI/CD pipeline")
	}

	if len(recs) == 0 {
		return []string{NoIssues}
	}

	return recs
}
