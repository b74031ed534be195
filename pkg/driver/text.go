package driver

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

var (
	semicolon      = regexp.MustCompile(`;`)
	openBrace      = regexp.MustCompile(`\{`)
	logicalKeyword = regexp.MustCompile(`\b(if|for|while|switch|function|class|return)\b`)

	decisionPoints = []*regexp.Regexp{
		regexp.MustCompile(`\bif\b`),
		regexp.MustCompile(`\bfor\b`),
		regexp.MustCompile(`\bwhile\b`),
		regexp.MustCompile(`\bcase\b`),
		regexp.MustCompile(`\bcatch\b`),
		regexp.MustCompile(`&&`),
		regexp.MustCompile(`\|\|`),
		regexp.MustCompile(`\?[^:]`),
	}
)

// CountMatches returns the number of non-overlapping matches of re in s.
func CountMatches(re *regexp.Regexp, s string) int64 {
	return int64(len(re.FindAllStringIndex(s, -1)))
}

// StripComments removes every match of patterns, applied in order.
func StripComments(content string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		content = re.ReplaceAllString(content, "")
	}

	return content
}

// LineCounts holds physical line counts.
type LineCounts struct {
	LOC   int64
	CLOC  int64
	NCLOC int64
}

// CountLines splits content on newlines for LOC and counts the non-blank
// lines of clean, the comment-stripped content, for NCLOC. Everything else
// is CLOC.
func CountLines(content, clean string) LineCounts {
	loc := int64(strings.Count(content, "\n") + 1)

	var ncloc int64

	for line := range strings.SplitSeq(clean, "\n") {
		if strings.TrimSpace(line) != "" {
			ncloc++
		}
	}

	return LineCounts{LOC: loc, CLOC: loc - ncloc, NCLOC: ncloc}
}

// Record returns the counts as metric fields.
func (c LineCounts) Record() metric.Record {
	return metric.Record{
		metric.KeyLOC:   metric.Count(c.LOC),
		metric.KeyCLOC:  metric.Count(c.CLOC),
		metric.KeyNCLOC: metric.Count(c.NCLOC),
	}
}

// LogicalLines approximates statements: semicolons, opening braces and
// control keywords.
func LogicalLines(clean string) int64 {
	return CountMatches(semicolon, clean) + CountMatches(openBrace, clean) + CountMatches(logicalKeyword, clean)
}

// Complexity is one plus the number of decision points.
func Complexity(clean string) int64 {
	n := int64(1)
	for _, re := range decisionPoints {
		n += CountMatches(re, clean)
	}

	return n
}
