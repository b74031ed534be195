package drivers

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/quality"
)

// fatControllerMethods is the public method count above which a
// controller is reported.
const fatControllerMethods = 10

// maxDetails caps the detail lines shown under one quality finding.
const maxDetails = 10

var (
	fillable      = regexp.MustCompile(`protected\s+\$(?:fillable|guarded)\s*=\s*\[`)
	relationship  = regexp.MustCompile(`belongsTo|hasOne|hasMany|belongsToMany|morphTo|morphMany`)
	tableProperty = regexp.MustCompile(`protected\s+\$table`)
	publicMethod  = regexp.MustCompile(`public\s+function\s+\w+`)
	dbFacade      = regexp.MustCompile(`DB::`)
	injected      = regexp.MustCompile(`Request\s+\$\w+`)
	handleMethod  = regexp.MustCompile(`public\s+function\s+handle\s*\(`)
	upMethod      = regexp.MustCompile(`public\s+function\s+up\s*\(`)
	downMethod    = regexp.MustCompile(`public\s+function\s+down\s*\(`)
	longChain     = regexp.MustCompile(`->\w+\([^)]*\)->\w+\([^)]*\)->\w+\([^)]*\)->`)
	chunked       = regexp.MustCompile(`(?:chunk|cursor)\s*\(`)
	loadAll       = regexp.MustCompile(`all\s*\(\s*\)\s*->`)
)

// projectQualityIssues reports the project-wide scan results that concern
// the file being parsed.
func projectQualityIssues(src *driver.Source) metric.Findings {
	out := metric.Findings{}

	pc := src.Project
	if pc == nil {
		return out
	}

	if pc.DeadCode != nil {
		dead := pc.DeadCode.ForFile(src.Path)

		out = appendItems(out, FindingUnusedClasses, metric.SeverityMedium, "Unused classes found", dead.UnusedClasses)
		out = appendItems(out, FindingUnusedMethods, metric.SeverityMedium, "Unused methods found", dead.UnusedMethods)
		out = appendItems(out, FindingUnusedImports, metric.SeverityLow, "Unused imports found", dead.UnusedImports)
	}

	if dups := quality.DuplicatesForFile(pc.Duplicates, src.Path); len(dups) > 0 {
		details := make([]metric.Detail, 0, len(dups))

		for _, d := range dups {
			other := d.File2
			if other == src.Path {
				other = d.File1
			}

			details = append(details, metric.Detail{File: other, Similarity: d.Best()})
		}

		out = append(out, metric.Finding{
			Type:        FindingDuplicateCode,
			Severity:    metric.SeverityMedium,
			Description: "Duplicate code blocks found",
			Count:       len(dups),
			Details:     details,
		})
	}

	return out
}

func appendItems(out metric.Findings, kind, severity, description string, items []quality.Item) metric.Findings {
	if len(items) == 0 {
		return out
	}

	details := make([]metric.Detail, 0, len(items))
	for _, it := range items {
		details = append(details, metric.Detail{Name: it.Name, File: it.File, Line: it.Line})
	}

	return append(out, metric.Finding{
		Type:        kind,
		Severity:    severity,
		Description: description,
		Count:       len(items),
		Details:     details,
	})
}

// componentIssues runs the checks specific to a component type, then the
// checks every Laravel file gets.
func componentIssues(kind, content string) metric.Findings {
	var out metric.Findings

	switch kind {
	case "model":
		out = modelIssues(content)
	case "controller":
		out = controllerIssues(content)
	case "middleware":
		if !handleMethod.MatchString(content) {
			out = append(out, metric.Finding{
				Type:        FindingNoHandle,
				Severity:    metric.SeverityHigh,
				Description: "Middleware missing handle() method",
			})
		}
	case "migration":
		if upMethod.MatchString(content) && !downMethod.MatchString(content) {
			out = append(out, metric.Finding{
				Type:        FindingNoDown,
				Severity:    metric.SeverityMedium,
				Description: "Migration missing down() method - cannot rollback",
			})
		}
	}

	return append(out, generalIssues(content)...)
}

func modelIssues(content string) metric.Findings {
	var out metric.Findings

	if !fillable.MatchString(content) {
		out = append(out, metric.Finding{
			Type:        FindingMassAssignment,
			Severity:    metric.SeverityHigh,
			Description: "Model missing $fillable or $guarded property - mass assignment vulnerability",
		})
	}

	if tableProperty.MatchString(content) && !relationship.MatchString(content) {
		out = append(out, metric.Finding{
			Type:        FindingNoRelations,
			Severity:    metric.SeverityLow,
			Description: "Model has table definition but no defined relationships",
		})
	}

	return out
}

func controllerIssues(content string) metric.Findings {
	var out metric.Findings

	if n := driver.CountMatches(publicMethod, content); n > fatControllerMethods {
		out = append(out, metric.Finding{
			Type:        FindingFatController,
			Severity:    metric.SeverityMedium,
			Description: "Controller has too many methods - consider refactoring",
			Count:       int(n),
		})
	}

	if n := driver.CountMatches(dbFacade, content); n > 0 {
		out = append(out, metric.Finding{
			Type:        FindingDirectDB,
			Severity:    metric.SeverityMedium,
			Description: "Direct database calls in controller - consider using repositories or services",
			Count:       int(n),
		})
	}

	if injected.MatchString(content) && !validationCall.MatchString(content) {
		out = append(out, metric.Finding{
			Type:        FindingNoValidation,
			Severity:    metric.SeverityMedium,
			Description: "Controller uses Request but no validation found",
		})
	}

	return out
}

func generalIssues(content string) metric.Findings {
	var out metric.Findings

	if n := driver.CountMatches(longChain, content); n > 0 {
		out = append(out, metric.Finding{
			Type:        FindingLongChains,
			Severity:    metric.SeverityLow,
			Description: "Long method chains detected - consider breaking into smaller steps",
			Count:       int(n),
		})
	}

	if loadAll.MatchString(content) && !chunked.MatchString(content) {
		out = append(out, metric.Finding{
			Type:        FindingMemoryLeak,
			Severity:    metric.SeverityMedium,
			Description: "Large dataset operations without chunking - potential memory issue",
		})
	}

	return out
}

// findingGroup folds the findings of many files that share a key.
type findingGroup struct {
	first   metric.Finding
	count   int
	files   int
	details []metric.Detail
}

func groupFindings(findings metric.Findings, key func(metric.Finding) string) []*findingGroup {
	var order []*findingGroup

	index := map[string]*findingGroup{}

	for _, f := range findings {
		k := key(f)

		g, ok := index[k]
		if !ok {
			g = &findingGroup{first: f}
			index[k] = g
			order = append(order, g)
		}

		g.count += f.Count
		g.files++
		g.details = append(g.details, f.Details...)
	}

	return order
}

// issueSection renders security or performance findings as
// "description: count (severity)".
func issueSection(title string, findings metric.Findings) driver.Section {
	s := driver.Section{Title: title}

	groups := groupFindings(findings, func(f metric.Finding) string { return f.Description + "\x00" + f.Severity })
	for _, g := range groups {
		s.Entries = append(s.Entries, driver.Text(g.first.Description, fmt.Sprintf("%d (%s)", g.count, g.first.Severity)))
	}

	return s
}

func qualitySection(findings metric.Findings) driver.Section {
	s := driver.Section{Title: "Code Quality Issues"}

	groups := groupFindings(findings, func(f metric.Finding) string { return f.Type + "\x00" + f.Severity })
	for _, g := range groups {
		value := g.first.Description

		switch {
		case g.count > 0:
			value = fmt.Sprintf("%d occurrences", g.count)
		case g.files > 1:
			value = fmt.Sprintf("%s (%d files)", value, g.files)
		}

		s.Entries = append(s.Entries, driver.Text(fmt.Sprintf("%s (%s)", g.first.Type, g.first.Severity), value))

		for i, d := range g.details {
			if i == maxDetails {
				s.Entries = append(s.Entries, driver.Text(fmt.Sprintf("... and %d more", len(g.details)-maxDetails), "").Sub())

				break
			}

			s.Entries = append(s.Entries, driver.Text(fmt.Sprintf("%d. %s", i+1, describeDetail(g.first.Type, d)), "").Sub())
		}
	}

	return s
}

func describeDetail(kind string, d metric.Detail) string {
	switch kind {
	case FindingUnusedClasses:
		return fmt.Sprintf("Class: %s at line %d", d.Name, d.Line)
	case FindingUnusedMethods:
		return fmt.Sprintf("Method: %s at line %d", d.Name, d.Line)
	case FindingUnusedImports:
		return fmt.Sprintf("Import: %s at line %d", d.Name, d.Line)
	case FindingDuplicateCode:
		return fmt.Sprintf("Similarity: %.1f%% with %s", d.Similarity*100, filepath.Base(d.File))
	default:
		return d.Name
	}
}
