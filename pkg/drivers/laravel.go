package drivers

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/project"
)

// ComponentPHP is the component type of files no Laravel rule claims.
const ComponentPHP = "php"

// Finding list keys of the Laravel aggregate.
const (
	KeySecurityIssues    = "securityIssues"
	KeyPerformanceIssues = "performanceIssues"
	KeyCodeQuality       = "codeQuality"
)

// component describes one Laravel building block: where it lives, how its
// declaration looks, and which aggregate counts it.
type component struct {
	name  string
	key   string
	label string
	dir   string
	// decl is nil for components recognised by directory only.
	decl *regexp.Regexp
}

// components is ordered; the first match decides a file's type.
var components = []component{
	{"model", "models", "Models", "/Models/", regexp.MustCompile(`class\s+\w+\s+extends\s+(?:Model|Authenticatable)\b`)},
	{"controller", "controllers", "Controllers", "/Controllers/", regexp.MustCompile(`class\s+\w+\s+extends\s+(?:Controller|BaseController)\b`)},
	{"middleware", "middleware", "Middleware", "/Middleware/", regexp.MustCompile(`class\s+\w+\s+(?:implements|extends)\s+Middleware\b`)},
	{"migration", "migrations", "Migrations", "/database/migrations/", regexp.MustCompile(`class\s+\w*\s*extends\s+Migration\b`)},
	{"seeder", "seeders", "Seeders", "/database/seeders/", regexp.MustCompile(`class\s+\w+\s+extends\s+Seeder\b`)},
	{"factory", "factories", "Factories", "/database/factories/", regexp.MustCompile(`class\s+\w+\s+extends\s+Factory\b`)},
	{"job", "jobs", "Jobs", "/Jobs/", regexp.MustCompile(`class\s+\w+\s+implements\s+ShouldQueue\b`)},
	{"event", "events", "Events", "/Events/", nil},
	{"listener", "listeners", "Listeners", "/Listeners/", nil},
	{"command", "commands", "Commands", "/Console/Commands/", regexp.MustCompile(`class\s+\w+\s+extends\s+Command\b`)},
	{"request", "requests", "Form Requests", "/Requests/", regexp.MustCompile(`class\s+\w+\s+extends\s+(?:FormRequest|Request)\b`)},
	{"resource", "resources", "API Resources", "/Resources/", regexp.MustCompile(`class\s+\w+\s+extends\s+JsonResource\b`)},
	{"policy", "policies", "Policies", "/Policies/", nil},
	{"provider", "providers", "Service Providers", "/Providers/", regexp.MustCompile(`class\s+\w+\s+extends\s+ServiceProvider\b`)},
	{"facade", "facades", "Facades", "/Facades/", regexp.MustCompile(`class\s+\w+\s+extends\s+Facade\b`)},
}

var (
	anyClass        = regexp.MustCompile(`class\s+\w+`)
	eloquentCall    = regexp.MustCompile(`\b(?:find|findOrFail|where|orWhere|first|get|all|create|update|delete|save)\s*\(`)
	routeDefinition = regexp.MustCompile(`Route::(?:get|post|put|patch|delete|resource|group)\s*\(`)
	validationCall  = regexp.MustCompile(`validate\s*\(`)

	rawSQL        = regexp.MustCompile(`DB::raw\s*\(|->raw\s*\(`)
	unescapedEcho = regexp.MustCompile(`\{\{\{.*?\}\}\}|\{!!.*?!!\}`)
	nestedLoop    = regexp.MustCompile(`foreach.*?->.*?->`)
	eagerLoad     = regexp.MustCompile(`->with\s*\(`)
)

// Finding types reported by the Laravel driver.
const (
	FindingSQLInjection   = "sql_injection_risk"
	FindingXSS            = "xss_vulnerability"
	FindingNPlusOne       = "n_plus_one_query"
	FindingUnusedClasses  = "unused_classes"
	FindingUnusedMethods  = "unused_methods"
	FindingUnusedImports  = "unused_imports"
	FindingDuplicateCode  = "duplicate_code"
	FindingMassAssignment = "mass_assignment_risk"
	FindingNoRelations    = "potential_missing_relationships"
	FindingFatController  = "fat_controller"
	FindingDirectDB       = "direct_db_access"
	FindingNoValidation   = "missing_validation"
	FindingNoHandle       = "missing_handle_method"
	FindingNoDown         = "missing_down_method"
	FindingLongChains     = "long_method_chains"
	FindingMemoryLeak     = "potential_memory_leak"
)

// Laravel specializes PHP for Laravel applications. It only claims files
// when the project context identifies the root as a Laravel project.
func Laravel(php *driver.Composite) *driver.Composite {
	return php.Extend(driver.Descriptor{
		Name:       NameLaravel,
		Extensions: []string{".php"},
		Exclude:    []*regexp.Regexp{bladeFile},
		Priority:   30,
	}, []driver.Layer{laravelLayer}, []driver.Formatter{formatLaravel}).
		WithGate((*project.Context).IsLaravel)
}

// ComponentType classifies a PHP file. The directory wins over the
// declaration; directory-only components never match by content.
func ComponentType(path, content string) string {
	slashed := filepath.ToSlash(path)

	for _, c := range components {
		if strings.Contains(slashed, c.dir) {
			return c.name
		}

		if c.decl != nil && c.decl.MatchString(content) {
			return c.name
		}
	}

	return ComponentPHP
}

func componentCount(c component, slashed, content string) int64 {
	if c.decl != nil {
		return driver.CountMatches(c.decl, content)
	}

	if strings.Contains(slashed, c.dir) {
		return driver.CountMatches(anyClass, content)
	}

	return 0
}

func laravelLayer(src *driver.Source) metric.Record {
	content := src.Content
	slashed := filepath.ToSlash(src.Path)
	kind := ComponentType(src.Path, content)

	rec := metric.Record{
		"componentType":    metric.NewStrings(kind),
		"eloquentMethods":  metric.Count(driver.CountMatches(eloquentCall, content)),
		"routeDefinitions": metric.Count(driver.CountMatches(routeDefinition, content)),
		"validations":      metric.Count(driver.CountMatches(validationCall, content)),
	}

	for _, c := range components {
		rec[c.key] = metric.Count(componentCount(c, slashed, content))
	}

	rec[KeySecurityIssues] = securityIssues(content)
	rec[KeyPerformanceIssues] = performanceIssues(content)
	rec[KeyCodeQuality] = append(projectQualityIssues(src), componentIssues(kind, content)...)

	return rec
}

func securityIssues(content string) metric.Findings {
	out := metric.Findings{}

	if n := driver.CountMatches(rawSQL, content); n > 0 {
		out = append(out, metric.Finding{
			Type:        FindingSQLInjection,
			Severity:    metric.SeverityHigh,
			Description: "Potential SQL injection vulnerability with DB::raw() usage",
			Count:       int(n),
		})
	}

	if n := driver.CountMatches(unescapedEcho, content); n > 0 {
		out = append(out, metric.Finding{
			Type:        FindingXSS,
			Severity:    metric.SeverityMedium,
			Description: "Unescaped output that may be vulnerable to XSS",
			Count:       int(n),
		})
	}

	return out
}

func performanceIssues(content string) metric.Findings {
	out := metric.Findings{}

	n := driver.CountMatches(nestedLoop, content)
	if n > 0 && !eagerLoad.MatchString(content) {
		out = append(out, metric.Finding{
			Type:        FindingNPlusOne,
			Severity:    metric.SeverityMedium,
			Description: "Potential N+1 query problem - consider using eager loading",
			Count:       int(n),
		})
	}

	return out
}

func formatLaravel(agg metric.Record) []driver.Section {
	counts := driver.Section{Title: "Laravel Components"}
	for _, c := range components {
		counts.Entries = append(counts.Entries, driver.Count(c.label, agg.Count(c.key)))
	}

	sections := []driver.Section{
		counts,
		{
			Title: "Laravel Features",
			Entries: []driver.Entry{
				driver.Count("Eloquent Method Calls", agg.Count("eloquentMethods")),
				driver.Count("Route Definitions", agg.Count("routeDefinitions")),
				driver.Count("Validation Calls", agg.Count("validations")),
			},
		},
	}

	if s := issueSection("Security Issues", agg.Findings(KeySecurityIssues)); len(s.Entries) > 0 {
		sections = append(sections, s)
	}

	if s := issueSection("Performance Issues", agg.Findings(KeyPerformanceIssues)); len(s.Entries) > 0 {
		sections = append(sections, s)
	}

	if s := qualitySection(agg.Findings(KeyCodeQuality)); len(s.Entries) > 0 {
		sections = append(sections, s)
	}

	return sections
}
