// Package drivers holds the concrete language and framework drivers and
// the sets the analyzers register.
package drivers

import (
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

// Driver names.
const (
	NamePHP             = "PHP"
	NameBlade           = "Blade"
	NameLaravel         = "Laravel"
	NameJavaScript      = "JavaScript"
	NameTypeScript      = "TypeScript"
	NameReact           = "React"
	NameReactTypeScript = "React TypeScript"
	NameVue             = "Vue"
	NameJSON            = "JSON"
	NamePackageJSON     = "package.json"
	NameComposerJSON    = "composer.json"
)

var bladeFile = regexp.MustCompile(`\.blade\.php$`)

var (
	phpLineComment  = regexp.MustCompile(`(?m)//.*$|#.*$`)
	phpBlockComment = regexp.MustCompile(`/\*[\s\S]*?\*/`)

	phpClass     = regexp.MustCompile(`\b(abstract\s+)?class\s+(\w+)`)
	phpInterface = regexp.MustCompile(`\binterface\s+(\w+)`)
	phpTrait     = regexp.MustCompile(`\btrait\s+(\w+)`)
	phpNamespace = regexp.MustCompile(`namespace\s+([\w\\]+)`)
	phpMethod    = regexp.MustCompile(`(public|private|protected)?\s*(static)?\s*function\s+(\w+)`)
	phpFunction  = regexp.MustCompile(`(?m)^function\s+(\w+)\s*\(`)
	phpUse       = regexp.MustCompile(`(?m)^use\s+`)
	phpConst     = regexp.MustCompile(`const\s+(\w+)`)
)

// PHP returns the base PHP driver.
func PHP() *driver.Composite {
	return driver.New(driver.Descriptor{
		Name:       NamePHP,
		Extensions: []string{".php"},
		Exclude:    []*regexp.Regexp{bladeFile},
		Priority:   10,
	}, []driver.Layer{phpLayer}, []driver.Formatter{formatPHP})
}

func phpLayer(src *driver.Source) metric.Record {
	clean := driver.StripComments(src.Content, phpLineComment, phpBlockComment)

	var classes, abstract int64

	for _, m := range phpClass.FindAllStringSubmatch(clean, -1) {
		classes++

		if m[1] != "" {
			abstract++
		}
	}

	var methods, public, protected, private, static int64

	for _, m := range phpMethod.FindAllStringSubmatch(clean, -1) {
		methods++

		switch m[1] {
		case "private":
			private++
		case "protected":
			protected++
		default:
			public++
		}

		if m[2] != "" {
			static++
		}
	}

	namespaces := metric.NewStrings()
	for _, m := range phpNamespace.FindAllStringSubmatch(clean, -1) {
		namespaces[m[1]] = struct{}{}
	}

	rec := driver.CountLines(src.Content, clean).Record()

	rec[metric.KeyLLOC] = metric.Count(driver.LogicalLines(clean))
	rec["classes"] = metric.Count(classes)
	rec["abstractClasses"] = metric.Count(abstract)
	rec["concreteClasses"] = metric.Count(classes - abstract)
	rec["interfaces"] = metric.Count(driver.CountMatches(phpInterface, clean))
	rec["traits"] = metric.Count(driver.CountMatches(phpTrait, clean))
	rec["namespaces"] = namespaces
	rec["methods"] = metric.Count(methods)
	rec["publicMethods"] = metric.Count(public)
	rec["protectedMethods"] = metric.Count(protected)
	rec["privateMethods"] = metric.Count(private)
	rec["staticMethods"] = metric.Count(static)
	rec["nonStaticMethods"] = metric.Count(methods - static)
	rec["functions"] = metric.Count(driver.CountMatches(phpFunction, clean))
	rec["useStatements"] = metric.Count(driver.CountMatches(phpUse, clean))
	rec["constants"] = metric.Count(driver.CountMatches(phpConst, clean))
	rec["complexity"] = metric.Count(driver.Complexity(clean))
	rec[metric.KeyFiles] = metric.Count(1)

	return rec
}

func formatPHP(agg metric.Record) []driver.Section {
	classes := agg.Count("classes")

	sections := []driver.Section{{
		Title: "Structure",
		Entries: []driver.Entry{
			driver.Count("Namespaces", int64(len(agg.Strings("namespaces")))),
			driver.Count("Interfaces", agg.Count("interfaces")),
			driver.Count("Traits", agg.Count("traits")),
			driver.Count("Classes", classes),
			driver.Ratio("Abstract Classes", agg.Count("abstractClasses"), classes),
			driver.Ratio("Concrete Classes", agg.Count("concreteClasses"), classes),
		},
	}}

	if methods := agg.Count("methods"); methods > 0 {
		sections = append(sections, driver.Section{
			Title: "Methods",
			Entries: []driver.Entry{
				driver.Count("Total Methods", methods),
				driver.Ratio("Public Methods", agg.Count("publicMethods"), methods),
				driver.Ratio("Protected Methods", agg.Count("protectedMethods"), methods),
				driver.Ratio("Private Methods", agg.Count("privateMethods"), methods),
				driver.Ratio("Static Methods", agg.Count("staticMethods"), methods),
			},
		})
	}

	if functions := agg.Count("functions"); functions > 0 {
		sections = append(sections, driver.Section{
			Title:   "Functions",
			Entries: []driver.Entry{driver.Count("Total Functions", functions)},
		})
	}

	return sections
}

var (
	bladeDirective = regexp.MustCompile(`@(if|elseif|else|endif|foreach|endforeach|for|endfor|while|endwhile|unless|endunless|isset|empty|auth|guest|can|cannot|include|extends|section|endsection|yield|component|slot|push|stack|props|php|endphp)`)
	bladeEcho      = regexp.MustCompile(`\{\{.*?\}\}`)
	bladeRawEcho   = regexp.MustCompile(`\{!!.*?!!\}`)
	bladeComment   = regexp.MustCompile(`\{\{--[\s\S]*?--\}\}`)
)

// Blade specializes PHP for .blade.php templates.
func Blade(php *driver.Composite) *driver.Composite {
	return php.Extend(driver.Descriptor{
		Name:     NameBlade,
		Include:  []*regexp.Regexp{bladeFile},
		Priority: 20,
	}, []driver.Layer{bladeLayer}, []driver.Formatter{formatBlade})
}

func bladeLayer(src *driver.Source) metric.Record {
	return metric.Record{
		"bladeDirectives": metric.Count(driver.CountMatches(bladeDirective, src.Content)),
		"bladeEchos":      metric.Count(driver.CountMatches(bladeEcho, src.Content)),
		"bladeRawEchos":   metric.Count(driver.CountMatches(bladeRawEcho, src.Content)),
		"bladeComments":   metric.Count(driver.CountMatches(bladeComment, src.Content)),
	}
}

func formatBlade(agg metric.Record) []driver.Section {
	return []driver.Section{{
		Title: "Blade Features",
		Entries: []driver.Entry{
			driver.Count("Directives", agg.Count("bladeDirectives")),
			driver.Count("Echo Statements", agg.Count("bladeEchos")),
			driver.Count("Raw Echo Statements", agg.Count("bladeRawEchos")),
			driver.Count("Blade Comments", agg.Count("bladeComments")),
		},
	}}
}
