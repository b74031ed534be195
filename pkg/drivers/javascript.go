package drivers

import (
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

var (
	jsLineComment  = regexp.MustCompile(`(?m)//.*$`)
	jsBlockComment = regexp.MustCompile(`/\*[\s\S]*?\*/`)

	jsClass    = regexp.MustCompile(`\bclass\s+(\w+)`)
	jsFunction = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(`)
	jsArrow    = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:\([^)]*\)|[\w$]+)\s*=>`)
	jsMethod   = regexp.MustCompile(`(\w+)\s*\([^)]*\)\s*\{`)
	jsImport   = regexp.MustCompile(`\bimport\s+.*?\bfrom\b`)
	jsExport   = regexp.MustCompile(`\bexport\s+(default|const|let|var|function|class|\{)`)
	jsAsync    = regexp.MustCompile(`\basync\s+(function|\(|[\w$]+\s*=>)`)
)

// stripJS removes block comments before line comments so a "//" inside a
// block comment cannot eat its terminator.
func stripJS(content string) string {
	return driver.StripComments(content, jsBlockComment, jsLineComment)
}

// JavaScript returns the base JavaScript driver.
func JavaScript() *driver.Composite {
	return driver.New(driver.Descriptor{
		Name:       NameJavaScript,
		Extensions: []string{".js", ".mjs", ".cjs"},
		Priority:   10,
	}, []driver.Layer{javascriptLayer}, []driver.Formatter{formatJavaScript})
}

func javascriptLayer(src *driver.Source) metric.Record {
	clean := stripJS(src.Content)

	named := driver.CountMatches(jsFunction, clean)
	arrows := driver.CountMatches(jsArrow, clean)

	rec := driver.CountLines(src.Content, clean).Record()

	rec[metric.KeyLLOC] = metric.Count(driver.LogicalLines(clean))
	rec["classes"] = metric.Count(driver.CountMatches(jsClass, clean))
	rec["functions"] = metric.Count(named + arrows)
	rec["namedFunctions"] = metric.Count(named)
	rec["arrowFunctions"] = metric.Count(arrows)
	rec["methods"] = metric.Count(driver.CountMatches(jsMethod, clean))
	rec["imports"] = metric.Count(driver.CountMatches(jsImport, clean))
	rec["exports"] = metric.Count(driver.CountMatches(jsExport, clean))
	rec["asyncFunctions"] = metric.Count(driver.CountMatches(jsAsync, clean))
	rec["complexity"] = metric.Count(driver.Complexity(clean))
	rec[metric.KeyFiles] = metric.Count(1)

	return rec
}

func formatJavaScript(agg metric.Record) []driver.Section {
	return []driver.Section{
		{
			Title: "Structure",
			Entries: []driver.Entry{
				driver.Count("Classes", agg.Count("classes")),
				driver.Count("Functions", agg.Count("functions")),
				driver.Count("Named Functions", agg.Count("namedFunctions")).Sub(),
				driver.Count("Arrow Functions", agg.Count("arrowFunctions")).Sub(),
				driver.Count("Async Functions", agg.Count("asyncFunctions")).Sub(),
				driver.Count("Methods", agg.Count("methods")),
			},
		},
		{
			Title: "Dependencies",
			Entries: []driver.Entry{
				driver.Count("Imports", agg.Count("imports")),
				driver.Count("Exports", agg.Count("exports")),
			},
		},
	}
}

var (
	tsInterface = regexp.MustCompile(`\binterface\s+(\w+)`)
	tsType      = regexp.MustCompile(`\btype\s+(\w+)\s*=`)
	tsEnum      = regexp.MustCompile(`\benum\s+(\w+)`)
	tsDecorator = regexp.MustCompile(`@\w+`)
	tsGeneric   = regexp.MustCompile(`<[^>]+>`)
)

// TypeScript specializes JavaScript for .ts files.
func TypeScript(js *driver.Composite) *driver.Composite {
	return js.Extend(driver.Descriptor{
		Name:       NameTypeScript,
		Extensions: []string{".ts"},
		Priority:   15,
	}, []driver.Layer{typescriptLayer}, []driver.Formatter{formatTypeScript})
}

func typescriptLayer(src *driver.Source) metric.Record {
	clean := stripJS(src.Content)

	return metric.Record{
		"interfaces": metric.Count(driver.CountMatches(tsInterface, clean)),
		"types":      metric.Count(driver.CountMatches(tsType, clean)),
		"enums":      metric.Count(driver.CountMatches(tsEnum, clean)),
		"decorators": metric.Count(driver.CountMatches(tsDecorator, clean)),
		"generics":   metric.Count(driver.CountMatches(tsGeneric, clean)),
	}
}

func formatTypeScript(agg metric.Record) []driver.Section {
	return []driver.Section{{
		Title: "TypeScript Features",
		Entries: []driver.Entry{
			driver.Count("Interfaces", agg.Count("interfaces")),
			driver.Count("Type Aliases", agg.Count("types")),
			driver.Count("Enums", agg.Count("enums")),
			driver.Count("Decorators", agg.Count("decorators")),
			driver.Count("Generic Usage", agg.Count("generics")),
		},
	}}
}

var (
	reactComponent = regexp.MustCompile(`(?:class\s+(\w+)\s+extends\s+(?:React\.)?(?:Component|PureComponent)|(?:function|const|let|var)\s+([A-Z]\w+)\s*=)`)
	reactHook      = regexp.MustCompile(`\buse[A-Z]\w*`)
	reactJSX       = regexp.MustCompile(`<[A-Z]\w+`)
	reactProps     = regexp.MustCompile(`\bprops\.`)

	// trackedHooks are counted individually, in report order.
	trackedHooks = []string{"useState", "useEffect", "useContext", "useMemo", "useCallback", "useRef"}
	// typedHooks is the subset reported for React TypeScript.
	typedHooks = []string{"useState", "useEffect"}

	hookPatterns = func() map[string]*regexp.Regexp {
		out := make(map[string]*regexp.Regexp, len(trackedHooks))
		for _, h := range trackedHooks {
			out[h] = regexp.MustCompile(h)
		}

		return out
	}()
)

// reactLayer extracts React fields, counting only the given hooks.
func reactLayer(hooks []string) driver.Layer {
	return func(src *driver.Source) metric.Record {
		clean := stripJS(src.Content)

		unique := metric.NewStrings(reactHook.FindAllString(clean, -1)...)

		rec := metric.Record{
			"components":  metric.Count(driver.CountMatches(reactComponent, clean)),
			"hooks":       metric.Count(len(unique)),
			"jsxElements": metric.Count(driver.CountMatches(reactJSX, clean)),
			"propsUsage":  metric.Count(driver.CountMatches(reactProps, clean)),
		}

		for _, h := range hooks {
			rec[h] = metric.Count(driver.CountMatches(hookPatterns[h], clean))
		}

		return rec
	}
}

// formatReact renders React sections listing the given hooks.
func formatReact(hooks []string) driver.Formatter {
	return func(agg metric.Record) []driver.Section {
		hookEntries := []driver.Entry{driver.Count("Unique Hooks", agg.Count("hooks"))}
		for _, h := range hooks {
			hookEntries = append(hookEntries, driver.Count(h, agg.Count(h)))
		}

		return []driver.Section{
			{
				Title: "React Structure",
				Entries: []driver.Entry{
					driver.Count("Components", agg.Count("components")),
					driver.Count("JSX Elements", agg.Count("jsxElements")),
					driver.Count("Props Usage", agg.Count("propsUsage")),
				},
			},
			{Title: "React Hooks", Entries: hookEntries},
		}
	}
}

// React specializes JavaScript for .jsx files.
func React(js *driver.Composite) *driver.Composite {
	return js.Extend(driver.Descriptor{
		Name:       NameReact,
		Extensions: []string{".jsx"},
		Priority:   20,
	}, []driver.Layer{reactLayer(trackedHooks)}, []driver.Formatter{formatReact(trackedHooks)})
}

// ReactTypeScript specializes TypeScript for .tsx files and adds the React
// layer on top.
func ReactTypeScript(ts *driver.Composite) *driver.Composite {
	return ts.Extend(driver.Descriptor{
		Name:       NameReactTypeScript,
		Extensions: []string{".tsx"},
		Priority:   25,
	}, []driver.Layer{reactLayer(typedHooks)}, []driver.Formatter{formatReact(typedHooks)})
}
