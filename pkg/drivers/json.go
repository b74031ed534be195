package drivers

import (
	"encoding/json"
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

// JSON returns the generic JSON driver. Lockfiles and tsconfig.json are
// left unclaimed.
func JSON() *driver.Composite {
	return driver.New(driver.Descriptor{
		Name:       NameJSON,
		Extensions: []string{".json"},
		Exclude: []*regexp.Regexp{
			regexp.MustCompile(`package-lock\.json$`),
			regexp.MustCompile(`composer\.lock$`),
			regexp.MustCompile(`yarn\.lock$`),
			regexp.MustCompile(`tsconfig\.json$`),
		},
		Priority: 5,
	}, []driver.Layer{jsonLayer}, []driver.Formatter{formatJSON})
}

// topLevelKeys counts the keys of an object or the elements of an array.
// Scalars have none; null is not a document.
func topLevelKeys(content string) (int64, bool) {
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return 0, false
	}

	switch v := doc.(type) {
	case map[string]any:
		return int64(len(v)), true
	case []any:
		return int64(len(v)), true
	case nil:
		return 0, false
	default:
		return 0, true
	}
}

func jsonLayer(src *driver.Source) metric.Record {
	keys, ok := topLevelKeys(src.Content)
	if !ok {
		return metric.ParseError()
	}

	rec := driver.CountLines(src.Content, src.Content).Record()

	rec[metric.KeyLLOC] = metric.Count(keys)
	rec["jsonObjects"] = metric.Count(1)
	rec["topLevelKeys"] = metric.Count(keys)
	rec[metric.KeyFiles] = metric.Count(1)

	return rec
}

func formatJSON(agg metric.Record) []driver.Section {
	if agg.IsParseError() {
		return nil
	}

	return []driver.Section{{
		Title: "JSON Files",
		Entries: []driver.Entry{
			driver.Count("Valid Files", agg.Count("jsonObjects")),
			driver.Count("Top Level Keys", agg.Count("topLevelKeys")),
		},
	}}
}

// flagSpec maps a report name to the package that enables it.
type flagSpec struct {
	name string
	pkg  string
}

// flagGroup derives a Flags value from a dependency set.
func flagGroup(specs []flagSpec, deps map[string]string) metric.Flags {
	out := make(metric.Flags, len(specs))
	for _, s := range specs {
		_, out[s.name] = deps[s.pkg]
	}

	return out
}

// enabled lists the names set in flags, in spec order.
func enabled(specs []flagSpec, flags metric.Flags) []string {
	var out []string

	for _, s := range specs {
		if flags[s.name] {
			out = append(out, s.name)
		}
	}

	return out
}

func mergeDeps(groups ...map[string]string) map[string]string {
	out := map[string]string{}

	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}

	return out
}

func textOr(s, fallback string) metric.Text {
	if s == "" {
		return metric.Text(fallback)
	}

	return metric.Text(s)
}

func hasDep(deps map[string]string, name string) bool {
	_, ok := deps[name]

	return ok
}
