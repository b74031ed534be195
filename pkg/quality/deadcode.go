package quality

import (
	"regexp"
	"strings"
)

var (
	classDecl  = regexp.MustCompile(`class\s+(\w+)`)
	methodDecl = regexp.MustCompile(`(?:public|private|protected)\s+function\s+(\w+)`)
	useDecl    = regexp.MustCompile(`(?m)^use\s+([^;]+);`)
	assignment = regexp.MustCompile(`\$(\w+)\s*=(?:[^=>]|$)`)
)

// lifecycleMethods are invoked by PHP or by the framework and never count
// as unused.
var lifecycleMethods = map[string]struct{}{
	"__construct": {}, "__destruct": {}, "__call": {}, "__callStatic": {},
	"__get": {}, "__set": {}, "__isset": {}, "__unset": {}, "__sleep": {},
	"__wakeup": {}, "__toString": {}, "__invoke": {}, "__set_state": {},
	"__clone": {}, "__debugInfo": {},
	"index": {}, "create": {}, "store": {}, "show": {}, "edit": {}, "update": {}, "destroy": {},
	"handle": {}, "boot": {}, "register": {}, "up": {}, "down": {}, "run": {},
}

// IsLifecycleMethod reports whether name is a magic or framework entry point.
func IsLifecycleMethod(name string) bool {
	_, ok := lifecycleMethods[name]

	return ok
}

// Item is one unused symbol.
type Item struct {
	Name string `json:"name" yaml:"name"`
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// DeadCode groups unused symbols by kind.
type DeadCode struct {
	UnusedClasses []Item `json:"unusedClasses"   yaml:"unusedClasses"`
	UnusedMethods []Item `json:"unusedMethods"   yaml:"unusedMethods"`
	UnusedImports []Item `json:"unusedImports"   yaml:"unusedImports"`
	// UnusedVariables are informational and do not lower the score.
	UnusedVariables []Item `json:"unusedVariables" yaml:"unusedVariables"`
}

// Total returns the number of unused symbols.
func (d DeadCode) Total() int {
	return len(d.UnusedClasses) + len(d.UnusedMethods) + len(d.UnusedImports) + len(d.UnusedVariables)
}

// ForFile keeps only the items declared in file.
func (d DeadCode) ForFile(file string) DeadCode {
	return DeadCode{
		UnusedClasses:   itemsIn(d.UnusedClasses, file),
		UnusedMethods:   itemsIn(d.UnusedMethods, file),
		UnusedImports:   itemsIn(d.UnusedImports, file),
		UnusedVariables: itemsIn(d.UnusedVariables, file),
	}
}

func itemsIn(items []Item, file string) []Item {
	var out []Item

	for _, it := range items {
		if it.File == file {
			out = append(out, it)
		}
	}

	return out
}

func findDeadCode(c *corpus) DeadCode {
	all := c.joined()

	return DeadCode{
		UnusedClasses:   unusedClasses(c, all),
		UnusedMethods:   unusedMethods(c, all),
		UnusedImports:   unusedImports(c),
		UnusedVariables: unusedVariables(c),
	}
}

// unusedClasses reports declarations whose name appears at most once as a
// whole word across the corpus.
func unusedClasses(c *corpus, all string) []Item {
	var out []Item

	for _, f := range c.files {
		for _, m := range classDecl.FindAllStringSubmatch(f.content, -1) {
			name := m[1]
			if countWord(all, name) <= 1 {
				out = append(out, Item{Name: name, File: f.path, Line: lineOf(f.content, m[0])})
			}
		}
	}

	return out
}

// unusedMethods reports visibility-qualified methods called at most once,
// counting the declaration itself.
func unusedMethods(c *corpus, all string) []Item {
	var out []Item

	for _, f := range c.files {
		for _, m := range methodDecl.FindAllStringSubmatch(f.content, -1) {
			name := m[1]
			if IsLifecycleMethod(name) {
				continue
			}

			calls := regexp.MustCompile(`->` + regexp.QuoteMeta(name) + `\s*\(|` + regexp.QuoteMeta(name) + `\s*\(`)
			if len(calls.FindAllStringIndex(all, -1)) <= 1 {
				out = append(out, Item{Name: name, File: f.path, Line: lineOf(f.content, m[0])})
			}
		}
	}

	return out
}

// unusedImports reports use statements whose short name appears at most once
// in the importing file.
func unusedImports(c *corpus) []Item {
	var out []Item

	for _, f := range c.files {
		for _, m := range useDecl.FindAllStringSubmatch(f.content, -1) {
			imported := m[1]

			short := imported
			if i := strings.LastIndex(imported, `\`); i >= 0 {
				short = imported[i+1:]
			}

			if countWord(f.content, short) <= 1 {
				out = append(out, Item{Name: imported, File: f.path, Line: lineOf(f.content, m[0])})
			}
		}
	}

	return out
}

// unusedVariables reports variables assigned but never mentioned again in
// the same file. Each name is reported once per file.
func unusedVariables(c *corpus) []Item {
	var out []Item

	for _, f := range c.files {
		seen := map[string]struct{}{}

		for _, m := range assignment.FindAllStringSubmatch(f.content, -1) {
			name := m[1]
			if name == "this" {
				continue
			}

			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}

			mentions := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
			if len(mentions.FindAllStringIndex(f.content, -1)) <= 1 {
				out = append(out, Item{Name: "$" + name, File: f.path, Line: lineOf(f.content, m[0])})
			}
		}
	}

	return out
}

func countWord(haystack, word string) int {
	if word == "" {
		return 0
	}

	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)

	return len(re.FindAllStringIndex(haystack, -1))
}

// lineOf returns the 1-based line of the first occurrence of needle.
func lineOf(content, needle string) int {
	i := strings.Index(content, needle)
	if i < 0 {
		return 1
	}

	return strings.Count(content[:i], "\n") + 1
}
