package drivers

import (
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

var (
	vueTemplate    = regexp.MustCompile(`<template>([\s\S]*?)</template>`)
	vueScript      = regexp.MustCompile(`<script.*?>([\s\S]*?)</script>`)
	vueStyle       = regexp.MustCompile(`<style.*?>([\s\S]*?)</style>`)
	vueScriptSetup = regexp.MustCompile(`<script\s+setup`)

	vueData      = regexp.MustCompile(`\bdata\s*\(\s*\)\s*\{`)
	vueMethods   = regexp.MustCompile(`\bmethods\s*:\s*\{`)
	vueComputed  = regexp.MustCompile(`\bcomputed\s*:\s*\{`)
	vueProps     = regexp.MustCompile(`\bprops\s*:\s*\{`)
	vueWatch     = regexp.MustCompile(`\bwatch\s*:\s*\{`)
	vueRef       = regexp.MustCompile(`\bref\(`)
	vueReactive  = regexp.MustCompile(`\breactive\(`)
	vueDirective = regexp.MustCompile(`\bv-\w+`)
)

// scriptBlock narrows a single-file component to its first script block.
func scriptBlock(src *driver.Source) (*driver.Source, bool) {
	m := vueScript.FindStringSubmatch(src.Content)
	if m == nil {
		return nil, false
	}

	return &driver.Source{Path: src.Path, Content: m[1], Project: src.Project}, true
}

// noScript is the JavaScript record of a component without a script block.
var noScript = metric.Record{
	"functions": metric.Count(0),
	"imports":   metric.Count(0),
	"exports":   metric.Count(0),
}

// Vue specializes JavaScript for single-file components. The JavaScript
// layers see only the script block; line counts cover the whole file.
func Vue(js *driver.Composite) *driver.Composite {
	scriptLayers := driver.Narrow(scriptBlock, noScript, js.Layers()...)

	return driver.New(driver.Descriptor{
		Name:       NameVue,
		Extensions: []string{".vue"},
		Priority:   20,
		Parent:     js.Descriptor().Name,
	}, []driver.Layer{scriptLayers, vueLayer}, []driver.Formatter{formatJavaScript, formatVue})
}

func boolCount(b bool) metric.Count {
	if b {
		return 1
	}

	return 0
}

func vueLayer(src *driver.Source) metric.Record {
	content := src.Content

	hasTemplate := vueTemplate.MatchString(content)
	hasStyle := vueStyle.MatchString(content)
	setup := vueScriptSetup.MatchString(content)

	script := ""
	m := vueScript.FindStringSubmatch(content)

	if m != nil {
		script = m[1]
	}

	rec := driver.CountLines(content, content).Record()

	rec[metric.KeyLLOC] = metric.Count(driver.LogicalLines(content))
	rec["components"] = metric.Count(1)
	rec["hasTemplate"] = metric.Bool(hasTemplate)
	rec["hasScript"] = metric.Bool(m != nil)
	rec["hasStyle"] = metric.Bool(hasStyle)
	rec["scriptSetup"] = metric.Bool(setup)
	rec["templates"] = boolCount(hasTemplate)
	rec["scriptBlocks"] = boolCount(m != nil)
	rec["styles"] = boolCount(hasStyle)
	rec["scriptSetups"] = boolCount(setup)
	rec["data"] = metric.Count(driver.CountMatches(vueData, script))
	rec["methods"] = metric.Count(driver.CountMatches(vueMethods, script))
	rec["computed"] = metric.Count(driver.CountMatches(vueComputed, script))
	rec["props"] = metric.Count(driver.CountMatches(vueProps, script))
	rec["watch"] = metric.Count(driver.CountMatches(vueWatch, script))
	rec["ref"] = metric.Count(driver.CountMatches(vueRef, script))
	rec["reactive"] = metric.Count(driver.CountMatches(vueReactive, script))
	rec["vDirectives"] = metric.Count(driver.CountMatches(vueDirective, content))
	rec[metric.KeyFiles] = metric.Count(1)

	return rec
}

func formatVue(agg metric.Record) []driver.Section {
	return []driver.Section{
		{
			Title: "Vue Components",
			Entries: []driver.Entry{
				driver.Count("Total Components", agg.Count("components")),
				driver.Count("With Template", agg.Count("templates")),
				driver.Count("With Script", agg.Count("scriptBlocks")),
				driver.Count("With Style", agg.Count("styles")),
				driver.Count("Script Setup", agg.Count("scriptSetups")),
			},
		},
		{
			Title: "Vue Options API",
			Entries: []driver.Entry{
				driver.Count("Data", agg.Count("data")),
				driver.Count("Methods", agg.Count("methods")),
				driver.Count("Computed", agg.Count("computed")),
				driver.Count("Props", agg.Count("props")),
				driver.Count("Watch", agg.Count("watch")),
			},
		},
		{
			Title: "Vue Composition API",
			Entries: []driver.Entry{
				driver.Count("ref()", agg.Count("ref")),
				driver.Count("reactive()", agg.Count("reactive")),
			},
		},
		{
			Title:   "Vue Directives",
			Entries: []driver.Entry{driver.Count("Directive Usage", agg.Count("vDirectives"))},
		},
	}
}
