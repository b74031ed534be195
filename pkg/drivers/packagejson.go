package drivers

import (
	"encoding/json"
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

var (
	npmFrameworks = []flagSpec{
		{"react", "react"}, {"vue", "vue"}, {"angular", "@angular/core"}, {"svelte", "svelte"},
		{"nextjs", "next"}, {"nuxt", "nuxt"}, {"express", "express"}, {"nestjs", "@nestjs/core"},
		{"gatsby", "gatsby"},
	}
	npmBuildTools = []flagSpec{
		{"webpack", "webpack"}, {"vite", "vite"}, {"rollup", "rollup"}, {"parcel", "parcel"},
		{"esbuild", "esbuild"}, {"turbopack", "turbopack"},
	}
	npmTesting = []flagSpec{
		{"jest", "jest"}, {"vitest", "vitest"}, {"mocha", "mocha"}, {"jasmine", "jasmine"},
		{"cypress", "cypress"}, {"playwright", "playwright"},
	}
	npmUILibraries = []flagSpec{
		{"tailwind", "tailwindcss"}, {"bootstrap", "bootstrap"}, {"materialui", "@mui/material"},
		{"antd", "antd"}, {"chakra", "@chakra-ui/react"},
	}

	// lockfiles decide the package manager, first hit wins.
	lockfiles = []struct{ file, manager string }{
		{"yarn.lock", "yarn"},
		{"pnpm-lock.yaml", "pnpm"},
		{"package-lock.json", "npm"},
	}
)

type packageManifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Scripts          map[string]any    `json:"scripts"`
}

// PackageJSON specializes JSON for npm manifests.
func PackageJSON(base *driver.Composite) *driver.Composite {
	return base.Extend(driver.Descriptor{
		Name:     NamePackageJSON,
		Include:  []*regexp.Regexp{regexp.MustCompile(`package\.json$`)},
		Priority: 25,
	}, []driver.Layer{packageJSONLayer}, []driver.Formatter{formatPackageJSON})
}

func packageManager(src *driver.Source) string {
	for _, l := range lockfiles {
		if src.HasSibling(l.file) {
			return l.manager
		}
	}

	return metric.UnknownText
}

func packageJSONLayer(src *driver.Source) metric.Record {
	var pkg packageManifest
	if err := json.Unmarshal([]byte(src.Content), &pkg); err != nil {
		// A valid document of the wrong shape keeps the JSON fields only.
		return metric.Record{}
	}

	all := mergeDeps(pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies)

	return metric.Record{
		"projectName":           textOr(pkg.Name, metric.UnknownText),
		"projectVersion":        textOr(pkg.Version, metric.UnknownText),
		"packageManager":        metric.Text(packageManager(src)),
		"totalDependencies":     metric.Count(len(pkg.Dependencies)),
		"totalDevDependencies":  metric.Count(len(pkg.DevDependencies)),
		"totalPeerDependencies": metric.Count(len(pkg.PeerDependencies)),
		"frameworks":            flagGroup(npmFrameworks, all),
		"buildTools":            flagGroup(npmBuildTools, all),
		"testingFrameworks":     flagGroup(npmTesting, all),
		"hasTypeScript":         metric.Bool(hasDep(all, "typescript")),
		"uiLibraries":           flagGroup(npmUILibraries, all),
		"scripts":               metric.Count(len(pkg.Scripts)),
	}
}

func formatPackageJSON(agg metric.Record) []driver.Section {
	if agg.IsParseError() {
		return nil
	}

	deps := agg.Count("totalDependencies")
	dev := agg.Count("totalDevDependencies")
	peer := agg.Count("totalPeerDependencies")

	sections := []driver.Section{
		{
			Title: "Project Info",
			Entries: []driver.Entry{
				driver.Text("Name", agg.Text("projectName")),
				driver.Text("Version", agg.Text("projectVersion")),
				driver.Text("Package Manager", agg.Text("packageManager")),
				driver.Count("Scripts", agg.Count("scripts")),
			},
		},
		{
			Title: "Dependencies",
			Entries: []driver.Entry{
				driver.Count("Production Dependencies", deps),
				driver.Count("Dev Dependencies", dev),
				driver.Count("Peer Dependencies", peer),
				driver.Count("Total", deps+dev+peer),
			},
		},
	}

	if fw := enabled(npmFrameworks, agg.Flags("frameworks")); len(fw) > 0 {
		sections = append(sections, driver.Section{
			Title: "Detected Frameworks",
			Entries: []driver.Entry{
				driver.List("Frameworks", fw),
				driver.Text("TypeScript", driver.YesNo(agg.Bool("hasTypeScript"))),
			},
		})
	}

	if tools := enabled(npmBuildTools, agg.Flags("buildTools")); len(tools) > 0 {
		sections = append(sections, driver.Section{Title: "Build Tools", Entries: []driver.Entry{driver.List("Tools", tools)}})
	}

	if tests := enabled(npmTesting, agg.Flags("testingFrameworks")); len(tests) > 0 {
		sections = append(sections, driver.Section{Title: "Testing", Entries: []driver.Entry{driver.List("Frameworks", tests)}})
	}

	if ui := enabled(npmUILibraries, agg.Flags("uiLibraries")); len(ui) > 0 {
		sections = append(sections, driver.Section{Title: "UI Libraries", Entries: []driver.Entry{driver.List("Libraries", ui)}})
	}

	return sections
}
