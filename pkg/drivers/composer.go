package drivers

import (
	"encoding/json"
	"regexp"

	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

var (
	phpFrameworks = []flagSpec{
		{"laravel", "laravel/framework"}, {"symfony", "symfony/symfony"}, {"lumen", "laravel/lumen-framework"},
		{"cakephp", "cakephp/cakephp"}, {"codeigniter", "codeigniter4/framework"},
	}
	laravelPackages = []flagSpec{
		{"sanctum", "laravel/sanctum"}, {"passport", "laravel/passport"}, {"horizon", "laravel/horizon"},
		{"telescope", "laravel/telescope"}, {"breeze", "laravel/breeze"}, {"jetstream", "laravel/jetstream"},
		{"livewire", "livewire/livewire"}, {"inertia", "inertiajs/inertia-laravel"},
	}
	frontendIntegrations = []flagSpec{
		{"inertia", "inertiajs/inertia-laravel"}, {"livewire", "livewire/livewire"},
	}
)

// Frontend framework names reported by viteWithFramework.
const (
	viteReact = "React"
	viteVue   = "Vue"
)

type composerManifest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Require     map[string]string `json:"require"`
	RequireDev  map[string]string `json:"require-dev"`
	Autoload    struct {
		PSR4  map[string]any `json:"psr-4"`
		Files []string       `json:"files"`
	} `json:"autoload"`
}

type siblingPackage struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ComposerJSON specializes JSON for composer manifests.
func ComposerJSON(base *driver.Composite) *driver.Composite {
	return base.Extend(driver.Descriptor{
		Name:     NameComposerJSON,
		Include:  []*regexp.Regexp{regexp.MustCompile(`composer\.json$`)},
		Priority: 25,
	}, []driver.Layer{composerLayer}, []driver.Formatter{formatComposer})
}

// viteSetup inspects the package.json next to a composer manifest.
func viteSetup(src *driver.Source) (bool, string) {
	data, err := src.ReadSibling("package.json")
	if err != nil {
		return false, ""
	}

	var pkg siblingPackage
	if json.Unmarshal(data, &pkg) != nil {
		return false, ""
	}

	all := mergeDeps(pkg.Dependencies, pkg.DevDependencies)
	if !hasDep(all, "vite") {
		return false, ""
	}

	switch {
	case hasDep(all, "react"):
		return true, viteReact
	case hasDep(all, "vue"):
		return true, viteVue
	default:
		return true, ""
	}
}

func composerLayer(src *driver.Source) metric.Record {
	var c composerManifest
	if err := json.Unmarshal([]byte(src.Content), &c); err != nil {
		return metric.Record{}
	}

	laravelVersion, hasLaravel := c.Require["laravel/framework"]
	all := mergeDeps(c.Require, c.RequireDev)
	vite, framework := viteSetup(src)

	php := c.Require["php"]
	if php == "" {
		php = metric.UnknownText
	}

	rec := metric.Record{
		"projectName":          textOr(c.Name, metric.UnknownText),
		"projectDescription":   metric.Text(c.Description),
		"phpVersion":           metric.Text(php),
		"totalDependencies":    metric.Count(len(c.Require)),
		"totalDevDependencies": metric.Count(len(c.RequireDev)),
		"frameworks":           flagGroup(phpFrameworks, all),
		"laravelPackages":      flagGroup(laravelPackages, all),
		"frontendIntegration":  flagGroup(frontendIntegrations, all),
		"hasLaravel":           metric.Bool(hasLaravel),
		"hasViteSetup":         metric.Bool(vite),
		"viteWithFramework":    metric.Text(framework),
		"autoloadPsr4":         metric.Count(len(c.Autoload.PSR4)),
		"autoloadFiles":        metric.Count(len(c.Autoload.Files)),
	}

	if hasLaravel {
		rec["laravelVersion"] = metric.Text(laravelVersion)
	}

	return rec
}

func formatComposer(agg metric.Record) []driver.Section {
	if agg.IsParseError() {
		return nil
	}

	description := agg.Text("projectDescription")
	if description == "" {
		description = "N/A"
	}

	deps := agg.Count("totalDependencies")
	dev := agg.Count("totalDevDependencies")

	sections := []driver.Section{
		{
			Title: "Project Info",
			Entries: []driver.Entry{
				driver.Text("Name", agg.Text("projectName")),
				driver.Text("Description", description),
				driver.Text("PHP Version", agg.Text("phpVersion")),
			},
		},
		{
			Title: "Dependencies",
			Entries: []driver.Entry{
				driver.Count("Production Dependencies", deps),
				driver.Count("Dev Dependencies", dev),
				driver.Count("Total", deps+dev),
			},
		},
	}

	if fw := enabled(phpFrameworks, agg.Flags("frameworks")); len(fw) > 0 {
		sections = append(sections, driver.Section{Title: "PHP Frameworks", Entries: []driver.Entry{driver.List("Frameworks", fw)}})
	}

	if agg.Bool("hasLaravel") {
		sections = append(sections, driver.Section{
			Title:   "Laravel Info",
			Entries: []driver.Entry{driver.Text("Version", agg.Text("laravelVersion"))},
		})
	}

	if pkgs := enabled(laravelPackages, agg.Flags("laravelPackages")); len(pkgs) > 0 {
		sections = append(sections, driver.Section{Title: "Laravel Packages", Entries: []driver.Entry{driver.List("Packages", pkgs)}})
	}

	if frontend := frontendSection(agg); len(frontend.Entries) > 0 {
		sections = append(sections, frontend)
	}

	psr4, files := agg.Count("autoloadPsr4"), agg.Count("autoloadFiles")
	if psr4 > 0 || files > 0 {
		sections = append(sections, driver.Section{
			Title: "Autoloading",
			Entries: []driver.Entry{
				driver.Count("PSR-4 Namespaces", psr4),
				driver.Count("Autoload Files", files),
			},
		})
	}

	return sections
}

func frontendSection(agg metric.Record) driver.Section {
	s := driver.Section{Title: "Frontend Setup"}

	if agg.Bool("hasViteSetup") {
		framework := agg.Text("viteWithFramework")
		if framework == "" {
			framework = "None"
		}

		s.Entries = append(s.Entries, driver.Text("Build Tool", "Vite"), driver.Text("Framework", framework))
	}

	integration := agg.Flags("frontendIntegration")

	var stack []string

	if integration["inertia"] {
		stack = append(stack, "Inertia.js")
	}

	if integration["livewire"] {
		stack = append(stack, "Livewire")
	}

	if len(stack) > 0 {
		s.Entries = append(s.Entries, driver.List("Stack", stack))
	}

	return s
}
