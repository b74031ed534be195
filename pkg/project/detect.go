package project

import (
	"os"
	"path/filepath"
	"strings"
)

// Analyzer names returned by Suggest.
const (
	AnalyzerProject = "project"
	AnalyzerLaravel = "laravel"
)

// phpProbeDepth bounds the PHP file search used by Suggest.
const phpProbeDepth = 3

// laravelDirs must all exist for a root without a Laravel composer.json to
// be treated as a Laravel application.
var laravelDirs = []string{"app", "resources", "database"}

// Suggest picks an analyzer for root: Laravel when composer.json requires
// laravel/framework, project when a package.json exists, Laravel when PHP
// files sit in the conventional Laravel layout, project otherwise.
func Suggest(root string) string {
	if c, err := ReadComposer(root); err == nil && c != nil {
		if _, ok := c.Require[laravelPackage]; ok {
			return AnalyzerLaravel
		}
	}

	if exists(filepath.Join(root, PackageJSONFile)) {
		return AnalyzerProject
	}

	if hasPHP(root, 0) && hasLaravelLayout(root) {
		return AnalyzerLaravel
	}

	return AnalyzerProject
}

func hasLaravelLayout(root string) bool {
	for _, d := range laravelDirs {
		if !exists(filepath.Join(root, d)) {
			return false
		}
	}

	return true
}

func hasPHP(dir string, depth int) bool {
	if depth > phpProbeDepth {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		name := e.Name()
		if name == "node_modules" || name == "vendor" || strings.HasPrefix(name, ".") {
			continue
		}

		if e.IsDir() {
			if hasPHP(filepath.Join(dir, name), depth+1) {
				return true
			}

			continue
		}

		if strings.HasSuffix(name, ".php") {
			return true
		}
	}

	return false
}

func exists(p string) bool {
	_, err := os.Stat(p)

	return err == nil
}
