// Package project inspects a scan root before traversal and records the
// facts drivers depend on: whether it is a Laravel application, which
// frontend stack it uses, and the project-wide quality scans.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/codecortex/pkg/quality"
)

// Manifest file names.
const (
	ComposerFile    = "composer.json"
	PackageJSONFile = "package.json"

	laravelPackage = "laravel/framework"
)

// TypeLaravel is the project type reported for Laravel applications.
const TypeLaravel = "Laravel"

// ErrManifest is returned when a manifest exists but cannot be decoded.
var ErrManifest = errors.New("invalid manifest")

// Context is the immutable, precomputed view of a scan root shared with
// every driver. A nil *Context behaves like a non-Laravel project.
type Context struct {
	Root string

	// ComposerRoot is the nearest directory at or above Root holding a
	// composer.json, or "" when there is none.
	ComposerRoot   string
	Laravel        bool
	LaravelVersion string
	FrontendStack  []string

	// DeadCode and Duplicates hold the project-wide scans when the Laravel
	// driver is active. Drivers filter them per file.
	DeadCode   *quality.DeadCode
	Duplicates []quality.Duplicate
}

// IsLaravel reports whether the root declares laravel/framework.
func (c *Context) IsLaravel() bool {
	return c != nil && c.Laravel
}

// Type returns "Laravel" for Laravel roots and "" otherwise.
func (c *Context) Type() string {
	if c.IsLaravel() {
		return TypeLaravel
	}

	return ""
}

// Composer is the subset of composer.json the detector reads.
type Composer struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Require     map[string]string `json:"require"`
	RequireDev  map[string]string `json:"require-dev"`
}

// PackageJSON is the subset of package.json the detector reads.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ReadComposer decodes root/composer.json. A missing file returns
// (nil, nil).
func ReadComposer(root string) (*Composer, error) {
	var c Composer

	ok, err := readJSON(filepath.Join(root, ComposerFile), &c)
	if !ok {
		return nil, err
	}

	return &c, nil
}

// ReadPackageJSON decodes root/package.json. A missing file returns
// (nil, nil).
func ReadPackageJSON(root string) (*PackageJSON, error) {
	var p PackageJSON

	ok, err := readJSON(filepath.Join(root, PackageJSONFile), &p)
	if !ok {
		return nil, err
	}

	return &p, nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrManifest, path, err)
	}

	return true, nil
}

// Detect builds the Context for root. Laravel detection uses the nearest
// composer.json at or above root, so scanning a subdirectory of an
// application still counts. Manifest errors are returned together with a
// usable non-Laravel context so callers can log and continue.
func Detect(root string) (*Context, error) {
	pc := &Context{Root: root, ComposerRoot: FindComposerRoot(root)}

	var errs []error

	var composer *Composer

	if pc.ComposerRoot != "" {
		c, err := ReadComposer(pc.ComposerRoot)
		if err != nil {
			errs = append(errs, err)
		}

		composer = c
	}

	if composer != nil {
		if v, ok := composer.Require[laravelPackage]; ok {
			pc.Laravel = true
			pc.LaravelVersion = v
		}
	}

	stack, err := FrontendStack(root)
	if err != nil {
		errs = append(errs, err)
	}

	pc.FrontendStack = stack

	return pc, errors.Join(errs...)
}

// FindComposerRoot walks up from dir and returns the first directory that
// contains a composer.json, or "".
func FindComposerRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		if exists(filepath.Join(abs, ComposerFile)) {
			return abs
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}

		abs = parent
	}
}

// frontendMarkers maps package names to stack labels, in report order.
var frontendMarkers = []struct {
	pkg       string
	label     string
	versioned bool
}{
	{"react", "React", true},
	{"vue", "Vue", true},
	{"@inertiajs/inertia", "Inertia.js", false},
	{"livewire", "Livewire", false},
	{"tailwindcss", "Tailwind CSS", false},
	{"bootstrap", "Bootstrap", false},
	{"sass", "Sass", false},
	{"typescript", "TypeScript", false},
}

// FrontendStack lists the frontend technologies of root from its
// package.json, followed by the Blade template count under resources/views.
func FrontendStack(root string) ([]string, error) {
	var stack []string

	pkg, err := ReadPackageJSON(root)
	if pkg != nil {
		deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
		for k, v := range pkg.Dependencies {
			deps[k] = v
		}

		for k, v := range pkg.DevDependencies {
			deps[k] = v
		}

		for _, m := range frontendMarkers {
			v, ok := deps[m.pkg]
			if !ok {
				continue
			}

			if m.versioned {
				stack = append(stack, m.label+" "+v)
			} else {
				stack = append(stack, m.label)
			}
		}
	}

	if n := countBladeTemplates(filepath.Join(root, "resources", "views")); n > 0 {
		stack = append(stack, fmt.Sprintf("Blade Templates (%d files)", n))
	}

	return stack, err
}

func countBladeTemplates(dir string) int {
	n := 0

	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable views are not counted.
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), ".blade.php") {
			n++
		}

		return nil
	})

	return n
}
