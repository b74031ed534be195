// Package ignore decides which paths a scan skips.
//
// A Matcher combines three sources: plain directory or file names matched
// against the basename, path-shaped entries (containing a slash) and
// exclude globs matched against the root-relative path with doublestar
// semantics, and gitignore-style files found at the scan root.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the project-local ignore file, read in gitignore syntax.
const IgnoreFileName = ".codecortexignore"

// GitIgnoreFileName is read when gitignore support is enabled.
const GitIgnoreFileName = ".gitignore"

// ErrBadPattern is returned for exclude globs doublestar cannot compile.
var ErrBadPattern = errors.New("invalid exclude pattern")

// Project is the ignore set of the general project analyzer.
var Project = []string{
	"node_modules", "vendor", ".git", ".svn", "dist", "build", "coverage",
	".next", ".nuxt", "out", "public/build", "storage", "bootstrap/cache",
	".idea", ".vscode",
}

// Laravel is the ignore set of the Laravel analyzer. It keeps storage.
var Laravel = []string{
	"node_modules", "vendor", ".git", ".svn", "dist", "build", "coverage",
	".next", ".nuxt", "out", "public/build", "bootstrap/cache",
	".idea", ".vscode",
}

// Quality is the ignore set of the dead and duplicate code scans.
var Quality = []string{"vendor", "node_modules", ".git", "storage", "bootstrap/cache"}

// Matcher reports whether a root-relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	names    map[string]struct{}
	paths    []string
	excludes []string
	files    []*gitignore.GitIgnore
	skipDot  bool
}

// Option configures a Matcher.
type Option func(*Matcher) error

// SkipDotfiles makes every dot-prefixed name ignored.
func SkipDotfiles(skip bool) Option {
	return func(m *Matcher) error {
		m.skipDot = skip

		return nil
	}
}

// Exclude adds doublestar globs matched against the relative path and the
// basename.
func Exclude(globs ...string) Option {
	return func(m *Matcher) error {
		for _, g := range globs {
			if !doublestar.ValidatePattern(g) {
				return fmt.Errorf("%w: %q", ErrBadPattern, g)
			}

			m.excludes = append(m.excludes, g)
		}

		return nil
	}
}

// IgnoreFiles compiles the named gitignore-style files under root. Missing
// files are skipped.
func IgnoreFiles(root string, names ...string) Option {
	return func(m *Matcher) error {
		for _, name := range names {
			p := filepath.Join(root, name)

			if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
				continue
			}

			gi, err := gitignore.CompileIgnoreFile(p)
			if err != nil {
				return fmt.Errorf("compile %s: %w", p, err)
			}

			m.files = append(m.files, gi)
		}

		return nil
	}
}

// New builds a Matcher from ignore entries. Entries with a slash are path
// patterns; the rest match basenames exactly.
func New(entries []string, opts ...Option) (*Matcher, error) {
	m := &Matcher{names: make(map[string]struct{}, len(entries))}

	for _, e := range entries {
		e = strings.Trim(filepath.ToSlash(e), "/")
		if e == "" {
			continue
		}

		if strings.Contains(e, "/") {
			m.paths = append(m.paths, e)
		} else {
			m.names[e] = struct{}{}
		}
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Match reports whether rel, a slash or OS separated path relative to the
// scan root, is ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	if m.skipDot && strings.HasPrefix(base, ".") {
		return true
	}

	if _, ok := m.names[base]; ok {
		return true
	}

	for _, p := range m.paths {
		if rel == p || strings.HasSuffix(rel, "/"+p) {
			return true
		}

		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	for _, g := range m.excludes {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}

		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}

	probe := rel
	if isDir {
		probe += "/"
	}

	for _, gi := range m.files {
		if gi.MatchesPath(probe) {
			return true
		}
	}

	return false
}
