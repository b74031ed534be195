package quality

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/codecortex/pkg/ignore"
)

const phpExt = ".php"

// source is one PHP file held in memory.
type source struct {
	path    string
	content string
}

// corpus is an ordered set of sources keyed by path.
type corpus struct {
	files []source
	index map[string]int
}

func newCorpus() *corpus {
	return &corpus{index: map[string]int{}}
}

func (c *corpus) add(p, content string) {
	if _, ok := c.index[p]; ok {
		return
	}

	c.index[p] = len(c.files)
	c.files = append(c.files, source{path: p, content: content})
}

// joined returns every file concatenated with newlines.
func (c *corpus) joined() string {
	parts := make([]string, len(c.files))
	for i, f := range c.files {
		parts[i] = f.content
	}

	return strings.Join(parts, "\n")
}

// findPHP lists PHP files under dir in lexical order. A non-directory
// argument yields itself when it carries the PHP extension.
func (a *Analyzer) findPHP(ctx context.Context, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if strings.HasSuffix(dir, phpExt) {
			return []string{dir}, nil
		}

		return nil, nil
	}

	var files []string

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			a.logger.Warn("quality: skip unreadable path", slog.String("path", p), slog.Any("error", walkErr))

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if p == dir {
			return nil
		}

		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return relErr
		}

		if a.ignore.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), phpExt) {
			files = append(files, p)
		}

		return nil
	})

	return files, err
}

// read loads files into c. Unreadable files are logged and left out.
func (a *Analyzer) read(c *corpus, files []string) {
	for _, f := range files {
		if _, ok := c.index[f]; ok {
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			a.logger.Warn("quality: could not read file", slog.String("path", f), slog.Any("error", err))

			continue
		}

		c.add(f, string(data))
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)

	return err == nil && info.IsDir()
}

// newQualityMatcher builds the matcher for PHP discovery.
func newQualityMatcher(extra []string) *ignore.Matcher {
	entries := append(append([]string{}, ignore.Quality...), extra...)

	m, err := ignore.New(entries, ignore.SkipDotfiles(true))
	if err != nil {
		// Plain names never fail to compile.
		return &ignore.Matcher{}
	}

	return m
}
