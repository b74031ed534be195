package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecortex/pkg/ignore"
)

func TestMatch_Names(t *testing.T) {
	t.Parallel()

	m, err := ignore.New(ignore.Project)
	require.NoError(t, err)

	assert.True(t, m.Match("node_modules", true))
	assert.True(t, m.Match("web/node_modules", true))
	assert.True(t, m.Match("storage", true))
	assert.False(t, m.Match("src", true))
	assert.False(t, m.Match("src/app.js", false))
}

func TestMatch_PathEntries(t *testing.T) {
	t.Parallel()

	m, err := ignore.New(ignore.Project)
	require.NoError(t, err)

	assert.True(t, m.Match("public/build", true))
	assert.True(t, m.Match("bootstrap/cache", true))
	assert.False(t, m.Match("public", true))
	assert.False(t, m.Match("cache", true))
}

func TestMatch_LaravelKeepsStorage(t *testing.T) {
	t.Parallel()

	m, err := ignore.New(ignore.Laravel)
	require.NoError(t, err)

	assert.False(t, m.Match("storage", true))
	assert.False(t, m.Match(".github", true))
	assert.True(t, m.Match(".git", true))
}

func TestMatch_Dotfiles(t *testing.T) {
	t.Parallel()

	m, err := ignore.New(nil, ignore.SkipDotfiles(true))
	require.NoError(t, err)

	assert.True(t, m.Match(".env", false))
	assert.True(t, m.Match("src/.cache", true))
	assert.False(t, m.Match("src/env", false))
}

func TestMatch_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	m, err := ignore.New(nil, ignore.Exclude("**/*.min.js", "fixtures/**"))
	require.NoError(t, err)

	assert.True(t, m.Match("public/js/app.min.js", false))
	assert.True(t, m.Match("fixtures/a/b.php", false))
	assert.False(t, m.Match("public/js/app.js", false))
}

func TestExclude_BadPattern(t *testing.T) {
	t.Parallel()

	_, err := ignore.New(nil, ignore.Exclude("[a-"))
	require.ErrorIs(t, err, ignore.ErrBadPattern)
}

func TestMatch_IgnoreFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ignore.IgnoreFileName), []byte("generated/\n*.snap\n"), 0o600))

	m, err := ignore.New(nil, ignore.IgnoreFiles(root, ignore.IgnoreFileName, ignore.GitIgnoreFileName))
	require.NoError(t, err)

	assert.True(t, m.Match("generated", true))
	assert.True(t, m.Match("tests/ui.snap", false))
	assert.False(t, m.Match("src/app.ts", false))
}

func TestMatch_NilMatcher(t *testing.T) {
	t.Parallel()

	var m *ignore.Matcher

	assert.False(t, m.Match("anything", false))
}
