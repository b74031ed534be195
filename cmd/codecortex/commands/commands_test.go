package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codecortex/cmd/codecortex/commands"
	"github.com/Sumatoshi-tech/codecortex/pkg/config"
	"github.com/Sumatoshi-tech/codecortex/pkg/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func projectRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "index.php", "<?php\nfunction main() {\n    return 1;\n}\n")
	writeFile(t, root, "assets/app.js", "// app\nconst x = 1;\n")

	return root
}

// execute runs cmd with args and an empty config file so that no user or
// working-directory config leaks into the run.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func emptyConfig(t *testing.T) string {
	t.Helper()

	return writeFile(t, t.TempDir(), "codecortex.yaml", "analysis:\n  analyzer: auto\n")
}

func TestAnalyze_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewAnalyzeCommand(),
		projectRoot(t), "--config", emptyConfig(t), "--format", "json", "--silent")
	require.NoError(t, err)
	require.NoError(t, report.Validate([]byte(out)))
	assert.Contains(t, out, `"analyzer": "project"`)
}

func TestAnalyze_Text(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewAnalyzeCommand(),
		projectRoot(t), "--config", emptyConfig(t), "--no-color", "--silent")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "PHP Metrics")
	assert.Contains(t, out, "Analysis completed in")
}

func TestAnalyze_ConfigFile(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, t.TempDir(), "custom.yaml", `analysis:
  analyzer: project
  exclude:
    - "assets/**"
output:
  format: compact
`)

	out, err := execute(t, commands.NewAnalyzeCommand(), projectRoot(t), "--config", cfg, "--silent")
	require.NoError(t, err)

	assert.Contains(t, out, "PHP")
	assert.NotContains(t, out, "JavaScript")
	assert.Contains(t, out, "Total")
}

func TestAnalyze_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, t.TempDir(), "custom.yaml", "output:\n  format: compact\n")

	out, err := execute(t, commands.NewAnalyzeCommand(),
		projectRoot(t), "--config", cfg, "--format", "yaml", "--analyzer", "project")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "project", doc["analyzer"])
}

func TestAnalyze_Export(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, commands.NewAnalyzeCommand(),
		projectRoot(t), "--config", emptyConfig(t), "--no-color", "--silent", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report exported to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, report.Validate(data))
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	root := projectRoot(t)

	_, err := execute(t, commands.NewAnalyzeCommand(), filepath.Join(root, "index.php"), "--config", emptyConfig(t))
	require.ErrorIs(t, err, commands.ErrNotDirectory)

	_, err = execute(t, commands.NewAnalyzeCommand(), filepath.Join(root, "missing"), "--config", emptyConfig(t))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, commands.NewAnalyzeCommand(), root, "--config", emptyConfig(t), "--format", "xml")
	require.ErrorIs(t, err, config.ErrInvalidFormat)

	_, err = execute(t, commands.NewAnalyzeCommand(), root, "--config", emptyConfig(t), "--max-file-size", "lots")
	require.ErrorIs(t, err, config.ErrInvalidMaxFileSize)

	_, err = execute(t, commands.NewAnalyzeCommand(), root, "--config", filepath.Join(root, "nope.yaml"))
	require.Error(t, err)
}

func TestDrivers(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewDriversCommand())
	require.NoError(t, err)

	for _, name := range []string{"PHP", "Blade", "Laravel", "JavaScript", "TypeScript", "React TypeScript",
		"Vue", "JSON", "package.json", "composer.json"} {
		assert.Contains(t, out, name)
	}
}

func TestDrivers_Hierarchy(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewDriversCommand(), "--hierarchy")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines, "PHP (priority 10)")
	assert.Contains(t, lines, "  Blade (priority 20)")
	assert.Contains(t, lines, "  Laravel (priority 30)")
	assert.Contains(t, lines, "JSON (priority 5)")
	assert.Contains(t, lines, "  package.json (priority 25)")
}

func TestAnalyzers(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewAnalyzersCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "project")
	assert.Contains(t, out, "laravel")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewVersionCommand())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "codecortex "))
	assert.Contains(t, out, "commit:")
}
