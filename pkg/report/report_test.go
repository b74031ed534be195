package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/report"
	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
)

var plain = terminal.Config{Width: terminal.DefaultWidth, NoColor: true}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func laravelResult(t *testing.T) *analysis.Result {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "composer.json",
		`{"name": "acme/shop", "require": {"laravel/framework": "^11.0"}}`)
	writeFile(t, root, "package.json", `{"devDependencies": {"tailwindcss": "^3.4.0"}}`)
	writeFile(t, root, "app/Models/Order.php", "<?php\nclass Order extends Model\n{\n}\n")
	writeFile(t, root, "app/Http/Controllers/OrderController.php",
		"<?php\nclass OrderController extends Controller\n{\n    public function index()\n    {\n"+
			"        return DB::raw('select 1');\n    }\n}\n")
	writeFile(t, root, "notes.txt", "plain text\n")

	res, err := analysis.Run(context.Background(), analysis.Options{Root: root, Analyzer: analysis.AnalyzerLaravel})
	require.NoError(t, err)
	require.NotNil(t, res.Enhanced)

	return res
}

func projectResult(t *testing.T) *analysis.Result {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "src/app.js", "// entry\nfunction main() {\n  if (x) { return 1; }\n}\n")
	writeFile(t, root, "src/util.ts", "export const add = (a: number, b: number): number => a + b;\n")
	writeFile(t, root, "main.go", "package main\n")

	res, err := analysis.Run(context.Background(), analysis.Options{Root: root, Analyzer: analysis.AnalyzerProject})
	require.NoError(t, err)

	return res
}

func TestText_Project(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, projectResult(t), plain))

	out := buf.String()
	assert.Contains(t, out, "CODECORTEX")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Unclaimed Files")
	assert.Contains(t, out, "Files by Language/Framework")
	assert.Contains(t, out, "Size (Aggregate)")
	assert.Contains(t, out, "Lines of Code (LOC)")
	assert.Contains(t, out, "Analysis completed in")
	assert.NotContains(t, out, "LARAVEL ANALYSIS REPORT")
	assert.NotContains(t, out, "\x1b[", "no escape codes with colors off")
}

func TestText_Laravel(t *testing.T) {
	t.Parallel()

	res := laravelResult(t)

	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, res, plain))

	out := buf.String()
	assert.Contains(t, out, "LARAVEL ANALYSIS REPORT")
	assert.Contains(t, out, "Project Information")
	assert.Contains(t, out, "^11.0")
	assert.Contains(t, out, "Frontend Stack")
	assert.Contains(t, out, "Code Quality Score")
	assert.Contains(t, out, "Dead Code Analysis")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "/100")
}

func TestText_Notice(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "index.php", "<?php\necho 'hi';\n")

	res, err := analysis.Run(context.Background(), analysis.Options{Root: root, Analyzer: analysis.AnalyzerLaravel})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, res, plain))
	assert.Contains(t, buf.String(), analysis.NotLaravelNotice)
}

func TestCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Compact(&buf, laravelResult(t), plain))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)

	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "Total"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Quality"))
	assert.Contains(t, lines[len(lines)-1], "/100")
}

func TestRender_JSONMatchesSchema(t *testing.T) {
	t.Parallel()

	res := laravelResult(t)

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, res, report.FormatJSON, plain))
	require.NoError(t, report.Validate(buf.Bytes()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, res.RunID, doc["runId"])
	assert.Equal(t, analysis.AnalyzerLaravel, doc["analyzer"])

	enh, ok := doc["enhancedMetrics"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, float64(res.Enhanced.Score), enh["qualityScore"], 0)
	assert.NotEmpty(t, enh["securityIssues"])
}

func TestRender_ProjectJSONOmitsEnhanced(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, projectResult(t), report.FormatJSON, plain))
	require.NoError(t, report.Validate(buf.Bytes()))
	assert.NotContains(t, buf.String(), "enhancedMetrics")
	assert.Contains(t, buf.String(), `"unclaimed"`)
}

func TestRender_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, laravelResult(t), report.FormatYAML, plain))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, analysis.AnalyzerLaravel, doc["analyzer"])
	assert.Contains(t, doc, "enhancedMetrics")
}

func TestRender_Plot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, laravelResult(t), report.FormatPlot, plain))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Files by Driver")
	assert.Contains(t, out, "Lines by Driver")
	assert.Contains(t, out, "Unclaimed Files")
	assert.Contains(t, out, "Dead Code")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Render(io.Discard, projectResult(t), "xml", plain)
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestValidate_RejectsMalformed(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, report.Validate([]byte(`{"runId": ""}`)), report.ErrInvalidReport)
	require.Error(t, report.Validate([]byte(`not json`)))
}

func TestExport(t *testing.T) {
	t.Parallel()

	rep := report.Build(laravelResult(t))
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "report.json")
		require.NoError(t, report.Export(path, rep))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, report.Validate(data))
	})

	t.Run("lz4", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "report.json"+report.LZ4Ext)
		require.NoError(t, report.Export(path, rep))

		f, err := os.Open(path)
		require.NoError(t, err)

		defer f.Close()

		data, err := io.ReadAll(lz4.NewReader(f))
		require.NoError(t, err)
		require.NoError(t, report.Validate(data))
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "report.yml")
		require.NoError(t, report.Export(path, rep))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, rep.RunID, doc["runId"])
	})

	t.Run("unwritable", func(t *testing.T) {
		t.Parallel()

		require.Error(t, report.Export(filepath.Join(dir, "missing", "report.json"), rep))
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	res := projectResult(t)
	rep := report.Build(res)

	assert.Equal(t, res.Walk.Stats.TotalFiles, rep.GlobalStats.TotalFiles)
	assert.Equal(t, len(res.Walk.Stats.Directories), rep.GlobalStats.Directories.Size)
	assert.Equal(t, res.Walk.Order, rep.DriverOrder)
	assert.Nil(t, rep.EnhancedMetrics)

	for _, name := range rep.DriverOrder {
		assert.Contains(t, rep.DriverMetrics[name], "files")
	}
}
