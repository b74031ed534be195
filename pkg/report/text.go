package report

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/quality"
	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
	"github.com/Sumatoshi-tech/codecortex/pkg/safeconv"
)

// Layout constants.
const (
	LabelWidth       = 48
	IndentWidth      = 2
	ScoreBarWidth    = 20
	TopDeadCode      = 5
	TopDuplicates    = 3
	percentScale     = 100
	similarityFormat = "%.1f%%"
)

// Text writes the full human-readable report.
func Text(w io.Writer, res *analysis.Result, cfg terminal.Config) error {
	p := &printer{cfg: cfg}

	p.header("CODECORTEX", res.Analyzer+" analyzer")

	if res.Notice != "" {
		p.line(cfg.Colorize(res.Notice, terminal.ColorYellow))
	}

	p.overview(res)
	p.filesByDriver(res)
	p.aggregate(res.Walk.Global)

	for _, name := range res.Walk.Order {
		if res.Walk.Drivers[name].Count(metric.KeyFiles) == 0 {
			continue
		}

		p.driverSections(name, res.Sections(name))
	}

	if res.Enhanced != nil {
		p.laravel(res.Enhanced)
	}

	p.blank()
	p.line(fmt.Sprintf("Analysis completed in %.2fs", res.Walk.Stats.Duration().Seconds()))

	_, err := io.WriteString(w, p.String())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

type row struct {
	label string
	value string
	depth int
}

type printer struct {
	strings.Builder

	cfg terminal.Config
}

func (p *printer) line(s string) {
	p.WriteString(s)
	p.WriteByte('\n')
}

func (p *printer) blank() { p.WriteByte('\n') }

func (p *printer) header(title, right string) {
	p.blank()
	p.line(p.cfg.Colorize(terminal.DrawHeader(title, right, p.cfg.Width), terminal.ColorBlue))
}

func (p *printer) title(s string) {
	p.blank()
	p.line(p.cfg.Bold(s))
}

// table renders rows as an unbordered two-column table.
func (p *printer) table(rows []row) {
	if len(rows) == 0 {
		return
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Options.SeparateRows = false
	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 1, WidthMin: LabelWidth}})

	for _, r := range rows {
		indent := strings.Repeat(" ", IndentWidth*r.depth)
		tbl.AppendRow(table.Row{indent + r.label, r.value})
	}

	p.line(tbl.Render())
}

func (p *printer) overview(res *analysis.Result) {
	s := res.Walk.Stats

	rows := []row{
		{"Directories", humanize.Comma(int64(len(s.Directories))), 0},
		{"Files", humanize.Comma(int64(s.TotalFiles)), 0},
		{"Analyzed", humanize.Comma(int64(s.AnalyzedFiles)), 1},
		{"Skipped", humanize.Comma(int64(s.SkippedFiles)), 1},
	}

	if s.ParseErrors > 0 {
		rows = append(rows, row{"Parse Errors", humanize.Comma(int64(s.ParseErrors)), 2})
	}

	rows = append(rows, row{"Analyzed Size", humanize.Bytes(safeconv.Int64ToUint64(s.Bytes)), 0})

	p.title("Overview")
	p.table(rows)

	if len(s.Unclaimed) == 0 {
		return
	}

	langs := slices.Collect(maps.Keys(s.Unclaimed))
	slices.SortFunc(langs, func(a, b string) int {
		if d := s.Unclaimed[b] - s.Unclaimed[a]; d != 0 {
			return d
		}

		return strings.Compare(a, b)
	})

	unclaimed := make([]row, 0, len(langs))
	for _, l := range langs {
		unclaimed = append(unclaimed, row{l, humanize.Comma(int64(s.Unclaimed[l])), 1})
	}

	p.title("Unclaimed Files")
	p.table(unclaimed)
}

func (p *printer) filesByDriver(res *analysis.Result) {
	analyzed := int64(res.Walk.Stats.AnalyzedFiles)

	var rows []row

	for _, name := range res.Walk.Order {
		files := res.Walk.Drivers[name].Count(metric.KeyFiles)
		if files == 0 {
			continue
		}

		rows = append(rows, row{name, withPercent(files, analyzed), 1})
	}

	if len(rows) == 0 {
		return
	}

	p.title("Files by Language/Framework")
	p.table(rows)
}

func (p *printer) aggregate(g metric.Record) {
	loc := g.Count(metric.KeyLOC)
	rows := []row{{"Lines of Code (LOC)", humanize.Comma(loc), 1}}

	if loc > 0 {
		rows = append(rows,
			row{"Comment Lines of Code (CLOC)", withPercent(g.Count(metric.KeyCLOC), loc), 1},
			row{"Non-Comment Lines of Code (NCLOC)", withPercent(g.Count(metric.KeyNCLOC), loc), 1},
			row{"Logical Lines of Code (LLOC)", withPercent(g.Count(metric.KeyLLOC), loc), 1},
		)
	}

	p.title("Size (Aggregate)")
	p.table(rows)

	complexity := g.Count("complexity")
	if complexity == 0 {
		return
	}

	rows = []row{{"Total Complexity", humanize.Comma(complexity), 1}}

	if units := g.Count("functions") + g.Count("methods"); units > 0 {
		rows = append(rows, row{"Average Complexity", fmt.Sprintf("%.2f", float64(complexity)/float64(units)), 1})
	}

	p.title("Cyclomatic Complexity (Aggregate)")
	p.table(rows)
}

func (p *printer) driverSections(name string, sections []driver.Section) {
	if len(sections) == 0 {
		return
	}

	p.header(name+" Metrics", "")

	for _, sec := range sections {
		rows := make([]row, 0, len(sec.Entries))

		for _, e := range sec.Entries {
			depth := 1
			if e.Nested {
				depth = 2
			}

			rows = append(rows, row{e.Label, entryValue(e), depth})
		}

		p.title(sec.Title)
		p.table(rows)
	}
}

func (p *printer) laravel(enh *analysis.Enhanced) {
	p.header("LARAVEL ANALYSIS REPORT", "")

	info := []row{{"Type", enh.ProjectType, 1}}
	if enh.LaravelVersion != "" {
		info = append(info, row{"Laravel Version", enh.LaravelVersion, 1})
	}

	p.title("Project Information")
	p.table(info)

	if len(enh.FrontendStack) > 0 {
		p.title("Frontend Stack")

		for _, tech := range enh.FrontendStack {
			p.line("  - " + tech)
		}
	}

	p.title("Code Quality Score")
	bar := terminal.FormatScoreBar(enh.Score, ScoreBarWidth)
	p.line("  " + p.cfg.Colorize(bar, terminal.ColorForScore(enh.Score)))

	p.deadCode(enh.DeadCode)
	p.duplicates(enh.Duplicates)

	p.title("Recommendations")

	if len(enh.Recommendations) == 1 && enh.Recommendations[0] == quality.NoIssues {
		p.line("  " + p.cfg.Colorize(quality.NoIssues, terminal.ColorGreen))

		return
	}

	for i, rec := range enh.Recommendations {
		p.line(fmt.Sprintf("  %d. %s", i+1, rec))
	}
}

func (p *printer) deadCode(dead quality.DeadCode) {
	p.title("Dead Code Analysis")
	p.table([]row{
		{"Unused Classes", humanize.Comma(int64(len(dead.UnusedClasses))), 1},
		{"Unused Methods", humanize.Comma(int64(len(dead.UnusedMethods))), 1},
		{"Unused Imports", humanize.Comma(int64(len(dead.UnusedImports))), 1},
		{"Unused Variables", humanize.Comma(int64(len(dead.UnusedVariables))), 1},
	})

	p.items("Unused Classes Details", dead.UnusedClasses)
	p.items("Unused Methods Details", dead.UnusedMethods)
}

func (p *printer) items(label string, items []quality.Item) {
	if len(items) == 0 {
		return
	}

	p.line("  " + label + ":")

	for _, it := range items[:min(len(items), TopDeadCode)] {
		p.line(fmt.Sprintf("    - %s (%s:%d)", it.Name, filepath.Base(it.File), it.Line))
	}

	if rest := len(items) - TopDeadCode; rest > 0 {
		p.line(fmt.Sprintf("    ... and %d more", rest))
	}
}

func (p *printer) duplicates(dups []quality.Duplicate) {
	if len(dups) == 0 {
		return
	}

	p.title("Duplicate Code Analysis")
	p.table([]row{{"Duplicate Blocks Found", humanize.Comma(int64(len(dups))), 1}})
	p.line("  Top Duplicates:")

	for i, d := range dups[:min(len(dups), TopDuplicates)] {
		p.line(fmt.Sprintf("    %d. %s <-> %s", i+1, filepath.Base(d.File1), filepath.Base(d.File2)))

		if len(d.Similarities) > 0 {
			p.line("       Similarity: " + fmt.Sprintf(similarityFormat, d.Best()*percentScale))
		}
	}
}

func withPercent(n, total int64) string {
	if total <= 0 {
		return humanize.Comma(n)
	}

	return fmt.Sprintf("%s (%.2f%%)", humanize.Comma(n), float64(n)/float64(total)*percentScale)
}

func entryValue(e driver.Entry) string {
	if e.HasPercent {
		return fmt.Sprintf("%s (%.2f%%)", e.Value, e.Percent)
	}

	return e.Value
}
