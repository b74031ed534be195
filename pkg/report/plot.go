package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

const (
	chartWidth  = "100%"
	chartHeight = "480px"
	pieRadius   = "65%"
	xAxisRotate = 30
	pageTitle   = "CodeCortex Report"
)

// Plot writes an HTML page with charts of files and lines per driver, the
// unclaimed languages and, for Laravel runs, the dead code breakdown.
func Plot(w io.Writer, res *analysis.Result) error {
	page := components.NewPage()
	page.PageTitle = pageTitle

	names := make([]string, 0, len(res.Walk.Order))
	for _, name := range res.Walk.Order {
		if res.Walk.Drivers[name].Count(metric.KeyFiles) > 0 {
			names = append(names, name)
		}
	}

	page.AddCharts(filesChart(res, names), linesChart(res, names))

	if len(res.Walk.Stats.Unclaimed) > 0 {
		page.AddCharts(unclaimedChart(res.Walk.Stats.Unclaimed))
	}

	if res.Enhanced != nil {
		page.AddCharts(deadCodeChart(res.Enhanced))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate}}),
	)

	return bar
}

func barSeries(res *analysis.Result, names []string, key string) []opts.BarData {
	data := make([]opts.BarData, len(names))
	for i, name := range names {
		data[i] = opts.BarData{Value: res.Walk.Drivers[name].Count(key)}
	}

	return data
}

func filesChart(res *analysis.Result, names []string) *charts.Bar {
	bar := newBar("Files by Driver", fmt.Sprintf("%d analyzed, %d skipped",
		res.Walk.Stats.AnalyzedFiles, res.Walk.Stats.SkippedFiles))
	bar.SetXAxis(names)
	bar.AddSeries("Files", barSeries(res, names, metric.KeyFiles))

	return bar
}

func linesChart(res *analysis.Result, names []string) *charts.Bar {
	bar := newBar("Lines by Driver", "Code and comment lines")
	bar.SetXAxis(names)

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "lines"})
	bar.AddSeries("NCLOC", barSeries(res, names, metric.KeyNCLOC), stack)
	bar.AddSeries("CLOC", barSeries(res, names, metric.KeyCLOC), stack)

	return bar
}

func pie(title string, data []opts.PieData) *charts.Pie {
	p := charts.NewPie()
	p.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	p.AddSeries(title, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
	)

	return p
}

func unclaimedChart(unclaimed map[string]int) *charts.Pie {
	langs := slices.Sorted(maps.Keys(unclaimed))

	data := make([]opts.PieData, len(langs))
	for i, l := range langs {
		data[i] = opts.PieData{Name: l, Value: unclaimed[l]}
	}

	return pie("Unclaimed Files", data)
}

func deadCodeChart(enh *analysis.Enhanced) *charts.Pie {
	return pie(fmt.Sprintf("Dead Code (score %d/100)", enh.Score), []opts.PieData{
		{Name: "Unused Classes", Value: len(enh.DeadCode.UnusedClasses)},
		{Name: "Unused Methods", Value: len(enh.DeadCode.UnusedMethods)},
		{Name: "Unused Imports", Value: len(enh.DeadCode.UnusedImports)},
		{Name: "Unused Variables", Value: len(enh.DeadCode.UnusedVariables)},
		{Name: "Duplicate Pairs", Value: len(enh.Duplicates)},
	})
}
