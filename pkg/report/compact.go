package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
)

// CompactNameWidth is the driver column width of the compact report.
const CompactNameWidth = 18

// Compact writes one line per driver followed by a totals line and, for
// Laravel runs, the quality score.
func Compact(w io.Writer, res *analysis.Result, cfg terminal.Config) error {
	var b strings.Builder

	for _, name := range res.Walk.Order {
		agg := res.Walk.Drivers[name]

		files := agg.Count(metric.KeyFiles)
		if files == 0 {
			continue
		}

		fmt.Fprintf(&b, "%s %6s files %10s LOC\n",
			terminal.PadRight(terminal.TruncateWithEllipsis(name, CompactNameWidth), CompactNameWidth),
			humanize.Comma(files), humanize.Comma(agg.Count(metric.KeyLOC)))
	}

	s := res.Walk.Stats
	fmt.Fprintf(&b, "%s %6s files %10s LOC  %d skipped  %.2fs\n",
		terminal.PadRight("Total", CompactNameWidth),
		humanize.Comma(int64(s.AnalyzedFiles)), humanize.Comma(res.Walk.Global.Count(metric.KeyLOC)),
		s.SkippedFiles, s.Duration().Seconds())

	if enh := res.Enhanced; enh != nil {
		bar := terminal.FormatScoreBar(enh.Score, CompactBarWidth)
		fmt.Fprintf(&b, "%s %s\n", terminal.PadRight("Quality", CompactNameWidth),
			cfg.Colorize(bar, terminal.ColorForScore(enh.Score)))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write compact report: %w", err)
	}

	return nil
}

// CompactBarWidth is the score bar width of the compact report.
const CompactBarWidth = 10
