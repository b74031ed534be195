package report

import (
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatCompact, FormatJSON, FormatYAML, FormatPlot}

// Render writes res to w in the given format.
func Render(w io.Writer, res *analysis.Result, format string, cfg terminal.Config) error {
	switch format {
	case FormatText, "":
		return Text(w, res, cfg)
	case FormatCompact:
		return Compact(w, res, cfg)
	case FormatJSON:
		return WriteJSON(w, Build(res))
	case FormatYAML:
		return WriteYAML(w, Build(res))
	case FormatPlot:
		return Plot(w, res)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
