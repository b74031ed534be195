package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/Sumatoshi-tech/codecortex/pkg/report/terminal"
	"github.com/Sumatoshi-tech/codecortex/pkg/walker"
)

const (
	progressWidth       = 30
	progressSpinner     = 14
	progressDescription = "Scanning files"
)

// progress drives a spinner on stderr while files are walked. The total is
// unknown up front, so the bar counts instead of filling.
type progress struct {
	bar     *progressbar.ProgressBar
	skipped int
}

func newProgress(w io.Writer, enabled bool) *progress {
	f, ok := w.(*os.File)
	if !enabled || !ok || !terminal.IsTerminal(f) {
		return &progress{}
	}

	return &progress{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(progressDescription),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionSpinnerType(progressSpinner),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionClearOnFinish(),
	)}
}

// step is a walker.Progress.
func (p *progress) step(_, outcome string) {
	if p.bar == nil {
		return
	}

	if outcome != walker.OutcomeAnalyzed {
		p.skipped++
		p.bar.Describe(fmt.Sprintf("%s (%d skipped)", progressDescription, p.skipped))
	}

	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}

	_ = p.bar.Finish()
	p.bar = nil
}
