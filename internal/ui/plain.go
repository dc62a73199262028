package ui

import (
	"fmt"
	"io"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/stats"
)

// PlainFormatter prints a dot per success, the captured output of every
// failure, and the summary once the loop ends.
type PlainFormatter struct {
	out         io.Writer
	exitOnError bool
}

func NewPlainFormatter(out io.Writer, cfg *domain.RunConfig) *PlainFormatter {
	return &PlainFormatter{out: out, exitOnError: cfg.ExitOnError}
}

func (f *PlainFormatter) OnStart(runID int) {}

func (f *PlainFormatter) OnComplete(result domain.RunResult, _ stats.Counts) {
	if result.Success {
		fmt.Fprint(f.out, ".")
	} else {
		fmt.Fprintf(f.out, "\nexecution #%d failed. output:\n%s\n%s\n%s\n", result.ID, HRule, result.Output, HRule)
	}
	f.flush()
}

func (f *PlainFormatter) OnFinish(outcome domain.Outcome) {
	_ = WriteSummary(f.out, outcome, f.exitOnError)
	f.flush()
}

// flush pushes progress out immediately when out is buffered.
func (f *PlainFormatter) flush() {
	if flusher, ok := f.out.(interface{ Flush() error }); ok {
		_ = flusher.Flush()
	}
}
