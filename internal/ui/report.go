package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/stats"
)

// HRule frames captured output of failed executions.
var HRule = strings.Repeat("-", 80)

// WriteSummary renders the final report. It only reads outcome, so calling it
// twice on the same outcome writes the same text.
func WriteSummary(w io.Writer, outcome domain.Outcome, exitOnError bool) error {
	var sb strings.Builder
	snap := outcome.Snapshot

	if outcome.Cancelled() {
		sb.WriteString("\nCancelled by user\n")
	}

	switch {
	case !exitOnError:
		fmt.Fprintf(&sb, "\ntotal executions: %d, failed: %d (%s)\n", snap.Total, snap.Failed, formatRate(snap))
	case snap.Failed == 0:
		fmt.Fprintf(&sb, "\nno error during %d executions\n", snap.Total)
	default:
		fmt.Fprintf(&sb, "\nFAILED after %d executions\n", snap.Total-1)
	}

	if len(snap.Times) > 0 {
		fmt.Fprintf(&sb, "execution time: mean=%ss, min=%ss, max=%ss\n",
			seconds(snap.Mean()), seconds(snap.Min()), seconds(snap.Max()))
		p := snap.Percentiles()
		fmt.Fprintf(&sb, "percentiles: p50=%ss, p90=%ss, p99=%ss\n",
			seconds(p.P50), seconds(p.P90), seconds(p.P99))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// ExitCode is 1 when any execution failed, whatever the run mode.
func ExitCode(outcome domain.Outcome) int {
	if outcome.Snapshot.Failed > 0 {
		return 1
	}
	return 0
}

// formatRate prints N/A when nothing ran rather than dividing by zero.
func formatRate(snap stats.Snapshot) string {
	rate, ok := snap.FailureRate()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", rate)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
