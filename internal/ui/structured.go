package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/stats"
)

type FailureRecord struct {
	ID         int     `json:"id" yaml:"id"`
	ExitCode   int     `json:"exit_code" yaml:"exit_code"`
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
	Output     string  `json:"output,omitempty" yaml:"output,omitempty"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the machine-readable form of the summary.
type Report struct {
	RunID       string   `json:"run_id" yaml:"run_id"`
	Command     []string `json:"command" yaml:"command"`
	ExitOnError bool     `json:"exit_on_error" yaml:"exit_on_error"`
	State       string   `json:"state" yaml:"state"`
	Total       int      `json:"total_executions" yaml:"total_executions"`
	Failed      int      `json:"failed_executions" yaml:"failed_executions"`
	// FailureRate is nil when nothing ran.
	FailureRate *float64        `json:"failure_rate_percent" yaml:"failure_rate_percent"`
	Timing      *TimingReport   `json:"timing,omitempty" yaml:"timing,omitempty"`
	Failures    []FailureRecord `json:"failures" yaml:"failures"`
	ExitCode    int             `json:"exit_code" yaml:"exit_code"`
}

type TimingReport struct {
	MeanMs float64 `json:"mean_ms" yaml:"mean_ms"`
	MinMs  float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs  float64 `json:"max_ms" yaml:"max_ms"`
	P50Ms  float64 `json:"p50_ms" yaml:"p50_ms"`
	P90Ms  float64 `json:"p90_ms" yaml:"p90_ms"`
	P99Ms  float64 `json:"p99_ms" yaml:"p99_ms"`
}

// StructuredFormatter stays silent during the run and encodes a Report as
// JSON or YAML when the loop finishes.
type StructuredFormatter struct {
	out      io.Writer
	cfg      *domain.RunConfig
	runID    string
	failures []FailureRecord
}

func NewStructuredFormatter(out io.Writer, cfg *domain.RunConfig, runID string) *StructuredFormatter {
	return &StructuredFormatter{
		out:      out,
		cfg:      cfg,
		runID:    runID,
		failures: make([]FailureRecord, 0),
	}
}

func (f *StructuredFormatter) OnStart(runID int) {
	// Nothing is printed while running.
}

func (f *StructuredFormatter) OnComplete(result domain.RunResult, _ stats.Counts) {
	if result.Success {
		return
	}
	record := FailureRecord{
		ID:         result.ID,
		ExitCode:   result.ExitCode,
		DurationMs: millis(result.Duration),
		Output:     result.Output,
	}
	if result.Error != nil {
		record.Error = result.Error.Error()
	}
	f.failures = append(f.failures, record)
}

func (f *StructuredFormatter) OnFinish(outcome domain.Outcome) {
	if err := f.encode(f.Build(outcome)); err != nil {
		fmt.Fprintf(f.out, "error encoding %s report: %v\n", f.cfg.Format, err)
	}
}

// Build assembles the report for outcome from the failures seen so far.
func (f *StructuredFormatter) Build(outcome domain.Outcome) Report {
	snap := outcome.Snapshot
	report := Report{
		RunID:       f.runID,
		Command:     f.cfg.Command,
		ExitOnError: f.cfg.ExitOnError,
		State:       outcome.State.String(),
		Total:       snap.Total,
		Failed:      snap.Failed,
		Failures:    f.failures,
		ExitCode:    ExitCode(outcome),
	}
	if rate, ok := snap.FailureRate(); ok {
		report.FailureRate = &rate
	}
	if len(snap.Times) > 0 {
		p := snap.Percentiles()
		report.Timing = &TimingReport{
			MeanMs: millis(snap.Mean()),
			MinMs:  millis(snap.Min()),
			MaxMs:  millis(snap.Max()),
			P50Ms:  millis(p.P50),
			P90Ms:  millis(p.P90),
			P99Ms:  millis(p.P99),
		}
	}
	return report
}

func (f *StructuredFormatter) encode(report Report) error {
	if f.cfg.Format == domain.FormatYAML {
		encoder := yaml.NewEncoder(f.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(f.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
