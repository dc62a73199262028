package domain

import (
	"time"
)

type OutputFormat string
type LogLevel string

const (
	FormatPlain OutputFormat = "plain"
	FormatTUI   OutputFormat = "tui"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DefaultEncoding is used to decode captured output when none is configured.
const DefaultEncoding = "utf-8"

// RunConfig is built once at startup and never mutated afterwards.
type RunConfig struct {
	Command []string
	// Repetitions is nil for an unbounded run.
	Repetitions *int
	ExitOnError bool
	Format      OutputFormat
	Encoding    string
	LogLevel    LogLevel
}

// Bounded reports whether the run has a repetition limit.
func (c *RunConfig) Bounded() bool {
	return c.Repetitions != nil
}

// Limit returns the repetition limit, or -1 for an unbounded run.
func (c *RunConfig) Limit() int {
	if c.Repetitions == nil {
		return -1
	}
	return *c.Repetitions
}

type RunResult struct {
	ID       int
	ExitCode int
	// Output holds the combined stdout/stderr and is only kept for failures.
	Output    string
	Duration  time.Duration
	Success   bool
	Cancelled bool
	Error     error
}
