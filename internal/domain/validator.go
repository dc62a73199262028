package domain

import (
	"errors"
	"fmt"
)

// UsageError marks a configuration problem detected before any execution.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// IsUsageError reports whether err, or anything it wraps, is a UsageError.
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

type ConfigValidator struct{}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) Validate(cfg *RunConfig) error {
	if len(cfg.Command) == 0 {
		return usageErrorf("command cannot be empty")
	}

	if cfg.Repetitions != nil && *cfg.Repetitions < 0 {
		return usageErrorf("repetitions must not be negative, got %d", *cfg.Repetitions)
	}

	switch cfg.Format {
	case FormatPlain, FormatTUI, FormatJSON, FormatYAML:
	default:
		return usageErrorf("unsupported format %q (plain|tui|json|yaml)", cfg.Format)
	}

	switch cfg.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return usageErrorf("unsupported log level %q (debug|info|warn|error)", cfg.LogLevel)
	}

	if cfg.Encoding == "" {
		return usageErrorf("encoding cannot be empty")
	}

	return nil
}
