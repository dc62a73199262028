// Package logging builds the zap logger used for diagnostics. Diagnostics go
// to stderr so stdout carries only progress and the report.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/msaeedsaeedi/stress/internal/domain"
)

var levelMapping = map[domain.LogLevel]zapcore.Level{
	domain.LogLevelDebug: zapcore.DebugLevel,
	domain.LogLevelInfo:  zapcore.InfoLevel,
	domain.LogLevelWarn:  zapcore.WarnLevel,
	domain.LogLevelError: zapcore.ErrorLevel,
}

// NewLogger returns a console-encoded logger writing to sink at level.
func NewLogger(level domain.LogLevel, sink io.Writer) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(sink)),
		zap.NewAtomicLevelAt(zapLevel),
	)
	return zap.New(core), nil
}
