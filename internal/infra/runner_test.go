//go:build !windows

package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) *CommandRunner {
	t.Helper()
	dec, err := NewOutputDecoder("utf-8")
	require.NoError(t, err)
	return NewCommandRunner(dec)
}

func TestCommandRunnerSuccess(t *testing.T) {
	result := newTestRunner(t).Run(context.Background(), []string{"sh", "-c", "echo ok"})

	assert.True(t, result.Success)
	assert.False(t, result.Cancelled)
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Output, "output is only kept for failures")
}

func TestCommandRunnerFailureCapturesCombinedOutput(t *testing.T) {
	result := newTestRunner(t).Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2; exit 3"})

	assert.False(t, result.Success)
	assert.False(t, result.Cancelled)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "out\nerr\n", result.Output)
	assert.Error(t, result.Error)
}

func TestCommandRunnerArgumentsAreVerbatim(t *testing.T) {
	result := newTestRunner(t).Run(context.Background(),
		[]string{"sh", "-c", `printf '%s|' "$@"; exit 1`, "sh", "a b", "$HOME", "*"})

	assert.Equal(t, "a b|$HOME|*|", result.Output)
}

func TestCommandRunnerMissingBinary(t *testing.T) {
	result := newTestRunner(t).Run(context.Background(), []string{"/nonexistent/stress-target"})

	assert.False(t, result.Success)
	assert.Equal(t, -1, result.ExitCode)
	assert.NotEmpty(t, result.Output)
}

func TestCommandRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := newTestRunner(t).Run(ctx, []string{"sleep", "10"})

	assert.True(t, result.Cancelled)
	assert.False(t, result.Success)
	assert.Less(t, time.Since(start), 5*time.Second)
}
