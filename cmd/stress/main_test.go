//go:build !windows

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLIAllSucceed(t *testing.T) {
	code, stdout, _ := runCLI(t, "-r", "5", "true")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, ".....\n")
	assert.Contains(t, stdout, "total executions: 5, failed: 0 (0.00%)")
	assert.Contains(t, stdout, "execution time: mean=")
}

func TestCLIAllFail(t *testing.T) {
	code, stdout, _ := runCLI(t, "--repetitions", "3", "sh", "-c", "echo broken; exit 7")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "execution #1 failed. output:")
	assert.Contains(t, stdout, "execution #3 failed. output:")
	assert.Contains(t, stdout, "broken")
	assert.Contains(t, stdout, "failed: 3 (100.00%)")
}

func TestCLIExitOnErrorStopsOnSecondRun(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "seen")
	script := `if [ -f "$1" ]; then exit 1; fi; touch "$1"`

	code, stdout, _ := runCLI(t, "-e", "sh", "-c", script, "sh", marker)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAILED after 1 executions")
}

func TestCLIZeroRepetitions(t *testing.T) {
	code, stdout, _ := runCLI(t, "-r", "0", "false")

	assert.Equal(t, 0, code)
	assert.Equal(t, "\ntotal executions: 0, failed: 0 (N/A)\n", stdout)
}

func TestCLIFlagsAfterCommandBelongToCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "-r", "1", "sh", "-c", `[ "$1" = "-e" ] || exit 1`, "sh", "-e")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "total executions: 1, failed: 0")
}

func TestCLIUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "empty command", args: []string{"-r", "3"}},
		{name: "bad repetitions", args: []string{"-r", "many", "true"}},
		{name: "negative repetitions", args: []string{"-r", "-2", "true"}},
		{name: "unknown format", args: []string{"--format", "xml", "true"}},
		{name: "unknown encoding", args: []string{"--encoding", "klingon", "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)

			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestCLIJSONFormat(t *testing.T) {
	code, stdout, _ := runCLI(t, "-r", "2", "--format", "json", "false")

	assert.Equal(t, 1, code)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.EqualValues(t, 2, report["total_executions"])
	assert.EqualValues(t, 2, report["failed_executions"])
}

func TestCLIConfigFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repetitions: 2\n"), 0o600))
	t.Setenv("STRESS_EXIT_ON_ERROR", "true")

	code, stdout, _ := runCLI(t, "--config", path, "true")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "no error during 2 executions")
}

func TestCLIDebugLogsGoToStderr(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-r", "1", "--log-level", "debug", "true")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "loop finished")
	assert.Contains(t, stderr, "run_id")
	assert.NotContains(t, stdout, "loop finished")
}
