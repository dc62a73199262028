package infra

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/msaeedsaeedi/stress/internal/domain"
)

// CommandRunner executes the target command once and captures its combined
// output. No timeout is applied; only ctx cancellation stops a running child.
type CommandRunner struct {
	decoder *OutputDecoder
}

func NewCommandRunner(decoder *OutputDecoder) *CommandRunner {
	return &CommandRunner{decoder: decoder}
}

func (r *CommandRunner) Run(ctx context.Context, command []string) domain.RunResult {
	var result domain.RunResult

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	setupProcessGroup(cmd)
	cmd.Cancel = func() error {
		killProcess(cmd)
		return nil
	}

	// Sharing one writer makes os/exec use a single pipe for both streams.
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	if err == nil {
		result.Success = true
		return result
	}

	result.Error = err
	if ctx.Err() != nil {
		result.Cancelled = true
		result.Error = errors.Join(ctx.Err(), err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
		// The command never started; its output is the start error.
		combined.WriteString(err.Error())
	}
	result.Output = r.decoder.Decode(combined.Bytes())

	return result
}
