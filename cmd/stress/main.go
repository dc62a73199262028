package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msaeedsaeedi/stress/internal/app"
	"github.com/msaeedsaeedi/stress/internal/config"
	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/logging"
	"github.com/msaeedsaeedi/stress/internal/ui"
)

const version = "0.1.0"

const (
	exitClean = 0
	exitUsage = 2
)

func run(ctx context.Context, cmd *cobra.Command, command []string) (int, error) {
	cfg, err := config.NewLoader().Load(cmd.Flags(), command)
	if err != nil {
		return exitUsage, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return exitUsage, &domain.UsageError{Err: err}
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := app.NewOrchestrator(cmd.OutOrStdout(), logger)
	outcome, err := orchestrator.Execute(ctx, cfg)
	if err != nil {
		if domain.IsUsageError(err) {
			return exitUsage, err
		}
		return ui.ExitCode(outcome), err
	}

	return ui.ExitCode(outcome), nil
}

func newRootCmd(exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress [flags] [--] <command> [args...]",
		Short: "Run a command repeatedly and report failures",
		Long: "stress - run a command over and over to shake out intermittent failures.\n" +
			"Prints '.' per successful execution and the captured output of every failure.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := run(cmd.Context(), cmd, args)
			*exitCode = code
			return err
		},
	}

	config.RegisterFlags(cmd.Flags())
	// Everything from the first positional token on belongs to the target command.
	cmd.Flags().SetInterspersed(false)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &domain.UsageError{Err: err}
	})
	cmd.Version = version

	return cmd
}

// execute runs the CLI with args and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode := exitClean
	rootCmd := newRootCmd(&exitCode)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if domain.IsUsageError(err) {
			fmt.Fprintln(stderr)
			fmt.Fprint(stderr, rootCmd.UsageString())
			return exitUsage
		}
		return max(exitCode, 1)
	}
	return exitCode
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
