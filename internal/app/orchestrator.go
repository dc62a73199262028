package app

import (
	"context"
	"io"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/infra"
	"github.com/msaeedsaeedi/stress/internal/ui"
)

type Orchestrator struct {
	validator *domain.ConfigValidator
	stdout    io.Writer
	logger    *zap.Logger
	// newRunner builds the process runner once the output encoding is known.
	newRunner func(*infra.OutputDecoder) Runner
}

func NewOrchestrator(stdout io.Writer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		validator: domain.NewConfigValidator(),
		stdout:    stdout,
		logger:    logger,
		newRunner: func(dec *infra.OutputDecoder) Runner { return infra.NewCommandRunner(dec) },
	}
}

// Execute validates cfg, runs the loop and reports. Only configuration
// problems, returned as *domain.UsageError, and frontend failures produce an
// error; failed executions and cancellation end in a normal outcome.
func (o *Orchestrator) Execute(ctx context.Context, cfg *domain.RunConfig) (domain.Outcome, error) {
	if err := o.validator.Validate(cfg); err != nil {
		return domain.Outcome{}, err
	}

	decoder, err := infra.NewOutputDecoder(cfg.Encoding)
	if err != nil {
		return domain.Outcome{}, &domain.UsageError{Err: err}
	}

	runID := ulid.Make().String()
	logger := o.logger.With(zap.String("run_id", runID))
	logger.Debug("starting",
		zap.Strings("command", cfg.Command),
		zap.Int("repetitions", cfg.Limit()),
		zap.Bool("exit_on_error", cfg.ExitOnError),
		zap.String("format", string(cfg.Format)),
		zap.String("encoding", decoder.Name()))

	executor := NewSequentialExecutor(o.newRunner(decoder), logger)

	switch cfg.Format {
	case domain.FormatTUI:
		return o.executeTUI(ctx, executor, cfg)
	case domain.FormatJSON, domain.FormatYAML:
		return executor.Execute(ctx, cfg, ui.NewStructuredFormatter(o.stdout, cfg, runID)), nil
	default:
		return executor.Execute(ctx, cfg, ui.NewPlainFormatter(o.stdout, cfg)), nil
	}
}

// executeTUI runs the live view next to the loop. Quitting the view cancels
// the loop the same way an interrupt does; the summary is printed once the
// view has released the terminal.
func (o *Orchestrator) executeTUI(ctx context.Context, executor *SequentialExecutor, cfg *domain.RunConfig) (domain.Outcome, error) {
	ctxRun, cancel := context.WithCancel(ctx)
	defer cancel()

	tui := ui.NewTUIFormatter(cfg)
	g, gctx := errgroup.WithContext(ctxRun)

	g.Go(func() error {
		defer cancel()
		return tui.Run(gctx)
	})

	if err := tui.WaitReady(gctx); err != nil {
		return domain.Outcome{}, err
	}

	var outcome domain.Outcome
	g.Go(func() error {
		outcome = executor.Execute(gctx, cfg, tui)
		return nil
	})

	if err := g.Wait(); err != nil {
		return outcome, err
	}

	if err := ui.WriteSummary(o.stdout, outcome, cfg.ExitOnError); err != nil {
		return outcome, err
	}
	return outcome, nil
}
