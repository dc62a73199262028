package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/stats"
)

// Runner performs one blocking invocation of the target command.
type Runner interface {
	Run(ctx context.Context, command []string) domain.RunResult
}

// ResultHandler observes the loop. Callbacks happen on the loop's goroutine;
// OnComplete runs after the result has been folded into counts.
type ResultHandler interface {
	OnStart(runID int)
	OnComplete(result domain.RunResult, counts stats.Counts)
	OnFinish(outcome domain.Outcome)
}

type SequentialExecutor struct {
	runner Runner
	logger *zap.Logger
	now    func() time.Time
}

func NewSequentialExecutor(runner Runner, logger *zap.Logger) *SequentialExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SequentialExecutor{
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
}

// Execute runs the command until a stop condition holds. Cancellation of ctx
// is a normal way to stop: an invocation cut short by it is discarded and
// everything recorded before stands.
func (e *SequentialExecutor) Execute(ctx context.Context, cfg *domain.RunConfig, handler ResultHandler) domain.Outcome {
	acc := stats.NewAccumulator()

	var state domain.State
	for {
		state = nextState(ctx, cfg, acc.Counts())
		if state != domain.StateRunning {
			break
		}

		runID := acc.Counts().Total + 1
		handler.OnStart(runID)

		start := e.now()
		result := e.runner.Run(ctx, cfg.Command)
		result.ID = runID
		result.Duration = e.now().Sub(start)

		if result.Cancelled {
			e.logger.Debug("execution interrupted", zap.Int("run", runID), zap.Duration("elapsed", result.Duration))
			state = domain.StateCancelled
			break
		}

		acc.Record(result.Success, result.Duration)
		if !result.Success {
			e.logger.Info("execution failed",
				zap.Int("run", runID),
				zap.Int("exit_code", result.ExitCode),
				zap.Duration("elapsed", result.Duration),
				zap.Error(result.Error))
		} else {
			e.logger.Debug("execution succeeded", zap.Int("run", runID), zap.Duration("elapsed", result.Duration))
		}
		handler.OnComplete(result, acc.Counts())
	}

	outcome := domain.Outcome{State: state, Snapshot: acc.Snapshot()}
	e.logger.Debug("loop finished",
		zap.Stringer("state", state),
		zap.Int("total", outcome.Snapshot.Total),
		zap.Int("failed", outcome.Snapshot.Failed))
	handler.OnFinish(outcome)
	return outcome
}

// nextState is the single termination check, evaluated before every iteration.
// A stop that was already due wins over a cancellation that arrived later.
func nextState(ctx context.Context, cfg *domain.RunConfig, counts stats.Counts) domain.State {
	switch {
	case cfg.ExitOnError && counts.Failed > 0:
		return domain.StateStoppedOnError
	case cfg.Bounded() && counts.Total >= cfg.Limit():
		return domain.StateLimitReached
	case ctx.Err() != nil:
		return domain.StateCancelled
	default:
		return domain.StateRunning
	}
}
