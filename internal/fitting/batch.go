package fitting

import (
	"context"
	"log/slog"
	"time"

	"github.com/born-ml/curvefit/internal/parallel"
	"github.com/google/uuid"
)

// BatchResult collects the outcomes of a Batch. Results[i] and Errors[i]
// belong to problem i; exactly one of them is non-nil.
type BatchResult struct {
	ID       uuid.UUID
	Results  []*Result
	Errors   []error
	Failed   int
	Duration time.Duration
}

// Batch fits independent problems concurrently, at most cfg.NumWorkers at a
// time. A failed fit is recorded and does not stop the others; only
// cancellation of ctx aborts the batch. Each problem must own its Function.
func Batch(ctx context.Context, problems []Problem, s Settings, cfg parallel.Config, logger *slog.Logger) (*BatchResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &BatchResult{
		ID:      uuid.New(),
		Results: make([]*Result, len(problems)),
		Errors:  make([]error, len(problems)),
	}
	logger = logger.With("batch", b.ID.String())
	logger.Info("batch started", "problems", len(problems), "workers", cfg.NumWorkers, "parallel", cfg.Enabled)
	start := time.Now()

	err := parallel.ForEach(ctx, len(problems), func(ctx context.Context, i int) error {
		res, err := Fit(ctx, problems[i], s)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.Errors[i] = err
			logger.Warn("fit failed", "problem", i, "error", err)
			return nil
		}
		b.Results[i] = res
		logger.Debug("fit done",
			"problem", i,
			"fit", res.ID.String(),
			"status", res.Status.String(),
			"chi2", res.ChiSquared,
			"evaluations", res.Evaluations,
			"jacobians", res.JacobianEvaluations,
			"duration", res.Duration)
		return nil
	}, cfg)
	b.Duration = time.Since(start)
	if err != nil {
		logger.Error("batch aborted", "error", err)
		return nil, err
	}

	for _, e := range b.Errors {
		if e != nil {
			b.Failed++
		}
	}
	logger.Info("batch finished", "failed", b.Failed, "duration", b.Duration)
	return b, nil
}
