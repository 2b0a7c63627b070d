// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fitting fits functions to data with the Levenberg-Marquardt method.
//
// Example:
//
//	import (
//	    "github.com/born-ml/curvefit/fitting"
//	    "github.com/born-ml/curvefit/peaks"
//	)
//
//	func main() {
//	    fn, _ := fitting.NewGaussianComposite(peaks.AutoDiff, fitting.StartingPoint(fitting.ReferencePeaks()))
//	    res, err := fitting.Fit(ctx, fitting.Problem{Function: fn, Domain: domain, Data: data}, fitting.Settings{})
//	    ...
//	}
package fitting

import (
	"context"
	"log/slog"

	"github.com/born-ml/curvefit/function"
	"github.com/born-ml/curvefit/internal/fitting"
	"github.com/born-ml/curvefit/internal/parallel"
	"github.com/born-ml/curvefit/peaks"
)

// Problem is one weighted least-squares problem.
type Problem = fitting.Problem

// Settings configures the solver. Zero fields take defaults.
type Settings = fitting.Settings

// Result is the outcome of a fit.
type Result = fitting.Result

// BatchResult collects the outcomes of a Batch.
type BatchResult = fitting.BatchResult

// ParallelConfig bounds the concurrency of Batch.
type ParallelConfig = parallel.Config

// Peak is one Gaussian of a reference spectrum.
type Peak = fitting.Peak

// DefaultSettings returns the solver defaults.
func DefaultSettings() Settings {
	return fitting.DefaultSettings()
}

// Fit minimizes the weighted residuals of p over the parameters of its function.
func Fit(ctx context.Context, p Problem, s Settings) (*Result, error) {
	return fitting.Fit(ctx, p, s)
}

// Batch fits independent problems concurrently.
func Batch(ctx context.Context, problems []Problem, s Settings, cfg ParallelConfig, logger *slog.Logger) (*BatchResult, error) {
	return fitting.Batch(ctx, problems, s, cfg, logger)
}

// DefaultParallelConfig returns a configuration sized to the CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// ReferencePeaks returns the twenty peaks of the reference spectrum.
func ReferencePeaks() []Peak {
	return fitting.ReferencePeaks()
}

// ReferenceDomain returns the sample points of the reference spectrum.
func ReferenceDomain() function.Domain {
	return fitting.ReferenceDomain()
}

// StartingPoint perturbs peaks the way the reference fit is started.
func StartingPoint(ps []Peak) []Peak {
	return fitting.StartingPoint(ps)
}

// NewGaussianComposite builds the sum of one Gaussian per peak.
func NewGaussianComposite(kind peaks.DerivativeKind, ps []Peak) (*function.Composite, error) {
	return fitting.NewGaussianComposite(kind, ps)
}

// Synthesize evaluates fn over domain and adds seeded Gaussian noise.
func Synthesize(fn function.Function, domain function.Domain, noise float64, seed uint64) ([]float64, error) {
	return fitting.Synthesize(fn, domain, noise, seed)
}

// Errors.
var (
	ErrNoParameters    = fitting.ErrNoParameters
	ErrUnderdetermined = fitting.ErrUnderdetermined
	ErrSolver          = fitting.ErrSolver
)
