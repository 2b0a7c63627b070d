package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/born-ml/curvefit/internal/autofunc"
	"github.com/born-ml/curvefit/internal/function"
	"github.com/born-ml/curvefit/internal/parallel"
	"github.com/born-ml/curvefit/internal/peaks"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	shape   string
	points  int
	repeats int
}

func newBenchCmd(a *app) *cobra.Command {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time value and Jacobian evaluation of every derivative strategy",
		Long: `bench evaluates a peak and its Jacobian over a span of points with
widths 1, 2 and 3, repeatedly, for every derivative strategy. It fails when a
strategy exceeds the configured wall-clock budget.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("points") {
				a.cfg.Bench.Points = opts.points
			}
			if cmd.Flags().Changed("repeats") {
				a.cfg.Bench.Repeats = opts.repeats
			}
			return a.runBench(cmd, opts.shape)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.shape, "shape", "gaussian", "peak shape: gaussian, lorentzian or pearson7")
	f.IntVar(&opts.points, "points", 0, "samples per evaluation (default from config)")
	f.IntVar(&opts.repeats, "repeats", 0, "evaluations per width (default from config)")
	return cmd
}

// benchWidths are the widths every strategy is timed with.
var benchWidths = []float64{1, 2, 3}

func (a *app) runBench(cmd *cobra.Command, shapeName string) error {
	shape, err := peaks.ParseShape(shapeName)
	if err != nil {
		return err
	}
	bc := a.cfg.Bench
	if bc.Points < 2 || bc.Repeats < 1 {
		return errors.New("bench needs at least 2 points and 1 repeat")
	}
	domain, err := function.NewDomain1DSpan(-10, 10, bc.Points)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHAPE\tKIND\tEVALUATIONS\tTOTAL\tPER EVALUATION")
	var over []string
	for _, kind := range peaks.DerivativeKinds {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		elapsed, n, err := a.benchKind(shape, kind, domain)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%v\t%v\t%d\t%v\t%v\n", shape, kind, n,
			elapsed.Round(time.Microsecond), (elapsed / time.Duration(n)).Round(time.Nanosecond))
		a.logger.Debug("bench", "shape", shape.String(), "kind", kind.String(), "evaluations", n, "elapsed", elapsed)
		if bc.Budget > 0 && elapsed > bc.Budget {
			over = append(over, kind.String())
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(over) > 0 {
		return fmt.Errorf("over the %v budget: %v", bc.Budget, over)
	}
	return nil
}

// benchKind times Repeats value and Jacobian evaluations per width. Each
// repeat owns its function instance, so numeric derivatives, which perturb
// parameters in place, can run in parallel too.
func (a *app) benchKind(shape peaks.Shape, kind peaks.DerivativeKind, domain function.Domain) (time.Duration, int, error) {
	bc := a.cfg.Bench
	n := len(benchWidths) * bc.Repeats
	fns := make([]function.Function, n)
	for i := range fns {
		fn, err := peaks.New(shape, kind)
		if err != nil {
			return 0, 0, err
		}
		w, err := widthIndex(fn)
		if err != nil {
			return 0, 0, err
		}
		if err := fn.SetParameter(w, benchWidths[i%len(benchWidths)]); err != nil {
			return 0, 0, err
		}
		autofunc.Attach(fn, a.collector)
		fns[i] = fn
	}

	errs := make([]error, n)
	start := time.Now()
	parallel.For(n, func(i int) {
		fn := fns[i]
		values := function.NewValuesFor(domain)
		if errs[i] = fn.Function(domain, values); errs[i] != nil {
			return
		}
		errs[i] = fn.FunctionDeriv(domain, function.NewDenseJacobian(domain.Size(), fn.NParams()))
	}, parallel.Config{
		Enabled:      a.cfg.Parallel.Enabled,
		NumWorkers:   a.cfg.Parallel.NumWorkers,
		MinChunkSize: 1,
	})
	elapsed := time.Since(start)
	for _, err := range errs {
		if err != nil {
			return 0, 0, fmt.Errorf("%v %v: %w", shape, kind, err)
		}
	}
	return elapsed, n, nil
}

// widthIndex returns the index of the width parameter, named Sigma or Gamma
// depending on the shape.
func widthIndex(fn function.Function) (int, error) {
	i, err := fn.ParameterIndex("Sigma")
	if err != nil {
		return fn.ParameterIndex("Gamma")
	}
	return i, nil
}
