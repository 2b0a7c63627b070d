package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/born-ml/curvefit/internal/autofunc"
	"github.com/born-ml/curvefit/internal/fitting"
	"github.com/born-ml/curvefit/internal/peaks"
	"github.com/spf13/cobra"
)

type fitOptions struct {
	derivative string
	spectra    int
	peaks      int
	noise      float64
	seed       uint64
}

func newFitCmd(a *app) *cobra.Command {
	opts := fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the reference spectrum of Gaussian peaks",
		Long: `fit synthesizes spectra from the reference peak table, starts every
peak with its height scaled by 1.1 and its width by 1.15, and fits the sum of
Gaussians back with Levenberg-Marquardt. --spectra fits several independent
noisy spectra concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFit(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.derivative, "derivative", "d", "autodiff", "Jacobian strategy: autodiff, analytic or numeric")
	f.IntVarP(&opts.spectra, "spectra", "n", 1, "number of independent spectra to fit")
	f.IntVar(&opts.peaks, "peaks", 20, "number of reference peaks to use")
	f.Float64Var(&opts.noise, "noise", 1, "standard deviation of the added noise")
	f.Uint64Var(&opts.seed, "seed", 1, "noise seed of the first spectrum")
	return cmd
}

func (a *app) runFit(cmd *cobra.Command, opts fitOptions) error {
	kind, err := peaks.ParseDerivativeKind(opts.derivative)
	if err != nil {
		return err
	}
	ref := fitting.ReferencePeaks()
	if opts.peaks < 1 || opts.peaks > len(ref) {
		return fmt.Errorf("--peaks must be in [1, %d]", len(ref))
	}
	if opts.spectra < 1 {
		return errors.New("--spectra must be positive")
	}
	ref = ref[:opts.peaks]
	domain := fitting.ReferenceDomain()

	truth, err := fitting.NewGaussianComposite(peaks.Analytic, ref)
	if err != nil {
		return err
	}
	problems := make([]fitting.Problem, opts.spectra)
	for i := range problems {
		data, err := fitting.Synthesize(truth, domain, opts.noise, opts.seed+uint64(i))
		if err != nil {
			return err
		}
		fn, err := fitting.NewGaussianComposite(kind, fitting.StartingPoint(ref))
		if err != nil {
			return err
		}
		autofunc.Attach(fn, a.collector)
		problems[i] = fitting.Problem{Function: fn, Domain: domain, Data: data}
	}

	a.logger.Info("fitting", "derivative", kind.String(), "spectra", opts.spectra,
		"peaks", len(ref), "samples", domain.Size())
	batch, err := fitting.Batch(cmd.Context(), problems, a.cfg.Fit, a.cfg.Parallel, a.logger)
	if err != nil {
		return err
	}
	a.collector.ObserveBatch(batch)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SPECTRUM\tSTATUS\tCHI2\tEVALUATIONS\tJACOBIANS\tDURATION")
	for i, res := range batch.Results {
		if res == nil {
			fmt.Fprintf(tw, "%d\terror: %v\t\t\t\t\n", i, batch.Errors[i])
			continue
		}
		fmt.Fprintf(tw, "%d\t%v\t%.6g\t%d\t%d\t%v\n", i, res.Status, res.ChiSquared,
			res.Evaluations, res.JacobianEvaluations, res.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.spectra == 1 && batch.Results[0] != nil {
		if err := printPeaks(a, ref, batch.Results[0]); err != nil {
			return err
		}
	}
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d fits failed", batch.Failed, opts.spectra)
	}
	return nil
}

func printPeaks(a *app, ref []fitting.Peak, res *fitting.Result) error {
	fmt.Fprintln(a.out)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PEAK\tHEIGHT\tCENTRE\tSIGMA\tTRUE HEIGHT\tTRUE CENTRE\tTRUE SIGMA")
	for k, p := range ref {
		var got [3]float64
		for j, name := range []string{"Height", "PeakCentre", "Sigma"} {
			v, err := res.Parameter(fmt.Sprintf("f%d.%s", k, name))
			if err != nil {
				return err
			}
			got[j] = v
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", k,
			got[0], got[1], got[2], p.Height, p.Centre, p.Sigma)
	}
	return tw.Flush()
}
