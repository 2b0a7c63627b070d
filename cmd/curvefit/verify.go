package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/born-ml/curvefit/internal/crossval"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Cross-check autodiff and numeric derivatives against the analytic ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases := crossval.DefaultCases()
			a.logger.Info("verifying derivatives", "cases", len(cases),
				"tol_autodiff", a.cfg.Verify.AutoDiff, "tol_numeric", a.cfg.Verify.Numeric)

			reports, err := crossval.CompareAll(cmd.Context(), cases, a.cfg.Verify, a.cfg.Parallel)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CASE\tSHAPE\tKIND\tVALUES MAX ABS\tJACOBIAN MAX ABS\tJACOBIAN MAX REL\tMISMATCHES")
			var errs []error
			for _, r := range reports {
				for _, c := range r.Comparisons {
					fmt.Fprintf(tw, "%s\t%v\t%v\t%.3g\t%.3g\t%.3g\t%d\n", r.Case, r.Shape, c.Kind,
						c.Values.MaxAbs, c.Jacobian.MaxAbs, c.Jacobian.MaxRel,
						c.Values.Mismatches+c.Jacobian.Mismatches)
				}
				if err := r.Err(); err != nil {
					errs = append(errs, err)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(errs) > 0 {
				return errors.Join(errs...)
			}
			a.logger.Info("all derivative strategies agree")
			return nil
		},
	}
}
