// Package crossval triangulates the three derivative strategies of the peak
// shapes: every case is evaluated with the analytic variant as reference and
// the automatic-differentiation and finite-difference variants are compared
// against it, value by value and Jacobian entry by Jacobian entry.
package crossval

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/curvefit/internal/function"
	"github.com/born-ml/curvefit/internal/parallel"
	"github.com/born-ml/curvefit/internal/peaks"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// ErrMismatch indicates a variant that disagrees with the analytic reference.
var ErrMismatch = errors.New("crossval: derivative strategies disagree")

// Case is one comparison: a shape, its parameters by name, and a domain.
type Case struct {
	Name       string
	Shape      peaks.Shape
	Parameters map[string]float64
	Domain     function.Domain
}

// Tolerances bound the disagreement with the analytic reference. Each entry
// passes if it is within the tolerance absolutely or relatively.
type Tolerances struct {
	AutoDiff float64 `yaml:"autodiff" json:"autodiff"`
	Numeric  float64 `yaml:"numeric" json:"numeric"`
}

// DefaultTolerances returns the tolerances the built-in cases are checked with.
func DefaultTolerances() Tolerances {
	return Tolerances{AutoDiff: 1e-12, Numeric: 1e-6}
}

// For returns the tolerance for a derivative kind.
func (t Tolerances) For(k peaks.DerivativeKind) float64 {
	if k == peaks.Numeric {
		return t.Numeric
	}
	return t.AutoDiff
}

// Diff summarizes the disagreement of one variant with the reference.
type Diff struct {
	MaxAbs     float64 // largest absolute difference
	MaxRel     float64 // largest relative difference over non-zero reference entries
	Mismatches int     // entries outside the tolerance
}

// Comparison holds the value and Jacobian differences of one variant.
type Comparison struct {
	Kind     peaks.DerivativeKind
	Values   Diff
	Jacobian Diff
}

// Report is the outcome of one Case.
type Report struct {
	Case        string
	Shape       peaks.Shape
	Samples     int
	Parameters  []string // reference (analytic) order
	Comparisons []Comparison
}

// Err returns an error wrapping ErrMismatch if any comparison has mismatches.
func (r *Report) Err() error {
	for _, c := range r.Comparisons {
		if c.Values.Mismatches > 0 || c.Jacobian.Mismatches > 0 {
			return fmt.Errorf("%w: case %s, %v: %d value and %d jacobian mismatches (max abs %.3g / %.3g)",
				ErrMismatch, r.Case, c.Kind, c.Values.Mismatches, c.Jacobian.Mismatches,
				c.Values.MaxAbs, c.Jacobian.MaxAbs)
		}
	}
	return nil
}

// evaluation is one variant's output, Jacobian columns keyed by parameter name.
type evaluation struct {
	values  []float64
	columns map[string][]float64
	names   []string
}

func evaluate(c Case, kind peaks.DerivativeKind) (*evaluation, error) {
	fn, err := peaks.New(c.Shape, kind)
	if err != nil {
		return nil, err
	}
	for name, v := range c.Parameters {
		if err := function.SetParameterByName(fn, name, v); err != nil {
			return nil, fmt.Errorf("%v: %w", kind, err)
		}
	}

	n := c.Domain.Size()
	values := function.NewValues(n)
	if err := fn.Function(c.Domain, values); err != nil {
		return nil, fmt.Errorf("%v values: %w", kind, err)
	}
	jac := function.NewDenseJacobian(n, fn.NParams())
	if err := fn.FunctionDeriv(c.Domain, jac); err != nil {
		return nil, fmt.Errorf("%v jacobian: %w", kind, err)
	}

	ev := &evaluation{
		values:  values.Slice(),
		columns: make(map[string][]float64, fn.NParams()),
		names:   function.ParameterNames(fn),
	}
	for iP, name := range ev.names {
		if m := jac.Matrix(); m != nil {
			ev.columns[name] = mat.Col(nil, iP, m)
		} else {
			ev.columns[name] = make([]float64, n)
		}
	}
	return ev, nil
}

// Compare evaluates all three variants of c and compares the autodiff and
// numeric ones with the analytic reference. Jacobian columns are matched by
// parameter name, since the variants declare parameters in different orders.
func Compare(c Case, tol Tolerances) (*Report, error) {
	ref, err := evaluate(c, peaks.Analytic)
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", c.Name, err)
	}
	report := &Report{
		Case:       c.Name,
		Shape:      c.Shape,
		Samples:    len(ref.values),
		Parameters: ref.names,
	}

	for _, kind := range []peaks.DerivativeKind{peaks.AutoDiff, peaks.Numeric} {
		got, err := evaluate(c, kind)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		t := tol.For(kind)
		cmp := Comparison{Kind: kind, Values: diff(got.values, ref.values, t)}
		for _, name := range ref.names {
			col, ok := got.columns[name]
			if !ok {
				return nil, fmt.Errorf("case %s: %v has no parameter %q: %w",
					c.Name, kind, name, function.ErrParameterNotFound)
			}
			cmp.Jacobian = merge(cmp.Jacobian, diff(col, ref.columns[name], t))
		}
		report.Comparisons = append(report.Comparisons, cmp)
	}
	return report, nil
}

// CompareAll runs Compare for every case on a bounded worker pool. Reports are
// returned in case order; the first evaluation error aborts the run.
// Mismatches are not errors here: inspect Report.Err.
func CompareAll(ctx context.Context, cases []Case, tol Tolerances, cfg parallel.Config) ([]*Report, error) {
	reports := make([]*Report, len(cases))
	err := parallel.ForEach(ctx, len(cases), func(_ context.Context, i int) error {
		r, err := Compare(cases[i], tol)
		if err != nil {
			return err
		}
		reports[i] = r
		return nil
	}, cfg)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// diff compares got with want entry by entry.
func diff(got, want []float64, tol float64) Diff {
	delta := make([]float64, len(got))
	floats.SubTo(delta, got, want)

	d := Diff{MaxAbs: floats.Norm(delta, math.Inf(1))}
	for i, w := range want {
		if w != 0 {
			d.MaxRel = math.Max(d.MaxRel, math.Abs(delta[i]/w))
		}
		if !scalar.EqualWithinAbsOrRel(got[i], w, tol, tol) {
			d.Mismatches++
		}
	}
	return d
}

func merge(a, b Diff) Diff {
	return Diff{
		MaxAbs:     math.Max(a.MaxAbs, b.MaxAbs),
		MaxRel:     math.Max(a.MaxRel, b.MaxRel),
		Mismatches: a.Mismatches + b.Mismatches,
	}
}
