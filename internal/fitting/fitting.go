// Package fitting drives least-squares fits of function.Function models with
// the Levenberg-Marquardt method, consuming the Jacobians the models compute.
package fitting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/born-ml/curvefit/internal/function"
	"github.com/google/uuid"
	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Fitting errors.
var (
	ErrNoParameters    = errors.New("fitting: function has no parameters")
	ErrUnderdetermined = errors.New("fitting: fewer samples than parameters")
	ErrSolver          = errors.New("fitting: solver failed")
)

// Problem is one weighted least-squares problem. The fit mutates the
// parameters of Function, so a Function must not be shared between problems
// that are fitted concurrently.
type Problem struct {
	Function function.Function
	Domain   function.Domain
	Data     []float64
	Weights  []float64 // nil means unit weights
}

// Settings configures the Levenberg-Marquardt driver. Zero fields take the
// values of DefaultSettings.
type Settings struct {
	Iterations   int     `yaml:"iterations" json:"iterations"`       // Maximum number of iterations.
	ObjectiveTol float64 `yaml:"objective_tol" json:"objective_tol"` // Stop once 0.5*||r||² falls below this.
	Tau          float64 `yaml:"tau" json:"tau"`                     // Scale of the initial damping.
	Eps1         float64 `yaml:"eps1" json:"eps1"`                   // Gradient stopping threshold.
	Eps2         float64 `yaml:"eps2" json:"eps2"`                   // Relative step stopping threshold.
}

// DefaultSettings returns the settings used for zero fields.
func DefaultSettings() Settings {
	return Settings{
		Iterations:   200,
		ObjectiveTol: 1e-16,
		Tau:          1e-3,
		Eps1:         1e-10,
		Eps2:         1e-12,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Iterations <= 0 {
		s.Iterations = d.Iterations
	}
	if s.ObjectiveTol <= 0 {
		s.ObjectiveTol = d.ObjectiveTol
	}
	if s.Tau <= 0 {
		s.Tau = d.Tau
	}
	if s.Eps1 <= 0 {
		s.Eps1 = d.Eps1
	}
	if s.Eps2 <= 0 {
		s.Eps2 = d.Eps2
	}
	return s
}

// Result is the outcome of a fit.
type Result struct {
	ID                  uuid.UUID
	Function            string
	Names               []string
	Parameters          []float64
	Status              optimize.Status
	ChiSquared          float64 // Weighted sum of squared residuals at Parameters.
	Evaluations         int
	JacobianEvaluations int
	Duration            time.Duration
}

// Converged reports whether the solver stopped on a convergence criterion
// rather than a limit.
func (r *Result) Converged() bool {
	return r.Status != optimize.NotTerminated && !r.Status.Early()
}

// Parameter returns the fitted value of the named parameter.
func (r *Result) Parameter(name string) (float64, error) {
	for i, n := range r.Names {
		if n == name {
			return r.Parameters[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", function.ErrParameterNotFound, name)
}

// abort carries an error out of the solver callbacks.
type abort struct{ err error }

// Fit minimizes the weighted residuals w*(f(x)-data) of p over the parameters
// of p.Function, starting from their current values.
//
// On success the function is left at the fitted parameters. On failure its
// parameters are restored. Evaluation errors and cancellation of ctx stop the
// solver and are returned.
func Fit(ctx context.Context, p Problem, s Settings) (res *Result, err error) {
	fn := p.Function
	if function.IsNil(fn) {
		return nil, function.ErrNilFunction
	}
	np := fn.NParams()
	if np == 0 {
		return nil, fmt.Errorf("%s: %w", fn.Name(), ErrNoParameters)
	}
	n := p.Domain.Size()
	if n < np {
		return nil, fmt.Errorf("%s: %w: %d samples, %d parameters", fn.Name(), ErrUnderdetermined, n, np)
	}
	values := function.NewValues(n)
	if err := values.SetFitData(p.Data, p.Weights); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	data, weights := values.FitData(), values.Weights()
	s = s.withDefaults()

	res = &Result{
		ID:       uuid.New(),
		Function: fn.Name(),
		Names:    function.ParameterNames(fn),
	}
	initial := function.ParameterValues(fn)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(abort); ok {
				err = a.err
			} else {
				err = fmt.Errorf("%w: %v", ErrSolver, r)
			}
		}
		if err != nil {
			res = nil
			// The initial values were accepted once already.
			_ = function.SetParameterValues(fn, initial)
			err = fmt.Errorf("fit %s: %w", fn.Name(), err)
		}
	}()

	set := func(param []float64) {
		if err := ctx.Err(); err != nil {
			panic(abort{err})
		}
		if err := function.SetParameterValues(fn, param); err != nil {
			panic(abort{err})
		}
	}
	residuals := func(dst, param []float64) {
		set(param)
		res.Evaluations++
		if err := fn.Function(p.Domain, values); err != nil {
			panic(abort{err})
		}
		floats.SubTo(dst, values.Slice(), data)
		floats.Mul(dst, weights)
	}
	jacobian := func(dst *mat.Dense, param []float64) {
		set(param)
		res.JacobianEvaluations++
		if err := fn.FunctionDeriv(p.Domain, function.WrapDense(dst)); err != nil {
			panic(abort{err})
		}
		for i, w := range weights {
			floats.Scale(w, dst.RawRowView(i))
		}
	}

	out, err := lm.LM(lm.LMProblem{
		Dim:        np,
		Size:       n,
		Func:       residuals,
		Jac:        jacobian,
		InitParams: initial,
		Tau:        s.Tau,
		Eps1:       s.Eps1,
		Eps2:       s.Eps2,
	}, &lm.Settings{Iterations: s.Iterations, ObjectiveTol: s.ObjectiveTol})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSolver, err)
	}

	r := make([]float64, n)
	residuals(r, out.X)
	res.Parameters = append([]float64(nil), out.X...)
	res.Status = out.Status
	res.ChiSquared = floats.Dot(r, r)
	res.Duration = time.Since(start)
	return res, nil
}
