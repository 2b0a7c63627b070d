package peaks

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/function"
)

// closedForm is a peak formula over float64 parameters given in canonical
// order. deriv writes one partial per canonical parameter.
type closedForm struct {
	name     string
	params   []string // canonical order
	defaults []float64
	value    func(p []float64, x float64) float64
	deriv    func(p []float64, x float64, d []float64)
}

// plainPeak evaluates a closedForm on a store whose declaration order may
// differ from the canonical one.
type plainPeak struct {
	function.ParamFunction

	form *closedForm
	perm []int // perm[k] is the store index of canonical parameter k
}

func newPlainPeak(form *closedForm, order []string) (plainPeak, error) {
	p := plainPeak{form: form, perm: make([]int, len(form.params))}
	for _, name := range order {
		k := indexOf(form.params, name)
		if k < 0 {
			return p, fmt.Errorf("%s: %w: %q", form.name, function.ErrParameterNotFound, name)
		}
		if err := p.DeclareParameter(name, form.defaults[k]); err != nil {
			return p, err
		}
	}
	for k, name := range form.params {
		i, err := p.ParameterIndex(name)
		if err != nil {
			return p, fmt.Errorf("%s: %w", form.name, err)
		}
		p.perm[k] = i
	}
	return p, nil
}

// canonical returns the parameter values in canonical order.
func (p *plainPeak) canonical() []float64 {
	c := make([]float64, len(p.perm))
	for k, i := range p.perm {
		c[k] = p.Parameter(i)
	}
	return c
}

// Function writes the peak values into values.
func (p *plainPeak) Function(domain function.Domain, values *function.Values) error {
	x, err := domain.As1D()
	if err != nil {
		return err
	}
	if values == nil || values.Len() != len(x) {
		return fmt.Errorf("%w: values for %d coordinates", function.ErrSizeMismatch, len(x))
	}
	c := p.canonical()
	out := values.Slice()
	for i, xi := range x {
		out[i] = p.form.value(c, xi)
	}
	return nil
}

// AnalyticPeak is a peak with hand-derived partial derivatives.
type AnalyticPeak struct {
	plainPeak
	name string
}

// Name returns the function name.
func (a *AnalyticPeak) Name() string {
	return a.name
}

// FunctionDeriv writes the analytic Jacobian into jacobian.
func (a *AnalyticPeak) FunctionDeriv(domain function.Domain, jacobian function.Jacobian) error {
	x, err := domain.As1D()
	if err != nil {
		return err
	}
	c := a.canonical()
	d := make([]float64, len(c))
	for i, xi := range x {
		a.form.deriv(c, xi, d)
		for k, v := range d {
			if err := jacobian.Set(i, a.perm[k], v); err != nil {
				return err
			}
		}
	}
	return nil
}

// NumericPeak is a peak whose Jacobian is estimated by finite differences.
//
// FunctionDeriv perturbs the parameters in place, so it must not run
// concurrently with other evaluations of the same instance.
type NumericPeak struct {
	plainPeak
	name     string
	Settings function.NumericSettings
}

// Name returns the function name.
func (n *NumericPeak) Name() string {
	return n.name
}

// FunctionDeriv writes the finite-difference Jacobian into jacobian.
func (n *NumericPeak) FunctionDeriv(domain function.Domain, jacobian function.Jacobian) error {
	x, err := domain.As1D()
	if err != nil {
		return err
	}
	return function.NumericDerivative(n, domain, len(x), jacobian, &n.Settings)
}

func newAnalytic(form *closedForm, name string, order ...string) (*AnalyticPeak, error) {
	p, err := newPlainPeak(form, order)
	if err != nil {
		return nil, err
	}
	return &AnalyticPeak{plainPeak: p, name: name}, nil
}

func newNumeric(form *closedForm, name string, order ...string) (*NumericPeak, error) {
	p, err := newPlainPeak(form, order)
	if err != nil {
		return nil, err
	}
	return &NumericPeak{plainPeak: p, name: name}, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Compile-time checks.
var (
	_ function.Function = (*AnalyticPeak)(nil)
	_ function.Function = (*NumericPeak)(nil)
)
