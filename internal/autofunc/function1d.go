package autofunc

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/function"
)

// Function1D evaluates a model over a 1-D domain with one output per
// coordinate.
type Function1D struct {
	core
}

// NewFunction1D declares the model's parameters and returns the function.
func NewFunction1D(m Model) (*Function1D, error) {
	c, err := newCore(m)
	if err != nil {
		return nil, err
	}
	return &Function1D{core: c}, nil
}

// Function writes the model values into values, which must have one entry per
// coordinate.
func (f *Function1D) Function(domain function.Domain, values *function.Values) (err error) {
	ev, start := f.begin(false)
	defer func() { f.finish(&ev, start, err) }()

	x, err := domain.As1D()
	if err != nil {
		return err
	}
	ev.Samples = len(x)
	if values == nil || values.Len() != len(x) {
		return fmt.Errorf("%w: values for %d coordinates", function.ErrSizeMismatch, len(x))
	}
	return f.evaluate(x, values, &ev)
}

// FunctionDeriv writes the Jacobian of the model values into jacobian.
func (f *Function1D) FunctionDeriv(domain function.Domain, jacobian function.Jacobian) error {
	return f.EvaluateWithDerivative(domain, nil, jacobian, nil)
}

// EvaluateWithDerivative computes values and Jacobian in one recorded pass.
//
// values may be nil. scratch, when not nil, is resized and used for the dense
// parameter-major result instead of a fresh buffer. Nothing is written to
// values or jacobian unless the whole evaluation succeeds.
func (f *Function1D) EvaluateWithDerivative(domain function.Domain, values *function.Values,
	jacobian function.Jacobian, scratch *JacobianBuffer) (err error) {
	ev, start := f.begin(true)
	defer func() { f.finish(&ev, start, err) }()

	x, err := domain.As1D()
	if err != nil {
		return err
	}
	ev.Samples = len(x)
	return f.evaluateDeriv(x, len(x), values, jacobian, scratch, &ev)
}

// Compile-time checks.
var (
	_ function.Function = (*Function1D)(nil)
	_ function.Function = (*FunctionVector)(nil)
	_ function.Jacobian = (*JacobianBuffer)(nil)
	_ function.Sized    = (*JacobianBuffer)(nil)
)
