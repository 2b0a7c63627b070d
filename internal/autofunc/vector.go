package autofunc

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/function"
)

// FunctionVector evaluates a general vector-to-vector model: the number of
// outputs is set by the caller's buffers, not by the number of coordinates.
// Scalar domains are passed to the formula as a one-element vector.
type FunctionVector struct {
	core
}

// NewFunctionVector declares the model's parameters and returns the function.
func NewFunctionVector(m Model) (*FunctionVector, error) {
	c, err := newCore(m)
	if err != nil {
		return nil, err
	}
	return &FunctionVector{core: c}, nil
}

// Function writes values.Len() model outputs into values.
func (f *FunctionVector) Function(domain function.Domain, values *function.Values) (err error) {
	ev, start := f.begin(false)
	defer func() { f.finish(&ev, start, err) }()

	x, err := domain.AsVector()
	if err != nil {
		return err
	}
	if values == nil {
		return fmt.Errorf("%w: nil values", function.ErrSizeMismatch)
	}
	ev.Samples = values.Len()
	return f.evaluate(x, values, &ev)
}

// FunctionDeriv writes the Jacobian into jacobian. The number of outputs is
// the Jacobian's row count when it reports its size, the number of
// coordinates otherwise.
func (f *FunctionVector) FunctionDeriv(domain function.Domain, jacobian function.Jacobian) error {
	return f.EvaluateWithDerivative(domain, nil, jacobian, nil)
}

// EvaluateWithDerivative computes values and Jacobian in one recorded pass.
// The number of outputs is values.Len() when values is given.
func (f *FunctionVector) EvaluateWithDerivative(domain function.Domain, values *function.Values,
	jacobian function.Jacobian, scratch *JacobianBuffer) (err error) {
	ev, start := f.begin(true)
	defer func() { f.finish(&ev, start, err) }()

	x, err := domain.AsVector()
	if err != nil {
		return err
	}

	nOut := len(x)
	switch {
	case values != nil:
		nOut = values.Len()
	case jacobian != nil:
		if sized, ok := jacobian.(function.Sized); ok {
			nOut, _ = sized.Dims()
		}
	}
	ev.Samples = nOut
	return f.evaluateDeriv(x, nOut, values, jacobian, scratch, &ev)
}
