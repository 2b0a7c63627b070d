// Package function defines the host side of curve evaluation: domains, value
// buffers, Jacobians, named parameter stores, and the Function contract that
// fits and comparisons are written against.
package function

import "fmt"

// Function is a parameterized model a fit can evaluate and differentiate.
type Function interface {
	ParameterSource

	// Name identifies the model.
	Name() string
	// ParameterIndex resolves a parameter name.
	ParameterIndex(name string) (int, error)
	// SetParameter sets the value of parameter i.
	SetParameter(i int, v float64) error

	// Function writes the model values over domain into values.
	Function(domain Domain, values *Values) error
	// FunctionDeriv writes ∂value/∂parameter over domain into jacobian.
	FunctionDeriv(domain Domain, jacobian Jacobian) error
}

// ParameterValues returns a snapshot of every parameter of src.
func ParameterValues(src ParameterSource) []float64 {
	p := make([]float64, src.NParams())
	for i := range p {
		p[i] = src.Parameter(i)
	}
	return p
}

// ParameterNames returns the names of every parameter of src.
func ParameterNames(src ParameterSource) []string {
	names := make([]string, src.NParams())
	for i := range names {
		names[i] = src.ParameterName(i)
	}
	return names
}

// SetParameterValues sets every parameter of fn from p.
func SetParameterValues(fn Function, p []float64) error {
	if len(p) != fn.NParams() {
		return fmt.Errorf("%w: %d values for %d parameters", ErrSizeMismatch, len(p), fn.NParams())
	}
	for i, v := range p {
		if err := fn.SetParameter(i, v); err != nil {
			return err
		}
	}
	return nil
}

// SetParameterByName sets a parameter of fn by name.
func SetParameterByName(fn Function, name string, v float64) error {
	i, err := fn.ParameterIndex(name)
	if err != nil {
		return err
	}
	return fn.SetParameter(i, v)
}
