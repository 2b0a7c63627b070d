// Package autofunc turns a single model formula into a fit function whose
// Jacobian is computed by automatic differentiation.
//
// A model author writes the formula once, generic over the cell type, and
// passes its two instantiations in a Model:
//
//	func gauss[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
//		c, err := p.Resolve("Height", "PeakCentre", "Sigma")
//		if err != nil {
//			return err
//		}
//		for i, xi := range x {
//			z := c[1].Neg().Shift(xi).Div(c[2])
//			y[i] = c[0].Mul(z.Mul(z).Scale(-0.5).Exp())
//		}
//		return nil
//	}
//
//	fn, err := autofunc.NewFunction1D(autofunc.Model{
//		Name:       "Gaussian",
//		Parameters: []autofunc.ParameterSpec{{Name: "Height"}, {Name: "PeakCentre"}, {Name: "Sigma", Default: 1}},
//		Value:      gauss[autodiff.Float],
//		AutoDiff:   gauss[autodiff.Var],
//	})
//
// Every evaluation builds its own tape and parameter snapshot, so one function
// can be evaluated from several goroutines as long as nobody changes its
// parameters meanwhile.
package autofunc

import (
	"errors"
	"fmt"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/function"
)

// ErrNilFormula indicates a Model without an AutoDiff formula.
var ErrNilFormula = errors.New("autofunc: model has no autodiff formula")

// Formula computes one output cell per entry of y from the coordinates x and
// the parameter snapshot p. y arrives zeroed and sized by the caller.
type Formula[T autodiff.Scalar[T]] func(x []float64, y []T, p *Parameters[T]) error

// ParameterSpec declares one model parameter.
type ParameterSpec struct {
	Name    string
	Default float64
}

// Model bundles the two instantiations of one formula with its parameters.
type Model struct {
	Name       string
	Parameters []ParameterSpec

	// Value is the plain instantiation. When nil, value-only evaluation runs
	// AutoDiff on a paused tape.
	Value Formula[autodiff.Float]
	// AutoDiff is the tracked instantiation. Required.
	AutoDiff Formula[autodiff.Var]
}

// core holds what both function variants share: the parameter store and the
// tape lifecycle.
type core struct {
	function.ParamFunction

	model    Model
	observer Observer
}

func newCore(m Model) (core, error) {
	c := core{model: m}
	if m.AutoDiff == nil {
		return c, fmt.Errorf("%s: %w", m.Name, ErrNilFormula)
	}
	for _, spec := range m.Parameters {
		if err := c.DeclareParameter(spec.Name, spec.Default); err != nil {
			return c, fmt.Errorf("%s: %w", m.Name, err)
		}
	}
	return c, nil
}

// Name returns the model name.
func (c *core) Name() string {
	return c.model.Name
}

// SetObserver installs an observer notified after every evaluation.
// The observer must be safe for concurrent use if the function is.
func (c *core) SetObserver(o Observer) {
	c.observer = o
}

// values runs the value path: no recording, plain cells when available.
func (c *core) values(x []float64, nOut int, ev *Evaluation) ([]float64, error) {
	out := make([]float64, nOut)
	ev.Parameters = c.NParams()

	if c.model.Value != nil {
		p, err := NewFloatParameters(&c.ParamFunction)
		if err != nil {
			return nil, err
		}
		y := make([]autodiff.Float, nOut)
		if err := c.model.Value(x, y, p); err != nil {
			return nil, err
		}
		for i := range y {
			out[i] = y[i].Value()
		}
		return out, nil
	}

	tape := autodiff.NewGradientTape() // paused
	p, err := NewVarParameters(&c.ParamFunction, tape)
	if err != nil {
		return nil, err
	}
	y := make([]autodiff.Var, nOut)
	if err := c.model.AutoDiff(x, y, p); err != nil {
		return nil, err
	}
	for i := range y {
		out[i] = y[i].Value()
	}
	return out, nil
}

// derivative runs the recording path and leaves the Jacobian in buf.
func (c *core) derivative(x []float64, nOut int, buf *JacobianBuffer, ev *Evaluation) ([]float64, error) {
	ev.Parameters = c.NParams()

	tape := autodiff.NewGradientTape()
	p, err := NewVarParameters(&c.ParamFunction, tape)
	if err != nil {
		return nil, err
	}
	tape.StartRecording()
	y := make([]autodiff.Var, nOut)
	if err := c.model.AutoDiff(x, y, p); err != nil {
		return nil, err
	}
	tape.StopRecording()
	ev.TapeOps = tape.NumOps()

	if err := tape.Independent(p.Cells()...); err != nil {
		return nil, err
	}
	if err := tape.Dependent(y...); err != nil {
		return nil, err
	}
	buf.SetSize(p.Size(), nOut)
	if err := tape.Jacobian(buf.Raw()); err != nil {
		return nil, err
	}

	out := make([]float64, nOut)
	for i := range y {
		out[i] = y[i].Value()
	}
	return out, nil
}

// evaluate writes values after a successful value-path run.
func (c *core) evaluate(x []float64, values *function.Values, ev *Evaluation) error {
	out, err := c.values(x, values.Len(), ev)
	if err != nil {
		return err
	}
	copy(values.Slice(), out)
	return nil
}

// evaluateDeriv validates the outputs, runs the recording path and only then
// writes values (optional) and the Jacobian.
func (c *core) evaluateDeriv(x []float64, nOut int, values *function.Values, jacobian function.Jacobian,
	scratch *JacobianBuffer, ev *Evaluation) error {
	if jacobian == nil {
		return fmt.Errorf("%w: nil jacobian", function.ErrSizeMismatch)
	}
	if values != nil && values.Len() != nOut {
		return fmt.Errorf("%w: %d values for %d outputs", function.ErrSizeMismatch, values.Len(), nOut)
	}
	if sized, ok := jacobian.(function.Sized); ok {
		rows, cols := sized.Dims()
		if rows != nOut || cols != c.NParams() {
			return fmt.Errorf("%w: jacobian is %d×%d, want %d×%d",
				function.ErrSizeMismatch, rows, cols, nOut, c.NParams())
		}
	}

	buf := scratch
	if buf == nil {
		buf = &JacobianBuffer{}
	}
	out, err := c.derivative(x, nOut, buf, ev)
	if err != nil {
		return err
	}

	if values != nil {
		copy(values.Slice(), out)
	}
	if jb, ok := jacobian.(*JacobianBuffer); ok && jb == buf {
		return nil
	}
	return buf.CopyInto(jacobian)
}
