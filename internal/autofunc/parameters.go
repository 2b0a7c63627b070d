package autofunc

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/function"
)

// Parameters is a per-call snapshot of a host parameter store as numeric cells,
// addressable by position or by name.
//
// It is built at the start of every evaluation and never writes back to the
// host. The name→index map is the authoritative way to address parameters:
// models of the same shape may declare them in different orders.
type Parameters[T autodiff.Scalar[T]] struct {
	cells []T
	names []string
	index map[string]int
}

// newParameters snapshots src, creating one cell per parameter with cell.
func newParameters[T autodiff.Scalar[T]](src function.ParameterSource, cell func(float64) T) (*Parameters[T], error) {
	if function.IsNil(src) {
		return nil, fmt.Errorf("parameters: %w", function.ErrNilFunction)
	}
	n := src.NParams()
	p := &Parameters[T]{
		cells: make([]T, n),
		names: make([]string, n),
		index: make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		p.cells[i] = cell(src.Parameter(i))
		p.names[i] = src.ParameterName(i)
		p.index[p.names[i]] = i
	}
	return p, nil
}

// NewFloatParameters snapshots src as plain cells.
func NewFloatParameters(src function.ParameterSource) (*Parameters[autodiff.Float], error) {
	return newParameters(src, func(v float64) autodiff.Float { return autodiff.Float(v) })
}

// NewVarParameters snapshots src as leaves of tape, ready to be declared as
// the independent set.
func NewVarParameters(src function.ParameterSource, tape *autodiff.GradientTape) (*Parameters[autodiff.Var], error) {
	return newParameters(src, tape.NewVar)
}

// Size returns the number of parameters.
func (p *Parameters[T]) Size() int {
	return len(p.cells)
}

// Get returns the cell of parameter i.
func (p *Parameters[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(p.cells) {
		var zero T
		return zero, fmt.Errorf("%w: parameter %d not in [0, %d)", function.ErrIndexOutOfRange, i, len(p.cells))
	}
	return p.cells[i], nil
}

// GetByName returns the cell of a named parameter.
func (p *Parameters[T]) GetByName(name string) (T, error) {
	i, ok := p.index[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", function.ErrParameterNotFound, name)
	}
	return p.cells[i], nil
}

// Resolve returns the cells of several named parameters, in argument order.
func (p *Parameters[T]) Resolve(names ...string) ([]T, error) {
	out := make([]T, len(names))
	for k, name := range names {
		c, err := p.GetByName(name)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

// Names returns the parameter names in index order.
func (p *Parameters[T]) Names() []string {
	return append([]string(nil), p.names...)
}

// Cells returns the cells in index order. The slice must not be modified.
func (p *Parameters[T]) Cells() []T {
	return p.cells
}
