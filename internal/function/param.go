package function

import "fmt"

// ParameterSource is the read side of a parameter store: what an evaluation
// snapshots at the start of every call.
type ParameterSource interface {
	NParams() int
	Parameter(i int) float64
	ParameterName(i int) string
}

// ParamFunction is a mutable store of named, index-addressable parameters.
//
// Parameters are declared once, in order, and keep their index for the life of
// the store. Values are mutated between evaluations (by a fit or a user); the
// store is not synchronized, so mutation must not overlap with evaluation.
type ParamFunction struct {
	names  []string
	values []float64
	index  map[string]int
}

// DeclareParameter appends a parameter with a default value.
func (p *ParamFunction) DeclareParameter(name string, value float64) error {
	if _, ok := p.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, name)
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[name] = len(p.names)
	p.names = append(p.names, name)
	p.values = append(p.values, value)
	return nil
}

// NParams returns the number of declared parameters.
func (p *ParamFunction) NParams() int {
	return len(p.values)
}

// Parameter returns the value of parameter i. It panics if i is out of range,
// like a slice access.
func (p *ParamFunction) Parameter(i int) float64 {
	return p.values[i]
}

// ParameterName returns the name of parameter i. It panics if i is out of range.
func (p *ParamFunction) ParameterName(i int) string {
	return p.names[i]
}

// ParameterIndex returns the index of a named parameter.
func (p *ParamFunction) ParameterIndex(name string) (int, error) {
	i, ok := p.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return i, nil
}

// ParameterByName returns the value of a named parameter.
func (p *ParamFunction) ParameterByName(name string) (float64, error) {
	i, err := p.ParameterIndex(name)
	if err != nil {
		return 0, err
	}
	return p.values[i], nil
}

// SetParameter sets the value of parameter i.
func (p *ParamFunction) SetParameter(i int, v float64) error {
	if i < 0 || i >= len(p.values) {
		return indexError("parameter", i, len(p.values))
	}
	p.values[i] = v
	return nil
}

// SetParameterByName sets the value of a named parameter.
func (p *ParamFunction) SetParameterByName(name string, v float64) error {
	i, err := p.ParameterIndex(name)
	if err != nil {
		return err
	}
	p.values[i] = v
	return nil
}

// ParameterNames returns a copy of the declared names in index order.
func (p *ParamFunction) ParameterNames() []string {
	return append([]string(nil), p.names...)
}
