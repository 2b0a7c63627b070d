package function

import "fmt"

// Values holds the calculated values of one evaluation, plus the optional
// fit data and weights a fit compares them against.
type Values struct {
	calculated []float64
	data       []float64
	weights    []float64
}

// NewValues creates a zeroed value buffer of n entries.
func NewValues(n int) *Values {
	return &Values{calculated: make([]float64, n)}
}

// NewValuesFor creates a value buffer sized to the domain.
func NewValuesFor(d Domain) *Values {
	return NewValues(d.Size())
}

// Len returns the number of values.
func (v *Values) Len() int {
	return len(v.calculated)
}

// Calculated returns the calculated value at i.
func (v *Values) Calculated(i int) (float64, error) {
	if i < 0 || i >= len(v.calculated) {
		return 0, indexError("value", i, len(v.calculated))
	}
	return v.calculated[i], nil
}

// SetCalculated stores the calculated value at i.
func (v *Values) SetCalculated(i int, x float64) error {
	if i < 0 || i >= len(v.calculated) {
		return indexError("value", i, len(v.calculated))
	}
	v.calculated[i] = x
	return nil
}

// Slice returns the calculated values. The slice aliases the buffer.
func (v *Values) Slice() []float64 {
	return v.calculated
}

// AddValues adds other's calculated values element-wise.
func (v *Values) AddValues(other *Values) error {
	if other.Len() != v.Len() {
		return fmt.Errorf("%w: add %d values to %d", ErrSizeMismatch, other.Len(), v.Len())
	}
	for i, x := range other.calculated {
		v.calculated[i] += x
	}
	return nil
}

// SetFitData attaches observed data and weights. A nil weights slice means
// unit weights.
func (v *Values) SetFitData(data, weights []float64) error {
	if len(data) != v.Len() {
		return fmt.Errorf("%w: %d data points for %d values", ErrSizeMismatch, len(data), v.Len())
	}
	if weights == nil {
		weights = make([]float64, len(data))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != v.Len() {
		return fmt.Errorf("%w: %d weights for %d values", ErrSizeMismatch, len(weights), v.Len())
	}
	v.data = append(v.data[:0], data...)
	v.weights = append(v.weights[:0], weights...)
	return nil
}

// FitData returns the observed data, or nil if none was attached.
func (v *Values) FitData() []float64 {
	return v.data
}

// Weights returns the fit weights, or nil if no data was attached.
func (v *Values) Weights() []float64 {
	return v.weights
}
