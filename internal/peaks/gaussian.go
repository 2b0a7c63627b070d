package peaks

import (
	"math"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/autofunc"
)

// gaussian is h*exp(-0.5*((x-c)/s)²).
func gaussian[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	c, err := p.Resolve("Height", "PeakCentre", "Sigma")
	if err != nil {
		return err
	}
	height, centre, sigma := c[0], c[1], c[2]
	for i, xi := range x {
		z := centre.Neg().Shift(xi).Div(sigma)
		y[i] = height.Mul(z.Mul(z).Scale(-0.5).Exp())
	}
	return nil
}

// gaussianForm evaluates the same formula with float64 arithmetic.
// Canonical order: Height, PeakCentre, Sigma.
var gaussianForm = &closedForm{
	name:     "Gaussian",
	params:   []string{"Height", "PeakCentre", "Sigma"},
	defaults: []float64{1, 0, 1},
	value: func(p []float64, x float64) float64 {
		term := (x - p[1]) / p[2]
		return p[0] * math.Exp(-0.5*float64(term*term))
	},
	deriv: func(p []float64, x float64, d []float64) {
		height, centre, sigma := p[0], p[1], p[2]
		xDiff := x - centre
		term := xDiff / sigma
		expTerm := math.Exp(-0.5 * float64(term*term))
		d[0] = expTerm
		d[1] = (height * expTerm * xDiff) / (sigma * sigma)
		d[2] = (height * expTerm * term * term) / sigma
	},
}

// NewGaussianAutoDiff creates a Gaussian differentiated by the tape.
// Parameters: Height, PeakCentre, Sigma.
func NewGaussianAutoDiff() (*autofunc.Function1D, error) {
	return autofunc.NewFunction1D(autofunc.Model{
		Name: "GaussianAutoDiff",
		Parameters: []autofunc.ParameterSpec{
			{Name: "Height", Default: 1},
			{Name: "PeakCentre"},
			{Name: "Sigma", Default: 1},
		},
		Value:    gaussian[autodiff.Float],
		AutoDiff: gaussian[autodiff.Var],
	})
}

// NewGaussianHandCoded creates a Gaussian with analytic derivatives.
// Parameters: PeakCentre, Height, Sigma.
func NewGaussianHandCoded() (*AnalyticPeak, error) {
	return newAnalytic(gaussianForm, "GaussianHandCoded", "PeakCentre", "Height", "Sigma")
}

// NewGaussianNumDiff creates a Gaussian with finite-difference derivatives.
// Parameters: Height, PeakCentre, Sigma.
func NewGaussianNumDiff() (*NumericPeak, error) {
	return newNumeric(gaussianForm, "GaussianNumDiff", "Height", "PeakCentre", "Sigma")
}
