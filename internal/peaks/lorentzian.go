package peaks

import (
	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/autofunc"
)

// lorentzian is h*s²/((x-x0)²+s²).
func lorentzian[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	c, err := p.Resolve("Centre", "Height", "Gamma")
	if err != nil {
		return err
	}
	x0, h, s := c[0], c[1], c[2]
	for i, xi := range x {
		diff := x0.Neg().Shift(xi)
		y[i] = h.Mul(s).Mul(s).Div(diff.Mul(diff).Add(s.Mul(s)))
	}
	return nil
}

// lorentzianForm evaluates the same formula with float64 arithmetic.
// Canonical order: Centre, Height, Gamma.
var lorentzianForm = &closedForm{
	name:     "Lorentzian",
	params:   []string{"Centre", "Height", "Gamma"},
	defaults: []float64{0, 1, 1},
	value: func(p []float64, x float64) float64 {
		x0, h, s := p[0], p[1], p[2]
		diff := x - x0
		return float64(h*s) * s / (float64(diff*diff) + float64(s*s))
	},
	deriv: func(p []float64, x float64, d []float64) {
		x0, h, s := p[0], p[1], p[2]
		diff := x - x0
		ssquared := s * s
		num := float64(diff*diff) + ssquared
		d[0] = 2 * h * ssquared * diff / (num * num)
		d[1] = ssquared / num
		d[2] = 2 * h * s / num * (1 - ssquared/num)
	},
}

// NewLorentzianAutoDiff creates a Lorentzian differentiated by the tape.
// Parameters: Centre, Height, Gamma.
func NewLorentzianAutoDiff() (*autofunc.Function1D, error) {
	return autofunc.NewFunction1D(autofunc.Model{
		Name: "LorentzianAutoDiff",
		Parameters: []autofunc.ParameterSpec{
			{Name: "Centre"},
			{Name: "Height", Default: 1},
			{Name: "Gamma", Default: 1},
		},
		Value:    lorentzian[autodiff.Float],
		AutoDiff: lorentzian[autodiff.Var],
	})
}

// NewLorentzianHandCoded creates a Lorentzian with analytic derivatives.
func NewLorentzianHandCoded() (*AnalyticPeak, error) {
	return newAnalytic(lorentzianForm, "LorentzianHandCoded", "Centre", "Height", "Gamma")
}

// NewLorentzianNumDiff creates a Lorentzian with finite-difference derivatives.
func NewLorentzianNumDiff() (*NumericPeak, error) {
	return newNumeric(lorentzianForm, "LorentzianNumDiff", "Centre", "Height", "Gamma")
}
