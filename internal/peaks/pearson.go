package peaks

import (
	"math"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/autofunc"
)

// pearsonVII is h*s^(2m) / ((x-x0)²(2^(1/m)-1) + s²)^m.
func pearsonVII[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	c, err := p.Resolve("Centre", "Height", "Gamma", "m")
	if err != nil {
		return err
	}
	x0, h, s, m := c[0], c[1], c[2], c[3]
	factor := m.Const(2).Pow(m.Const(1).Div(m)).Shift(-1)
	num := h.Mul(s.Pow(m.Scale(2)))
	for i, xi := range x {
		diff := x0.Neg().Shift(xi)
		y[i] = num.Div(diff.Mul(diff).Mul(factor).Add(s.Mul(s)).Pow(m))
	}
	return nil
}

// pearsonVIIForm evaluates the same formula with float64 arithmetic.
// Canonical order: Centre, Height, Gamma, m.
var pearsonVIIForm = &closedForm{
	name:     "PearsonVII",
	params:   []string{"Centre", "Height", "Gamma", "m"},
	defaults: []float64{0, 1, 1, 1},
	value: func(p []float64, x float64) float64 {
		x0, h, s, m := p[0], p[1], p[2], p[3]
		factor := math.Pow(2, 1/m) - 1
		diff := x - x0
		return float64(h*math.Pow(s, 2*m)) / math.Pow(float64(float64(diff*diff)*factor)+float64(s*s), m)
	},
	deriv: func(p []float64, x float64, d []float64) {
		x0, h, s, m := p[0], p[1], p[2], p[3]
		diff := x - x0
		ssquared := s * s
		factor := math.Pow(2, 1/m) - 1
		sraised := math.Pow(s, 2*m)
		factoredSquaredDiff := factor * diff * diff
		diffM := math.Pow(ssquared+factoredSquaredDiff, m)
		diffM1 := math.Pow(ssquared+factoredSquaredDiff, m+1)

		d[0] = 2 * (h * m * sraised * diff * factor) / diffM1
		d[1] = sraised / diffM
		d[2] = (2 * h * m) * (math.Pow(s, 2*m-1)/diffM - s*sraised/diffM1)
		d[3] = (2*h*sraised*math.Log(s))/diffM -
			h*sraised*(math.Log(ssquared+factoredSquaredDiff)/diffM-
				((factor+1)*math.Ln2*diff*diff)/(m*diffM1))
	},
}

// NewPearsonVIIAutoDiff creates a Pearson VII peak differentiated by the tape.
// Parameters: Centre, Height, Gamma, m.
func NewPearsonVIIAutoDiff() (*autofunc.Function1D, error) {
	return autofunc.NewFunction1D(autofunc.Model{
		Name: "PearsonVIIAutoDiff",
		Parameters: []autofunc.ParameterSpec{
			{Name: "Centre"},
			{Name: "Height", Default: 1},
			{Name: "Gamma", Default: 1},
			{Name: "m", Default: 1},
		},
		Value:    pearsonVII[autodiff.Float],
		AutoDiff: pearsonVII[autodiff.Var],
	})
}

// NewPearsonVIIHandCoded creates a Pearson VII peak with analytic derivatives.
func NewPearsonVIIHandCoded() (*AnalyticPeak, error) {
	return newAnalytic(pearsonVIIForm, "PearsonVIIHandCoded", "Centre", "Height", "Gamma", "m")
}

// NewPearsonVIINumDiff creates a Pearson VII peak with finite-difference derivatives.
func NewPearsonVIINumDiff() (*NumericPeak, error) {
	return newNumeric(pearsonVIIForm, "PearsonVIINumDiff", "Centre", "Height", "Gamma", "m")
}
