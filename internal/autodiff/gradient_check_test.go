package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/curvefit/internal/autodiff"
)

// numericalGradient computes the gradient using central finite differences.
// f: function of the full parameter vector.
// p: point at which to compute the gradient.
// i: parameter to perturb.
func numericalGradient(f func([]float64) float64, p []float64, i int, epsilon float64) float64 {
	q := append([]float64(nil), p...)
	q[i] = p[i] + epsilon
	fp := f(q)
	q[i] = p[i] - epsilon
	fm := f(q)
	return (fp - fm) / (2 * epsilon)
}

// gradientCase is a formula over a parameter vector, written once.
type gradientCase struct {
	name  string
	point []float64
	plain func([]autodiff.Float) autodiff.Float
	ad    func([]autodiff.Var) autodiff.Var
}

func formula[T autodiff.Scalar[T]](kind string) func([]T) T {
	switch kind {
	case "lorentzian":
		// h*s²/((x-x0)²+s²) at x = 0.3
		return func(p []T) T {
			d := p[0].Neg().Shift(0.3)
			s2 := p[2].Mul(p[2])
			return p[1].Mul(s2).Div(d.Mul(d).Add(s2))
		}
	case "pearson":
		// h*s^(2m)/((x-x0)²(2^(1/m)-1)+s²)^m at x = -0.2
		return func(p []T) T {
			d := p[0].Neg().Shift(-0.2)
			m := p[3]
			f := m.Const(2).Pow(m.Const(1).Div(m)).Shift(-1)
			denom := d.Mul(d).Mul(f).Add(p[2].Mul(p[2])).Pow(m)
			return p[1].Mul(p[2].Pow(m.Scale(2))).Div(denom)
		}
	default:
		// transcendental mix
		return func(p []T) T {
			a := p[0].Sin().Mul(p[1].Cos())
			b := p[2].Tanh().Add(p[0].Erf())
			c := p[1].Abs().Sqrt().Log()
			return a.Add(b).Sub(c)
		}
	}
}

func newCase(name string, point ...float64) gradientCase {
	return gradientCase{
		name:  name,
		point: point,
		plain: formula[autodiff.Float](name),
		ad:    formula[autodiff.Var](name),
	}
}

// TestGradientCheck compares tape gradients with finite differences.
func TestGradientCheck(t *testing.T) {
	cases := []gradientCase{
		newCase("lorentzian", 0.1, 2.0, 0.7),
		newCase("pearson", 0.1, 2.0, 0.7, 1.6),
		newCase("mixed", 0.4, -1.3, 0.9),
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tape := autodiff.NewGradientTape()
			tape.StartRecording()
			vars := make([]autodiff.Var, len(tc.point))
			for i, v := range tc.point {
				vars[i] = tape.NewVar(v)
			}
			y := tc.ad(vars)

			if err := tape.Independent(vars...); err != nil {
				t.Fatalf("Independent: %v", err)
			}
			if err := tape.Dependent(y); err != nil {
				t.Fatalf("Dependent: %v", err)
			}
			grad := make([]float64, len(vars))
			if err := tape.Jacobian(grad); err != nil {
				t.Fatalf("Jacobian: %v", err)
			}

			f := func(p []float64) float64 {
				cells := make([]autodiff.Float, len(p))
				for i, v := range p {
					cells[i] = autodiff.Float(v)
				}
				return tc.plain(cells).Value()
			}

			if got, want := y.Value(), f(tc.point); got != want {
				t.Errorf("value = %v, want %v", got, want)
			}
			for i := range tc.point {
				numerical := numericalGradient(f, tc.point, i, 1e-6)
				if math.Abs(grad[i]-numerical) > 1e-6*math.Max(1, math.Abs(numerical)) {
					t.Errorf("d/dp%d: autodiff %v, numerical %v", i, grad[i], numerical)
				}
			}
		})
	}
}
