package autofunc_test

import (
	"math"
	"testing"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/autofunc"
	"github.com/born-ml/curvefit/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moments maps coordinates to len(y) outputs: y[k] = A*Σx^k + B*k.
func moments[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	c, err := p.Resolve("A", "B")
	if err != nil {
		return err
	}
	for k := range y {
		var sum float64
		for _, xi := range x {
			sum += math.Pow(xi, float64(k))
		}
		y[k] = c[0].Scale(sum).Add(c[1].Scale(float64(k)))
	}
	return nil
}

func newMoments(t *testing.T) *autofunc.FunctionVector {
	t.Helper()
	f, err := autofunc.NewFunctionVector(autofunc.Model{
		Name:       "moments",
		Parameters: []autofunc.ParameterSpec{{Name: "A", Default: 2}, {Name: "B", Default: -1}},
		Value:      moments[autodiff.Float],
		AutoDiff:   moments[autodiff.Var],
	})
	require.NoError(t, err)
	return f
}

func TestFunctionVector_OutputCountFromValues(t *testing.T) {
	f := newMoments(t)
	d := function.NewDomain1D([]float64{1, 2, 3})

	v := function.NewValues(4)
	jac := function.NewDenseJacobian(4, 2)
	require.NoError(t, f.EvaluateWithDerivative(d, v, jac, nil))

	// Σx^k for k = 0..3: 3, 6, 14, 36
	sums := []float64{3, 6, 14, 36}
	for k, s := range sums {
		assert.Equal(t, 2*s-float64(k), v.Slice()[k])
		dA, _ := jac.Get(k, 0)
		dB, _ := jac.Get(k, 1)
		assert.Equal(t, s, dA)
		assert.Equal(t, float64(k), dB)
	}

	plain := function.NewValues(4)
	require.NoError(t, f.Function(d, plain))
	assert.Equal(t, v.Slice(), plain.Slice())
}

func TestFunctionVector_OutputCountFromJacobian(t *testing.T) {
	f := newMoments(t)
	d := function.NewDomain1D([]float64{1, 2, 3})

	jac := function.NewDenseJacobian(2, 2)
	require.NoError(t, f.FunctionDeriv(d, jac))
	dA, _ := jac.Get(1, 0)
	assert.Equal(t, 6.0, dA)

	// Without a sized output the coordinate count is used
	partial := &function.PartialJacobian{J: function.NewDenseJacobian(3, 4), Offset: 2}
	require.NoError(t, f.FunctionDeriv(d, partial))
	dA, _ = partial.Get(2, 0)
	assert.Equal(t, 14.0, dA)
}

func TestFunctionVector_ScalarDomain(t *testing.T) {
	f := newMoments(t)
	d := function.NewScalarDomain(5)

	v := function.NewValues(3)
	require.NoError(t, f.Function(d, v))
	assert.Equal(t, []float64{2, 10 - 1, 50 - 2}, v.Slice())
}

func TestFunctionVector_DomainRejection(t *testing.T) {
	f := newMoments(t)
	md, err := function.NewDomainMD(3, []float64{1, 2, 3})
	require.NoError(t, err)

	v := function.NewValues(2)
	assert.ErrorIs(t, f.Function(md, v), function.ErrInvalidDomainKind)
	assert.ErrorIs(t, f.FunctionDeriv(md, function.NewDenseJacobian(2, 2)), function.ErrInvalidDomainKind)
	assert.ErrorIs(t, f.Function(function.NewDomain1D([]float64{1}), nil), function.ErrSizeMismatch)
}

func TestFunctionVector_SizeMismatch(t *testing.T) {
	f := newMoments(t)
	d := function.NewDomain1D([]float64{1, 2, 3})

	err := f.EvaluateWithDerivative(d, function.NewValues(4), function.NewDenseJacobian(3, 2), nil)
	assert.ErrorIs(t, err, function.ErrSizeMismatch)
}
