package autofunc_test

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/born-ml/curvefit/internal/autodiff"
	"github.com/born-ml/curvefit/internal/autofunc"
	"github.com/born-ml/curvefit/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gauss is h*exp(-0.5*((x-c)/s)²) with parameters addressed by position:
// 0 = Height, 1 = Sigma, 2 = Centre.
func gauss[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	cells := p.Cells()
	if len(cells) != 3 {
		return errors.New("gauss needs 3 parameters")
	}
	h, s, c := cells[0], cells[1], cells[2]
	for i, xi := range x {
		z := c.Neg().Shift(xi).Div(s)
		y[i] = h.Mul(z.Mul(z).Scale(-0.5).Exp())
	}
	return nil
}

func gaussModel() autofunc.Model {
	return autofunc.Model{
		Name: "AutoGauss",
		Parameters: []autofunc.ParameterSpec{
			{Name: "Height", Default: 1},
			{Name: "Sigma", Default: 1},
			{Name: "Centre"},
		},
		Value:    gauss[autodiff.Float],
		AutoDiff: gauss[autodiff.Var],
	}
}

func newGauss(t testing.TB, h, s, c float64) *autofunc.Function1D {
	t.Helper()
	f, err := autofunc.NewFunction1D(gaussModel())
	require.NoError(t, err)
	require.NoError(t, function.SetParameterByName(f, "Height", h))
	require.NoError(t, function.SetParameterByName(f, "Sigma", s))
	require.NoError(t, function.SetParameterByName(f, "Centre", c))
	return f
}

func span(t testing.TB, n int) function.Domain {
	t.Helper()
	d, err := function.NewDomain1DSpan(-2, 2, n)
	require.NoError(t, err)
	return d
}

// Closed-form reference values for Height=1, Sigma=1, Centre=0 over 101 points in [-2, 2].
var (
	refValues = []float64{
		0.135335283236613, 0.146489723462366, 0.158310022621939, 0.170810589523065,
		0.184003591967720, 0.197898699083615, 0.212502824275022, 0.227819871398009,
		0.243850486926525, 0.260591821012689, 0.278037300453194, 0.296176416650267,
	}
	refDfds = []float64{
		0.541341132946451, 0.562754921653024, 0.583594067393515, 0.603712947610321,
		0.622962560965912, 0.641191785030912, 0.658248748474308, 0.673982307543870,
		0.688243614301423, 0.700887761795729, 0.711775489160177, 0.720774927560089,
	}
	refDfdc = []float64{
		-0.270670566473225, -0.287119857986237, -0.303955243434122, -0.321123908303362,
		-0.338566609220604, -0.356217658350506, -0.374004970724039, -0.391850178804576,
		-0.409668818036561, -0.427370586460810, -0.444859680725111, -0.462035209974416,
	}
)

func TestFunction1D_Values(t *testing.T) {
	f := newGauss(t, 1, 1, 0)
	d := span(t, 101)
	v := function.NewValuesFor(d)

	require.NoError(t, f.Function(d, v))
	for i, want := range refValues {
		assert.InDelta(t, want, v.Slice()[i], 1e-15, "value %d", i)
	}
}

func TestFunction1D_Derivative(t *testing.T) {
	d := span(t, 101)

	// Two independently constructed instances must agree exactly
	var results [2]*autofunc.JacobianBuffer
	for k := range results {
		f := newGauss(t, 1, 1, 0)
		jac := autofunc.NewJacobianBuffer(3, d.Size())
		require.NoError(t, f.FunctionDeriv(d, jac))

		for i := range refValues {
			dh, _ := jac.Get(i, 0)
			ds, _ := jac.Get(i, 1)
			dc, _ := jac.Get(i, 2)
			assert.InDelta(t, refValues[i], dh, 1e-15, "dfdh %d", i)
			assert.InDelta(t, refDfds[i], ds, 1e-15, "dfds %d", i)
			assert.InDelta(t, refDfdc[i], dc, 1e-15, "dfdc %d", i)
		}
		results[k] = jac
	}
	assert.Equal(t, results[0].Raw(), results[1].Raw())
}

func TestFunction1D_ValueDerivativeEquivalence(t *testing.T) {
	d := span(t, 101)
	f := newGauss(t, 224.52, 0.37, 0.21)

	plain := function.NewValuesFor(d)
	require.NoError(t, f.Function(d, plain))

	withDeriv := function.NewValuesFor(d)
	require.NoError(t, f.EvaluateWithDerivative(d, withDeriv, function.NewDenseJacobian(d.Size(), 3), nil))
	assert.Equal(t, plain.Slice(), withDeriv.Slice())

	// Without a plain instantiation the value path replays the tracked formula paused
	m := gaussModel()
	m.Value = nil
	g, err := autofunc.NewFunction1D(m)
	require.NoError(t, err)
	require.NoError(t, function.SetParameterValues(g, function.ParameterValues(f)))
	paused := function.NewValuesFor(d)
	require.NoError(t, g.Function(d, paused))
	assert.Equal(t, plain.Slice(), paused.Slice())
}

func TestFunction1D_MatchesAnalytic(t *testing.T) {
	d := span(t, 41)
	h, s, c := 3.5, 0.8, -0.3
	f := newGauss(t, h, s, c)

	jac := function.NewDenseJacobian(d.Size(), 3)
	require.NoError(t, f.FunctionDeriv(d, jac))

	x, _ := d.As1D()
	for i, xi := range x {
		z := (xi - c) / s
		e := math.Exp(-0.5 * z * z)
		want := []float64{e, h * e * z * z / s, h * e * z / s}
		for iP, w := range want {
			got, _ := jac.Get(i, iP)
			assert.InDelta(t, w, got, 1e-12, "sample %d parameter %d", i, iP)
		}
	}
}

func TestFunction1D_DomainRejection(t *testing.T) {
	f := newGauss(t, 1, 1, 0)
	md, err := function.NewDomainMD(2, []float64{0, 1, 2, 3})
	require.NoError(t, err)

	v := function.NewValues(2)
	require.NoError(t, v.SetCalculated(0, 42))
	err = f.Function(md, v)
	assert.ErrorIs(t, err, function.ErrInvalidDomainKind)
	var kindErr *function.DomainKindError
	assert.ErrorAs(t, err, &kindErr)

	jac := autofunc.NewJacobianBuffer(3, 2)
	require.NoError(t, jac.Set(0, 0, 42))
	err = f.EvaluateWithDerivative(md, v, jac, nil)
	assert.ErrorIs(t, err, function.ErrInvalidDomainKind)

	// No partial writes
	assert.Equal(t, 42.0, v.Slice()[0])
	got, _ := jac.Get(0, 0)
	assert.Equal(t, 42.0, got)

	assert.ErrorIs(t, f.FunctionDeriv(function.NewScalarDomain(0), jac), function.ErrInvalidDomainKind)
}

func TestFunction1D_SizeMismatch(t *testing.T) {
	f := newGauss(t, 1, 1, 0)
	d := span(t, 5)

	assert.ErrorIs(t, f.Function(d, function.NewValues(4)), function.ErrSizeMismatch)
	assert.ErrorIs(t, f.Function(d, nil), function.ErrSizeMismatch)
	assert.ErrorIs(t, f.FunctionDeriv(d, function.NewDenseJacobian(5, 2)), function.ErrSizeMismatch)
	assert.ErrorIs(t, f.FunctionDeriv(d, nil), function.ErrSizeMismatch)
	assert.ErrorIs(t,
		f.EvaluateWithDerivative(d, function.NewValues(3), function.NewDenseJacobian(5, 3), nil),
		function.ErrSizeMismatch)
}

func TestFunction1D_FormulaErrorNoPartialWrites(t *testing.T) {
	errFormula := errors.New("formula failed")
	fail := func(x []float64, y []autodiff.Var, p *autofunc.Parameters[autodiff.Var]) error {
		for i := range y {
			y[i] = y[i].Const(1)
		}
		return errFormula
	}
	f, err := autofunc.NewFunction1D(autofunc.Model{
		Name:       "failing",
		Parameters: []autofunc.ParameterSpec{{Name: "A"}},
		AutoDiff:   fail,
	})
	require.NoError(t, err)

	d := span(t, 3)
	v := function.NewValues(3)
	jac := function.NewDenseJacobian(3, 1)
	require.NoError(t, jac.Set(1, 0, 7))

	assert.ErrorIs(t, f.EvaluateWithDerivative(d, v, jac, nil), errFormula)
	assert.ErrorIs(t, f.Function(d, v), errFormula)
	assert.Equal(t, []float64{0, 0, 0}, v.Slice())
	got, _ := jac.Get(1, 0)
	assert.Equal(t, 7.0, got)
}

func TestFunction1D_ScratchBuffer(t *testing.T) {
	f := newGauss(t, 1, 1, 0)
	scratch := autofunc.NewJacobianBuffer(1, 1)

	for _, n := range []int{11, 5} {
		d := span(t, n)
		jac := function.NewDenseJacobian(n, 3)
		require.NoError(t, f.EvaluateWithDerivative(d, nil, jac, scratch))

		rows, cols := scratch.Dims()
		assert.Equal(t, n, rows)
		assert.Equal(t, 3, cols)
		for iY := 0; iY < n; iY++ {
			for iP := 0; iP < 3; iP++ {
				want, _ := scratch.Get(iY, iP)
				got, _ := jac.Get(iY, iP)
				assert.Equal(t, want, got)
			}
		}
	}

	// The scratch buffer can also be the output
	d := span(t, 5)
	require.NoError(t, f.EvaluateWithDerivative(d, nil, scratch, scratch))
	dh, _ := scratch.Get(0, 0)
	assert.InDelta(t, refValues[0], dh, 1e-15)
}

func TestFunction1D_ZeroParameters(t *testing.T) {
	constant := func(x []float64, y []autodiff.Var, _ *autofunc.Parameters[autodiff.Var]) error {
		for i, xi := range x {
			y[i] = y[i].Const(xi * 2)
		}
		return nil
	}
	f, err := autofunc.NewFunction1D(autofunc.Model{Name: "constant", AutoDiff: constant})
	require.NoError(t, err)

	d := span(t, 3)
	v := function.NewValues(3)
	require.NoError(t, f.EvaluateWithDerivative(d, v, autofunc.NewJacobianBuffer(0, 3), nil))
	assert.Equal(t, []float64{-4, 0, 4}, v.Slice())
}

func TestNewFunction1D_Errors(t *testing.T) {
	_, err := autofunc.NewFunction1D(autofunc.Model{Name: "empty"})
	assert.ErrorIs(t, err, autofunc.ErrNilFormula)

	m := gaussModel()
	m.Parameters = append(m.Parameters, autofunc.ParameterSpec{Name: "Sigma"})
	_, err = autofunc.NewFunction1D(m)
	assert.ErrorIs(t, err, function.ErrDuplicateParameter)
}

func TestFunction1D_Observer(t *testing.T) {
	f := newGauss(t, 1, 1, 0)
	var got []autofunc.Evaluation
	f.SetObserver(autofunc.ObserverFunc(func(ev autofunc.Evaluation) {
		got = append(got, ev)
	}))

	d := span(t, 7)
	require.NoError(t, f.Function(d, function.NewValuesFor(d)))
	require.NoError(t, f.FunctionDeriv(d, function.NewDenseJacobian(7, 3)))
	_ = f.Function(d, function.NewValues(1))

	require.Len(t, got, 3)
	assert.Equal(t, "AutoGauss", got[0].Function)
	assert.False(t, got[0].Derivative)
	assert.Equal(t, 7, got[0].Samples)
	assert.Zero(t, got[0].TapeOps)

	assert.True(t, got[1].Derivative)
	assert.Equal(t, 3, got[1].Parameters)
	assert.Positive(t, got[1].TapeOps)
	assert.NoError(t, got[1].Err)

	assert.ErrorIs(t, got[2].Err, function.ErrSizeMismatch)
}

func TestAttach_Composite(t *testing.T) {
	a, b := newGauss(t, 1, 1, 0), newGauss(t, 2, 1, 1)
	c, err := function.NewComposite(a, b)
	require.NoError(t, err)

	var count atomic.Int32
	obs := autofunc.ObserverFunc(func(autofunc.Evaluation) { count.Add(1) })
	assert.Equal(t, 2, autofunc.Attach(c, obs))

	d := span(t, 5)
	require.NoError(t, c.Function(d, function.NewValuesFor(d)))
	assert.Equal(t, int32(2), count.Load())

	assert.Equal(t, 1, autofunc.Attach(a, obs))
}

func TestFunction1D_Concurrent(t *testing.T) {
	d := span(t, 201)
	shared := newGauss(t, 2, 0.7, 0.1)

	want := autofunc.NewJacobianBuffer(3, d.Size())
	require.NoError(t, shared.FunctionDeriv(d, want))

	// Even workers share one instance, odd workers own theirs
	funcs := make([]*autofunc.Function1D, 8)
	for g := range funcs {
		funcs[g] = shared
		if g%2 == 1 {
			funcs[g] = newGauss(t, 2, 0.7, 0.1)
		}
	}

	var wg sync.WaitGroup
	var mismatches atomic.Int32
	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 20; k++ {
				jac := autofunc.NewJacobianBuffer(3, d.Size())
				if err := f.FunctionDeriv(d, jac); err != nil {
					mismatches.Add(1)
					return
				}
				for i, v := range jac.Raw() {
					if v != want.Raw()[i] {
						mismatches.Add(1)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, mismatches.Load())
}

// refDfdh holds dfdh at the first 12 of 501 points in [-2, 2] for sigma = 1, 2, 3.
var refDfdh = [3][]float64{
	{
		0.135335283236613, 0.137513662936659, 0.139718163957622, 0.141948920625269,
		0.144206064333246, 0.146489723462366, 0.148800023299574, 0.151137085956631,
		0.153501030288533, 0.155891971811695, 0.158310022621939, 0.160755291312287,
	},
	{
		0.606530659712633, 0.608956769399255, 0.611382801269737, 0.613808677227026,
		0.616234318871067, 0.618659647502622, 0.621084584127140, 0.623509049458657,
		0.625932963923738, 0.628356247665460, 0.630778820547428, 0.633200602157834,
	},
	{
		0.800737402916808, 0.802159350063333, 0.803578107945926, 0.804993650728161,
		0.806405952596652, 0.807814987761839, 0.809220730458753, 0.810623154947802,
		0.812022235515541, 0.813417946475454, 0.814810262168729, 0.816199156965039,
	},
}

// TestFunction1D_PerformanceGuard repeats value+derivative evaluation and
// fails on an accidental blow-up in tape handling.
func TestFunction1D_PerformanceGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance guard in short mode")
	}
	const budget = 30 * time.Second

	f, err := autofunc.NewFunction1D(gaussModel())
	require.NoError(t, err)
	d := span(t, 501)
	scratch := &autofunc.JacobianBuffer{}

	start := time.Now()
	for j := 0; j < 32; j++ {
		curr := j % 3
		require.NoError(t, function.SetParameterValues(f, []float64{1, float64(curr + 1), 0}))

		for i := 0; i < 40; i++ {
			v := function.NewValuesFor(d)
			jac := autofunc.NewJacobianBuffer(3, d.Size())
			require.NoError(t, f.Function(d, v))
			require.NoError(t, f.EvaluateWithDerivative(d, nil, jac, scratch))

			for k, want := range refDfdh[curr] {
				got, _ := jac.Get(k, 0)
				if math.Abs(got-want) > 1e-15 {
					t.Fatalf("sigma %d: dfdh[%d] = %.17g, want %.15g", curr+1, k, got, want)
				}
			}
		}
	}
	elapsed := time.Since(start)
	t.Logf("1280 evaluations of 501 points in %v", elapsed)
	assert.Less(t, elapsed, budget)
}

func BenchmarkFunction1D_Function(b *testing.B) {
	f := newGauss(b, 1, 1, 0)
	d := span(b, 501)
	v := function.NewValuesFor(d)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Function(d, v)
	}
}

func BenchmarkFunction1D_EvaluateWithDerivative(b *testing.B) {
	f := newGauss(b, 1, 1, 0)
	d := span(b, 501)
	v := function.NewValuesFor(d)
	jac := function.NewDenseJacobian(d.Size(), 3)
	scratch := &autofunc.JacobianBuffer{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.EvaluateWithDerivative(d, v, jac, scratch)
	}
}
