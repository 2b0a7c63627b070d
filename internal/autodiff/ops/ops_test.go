package ops_test

import (
	"math"
	"testing"

	"github.com/born-ml/curvefit/internal/autodiff/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	epsilonGrad = 1e-6
	tolerance   = 1e-7
)

// numericalDerivative computes df/dx using central differences.
func numericalDerivative(f func(float64) float64, x float64) float64 {
	return (f(x+epsilonGrad) - f(x-epsilonGrad)) / (2 * epsilonGrad)
}

func tracked(slot int32, v float64) ops.Operand {
	return ops.Operand{Slot: slot, Value: v}
}

func constant(v float64) ops.Operand {
	return ops.Operand{Slot: ops.NoSlot, Value: v}
}

// TestUnaryOps_Partials checks every unary partial rule against finite differences.
func TestUnaryOps_Partials(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		op   func(x ops.Operand) ops.Operation
		x    float64
	}{
		{"exp", math.Exp, func(x ops.Operand) ops.Operation { return ops.NewExpOp(1, x, math.Exp(x.Value)) }, 0.7},
		{"log", math.Log, func(x ops.Operand) ops.Operation { return ops.NewLogOp(1, x) }, 2.5},
		{"sqrt", math.Sqrt, func(x ops.Operand) ops.Operation { return ops.NewSqrtOp(1, x, math.Sqrt(x.Value)) }, 3.0},
		{"sin", math.Sin, func(x ops.Operand) ops.Operation { return ops.NewSinOp(1, x) }, 0.4},
		{"cos", math.Cos, func(x ops.Operand) ops.Operation { return ops.NewCosOp(1, x) }, 0.4},
		{"tanh", math.Tanh, func(x ops.Operand) ops.Operation { return ops.NewTanhOp(1, x, math.Tanh(x.Value)) }, -0.3},
		{"erf", math.Erf, func(x ops.Operand) ops.Operation { return ops.NewErfOp(1, x) }, 0.9},
		{"abs", math.Abs, func(x ops.Operand) ops.Operation { return ops.NewAbsOp(1, x) }, -1.2},
		{"neg", func(x float64) float64 { return -x }, func(x ops.Operand) ops.Operation { return ops.NewNegOp(1, x) }, 1.5},
		{"scale", func(x float64) float64 { return 3.5 * x }, func(x ops.Operand) ops.Operation { return ops.NewScaleOp(1, x, 3.5) }, 1.5},
		{"shift", func(x float64) float64 { return x + 4 }, func(x ops.Operand) ops.Operation { return ops.NewShiftOp(1, x) }, 1.5},
		{"powf", func(x float64) float64 { return math.Pow(x, 2.5) }, func(x ops.Operand) ops.Operation { return ops.NewPowfOp(1, x, 2.5) }, 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op(tracked(0, tt.x))
			require.Len(t, op.Partials(), 1)
			assert.InDelta(t, numericalDerivative(tt.f, tt.x), op.Partials()[0], tolerance)
		})
	}
}

// TestBinaryOps_Partials checks binary partial rules for both operands.
func TestBinaryOps_Partials(t *testing.T) {
	a, b := 1.3, 0.6
	tests := []struct {
		name string
		f    func(a, b float64) float64
		op   func(a, b ops.Operand) ops.Operation
	}{
		{"add", func(a, b float64) float64 { return a + b }, func(a, b ops.Operand) ops.Operation { return ops.NewAddOp(2, a, b) }},
		{"sub", func(a, b float64) float64 { return a - b }, func(a, b ops.Operand) ops.Operation { return ops.NewSubOp(2, a, b) }},
		{"mul", func(a, b float64) float64 { return a * b }, func(a, b ops.Operand) ops.Operation { return ops.NewMulOp(2, a, b) }},
		{"div", func(a, b float64) float64 { return a / b }, func(a, b ops.Operand) ops.Operation {
			return ops.NewDivOp(2, a, b, a.Value/b.Value)
		}},
		{"pow", math.Pow, func(a, b ops.Operand) ops.Operation {
			return ops.NewPowOp(2, a, b, math.Pow(a.Value, b.Value))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op(tracked(0, a), tracked(1, b))
			require.Equal(t, []int32{0, 1}, op.Inputs())

			da := numericalDerivative(func(x float64) float64 { return tt.f(x, b) }, a)
			db := numericalDerivative(func(x float64) float64 { return tt.f(a, x) }, b)
			assert.InDelta(t, da, op.Partials()[0], tolerance)
			assert.InDelta(t, db, op.Partials()[1], tolerance)
		})
	}
}

// TestOperation_DropsUntrackedInputs tests that constants never become inputs.
func TestOperation_DropsUntrackedInputs(t *testing.T) {
	op := ops.NewMulOp(3, constant(2), tracked(1, 5))
	assert.Equal(t, int32(3), op.Output())
	assert.Equal(t, []int32{1}, op.Inputs())
	assert.Equal(t, []float64{2}, op.Partials())

	none := ops.NewAddOp(4, constant(1), constant(2))
	assert.Empty(t, none.Inputs())
}

// TestOperation_ForwardBackward tests tangent and adjoint propagation.
func TestOperation_ForwardBackward(t *testing.T) {
	// out(2) = a(0) * b(1) with a = 3, b = 4
	op := ops.NewMulOp(2, tracked(0, 3), tracked(1, 4))

	tangents := []float64{1, 0, 0}
	op.Forward(tangents)
	assert.Equal(t, 4.0, tangents[2], "d(ab)/da = b")

	adjoints := []float64{0.5, 0, 2}
	op.Backward(adjoints)
	assert.Equal(t, 0.5+2*4.0, adjoints[0], "adjoints accumulate")
	assert.Equal(t, 2*3.0, adjoints[1])
}

// TestOperation_BackwardSkipsZeroAdjoint tests that unused branches do not produce NaN.
func TestOperation_BackwardSkipsZeroAdjoint(t *testing.T) {
	op := ops.NewLogOp(1, tracked(0, 0)) // partial = +Inf
	adjoints := []float64{0, 0}
	op.Backward(adjoints)
	assert.Equal(t, 0.0, adjoints[0])
}

// TestOperation_ForwardSkipsZeroTangent tests that an untouched input does not produce NaN.
func TestOperation_ForwardSkipsZeroTangent(t *testing.T) {
	op := ops.NewMulOp(2, tracked(0, 2), tracked(1, math.Inf(1)))
	tangents := []float64{1, 0, 0}
	op.Forward(tangents)
	assert.Equal(t, math.Inf(1), tangents[2])

	tangents = []float64{0, 1, 0}
	op.Forward(tangents)
	assert.Equal(t, 2.0, tangents[2])
}

// TestPowOp_ZeroBase tests the exponent partial at a zero base.
func TestPowOp_ZeroBase(t *testing.T) {
	op := ops.NewPowOp(2, tracked(0, 0), tracked(1, 2), 0)
	assert.Equal(t, 0.0, op.Partials()[0])
	assert.Equal(t, 0.0, op.Partials()[1])
}
