// Package ops defines the elementary operations recorded on a gradient tape.
//
// Every arithmetic step performed on tracked cells becomes one Operation:
//   - Forward pass: the value is computed by the caller (autodiff.Var)
//   - Recording: the local partial derivatives are evaluated immediately and stored
//   - Replay: Forward pushes tangents, Backward pulls adjoints through the stored partials
//
// Supported operations:
//   - AddOp, SubOp: d(a±b)/da = 1, d(a±b)/db = ±1
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - DivOp: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - ScaleOp, ShiftOp, NegOp: affine maps with a constant
//   - ExpOp, LogOp, SqrtOp, PowOp, PowfOp: exponentials and powers
//   - SinOp, CosOp, TanhOp, ErfOp, AbsOp: transcendental helpers for peak shapes
package ops

// NoSlot marks a cell that is not tracked by any tape (a constant, or a value
// computed while recording was paused).
const NoSlot int32 = -1

// Operand is one input of an elementary step: its slot on the tape and its
// forward value.
type Operand struct {
	Slot  int32
	Value float64
}

// Tracked returns true if the operand participates in differentiation.
func (o Operand) Tracked() bool {
	return o.Slot >= 0
}

// Operation is one recorded elementary step: output = f(inputs).
//
// Only tracked inputs are stored, so a binary operation with one constant
// operand is stored with arity 1. Partials hold ∂output/∂input evaluated at
// the forward values.
type Operation struct {
	output   int32
	inputs   [2]int32
	partials [2]float64
	arity    uint8
}

// Output returns the slot written by this operation.
func (op *Operation) Output() int32 {
	return op.output
}

// Inputs returns the tracked input slots.
func (op *Operation) Inputs() []int32 {
	return op.inputs[:op.arity]
}

// Partials returns ∂output/∂input for each tracked input, in Inputs order.
func (op *Operation) Partials() []float64 {
	return op.partials[:op.arity]
}

// Forward propagates input tangents into the output tangent.
//
//	tangent[out] = Σ_k partial_k * tangent[in_k]
//
// Zero input tangents are skipped, mirroring Backward.
func (op *Operation) Forward(tangents []float64) {
	var t float64
	for k := uint8(0); k < op.arity; k++ {
		if d := tangents[op.inputs[k]]; d != 0 {
			t += op.partials[k] * d
		}
	}
	tangents[op.output] = t
}

// Backward propagates the output adjoint into the input adjoints.
//
//	adjoint[in_k] += partial_k * adjoint[out]
//
// A zero output adjoint is skipped so that infinite partials of unused
// branches do not poison the result with NaN.
func (op *Operation) Backward(adjoints []float64) {
	g := adjoints[op.output]
	if g == 0 {
		return
	}
	for k := uint8(0); k < op.arity; k++ {
		adjoints[op.inputs[k]] += op.partials[k] * g
	}
}

// unary builds a one-input operation.
func unary(out int32, x Operand, dx float64) Operation {
	op := Operation{output: out}
	if x.Tracked() {
		op.inputs[0] = x.Slot
		op.partials[0] = dx
		op.arity = 1
	}
	return op
}

// binary builds a two-input operation, dropping untracked inputs.
func binary(out int32, a, b Operand, da, db float64) Operation {
	op := unary(out, a, da)
	if b.Tracked() {
		op.inputs[op.arity] = b.Slot
		op.partials[op.arity] = db
		op.arity++
	}
	return op
}
