package autodiff

import (
	"math"

	"github.com/born-ml/curvefit/internal/autodiff/ops"
)

// Var is an AD-tracked scalar cell: a value plus its slot on the owning tape.
//
// The zero value is an untracked constant 0. Results of arithmetic are tracked
// only when at least one operand is tracked and the tape is recording.
// Combining cells of two different tapes panics.
type Var struct {
	tape  *GradientTape
	value float64
	slot  int32
}

// Const returns an untracked cell holding v on the receiver's tape.
func (v Var) Const(c float64) Var {
	return Var{tape: v.tape, value: c, slot: ops.NoSlot}
}

// Value returns the plain value of the cell.
func (v Var) Value() float64 {
	return v.value
}

// Tracked returns true if the cell participates in differentiation.
func (v Var) Tracked() bool {
	return v.tape != nil && v.slot != ops.NoSlot
}

// Tape returns the owning tape, or nil for a free constant.
func (v Var) Tape() *GradientTape {
	return v.tape
}

func (v Var) operand() ops.Operand {
	if !v.Tracked() {
		return ops.Operand{Slot: ops.NoSlot, Value: v.value}
	}
	return ops.Operand{Slot: v.slot, Value: v.value}
}

// join picks the tape shared by two operands.
func join(a, b Var) *GradientTape {
	switch {
	case a.tape == nil:
		return b.tape
	case b.tape == nil, a.tape == b.tape:
		return a.tape
	}
	panic("autodiff: combining cells from different tapes")
}

// Add returns v + w.
func (v Var) Add(w Var) Var {
	t := join(v, w)
	r := v.value + w.value
	out := t.resultSlot(v.Tracked() || w.Tracked())
	if out != ops.NoSlot {
		t.Record(ops.NewAddOp(out, v.operand(), w.operand()))
	}
	return Var{tape: t, value: r, slot: out}
}

// Sub returns v - w.
func (v Var) Sub(w Var) Var {
	t := join(v, w)
	r := v.value - w.value
	out := t.resultSlot(v.Tracked() || w.Tracked())
	if out != ops.NoSlot {
		t.Record(ops.NewSubOp(out, v.operand(), w.operand()))
	}
	return Var{tape: t, value: r, slot: out}
}

// Mul returns v * w.
func (v Var) Mul(w Var) Var {
	t := join(v, w)
	r := v.value * w.value
	out := t.resultSlot(v.Tracked() || w.Tracked())
	if out != ops.NoSlot {
		t.Record(ops.NewMulOp(out, v.operand(), w.operand()))
	}
	return Var{tape: t, value: r, slot: out}
}

// Div returns v / w.
func (v Var) Div(w Var) Var {
	t := join(v, w)
	r := v.value / w.value
	out := t.resultSlot(v.Tracked() || w.Tracked())
	if out != ops.NoSlot {
		t.Record(ops.NewDivOp(out, v.operand(), w.operand(), r))
	}
	return Var{tape: t, value: r, slot: out}
}

// Pow returns v^w.
func (v Var) Pow(w Var) Var {
	t := join(v, w)
	r := math.Pow(v.value, w.value)
	out := t.resultSlot(v.Tracked() || w.Tracked())
	if out != ops.NoSlot {
		t.Record(ops.NewPowOp(out, v.operand(), w.operand(), r))
	}
	return Var{tape: t, value: r, slot: out}
}

// Neg returns -v.
func (v Var) Neg() Var {
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewNegOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: -v.value, slot: out}
}

// Scale returns c * v.
func (v Var) Scale(c float64) Var {
	r := c * v.value
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewScaleOp(out, v.operand(), c))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Shift returns v + c.
func (v Var) Shift(c float64) Var {
	r := v.value + c
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewShiftOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Powf returns v^c for a constant exponent.
func (v Var) Powf(c float64) Var {
	r := math.Pow(v.value, c)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewPowfOp(out, v.operand(), c))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Exp returns e^v.
func (v Var) Exp() Var {
	r := math.Exp(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewExpOp(out, v.operand(), r))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Log returns the natural logarithm of v.
func (v Var) Log() Var {
	r := math.Log(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewLogOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Sqrt returns the square root of v.
func (v Var) Sqrt() Var {
	r := math.Sqrt(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewSqrtOp(out, v.operand(), r))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Sin returns sin(v).
func (v Var) Sin() Var {
	r := math.Sin(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewSinOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Cos returns cos(v).
func (v Var) Cos() Var {
	r := math.Cos(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewCosOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Tanh returns tanh(v).
func (v Var) Tanh() Var {
	r := math.Tanh(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewTanhOp(out, v.operand(), r))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Erf returns the error function of v.
func (v Var) Erf() Var {
	r := math.Erf(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewErfOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}

// Abs returns |v|.
func (v Var) Abs() Var {
	r := math.Abs(v.value)
	out := v.tape.resultSlot(v.Tracked())
	if out != ops.NoSlot {
		v.tape.Record(ops.NewAbsOp(out, v.operand()))
	}
	return Var{tape: v.tape, value: r, slot: out}
}
