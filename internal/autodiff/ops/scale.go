package ops

// NewScaleOp records output = c * x for a constant c.
//
// Partial: d(c*x)/dx = c.
func NewScaleOp(out int32, x Operand, c float64) Operation {
	return unary(out, x, c)
}

// NewShiftOp records output = x + c for a constant c.
//
// Partial: d(x+c)/dx = 1.
func NewShiftOp(out int32, x Operand) Operation {
	return unary(out, x, 1)
}

// NewNegOp records output = -x.
//
// Partial: d(-x)/dx = -1.
func NewNegOp(out int32, x Operand) Operation {
	return unary(out, x, -1)
}
