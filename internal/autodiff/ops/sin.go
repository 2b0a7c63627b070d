package ops

import "math"

// NewSinOp records output = sin(x).
//
// Partial: d(sin(x))/dx = cos(x).
func NewSinOp(out int32, x Operand) Operation {
	return unary(out, x, math.Cos(x.Value))
}
