package ops

import "math"

// NewCosOp records output = cos(x).
//
// Partial: d(cos(x))/dx = -sin(x).
func NewCosOp(out int32, x Operand) Operation {
	return unary(out, x, -math.Sin(x.Value))
}
