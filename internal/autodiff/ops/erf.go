package ops

import "math"

// twoOverSqrtPi is 2/√π, the scale of the error function's derivative.
const twoOverSqrtPi = 2 / math.SqrtPi

// NewErfOp records output = erf(x).
//
// Partial: d(erf(x))/dx = 2/√π * exp(-x²).
func NewErfOp(out int32, x Operand) Operation {
	return unary(out, x, twoOverSqrtPi*math.Exp(-x.Value*x.Value))
}
