package ops

// NewSqrtOp records output = sqrt(x), where result is the forward value.
//
// Partial: d(sqrt(x))/dx = 1 / (2*sqrt(x)) = 0.5 / result.
func NewSqrtOp(out int32, x Operand, result float64) Operation {
	return unary(out, x, 0.5/result)
}
