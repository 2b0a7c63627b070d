package ops

// NewTanhOp records output = tanh(x), where result is the forward value.
//
// Partial: d(tanh(x))/dx = 1 - tanh²(x).
func NewTanhOp(out int32, x Operand, result float64) Operation {
	return unary(out, x, 1-result*result)
}
