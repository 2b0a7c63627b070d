package ops

// NewExpOp records output = exp(x), where result is the forward value.
//
// Since d(exp(x))/dx = exp(x), the partial is the output itself.
func NewExpOp(out int32, x Operand, result float64) Operation {
	return unary(out, x, result)
}
