package ops

// NewLogOp records output = log(x).
//
// Partial: d(log(x))/dx = 1/x.
//
// Note: x must be positive; the partial is infinite at zero.
func NewLogOp(out int32, x Operand) Operation {
	return unary(out, x, 1/x.Value)
}
