package ops

// NewAbsOp records output = |x|.
//
// Partial: d|x|/dx = sign(x), taken as 0 at x == 0.
func NewAbsOp(out int32, x Operand) Operation {
	var dx float64
	switch {
	case x.Value > 0:
		dx = 1
	case x.Value < 0:
		dx = -1
	}
	return unary(out, x, dx)
}
