package ops

// NewMulOp records output = a * b.
//
// Partials:
//   - d(a*b)/da = b
//   - d(a*b)/db = a
func NewMulOp(out int32, a, b Operand) Operation {
	return binary(out, a, b, b.Value, a.Value)
}
