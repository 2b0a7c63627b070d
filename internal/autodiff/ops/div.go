package ops

// NewDivOp records output = a / b, where result is the forward value a / b.
//
// Partials:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b² = -result/b
func NewDivOp(out int32, a, b Operand, result float64) Operation {
	return binary(out, a, b, 1/b.Value, -result/b.Value)
}
