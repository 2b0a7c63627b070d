package ops

// NewSubOp records output = a - b.
//
// Partials:
//   - d(a-b)/da = 1
//   - d(a-b)/db = -1
func NewSubOp(out int32, a, b Operand) Operation {
	return binary(out, a, b, 1, -1)
}
