package ops

import "math"

// NewPowOp records output = a^b with both operands possibly tracked.
//
// Partials:
//   - d(a^b)/da = b * a^(b-1)
//   - d(a^b)/db = a^b * log(a)
//
// The exponent partial is taken as zero at a == 0, where a^b is flat (b > 0)
// for every exponent the peak shapes use.
func NewPowOp(out int32, a, b Operand, result float64) Operation {
	da := b.Value * math.Pow(a.Value, b.Value-1)
	var db float64
	if a.Value != 0 {
		db = result * math.Log(a.Value)
	}
	return binary(out, a, b, da, db)
}

// NewPowfOp records output = x^c for a constant exponent c.
//
// Partial: d(x^c)/dx = c * x^(c-1).
func NewPowfOp(out int32, x Operand, c float64) Operation {
	return unary(out, x, c*math.Pow(x.Value, c-1))
}
