package autodiff

import "math"

// Float is the plain float64 variant of Scalar, used when no derivative is needed.
//
// Results are converted explicitly to float64 so the compiler cannot fuse a
// multiply and an add; the values stay identical to the ones Var computes.
type Float float64

// Value returns f as float64.
func (f Float) Value() float64 { return float64(f) }

// Const returns c as a Float.
func (f Float) Const(c float64) Float { return Float(c) }

// Add returns f + g.
func (f Float) Add(g Float) Float { return Float(float64(f) + float64(g)) }

// Sub returns f - g.
func (f Float) Sub(g Float) Float { return Float(float64(f) - float64(g)) }

// Mul returns f * g.
func (f Float) Mul(g Float) Float { return Float(float64(float64(f) * float64(g))) }

// Div returns f / g.
func (f Float) Div(g Float) Float { return Float(float64(f) / float64(g)) }

// Pow returns f^g.
func (f Float) Pow(g Float) Float { return Float(math.Pow(float64(f), float64(g))) }

// Neg returns -f.
func (f Float) Neg() Float { return -f }

// Scale returns c * f.
func (f Float) Scale(c float64) Float { return Float(float64(c * float64(f))) }

// Shift returns f + c.
func (f Float) Shift(c float64) Float { return Float(float64(f) + c) }

// Powf returns f^c.
func (f Float) Powf(c float64) Float { return Float(math.Pow(float64(f), c)) }

// Exp returns e^f.
func (f Float) Exp() Float { return Float(math.Exp(float64(f))) }

// Log returns the natural logarithm of f.
func (f Float) Log() Float { return Float(math.Log(float64(f))) }

// Sqrt returns the square root of f.
func (f Float) Sqrt() Float { return Float(math.Sqrt(float64(f))) }

// Sin returns sin(f).
func (f Float) Sin() Float { return Float(math.Sin(float64(f))) }

// Cos returns cos(f).
func (f Float) Cos() Float { return Float(math.Cos(float64(f))) }

// Tanh returns tanh(f).
func (f Float) Tanh() Float { return Float(math.Tanh(float64(f))) }

// Erf returns the error function of f.
func (f Float) Erf() Float { return Float(math.Erf(float64(f))) }

// Abs returns |f|.
func (f Float) Abs() Float { return Float(math.Abs(float64(f))) }
