// Package autodiff implements tape-based automatic differentiation over scalar cells.
//
// A formula is written once against the Scalar capability set and instantiated
// twice: with Float for plain value evaluation and with Var for evaluation that
// records every elementary step on a GradientTape.
//
// Architecture:
//   - GradientTape: call-scoped recording state (recording / paused)
//   - Var: value + tape slot; arithmetic on tracked cells is recorded as ops.Operation
//   - Float: the plain float64 variant, no bookkeeping
//   - Jacobian: forward tangent or reverse adjoint sweeps over the recorded operations
//
// Usage:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	a, b := tape.NewVar(2), tape.NewVar(3)
//	y := a.Mul(b).Exp()
//	_ = tape.Independent(a, b)
//	_ = tape.Dependent(y)
//	jac := make([]float64, 2)
//	_ = tape.Jacobian(jac) // [b*e^(ab), a*e^(ab)]
package autodiff

// Scalar is the numeric-cell capability set a formula is written against.
//
// T is the implementing type itself, so a generic formula
//
//	func gaussian[T autodiff.Scalar[T]](x float64, h, c, s T) T
//
// can be instantiated with both Float and Var. Every method returns a new cell;
// receivers are never modified.
type Scalar[T any] interface {
	// Value returns the plain numeric value of the cell.
	Value() float64
	// Const returns an untracked cell holding v, compatible with the receiver.
	Const(v float64) T

	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Pow(T) T

	Neg() T
	Scale(c float64) T
	Shift(c float64) T
	Powf(c float64) T

	Exp() T
	Log() T
	Sqrt() T
	Sin() T
	Cos() T
	Tanh() T
	Erf() T
	Abs() T
}

// Compile-time checks.
var (
	_ Scalar[Float] = Float(0)
	_ Scalar[Var]   = Var{}
)
