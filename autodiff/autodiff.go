// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar automatic differentiation on a gradient tape.
//
// Formulas are written once against the Scalar interface and instantiated
// twice: with Float for plain evaluation and with Var for recording on a
// GradientTape. The tape computes the Jacobian of the dependent variables with
// respect to the independent ones, in forward mode when there are fewer
// independents than dependents and in reverse mode otherwise.
//
// Example:
//
//	import "github.com/born-ml/curvefit/autodiff"
//
//	func main() {
//	    tape := autodiff.NewGradientTape()
//	    tape.StartRecording()
//
//	    a, b := tape.NewVar(2), tape.NewVar(3)
//	    y := a.Mul(b).Exp()
//
//	    _ = tape.Independent(a, b)
//	    _ = tape.Dependent(y)
//	    jac := make([]float64, 2)
//	    _ = tape.Jacobian(jac) // [∂y/∂a, ∂y/∂b]
//	}
package autodiff

import "github.com/born-ml/curvefit/internal/autodiff"

// Scalar is the cell type formulas are generic over.
type Scalar[T any] = autodiff.Scalar[T]

// Float is the plain cell: float64 arithmetic, nothing recorded.
type Float = autodiff.Float

// Var is the tracked cell. The zero Var is an untracked constant 0.
type Var = autodiff.Var

// GradientTape records operations on Vars and computes Jacobians.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape, not recording.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Tape errors.
var (
	ErrNoIndependents = autodiff.ErrNoIndependents
	ErrNoDependents   = autodiff.ErrNoDependents
	ErrNotLeaf        = autodiff.ErrNotLeaf
	ErrForeignVar     = autodiff.ErrForeignVar
	ErrJacobianSize   = autodiff.ErrJacobianSize
)
