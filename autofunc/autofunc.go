// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autofunc builds fit functions from a single generic formula and
// computes their Jacobians by automatic differentiation.
//
// A formula is written once over autodiff.Scalar and passed in its two
// instantiations: the plain one evaluates values, the tracked one records a
// tape from which the Jacobian is taken. See the package example.
package autofunc

import (
	"github.com/born-ml/curvefit/autodiff"
	"github.com/born-ml/curvefit/function"
	"github.com/born-ml/curvefit/internal/autofunc"
)

// Formula computes one output cell per entry of y.
type Formula[T autodiff.Scalar[T]] = autofunc.Formula[T]

// Parameters is the per-evaluation snapshot of a function's parameters.
type Parameters[T autodiff.Scalar[T]] = autofunc.Parameters[T]

// ParameterSpec declares one model parameter.
type ParameterSpec = autofunc.ParameterSpec

// Model bundles a formula's instantiations with its parameters.
type Model = autofunc.Model

// Function1D is a model over a 1-D domain with one value per coordinate.
type Function1D = autofunc.Function1D

// NewFunction1D creates a Function1D from m.
func NewFunction1D(m Model) (*Function1D, error) {
	return autofunc.NewFunction1D(m)
}

// FunctionVector is a model whose output count is set by the caller.
type FunctionVector = autofunc.FunctionVector

// NewFunctionVector creates a FunctionVector from m.
func NewFunctionVector(m Model) (*FunctionVector, error) {
	return autofunc.NewFunctionVector(m)
}

// JacobianBuffer is the parameter-major Jacobian the tape writes into.
type JacobianBuffer = autofunc.JacobianBuffer

// NewJacobianBuffer creates a zeroed buffer.
func NewJacobianBuffer(nParams, nValues int) *JacobianBuffer {
	return autofunc.NewJacobianBuffer(nParams, nValues)
}

// Evaluation describes one completed evaluation.
type Evaluation = autofunc.Evaluation

// Observer receives a report after every evaluation.
type Observer = autofunc.Observer

// ObserverFunc adapts a function to Observer.
type ObserverFunc = autofunc.ObserverFunc

// Attach installs o on fn and on every composite member that accepts it.
func Attach(fn function.Function, o Observer) int {
	return autofunc.Attach(fn, o)
}

// ErrNilFormula indicates a Model without an AutoDiff formula.
var ErrNilFormula = autofunc.ErrNilFormula
