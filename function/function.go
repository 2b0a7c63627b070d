// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package function defines the contract between fit functions and the code
// that evaluates and fits them: domains, value buffers, Jacobians and named
// parameters.
//
// Any type implementing Function can be fitted with package fitting. Functions
// written with package autofunc get their Jacobians by automatic
// differentiation; NumericDerivative estimates one by finite differences for
// any Function.
package function

import "github.com/born-ml/curvefit/internal/function"

// Function is a parameterized model a fit can evaluate and differentiate.
type Function = function.Function

// ParameterSource exposes parameter values and names by index.
type ParameterSource = function.ParameterSource

// ParamFunction is an ordered, named parameter store to embed in Function
// implementations.
type ParamFunction = function.ParamFunction

// Domain is a tagged set of evaluation points: a scalar, a 1-D axis, or
// points in several dimensions.
type Domain = function.Domain

// DomainKind identifies the variant of a Domain.
type DomainKind = function.DomainKind

// Domain kinds.
const (
	KindInvalid = function.KindInvalid
	KindScalar  = function.KindScalar
	Kind1D      = function.Kind1D
	KindMD      = function.KindMD
)

// NewScalarDomain creates a domain with the single point x.
func NewScalarDomain(x float64) Domain {
	return function.NewScalarDomain(x)
}

// NewDomain1D creates a 1-D domain over a copy of x.
func NewDomain1D(x []float64) Domain {
	return function.NewDomain1D(x)
}

// NewDomain1DSpan creates a 1-D domain of n evenly spaced points from start
// to end inclusive.
func NewDomain1DSpan(start, end float64, n int) (Domain, error) {
	return function.NewDomain1DSpan(start, end, n)
}

// NewDomainMD creates a domain of points with dims coordinates each.
func NewDomainMD(dims int, points []float64) (Domain, error) {
	return function.NewDomainMD(dims, points)
}

// Values holds calculated values and, for fits, observed data and weights.
type Values = function.Values

// NewValues creates a zeroed buffer of n values.
func NewValues(n int) *Values {
	return function.NewValues(n)
}

// NewValuesFor creates a zeroed buffer sized for d.
func NewValuesFor(d Domain) *Values {
	return function.NewValuesFor(d)
}

// Jacobian receives ∂value/∂parameter entries.
type Jacobian = function.Jacobian

// Sized is implemented by Jacobians that know their extent.
type Sized = function.Sized

// DenseJacobian is a Jacobian backed by a gonum matrix.
type DenseJacobian = function.DenseJacobian

// NewDenseJacobian creates a zeroed nValues×nParams Jacobian.
func NewDenseJacobian(nValues, nParams int) *DenseJacobian {
	return function.NewDenseJacobian(nValues, nParams)
}

// PartialJacobian addresses a column block of another Jacobian.
type PartialJacobian = function.PartialJacobian

// Composite is the sum of several functions over the same domain.
type Composite = function.Composite

// NewComposite creates a composite of the given members.
func NewComposite(members ...Function) (*Composite, error) {
	return function.NewComposite(members...)
}

// NumericSettings configures NumericDerivative.
type NumericSettings = function.NumericSettings

// NumericDerivative estimates the Jacobian of fn by finite differences.
func NumericDerivative(fn Function, domain Domain, nValues int, jacobian Jacobian, settings *NumericSettings) error {
	return function.NumericDerivative(fn, domain, nValues, jacobian, settings)
}

// SetParameterByName sets a parameter of fn by name.
func SetParameterByName(fn Function, name string, v float64) error {
	return function.SetParameterByName(fn, name, v)
}

// ParameterValues returns a snapshot of every parameter of src.
func ParameterValues(src ParameterSource) []float64 {
	return function.ParameterValues(src)
}

// DomainKindError reports a domain of the wrong kind.
type DomainKindError = function.DomainKindError

// Errors.
var (
	ErrInvalidDomainKind  = function.ErrInvalidDomainKind
	ErrIndexOutOfRange    = function.ErrIndexOutOfRange
	ErrParameterNotFound  = function.ErrParameterNotFound
	ErrDuplicateParameter = function.ErrDuplicateParameter
	ErrNilFunction        = function.ErrNilFunction
	ErrSizeMismatch       = function.ErrSizeMismatch
)
