// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package peaks provides Gaussian, Lorentzian and Pearson VII peak shapes,
// each with automatic, analytic and finite-difference Jacobians.
//
// The three variants of a shape declare their parameters in different orders;
// address parameters by name.
package peaks

import (
	"github.com/born-ml/curvefit/function"
	"github.com/born-ml/curvefit/internal/peaks"
)

// Shape selects a peak shape.
type Shape = peaks.Shape

// Peak shapes.
const (
	Gaussian   = peaks.Gaussian
	Lorentzian = peaks.Lorentzian
	PearsonVII = peaks.PearsonVII
)

// DerivativeKind selects how a peak computes its Jacobian.
type DerivativeKind = peaks.DerivativeKind

// Derivative kinds.
const (
	AutoDiff = peaks.AutoDiff
	Analytic = peaks.Analytic
	Numeric  = peaks.Numeric
)

// New creates a peak with default parameters.
func New(shape Shape, kind DerivativeKind) (function.Function, error) {
	return peaks.New(shape, kind)
}

// ParseShape parses a shape name.
func ParseShape(s string) (Shape, error) {
	return peaks.ParseShape(s)
}

// ParseDerivativeKind parses a derivative kind name.
func ParseDerivativeKind(s string) (DerivativeKind, error) {
	return peaks.ParseDerivativeKind(s)
}
