// Package peaks provides example peak shapes, each implemented three ways
// over the same closed-form mathematics:
//
//   - AutoDiff: one generic formula, Jacobian by automatic differentiation
//   - Analytic: float64 values plus hand-derived partial derivatives
//   - Numeric: float64 values, Jacobian by central finite differences
//
// The variants deliberately declare their parameters in different orders (as
// independent implementations do); address parameters by name.
package peaks

import (
	"fmt"
	"strings"

	"github.com/born-ml/curvefit/internal/function"
)

// Shape selects a peak shape.
type Shape int

// Peak shapes.
const (
	Gaussian Shape = iota
	Lorentzian
	PearsonVII
)

// Shapes lists every supported shape.
var Shapes = []Shape{Gaussian, Lorentzian, PearsonVII}

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Gaussian:
		return "gaussian"
	case Lorentzian:
		return "lorentzian"
	case PearsonVII:
		return "pearson7"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "gaussian", "gauss":
		return Gaussian, nil
	case "lorentzian":
		return Lorentzian, nil
	case "pearson7", "pearsonvii":
		return PearsonVII, nil
	}
	return 0, fmt.Errorf("peaks: unknown shape %q", s)
}

// DerivativeKind selects how a peak computes its Jacobian.
type DerivativeKind int

// Derivative kinds.
const (
	AutoDiff DerivativeKind = iota
	Analytic
	Numeric
)

// DerivativeKinds lists every supported kind.
var DerivativeKinds = []DerivativeKind{AutoDiff, Analytic, Numeric}

// String returns the kind name.
func (k DerivativeKind) String() string {
	switch k {
	case AutoDiff:
		return "autodiff"
	case Analytic:
		return "analytic"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("DerivativeKind(%d)", int(k))
	}
}

// ParseDerivativeKind parses a derivative kind. "adept" is accepted for autodiff.
func ParseDerivativeKind(s string) (DerivativeKind, error) {
	switch strings.ToLower(s) {
	case "autodiff", "adept", "ad":
		return AutoDiff, nil
	case "analytic", "handcoded":
		return Analytic, nil
	case "numeric", "numdiff":
		return Numeric, nil
	}
	return 0, fmt.Errorf("peaks: unknown derivative kind %q", s)
}

// New creates a peak of the given shape and derivative kind with default
// parameters.
func New(shape Shape, kind DerivativeKind) (function.Function, error) {
	type ctor func() (function.Function, error)
	table := map[Shape][3]ctor{
		Gaussian:   {wrap(NewGaussianAutoDiff), wrap(NewGaussianHandCoded), wrap(NewGaussianNumDiff)},
		Lorentzian: {wrap(NewLorentzianAutoDiff), wrap(NewLorentzianHandCoded), wrap(NewLorentzianNumDiff)},
		PearsonVII: {wrap(NewPearsonVIIAutoDiff), wrap(NewPearsonVIIHandCoded), wrap(NewPearsonVIINumDiff)},
	}
	ctors, ok := table[shape]
	if !ok {
		return nil, fmt.Errorf("peaks: unknown shape %v", shape)
	}
	if kind < AutoDiff || kind > Numeric {
		return nil, fmt.Errorf("peaks: unknown derivative kind %v", kind)
	}
	return ctors[kind]()
}

func wrap[F function.Function](f func() (F, error)) func() (function.Function, error) {
	return func() (function.Function, error) {
		fn, err := f()
		if err != nil {
			return nil, err
		}
		return fn, nil
	}
}
