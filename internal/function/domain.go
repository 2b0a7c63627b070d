package function

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DomainKind is the explicit shape discriminant of a Domain.
type DomainKind uint8

// Domain kinds.
const (
	KindInvalid DomainKind = iota // the zero Domain; never narrows
	KindScalar                    // a single coordinate
	Kind1D                        // an ordered sequence of coordinates
	KindMD                        // points with several coordinates each
)

// String returns the kind name.
func (k DomainKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindScalar:
		return "scalar"
	case Kind1D:
		return "1D"
	case KindMD:
		return "MD"
	default:
		return fmt.Sprintf("DomainKind(%d)", uint8(k))
	}
}

// Domain is the independent-coordinate input of a function evaluation.
//
// It is a tagged variant: Kind selects how the coordinates are interpreted, and
// the narrowing accessors As1D and AsVector return a *DomainKindError instead
// of reinterpreting a domain of another shape. Domains are read-only.
type Domain struct {
	kind   DomainKind
	dims   int // coordinates per point
	coords []float64
}

// NewScalarDomain creates a single-coordinate domain.
func NewScalarDomain(x float64) Domain {
	return Domain{kind: KindScalar, dims: 1, coords: []float64{x}}
}

// NewDomain1D creates a 1-D domain over a copy of x.
func NewDomain1D(x []float64) Domain {
	return Domain{kind: Kind1D, dims: 1, coords: append([]float64(nil), x...)}
}

// NewDomain1DSpan creates a 1-D domain of n points evenly spaced in [start, end].
func NewDomain1DSpan(start, end float64, n int) (Domain, error) {
	if n < 2 {
		return Domain{}, fmt.Errorf("%w: span needs at least 2 points, got %d", ErrSizeMismatch, n)
	}
	return Domain{kind: Kind1D, dims: 1, coords: floats.Span(make([]float64, n), start, end)}, nil
}

// NewDomainMD creates a domain of points with dims coordinates each; points
// holds them row by row.
func NewDomainMD(dims int, points []float64) (Domain, error) {
	if dims < 1 || len(points)%dims != 0 {
		return Domain{}, fmt.Errorf("%w: %d coordinates do not form points of dimension %d",
			ErrSizeMismatch, len(points), dims)
	}
	return Domain{kind: KindMD, dims: dims, coords: append([]float64(nil), points...)}, nil
}

// Kind returns the shape discriminant.
func (d Domain) Kind() DomainKind {
	return d.kind
}

// Size returns the number of points.
func (d Domain) Size() int {
	if d.dims == 0 {
		return 0
	}
	return len(d.coords) / d.dims
}

// As1D narrows the domain to an ordered coordinate sequence.
// Only Kind1D domains narrow. The returned slice must not be modified.
func (d Domain) As1D() ([]float64, error) {
	if d.kind != Kind1D {
		return nil, &DomainKindError{Got: d.kind, Want: []DomainKind{Kind1D}}
	}
	return d.coords, nil
}

// AsVector narrows the domain to a coordinate vector for general
// vector-to-vector functions. Scalar domains narrow to one coordinate.
// The returned slice must not be modified.
func (d Domain) AsVector() ([]float64, error) {
	if d.kind != KindScalar && d.kind != Kind1D {
		return nil, &DomainKindError{Got: d.kind, Want: []DomainKind{KindScalar, Kind1D}}
	}
	return d.coords, nil
}
