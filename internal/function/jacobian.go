package function

import "gonum.org/v1/gonum/mat"

// Jacobian is the layout-opaque matrix of ∂value[iY]/∂parameter[iP].
//
// Evaluations only write through Set; Get exists for callers and tests.
type Jacobian interface {
	Set(iY, iP int, v float64) error
	Get(iY, iP int) (float64, error)
}

// Sized is implemented by Jacobians that know their extent, which lets an
// evaluation reject a wrongly sized output before writing anything.
type Sized interface {
	Dims() (rows, cols int)
}

// DenseJacobian is a Jacobian backed by a gonum matrix with one row per value
// and one column per parameter, the layout least-squares solvers consume.
type DenseJacobian struct {
	m *mat.Dense
}

// NewDenseJacobian allocates a zeroed nValues × nParams Jacobian.
// A zero extent yields an empty Jacobian.
func NewDenseJacobian(nValues, nParams int) *DenseJacobian {
	if nValues == 0 || nParams == 0 {
		return &DenseJacobian{}
	}
	return &DenseJacobian{m: mat.NewDense(nValues, nParams, nil)}
}

// WrapDense uses m as the Jacobian storage without copying.
func WrapDense(m *mat.Dense) *DenseJacobian {
	return &DenseJacobian{m: m}
}

// Dims returns (values, parameters).
func (j *DenseJacobian) Dims() (rows, cols int) {
	if j.m == nil {
		return 0, 0
	}
	return j.m.Dims()
}

// Set stores ∂value[iY]/∂parameter[iP].
func (j *DenseJacobian) Set(iY, iP int, v float64) error {
	if err := j.check(iY, iP); err != nil {
		return err
	}
	j.m.Set(iY, iP, v)
	return nil
}

// Get returns ∂value[iY]/∂parameter[iP].
func (j *DenseJacobian) Get(iY, iP int) (float64, error) {
	if err := j.check(iY, iP); err != nil {
		return 0, err
	}
	return j.m.At(iY, iP), nil
}

// Matrix returns the backing matrix (nil for an empty Jacobian).
func (j *DenseJacobian) Matrix() *mat.Dense {
	return j.m
}

func (j *DenseJacobian) check(iY, iP int) error {
	rows, cols := j.Dims()
	if iY < 0 || iY >= rows {
		return indexError("value", iY, rows)
	}
	if iP < 0 || iP >= cols {
		return indexError("parameter", iP, cols)
	}
	return nil
}

// PartialJacobian exposes a block of columns of a larger Jacobian, so that a
// member of a composite function writes its own parameters at an offset.
type PartialJacobian struct {
	J      Jacobian
	Offset int
}

// Set stores ∂value[iY]/∂parameter[Offset+iP] in the parent.
func (p *PartialJacobian) Set(iY, iP int, v float64) error {
	return p.J.Set(iY, p.Offset+iP, v)
}

// Get reads ∂value[iY]/∂parameter[Offset+iP] from the parent.
func (p *PartialJacobian) Get(iY, iP int) (float64, error) {
	return p.J.Get(iY, p.Offset+iP)
}
