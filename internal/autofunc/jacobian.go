package autofunc

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/function"
)

// JacobianBuffer is a dense nValues × nParams Jacobian stored parameter-major:
//
//	Raw()[iY + iP*nValues] = ∂value[iY]/∂parameter[iP]
//
// so that all derivatives with respect to one parameter form one contiguous
// block, the unit the tape's sweep writes. The zero value is an empty buffer.
type JacobianBuffer struct {
	data    []float64
	nParams int
	nValues int
}

// NewJacobianBuffer allocates a zeroed buffer.
func NewJacobianBuffer(nParams, nValues int) *JacobianBuffer {
	b := &JacobianBuffer{}
	b.SetSize(nParams, nValues)
	return b
}

// SetSize resets the shape and zeroes the contents, reusing storage when it is
// large enough. Negative sizes are treated as zero.
func (b *JacobianBuffer) SetSize(nParams, nValues int) {
	nParams, nValues = max(nParams, 0), max(nValues, 0)
	n := nParams * nValues
	if cap(b.data) < n {
		b.data = make([]float64, n)
	} else {
		b.data = b.data[:n]
		clear(b.data)
	}
	b.nParams = nParams
	b.nValues = nValues
}

// Dims returns (values, parameters), the row and column counts of the
// equivalent dense matrix.
func (b *JacobianBuffer) Dims() (rows, cols int) {
	return b.nValues, b.nParams
}

// Set stores ∂value[iY]/∂parameter[iP].
func (b *JacobianBuffer) Set(iY, iP int, v float64) error {
	if err := b.check(iY, iP); err != nil {
		return err
	}
	b.data[iY+iP*b.nValues] = v
	return nil
}

// Get returns ∂value[iY]/∂parameter[iP].
func (b *JacobianBuffer) Get(iY, iP int) (float64, error) {
	if err := b.check(iY, iP); err != nil {
		return 0, err
	}
	return b.data[iY+iP*b.nValues], nil
}

// Raw returns the contiguous parameter-major storage for bulk writes.
func (b *JacobianBuffer) Raw() []float64 {
	return b.data
}

// CopyInto transfers every entry into j with one Set per (value, parameter)
// pair, value-major.
func (b *JacobianBuffer) CopyInto(j function.Jacobian) error {
	for iY := 0; iY < b.nValues; iY++ {
		for iP := 0; iP < b.nParams; iP++ {
			if err := j.Set(iY, iP, b.data[iY+iP*b.nValues]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *JacobianBuffer) check(iY, iP int) error {
	if iY < 0 || iY >= b.nValues {
		return fmt.Errorf("%w: value %d not in [0, %d)", function.ErrIndexOutOfRange, iY, b.nValues)
	}
	if iP < 0 || iP >= b.nParams {
		return fmt.Errorf("%w: parameter %d not in [0, %d)", function.ErrIndexOutOfRange, iP, b.nParams)
	}
	return nil
}
