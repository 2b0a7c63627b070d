package function

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// NumericSettings configures NumericDerivative.
type NumericSettings struct {
	// Formula is the finite-difference stencil. The zero value selects fd.Central.
	Formula fd.Formula
	// Step is the perturbation size. Zero selects the formula's default step.
	Step float64
}

// NumericDerivative estimates the Jacobian of fn over domain by finite
// differences and writes it into jacobian.
//
// nValues is the number of values fn produces for domain. The parameters of fn
// are perturbed in place and restored before returning, so fn must not be
// evaluated concurrently while this runs.
func NumericDerivative(fn Function, domain Domain, nValues int, jacobian Jacobian, settings *NumericSettings) (err error) {
	if IsNil(fn) {
		return ErrNilFunction
	}
	np := fn.NParams()
	if np == 0 || nValues == 0 {
		return nil
	}
	if settings == nil {
		settings = &NumericSettings{}
	}
	formula := settings.Formula
	if formula.Stencil == nil {
		formula = fd.Central
	}

	start := ParameterValues(fn)
	defer func() {
		if rerr := SetParameterValues(fn, start); rerr != nil && err == nil {
			err = rerr
		}
	}()

	values := NewValues(nValues)
	var evalErr error
	f := func(y, x []float64) {
		if evalErr != nil {
			return
		}
		if evalErr = SetParameterValues(fn, x); evalErr != nil {
			return
		}
		if evalErr = fn.Function(domain, values); evalErr != nil {
			return
		}
		copy(y, values.Slice())
	}

	dst := mat.NewDense(nValues, np, nil)
	fd.Jacobian(dst, f, start, &fd.JacobianSettings{
		Formula: formula,
		Step:    settings.Step,
	})
	if evalErr != nil {
		return fmt.Errorf("numeric derivative of %s: %w", fn.Name(), evalErr)
	}

	for iY := 0; iY < nValues; iY++ {
		for iP := 0; iP < np; iP++ {
			if err := jacobian.Set(iY, iP, dst.At(iY, iP)); err != nil {
				return err
			}
		}
	}
	return nil
}
