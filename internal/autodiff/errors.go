package autodiff

import "errors"

// Sentinel errors returned by GradientTape.
var (
	// ErrNoIndependents indicates Jacobian was requested before Independent.
	ErrNoIndependents = errors.New("autodiff: no independent variables declared")

	// ErrNoDependents indicates Jacobian was requested before Dependent.
	ErrNoDependents = errors.New("autodiff: no dependent variables declared")

	// ErrNotLeaf indicates an independent variable that was computed on the tape
	// instead of created with NewVar.
	ErrNotLeaf = errors.New("autodiff: independent variable is not a leaf of the tape")

	// ErrForeignVar indicates a cell that belongs to another tape.
	ErrForeignVar = errors.New("autodiff: variable belongs to a different tape")

	// ErrJacobianSize indicates a destination buffer of the wrong length.
	ErrJacobianSize = errors.New("autodiff: jacobian buffer size mismatch")
)
