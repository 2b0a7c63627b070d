package autodiff

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/autodiff/ops"
)

// GradientTape records operations during the forward pass and computes
// derivatives of the declared dependents with respect to the declared
// independents by replaying them.
//
// A tape is owned by a single evaluation and is not safe for concurrent use.
// Create one per call instead of sharing one between goroutines.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... create leaves with NewVar, run the formula ...
//	tape.Independent(params...)
//	tape.Dependent(outputs...)
//	tape.Jacobian(dst)
type GradientTape struct {
	operations   []ops.Operation // Recorded operations (in execution order)
	leaf         []bool          // One entry per slot: true for NewVar cells
	independents []int32
	dependents   []int32 // ops.NoSlot for untracked outputs
	haveIndep    bool
	haveDep      bool
	recording    bool // Whether tape is currently recording
}

// NewGradientTape creates a new paused gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64), // Pre-allocate for common case
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording pauses operation recording. Cells computed while paused are
// untracked constants.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// NewVar registers a leaf cell holding v.
//
// Leaves are always tracked, even on a paused tape, so that they can be
// declared as independents.
func (t *GradientTape) NewVar(v float64) Var {
	return Var{tape: t, value: v, slot: t.newSlot(true)}
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations, cells and declarations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
	t.leaf = t.leaf[:0]
	t.independents = t.independents[:0]
	t.dependents = t.dependents[:0]
	t.haveIndep = false
	t.haveDep = false
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// NumVars returns the number of tracked cells (leaves and recorded results).
func (t *GradientTape) NumVars() int {
	return len(t.leaf)
}

// Independent declares the independent set, replacing any previous declaration.
// Every variable must be a leaf created by NewVar on this tape.
func (t *GradientTape) Independent(vars ...Var) error {
	slots := make([]int32, len(vars))
	for i, v := range vars {
		switch {
		case v.tape != nil && v.tape != t:
			return fmt.Errorf("independent %d: %w", i, ErrForeignVar)
		case v.tape == nil || !v.Tracked() || int(v.slot) >= len(t.leaf) || !t.leaf[v.slot]:
			return fmt.Errorf("independent %d: %w", i, ErrNotLeaf)
		}
		slots[i] = v.slot
	}
	t.independents = slots
	t.haveIndep = true
	return nil
}

// Dependent declares the dependent set, replacing any previous declaration.
// Untracked cells are allowed; their derivatives are zero.
func (t *GradientTape) Dependent(vars ...Var) error {
	slots := make([]int32, len(vars))
	for i, v := range vars {
		if v.tape != nil && v.tape != t {
			return fmt.Errorf("dependent %d: %w", i, ErrForeignVar)
		}
		slots[i] = v.operand().Slot
	}
	t.dependents = slots
	t.haveDep = true
	return nil
}

// Jacobian fills dst with ∂dependent[i]/∂independent[j] at dst[i + j*nDep].
//
// Each independent owns one contiguous block of nDep entries. When there are no
// more independents than dependents, one forward tangent sweep per independent
// writes one block at a time; otherwise one reverse adjoint sweep per dependent
// is cheaper.
func (t *GradientTape) Jacobian(dst []float64) error {
	if !t.haveIndep {
		return ErrNoIndependents
	}
	if !t.haveDep {
		return ErrNoDependents
	}
	nIndep, nDep := len(t.independents), len(t.dependents)
	if len(dst) != nIndep*nDep {
		return fmt.Errorf("%w: got %d, want %d×%d", ErrJacobianSize, len(dst), nIndep, nDep)
	}
	if len(dst) == 0 {
		return nil
	}

	// Stop recording during the sweep; nothing computed here belongs on the tape
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	if nIndep <= nDep {
		t.forward(dst, nDep)
	} else {
		t.reverse(dst, nDep)
	}
	return nil
}

// forward runs one tangent sweep per independent.
func (t *GradientTape) forward(dst []float64, nDep int) {
	tangents := make([]float64, len(t.leaf))
	for j, seed := range t.independents {
		clear(tangents)
		tangents[seed] = 1
		for i := range t.operations {
			t.operations[i].Forward(tangents)
		}

		block := dst[j*nDep : (j+1)*nDep]
		for i, d := range t.dependents {
			if d == ops.NoSlot {
				block[i] = 0
				continue
			}
			block[i] = tangents[d]
		}
	}
}

// reverse runs one adjoint sweep per dependent.
func (t *GradientTape) reverse(dst []float64, nDep int) {
	adjoints := make([]float64, len(t.leaf))
	for i, d := range t.dependents {
		if d == ops.NoSlot {
			for j := range t.independents {
				dst[i+j*nDep] = 0
			}
			continue
		}

		clear(adjoints)
		adjoints[d] = 1
		// Walk tape backwards
		for k := len(t.operations) - 1; k >= 0; k-- {
			t.operations[k].Backward(adjoints)
		}

		for j, s := range t.independents {
			dst[i+j*nDep] = adjoints[s]
		}
	}
}

// newSlot allocates a tracked cell.
func (t *GradientTape) newSlot(leaf bool) int32 {
	t.leaf = append(t.leaf, leaf)
	return int32(len(t.leaf) - 1)
}

// resultSlot allocates the slot for the result of an operation, or returns
// ops.NoSlot when nothing needs to be recorded.
func (t *GradientTape) resultSlot(tracked bool) int32 {
	if t == nil || !t.recording || !tracked {
		return ops.NoSlot
	}
	return t.newSlot(false)
}
