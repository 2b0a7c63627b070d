package function

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Composite is the sum of several member functions evaluated over the same
// domain. Member parameters are exposed in member order as "f<k>.<name>".
type Composite struct {
	members []Function
	offsets []int // offsets[k] is the index of member k's first parameter
	nParams int
}

// NewComposite creates a composite of the given members.
func NewComposite(members ...Function) (*Composite, error) {
	c := &Composite{}
	for _, m := range members {
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a member function.
func (c *Composite) Add(fn Function) error {
	if IsNil(fn) {
		return ErrNilFunction
	}
	c.members = append(c.members, fn)
	c.offsets = append(c.offsets, c.nParams)
	c.nParams += fn.NParams()
	return nil
}

// NMembers returns the number of member functions.
func (c *Composite) NMembers() int {
	return len(c.members)
}

// Member returns member k.
func (c *Composite) Member(k int) Function {
	return c.members[k]
}

// Name returns "composite".
func (c *Composite) Name() string {
	return "composite"
}

// NParams returns the total number of member parameters.
func (c *Composite) NParams() int {
	return c.nParams
}

// locate maps a global parameter index to (member, local index).
func (c *Composite) locate(i int) (int, int, error) {
	if i < 0 || i >= c.nParams {
		return 0, 0, indexError("parameter", i, c.nParams)
	}
	k := len(c.offsets) - 1
	for k > 0 && (c.offsets[k] > i || c.members[k].NParams() == 0) {
		k--
	}
	return k, i - c.offsets[k], nil
}

// Parameter returns the value of global parameter i. It panics if i is out of range.
func (c *Composite) Parameter(i int) float64 {
	k, j, err := c.locate(i)
	if err != nil {
		panic(err)
	}
	return c.members[k].Parameter(j)
}

// ParameterName returns "f<k>.<name>" for global parameter i. It panics if i is out of range.
func (c *Composite) ParameterName(i int) string {
	k, j, err := c.locate(i)
	if err != nil {
		panic(err)
	}
	return "f" + strconv.Itoa(k) + "." + c.members[k].ParameterName(j)
}

// ParameterIndex resolves "f<k>.<name>".
func (c *Composite) ParameterIndex(name string) (int, error) {
	prefix, local, ok := strings.Cut(name, ".")
	if !ok || !strings.HasPrefix(prefix, "f") {
		return 0, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	k, err := strconv.Atoi(prefix[1:])
	if err != nil || k < 0 || k >= len(c.members) {
		return 0, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	j, err := c.members[k].ParameterIndex(local)
	if err != nil {
		return 0, fmt.Errorf("member %d: %w", k, err)
	}
	return c.offsets[k] + j, nil
}

// SetParameter sets global parameter i.
func (c *Composite) SetParameter(i int, v float64) error {
	k, j, err := c.locate(i)
	if err != nil {
		return err
	}
	return c.members[k].SetParameter(j, v)
}

// Function writes the sum of the member values into values.
func (c *Composite) Function(domain Domain, values *Values) error {
	if values == nil {
		return fmt.Errorf("%w: nil values", ErrSizeMismatch)
	}
	sum := NewValues(values.Len())
	tmp := NewValues(values.Len())
	for k, m := range c.members {
		if err := m.Function(domain, tmp); err != nil {
			return fmt.Errorf("member %d (%s): %w", k, m.Name(), err)
		}
		if err := sum.AddValues(tmp); err != nil {
			return err
		}
	}
	copy(values.Slice(), sum.Slice())
	return nil
}

// FunctionDeriv lets every member write its own block of columns. The
// members write into a scratch Jacobian, which is copied into jacobian only
// when all of them succeed.
func (c *Composite) FunctionDeriv(domain Domain, jacobian Jacobian) error {
	if jacobian == nil {
		return fmt.Errorf("%w: nil jacobian", ErrSizeMismatch)
	}
	scratch := newStagedJacobian(jacobian)
	for k, m := range c.members {
		if m.NParams() == 0 {
			continue
		}
		if err := m.FunctionDeriv(domain, &PartialJacobian{J: scratch, Offset: c.offsets[k]}); err != nil {
			return fmt.Errorf("member %d (%s): %w", k, m.Name(), err)
		}
	}
	return scratch.commit(c.nParams)
}

// stagedJacobian buffers writes for a parent Jacobian. A Sized parent gets a
// dense buffer of the same extent; any other parent gets a sparse one whose
// bounds are checked against the parent without writing to it.
type stagedJacobian struct {
	parent Jacobian
	dense  *DenseJacobian
	sparse map[[2]int]float64
}

func newStagedJacobian(parent Jacobian) *stagedJacobian {
	if sized, ok := parent.(Sized); ok {
		rows, cols := sized.Dims()
		return &stagedJacobian{parent: parent, dense: NewDenseJacobian(rows, cols)}
	}
	return &stagedJacobian{parent: parent, sparse: make(map[[2]int]float64)}
}

func (s *stagedJacobian) Set(iY, iP int, v float64) error {
	if s.dense != nil {
		return s.dense.Set(iY, iP, v)
	}
	if _, err := s.parent.Get(iY, iP); err != nil {
		return err
	}
	s.sparse[[2]int{iY, iP}] = v
	return nil
}

func (s *stagedJacobian) Get(iY, iP int) (float64, error) {
	if s.dense != nil {
		return s.dense.Get(iY, iP)
	}
	if v, ok := s.sparse[[2]int{iY, iP}]; ok {
		return v, nil
	}
	return s.parent.Get(iY, iP)
}

// commit copies the buffered entries of the first nCols columns into the parent.
func (s *stagedJacobian) commit(nCols int) error {
	if s.dense == nil {
		for at, v := range s.sparse {
			if err := s.parent.Set(at[0], at[1], v); err != nil {
				return err
			}
		}
		return nil
	}
	rows, cols := s.dense.Dims()
	nCols = min(nCols, cols)
	if rows == 0 || nCols == 0 {
		return nil
	}
	if dst, ok := s.parent.(*DenseJacobian); ok {
		dst.m.Slice(0, rows, 0, nCols).(*mat.Dense).Copy(s.dense.m.Slice(0, rows, 0, nCols))
		return nil
	}
	for i := 0; i < rows; i++ {
		for k := 0; k < nCols; k++ {
			if err := s.parent.Set(i, k, s.dense.m.At(i, k)); err != nil {
				return err
			}
		}
	}
	return nil
}
