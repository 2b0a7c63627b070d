package autofunc

import (
	"time"

	"github.com/born-ml/curvefit/internal/function"
)

// Evaluation describes one completed call of Function, FunctionDeriv or
// EvaluateWithDerivative.
type Evaluation struct {
	Function   string        // Model name
	Derivative bool          // Whether a Jacobian was requested
	Samples    int           // Number of outputs
	Parameters int           // Number of parameters
	TapeOps    int           // Recorded operations (derivative path only)
	Duration   time.Duration // Wall-clock time of the call
	Err        error         // Returned error, if any
}

// Observer receives a report after every evaluation.
type Observer interface {
	Observe(ev Evaluation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Evaluation)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Evaluation) {
	f(ev)
}

// begin starts an evaluation report.
func (c *core) begin(derivative bool) (Evaluation, time.Time) {
	return Evaluation{Function: c.model.Name, Derivative: derivative}, time.Now()
}

// finish completes the report and hands it to the observer, if any.
func (c *core) finish(ev *Evaluation, start time.Time, err error) {
	if c.observer == nil {
		return
	}
	ev.Duration = time.Since(start)
	ev.Err = err
	c.observer.Observe(*ev)
}

// Attach installs o on fn if it accepts an observer and, for composites, on
// every member recursively. It returns the number of functions observed.
func Attach(fn function.Function, o Observer) int {
	n := 0
	if f, ok := fn.(interface{ SetObserver(Observer) }); ok {
		f.SetObserver(o)
		n++
	}
	if c, ok := fn.(interface {
		NMembers() int
		Member(k int) function.Function
	}); ok {
		for k := 0; k < c.NMembers(); k++ {
			n += Attach(c.Member(k), o)
		}
	}
	return n
}
