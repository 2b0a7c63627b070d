package autofunc_test

import (
	"fmt"

	"github.com/born-ml/curvefit/autodiff"
	"github.com/born-ml/curvefit/autofunc"
	"github.com/born-ml/curvefit/function"
)

// line is a*x + b.
func line[T autodiff.Scalar[T]](x []float64, y []T, p *autofunc.Parameters[T]) error {
	c, err := p.Resolve("a", "b")
	if err != nil {
		return err
	}
	for i, xi := range x {
		y[i] = c[0].Scale(xi).Add(c[1])
	}
	return nil
}

func Example() {
	fn, err := autofunc.NewFunction1D(autofunc.Model{
		Name:       "line",
		Parameters: []autofunc.ParameterSpec{{Name: "a", Default: 2}, {Name: "b", Default: 1}},
		Value:      line[autodiff.Float],
		AutoDiff:   line[autodiff.Var],
	})
	if err != nil {
		panic(err)
	}

	domain := function.NewDomain1D([]float64{0, 1, 2})
	values := function.NewValuesFor(domain)
	jac := function.NewDenseJacobian(3, 2)
	if err := fn.EvaluateWithDerivative(domain, values, jac, nil); err != nil {
		panic(err)
	}

	for i := 0; i < 3; i++ {
		da, _ := jac.Get(i, 0)
		db, _ := jac.Get(i, 1)
		fmt.Printf("y=%g dy/da=%g dy/db=%g\n", values.Slice()[i], da, db)
	}
	// Output:
	// y=1 dy/da=0 dy/db=1
	// y=3 dy/da=1 dy/db=1
	// y=5 dy/da=2 dy/db=1
}
