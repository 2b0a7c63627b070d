package crossval

import (
	"github.com/born-ml/curvefit/internal/function"
	"github.com/born-ml/curvefit/internal/peaks"
)

// DefaultCases returns the built-in comparison set: the unit Gaussian over 101
// points in [-2, 2], a wide Gaussian at the scale of a diffraction spectrum,
// and Lorentzian and Pearson VII peaks with asymmetric parameters.
func DefaultCases() []Case {
	unit := mustSpan(-2, 2, 101)
	return []Case{
		{
			Name:       "gaussian-unit",
			Shape:      peaks.Gaussian,
			Parameters: map[string]float64{"Height": 1, "Sigma": 1, "PeakCentre": 0},
			Domain:     unit,
		},
		{
			Name:       "gaussian-spectrum",
			Shape:      peaks.Gaussian,
			Parameters: map[string]float64{"Height": 224.5209864353441, "Sigma": 22.452098643534413, "PeakCentre": 827.127667318377},
			Domain:     mustSpan(700, 950, 251),
		},
		{
			Name:       "lorentzian",
			Shape:      peaks.Lorentzian,
			Parameters: map[string]float64{"Height": 2.5, "Gamma": 0.35, "Centre": 0.2},
			Domain:     unit,
		},
		{
			Name:       "pearson7-narrow",
			Shape:      peaks.PearsonVII,
			Parameters: map[string]float64{"Height": 1.2, "Gamma": 0.4, "Centre": -0.1, "m": 1.5},
			Domain:     unit,
		},
		{
			Name:       "pearson7-wide",
			Shape:      peaks.PearsonVII,
			Parameters: map[string]float64{"Height": 0.8, "Gamma": 1.1, "Centre": 0.3, "m": 3},
			Domain:     unit,
		},
	}
}

func mustSpan(start, end float64, n int) function.Domain {
	d, err := function.NewDomain1DSpan(start, end, n)
	if err != nil {
		panic(err)
	}
	return d
}
