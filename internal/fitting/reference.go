package fitting

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/curvefit/internal/function"
	"github.com/born-ml/curvefit/internal/peaks"
	"gonum.org/v1/gonum/stat/distuv"
)

// Peak is one Gaussian of a reference spectrum.
type Peak struct {
	Height float64 `yaml:"height" json:"height"`
	Centre float64 `yaml:"centre" json:"centre"`
	Sigma  float64 `yaml:"sigma" json:"sigma"`
}

// ReferencePeaks returns the twenty Gaussians of the reference spectrum,
// spread over [0, 5000].
func ReferencePeaks() []Peak {
	return []Peak{
		{Height: 2.245209864353441e2, Centre: 0.827127667318377e3, Sigma: 22.452098643534413},
		{Height: 1.510637181301955e2, Centre: 0.446507516865451e3, Sigma: 15.106371813019551},
		{Height: 0.976472331098110e2, Centre: 3.212031089462408e3, Sigma: 9.764723310981100},
		{Height: 2.155967444583149e2, Centre: 0.339620248883351e3, Sigma: 21.559674445831490},
		{Height: 2.096849388602564e2, Centre: 0.853734126295672e3, Sigma: 20.968493886025641},
		{Height: 2.001412921426884e2, Centre: 3.533866873710056e3, Sigma: 20.014129214268841},
		{Height: 0.813583834136194e2, Centre: 2.675258995780313e3, Sigma: 8.135838341361936},
		{Height: 0.870991001783003e2, Centre: 2.804395617510907e3, Sigma: 8.709910017830035},
		{Height: 1.859893820857897e2, Centre: 4.080720843054712e3, Sigma: 18.598938208578964},
		{Height: 1.702790456488836e2, Centre: 4.009692942511339e3, Sigma: 17.027904564888356},
		{Height: 1.285023552530342e2, Centre: 2.608962017782574e3, Sigma: 12.850235525303422},
		{Height: 2.235335496958465e2, Centre: 1.527833877767375e3, Sigma: 22.353354969584650},
		{Height: 1.252322988661303e2, Centre: 0.774391717294182e3, Sigma: 12.523229886613029},
		{Height: 2.289811034304849e2, Centre: 4.455669248757245e3, Sigma: 22.898110343048490},
		{Height: 1.281157243695577e2, Centre: 4.857387157338189e3, Sigma: 12.811572436955773},
		{Height: 1.306906792985985e2, Centre: 4.724126301815355e3, Sigma: 13.069067929859852},
		{Height: 1.837545751838062e2, Centre: 3.263015036059334e3, Sigma: 18.375457518380621},
		{Height: 1.076168964141773e2, Centre: 0.634832729798558e3, Sigma: 10.761689641417730},
		{Height: 1.206518519074316e2, Centre: 0.558598951514288e3, Sigma: 12.065185190743160},
		{Height: 0.565707936300742e2, Centre: 1.075764493763790e3, Sigma: 5.657079363007425},
	}
}

// ReferenceDomain returns the sample points of the reference spectrum.
func ReferenceDomain() function.Domain {
	d, err := function.NewDomain1DSpan(0, 5000, 5001)
	if err != nil {
		panic(err)
	}
	return d
}

// StartingPoint perturbs peaks the way the reference fit is started: heights
// scaled by 1.1, widths by 1.15, centres exact.
func StartingPoint(ps []Peak) []Peak {
	out := make([]Peak, len(ps))
	for i, p := range ps {
		out[i] = Peak{Height: p.Height * 1.1, Centre: p.Centre, Sigma: p.Sigma * 1.15}
	}
	return out
}

// NewGaussianComposite builds the sum of one Gaussian per peak, each
// computing its Jacobian the given way.
func NewGaussianComposite(kind peaks.DerivativeKind, ps []Peak) (*function.Composite, error) {
	c, err := function.NewComposite()
	if err != nil {
		return nil, err
	}
	for i, p := range ps {
		g, err := peaks.New(peaks.Gaussian, kind)
		if err != nil {
			return nil, err
		}
		for name, v := range map[string]float64{"Height": p.Height, "PeakCentre": p.Centre, "Sigma": p.Sigma} {
			if err := function.SetParameterByName(g, name, v); err != nil {
				return nil, fmt.Errorf("peak %d: %w", i, err)
			}
		}
		if err := c.Add(g); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Synthesize evaluates fn over domain and adds Gaussian noise with standard
// deviation noise, drawn from a generator seeded with seed.
func Synthesize(fn function.Function, domain function.Domain, noise float64, seed uint64) ([]float64, error) {
	if function.IsNil(fn) {
		return nil, function.ErrNilFunction
	}
	values := function.NewValuesFor(domain)
	if err := fn.Function(domain, values); err != nil {
		return nil, err
	}
	data := values.Slice()
	if noise <= 0 {
		return data, nil
	}
	dist := distuv.Normal{Mu: 0, Sigma: noise, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	for i := range data {
		data[i] += dist.Rand()
	}
	return data, nil
}
