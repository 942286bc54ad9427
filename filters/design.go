package filters

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/integrate/quad"
)

// Kind selects the integral transform a set of weights is designed for.
type Kind int

const (
	BesselJ0 Kind = iota // ∫ f(λ) J0(λr) dλ
	BesselJ1             // ∫ f(λ) J1(λr) dλ
	Sine                 // ∫ f(ω) sin(ωt) dω
	Cosine               // ∫ f(ω) cos(ωt) dω
)

func (k Kind) String() string {
	switch k {
	case BesselJ0:
		return "j0"
	case BesselJ1:
		return "j1"
	case Sine:
		return "sin"
	case Cosine:
		return "cos"
	}
	return "unknown"
}

// Design describes a filter on the logarithmic base grid
// b_k = exp(Min + k*Spacing), k = 0..Len()-1.
//
// The weights are obtained in the Fourier domain of the log variable: the
// transform kernel has the closed-form spectrum K(ω), which is tapered to
// zero between Cutoff*π/Spacing and the Nyquist frequency π/Spacing and
// sampled back onto the base grid.
type Design struct {
	Spacing float64 // Step of ln(base)
	Min     float64 // ln of the first base value
	Max     float64 // ln of the last base value
	Cutoff  float64 // Start of the spectral taper as a fraction of the Nyquist frequency
	Panels  int     // Number of Gauss-Legendre panels on [0, π/Spacing]
	Order   int     // Gauss-Legendre points per panel
}

// DefaultDesign is used for the built-in Hankel and Fourier filters.
var DefaultDesign = Design{
	Spacing: 0.1,
	Min:     -20,
	Max:     16,
	Cutoff:  0.6,
	Panels:  600,
	Order:   8,
}

// Len returns the number of filter points.
func (d Design) Len() int {
	return int(math.Round((d.Max-d.Min)/d.Spacing)) + 1
}

// Base returns the abscissae of the filter.
func (d Design) Base() []float64 {
	base := make([]float64, d.Len())
	for k := range base {
		base[k] = math.Exp(d.Min + float64(k)*d.Spacing)
	}
	return base
}

// Weights computes the filter weights for the given transform kind.
func (d Design) Weights(kind Kind) []float64 {
	wn := math.Pi / d.Spacing
	w1 := d.Cutoff * wn
	h := wn / float64(d.Panels)

	x := make([]float64, d.Order)
	gw := make([]float64, d.Order)
	w := make([]float64, d.Len())
	var legendre quad.Legendre
	for p := 0; p < d.Panels; p++ {
		a := float64(p) * h
		legendre.FixedLocations(x, gw, a, a+h)
		for i, om := range x {
			t := gw[i] * taper(om, w1, wn)
			if t == 0 {
				continue
			}
			kh := complex(t, 0) * spectrum(kind, om)
			ph := cmplx.Exp(complex(0, -om*d.Min))
			step := cmplx.Exp(complex(0, -om*d.Spacing))
			for k := range w {
				w[k] += real(kh * ph)
				ph *= step
			}
		}
	}
	scale := d.Spacing / math.Pi
	for k := range w {
		w[k] *= scale
	}
	return w
}

// taper is one below w1, zero above wn and a C-infinity step in between.
func taper(om, w1, wn float64) float64 {
	switch {
	case om <= w1:
		return 1
	case om >= wn:
		return 0
	}
	t := (om - w1) / (wn - w1)
	a := math.Exp(-1 / (1 - t))
	b := math.Exp(-1 / t)
	return a / (a + b)
}

// spectrum is the Fourier transform, in the log variable, of the kernel
// k(x) = x*J(x) for the given transform kind.
func spectrum(kind Kind, om float64) complex128 {
	switch kind {
	case BesselJ0, BesselJ1:
		n := 0.0
		if kind == BesselJ1 {
			n = 1
		}
		g := LnGamma(complex((n+1)/2, om/2))
		return cmplx.Exp(complex(0, om*math.Ln2+2*imag(g)))
	case Sine:
		return cmplx.Exp(LnGamma(complex(1, om)) + complex(logCosh(math.Pi*om/2), 0))
	case Cosine:
		v := cmplx.Exp(LnGamma(complex(1, om)) + complex(logSinh(math.Pi*om/2), 0))
		return complex(imag(v), -real(v))
	}
	return 0
}

func logCosh(x float64) float64 {
	return x + math.Log1p(math.Exp(-2*x)) - math.Ln2
}

func logSinh(x float64) float64 {
	return x + math.Log1p(-math.Exp(-2*x)) - math.Ln2
}
