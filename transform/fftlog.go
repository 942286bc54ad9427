package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/bob-anderson-ok/layeredem/filters"
)

// fftlogU is the Mellin transform of the kernel of a Hankel transform of
// order mu with power-law bias q.
func fftlogU(mu, q, w float64) complex128 {
	x := complex(q, w)
	return cmplx.Exp(x*math.Ln2 + filters.LnGamma((complex(mu+1, 0)+x)/2) - filters.LnGamma((complex(mu+1, 0)-x)/2))
}

// fftlog samples the response on a logarithmic grid extended beyond the
// requested times and transforms it with Hamilton's FFTLog. Sine and
// cosine transforms are Hankel transforms of order 1/2 and -1/2.
func (p *Plan) fftlog() error {
	c := p.cfg
	mu := 0.5
	if p.kind == filters.Cosine {
		mu = -0.5
	}
	lo := math.Log10(floats.Min(p.times)) + c.AddDec[0]
	hi := math.Log10(floats.Max(p.times)) + c.AddDec[1]
	n := int(math.Ceil((hi-lo)*c.PtsPerDec)) + 1
	d := math.Ln10 / c.PtsPerDec
	tc := math.Pow(10, (lo+hi)/2)
	jc := float64(n-1) / 2

	// Low-ringing choice of kr.
	wn := math.Pi / d
	phi := cmplx.Phase(fftlogU(mu, c.Q, wn))
	lnkr := (phi - math.Pi*math.Round(phi/math.Pi)) / wn
	kr := math.Exp(lnkr)

	tcalc := make([]float64, n)
	om := make([]float64, n)
	for j := range tcalc {
		e := math.Exp((float64(j) - jc) * d)
		tcalc[j] = tc * e
		om[j] = kr / tc * e
	}
	p.Freq = toHz(om)

	u := make([]complex128, n)
	for m := range u {
		mm := m
		if m > n/2 {
			mm = m - n
		}
		w := 2 * math.Pi * float64(mm) / (float64(n) * d)
		f := fftlogU(mu, c.Q, w) * cmplx.Exp(complex(0, -w*lnkr+4*math.Pi*float64(mm)*jc/float64(n)))
		if n%2 == 0 && m == n/2 {
			f = complex(real(f), 0)
		}
		u[m] = f / complex(float64(n), 0)
	}

	x := make([]float64, n)
	for j, t := range tcalc {
		x[j] = math.Log(t)
	}
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		a := make([]complex128, n)
		for j, w := range om {
			a[j] = complex(integrand(p.signal, w, resp[j])*math.Sqrt(w)*math.Pow(w, -c.Q), 0)
		}
		fft := fourier.NewCmplxFFT(n)
		cf := fft.Coefficients(nil, a)
		for m := range cf {
			cf[m] *= u[m]
		}
		at := fft.Coefficients(nil, cf)
		vals := make([]float64, n)
		for j, t := range tcalc {
			vals[j] = 2 / math.Pi * math.Sqrt(math.Pi/2) * real(at[j]) / math.Sqrt(t) * math.Pow(t, -c.Q)
		}
		return x, vals, true, nil
	}
	return nil
}
