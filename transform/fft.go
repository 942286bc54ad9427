package transform

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/bob-anderson-ok/layeredem/filters"
)

// fft computes the response at nfreq linearly spaced frequencies and sums
// the sine or cosine series with one inverse real FFT of length 2n, where
// n = max(ntot, nfreq+1). Between nfreq·dfreq and n·dfreq the integrand
// falls linearly to zero. The result is sampled at t = j/(2n·dfreq).
func (p *Plan) fft() {
	c := p.cfg
	n := max(c.NTot, c.NFreq+1)
	p.Freq = make([]float64, c.NFreq)
	for k := range p.Freq {
		p.Freq[k] = float64(k+1) * c.DFreq
	}
	dw := 2 * math.Pi * c.DFreq
	tcalc := make([]float64, n-1)
	for j := range tcalc {
		tcalc[j] = float64(j+1) / (2 * float64(n) * c.DFreq)
	}
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		// g[k] is the integrand at k·dfreq; g[n] is the Nyquist value.
		g := make([]float64, n+1)
		for k, f := range p.Freq {
			g[k+1] = integrand(p.signal, 2*math.Pi*f, resp[k])
		}
		for k := c.NFreq + 1; k < n; k++ {
			g[k] = g[c.NFreq] * float64(n-k) / float64(n-c.NFreq)
		}

		// Sequence returns c0 + 2·Σ Re(ck·e^{iωk·t}), so ck = g/2 sums the
		// cosine series with the trapezoidal DC term and ck = -ig/2 the
		// sine series.
		coeff := make([]complex128, n+1)
		for k := 1; k < n; k++ {
			if p.kind == filters.Cosine {
				coeff[k] = complex(g[k]/2, 0)
			} else {
				coeff[k] = complex(0, -g[k]/2)
			}
		}
		if p.kind == filters.Cosine {
			coeff[0] = complex(g[1]/2, 0)
		}
		seq := fourier.NewFFT(2*n).Sequence(nil, coeff)
		vals := make([]float64, n-1)
		for j := range vals {
			vals[j] = 2 / math.Pi * dw * seq[j+1]
		}
		return tcalc, vals, true, nil
	}
}
