package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/bob-anderson-ok/layeredem/filters"
)

// besselZeros returns the first n positive zeros of J0 (order 0) or J1
// (order 1): McMahon's expansion polished by Newton steps.
func besselZeros(order, n int) []float64 {
	z := make([]float64, n)
	mu := 4 * float64(order*order)
	for k := 1; k <= n; k++ {
		b := (float64(k) + float64(order)/2 - 0.25) * math.Pi
		x := b - (mu-1)/(8*b) - 4*(mu-1)*(7*mu-31)/(3*math.Pow(8*b, 3))
		for it := 0; it < 20; it++ {
			j, dj := besselJ(order, x)
			dx := j / dj
			x -= dx
			if math.Abs(dx) < 1e-15*x {
				break
			}
		}
		z[k-1] = x
	}
	return z
}

func besselJ(order int, x float64) (j, dj float64) {
	if order == 0 {
		return math.J0(x), -math.J1(x)
	}
	j = math.J1(x)
	return j, math.J0(x) - j/x
}

// epsilon extrapolates a sequence of partial sums with Wynn's epsilon
// algorithm, keeping only the last counter-diagonal of the table.
type epsilon struct {
	e []complex128
}

const (
	epsTiny = 1e-300
	epsHuge = 1e300
)

// add appends the next partial sum and returns the current estimate of
// the limit.
func (w *epsilon) add(s complex128) complex128 {
	w.e = append(w.e, s)
	n := len(w.e) - 1
	if n == 0 {
		return s
	}
	var aux2 complex128
	for j := n; j >= 1; j-- {
		aux1 := aux2
		aux2 = w.e[j-1]
		diff := w.e[j] - aux2
		if cmplx.Abs(diff) < epsTiny {
			w.e[j-1] = epsHuge
		} else {
			w.e[j-1] = aux1 + 1/diff
		}
	}
	if n%2 == 0 {
		return w.e[0]
	}
	return w.e[1]
}

// series tracks one extrapolated integral.
type series struct {
	eps    epsilon
	sum    complex128
	est    complex128
	hits   int
	rtol   float64
	atol   float64
	nterms int
}

// push adds the integral over the next interval. The series counts as
// converged once two consecutive estimates agree within tolerance.
func (s *series) push(v complex128) {
	if s.nterms > 0 && s.sum+v == s.sum {
		// The partial sum no longer moves; the estimate stands.
		s.nterms++
		s.hits++
		return
	}
	s.sum += v
	prev := s.est
	s.est = s.eps.add(s.sum)
	if cmplx.IsNaN(s.est) || cmplx.Abs(s.est) >= epsHuge/2 {
		s.est = s.sum
	}
	s.nterms++
	if s.nterms < 2 {
		return
	}
	if cmplx.Abs(s.est-prev) <= s.rtol*cmplx.Abs(s.est)+s.atol {
		s.hits++
	} else {
		s.hits = 0
	}
}

func (s *series) converged() bool { return s.hits >= 2 }

// qwe integrates each offset interval by interval between the zeros of J1
// and extrapolates the partial sums.
func (c HankelConfig) qwe(fn KernelFunc, off []float64) ([]Integrals, bool, error) {
	zeros := besselZeros(1, c.MaxInt)
	if c.PtsPerDec > 0 {
		x := make([]float64, c.NQuad)
		w := make([]float64, c.NQuad)
		quad.Legendre{}.FixedLocations(x, w, 0, zeros[0])
		lo, hi := floats.Min(off), floats.Max(off)
		sfn, err := splinedKernel(fn, floats.Min(x)/hi, zeros[len(zeros)-1]/lo, c.PtsPerDec)
		if err != nil {
			return nil, false, err
		}
		fn = sfn
	}

	x := make([]float64, c.NQuad)
	w := make([]float64, c.NQuad)
	lam := make([]float64, c.NQuad)
	out := make([]Integrals, len(off))
	allConverged := true
	var legendre quad.Legendre
	for i, o := range off {
		s0 := series{rtol: c.RTol, atol: c.ATol}
		s0b := series{rtol: c.RTol, atol: c.ATol}
		s1 := series{rtol: c.RTol, atol: c.ATol}
		start := 0.0
		for _, end := range zeros {
			legendre.FixedLocations(x, w, start, end)
			for q, xq := range x {
				lam[q] = xq / o
			}
			r := fn(lam)
			var p0, p0b, p1 complex128
			for q, xq := range x {
				j0 := complex(w[q]*math.J0(xq)/o, 0)
				p0 += r.PJ0[q] * j0
				p0b += r.PJ0b[q] * j0
				p1 += r.PJ1[q] * complex(w[q]*math.J1(xq)/o, 0)
			}
			s0.push(p0)
			s0b.push(p0b)
			s1.push(p1)
			if s0.converged() && s0b.converged() && s1.converged() {
				break
			}
			start = end
		}
		out[i] = Integrals{I0: s0.est, I0b: s0b.est, I1: s1.est}
		if !(s0.converged() && s0b.converged() && s1.converged()) {
			allConverged = false
		}
	}
	return out, allConverged, nil
}

// qwe integrates the sine or cosine transform of the splined response
// interval by interval between the zeros of the kernel.
func (p *Plan) qwe() {
	c := p.cfg
	ends := make([]float64, c.MaxInt)
	for k := range ends {
		if p.kind == filters.Sine {
			ends[k] = float64(k+1) * math.Pi
		} else {
			ends[k] = (float64(k) + 0.5) * math.Pi
		}
	}
	x := make([]float64, c.NQuad)
	w := make([]float64, c.NQuad)
	var legendre quad.Legendre
	legendre.FixedLocations(x, w, 0, ends[0])
	lo, hi := floats.Min(p.times), floats.Max(p.times)
	lw := logGrid(floats.Min(x)/hi, ends[len(ends)-1]/lo, c.PtsPerDec, 4)
	om := make([]float64, len(lw))
	for i, v := range lw {
		om[i] = math.Exp(v)
	}
	p.Freq = toHz(om)

	kfn := math.Sin
	if p.kind == filters.Cosine {
		kfn = math.Cos
	}
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		s, err := fitComplex(lw, resp)
		if err != nil {
			return nil, nil, false, err
		}
		x := make([]float64, c.NQuad)
		w := make([]float64, c.NQuad)
		out := make([]float64, len(p.times))
		allConverged := true
		for i, t := range p.times {
			sr := series{rtol: c.RTol, atol: c.ATol}
			start := 0.0
			for _, end := range ends {
				legendre.FixedLocations(x, w, start, end)
				var v float64
				for q, xq := range x {
					wq := xq / t
					v += w[q] * integrand(p.signal, wq, s.at(math.Log(wq))) * kfn(xq)
				}
				sr.push(complex(v/t, 0))
				if sr.converged() {
					break
				}
				start = end
			}
			out[i] = 2 / math.Pi * real(sr.est)
			allConverged = allConverged && sr.converged()
		}
		return nil, out, allConverged, nil
	}
}
