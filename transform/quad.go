package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/integrate/quad"
)

// quadOrder is the number of Gauss-Legendre points per panel.
const quadOrder = 10

// panel is a wavenumber interval waiting for refinement.
type panel struct {
	a, b float64
	est  [3]complex128
}

// gaussRule integrates the three Hankel integrands over single panels.
type gaussRule struct {
	fn   KernelFunc
	off  float64
	x, w []float64 // nodes and weights on [-1, 1]
	lam  []float64
}

func newGaussRule(fn KernelFunc, off float64) *gaussRule {
	g := &gaussRule{
		fn:  fn,
		off: off,
		x:   make([]float64, quadOrder),
		w:   make([]float64, quadOrder),
		lam: make([]float64, quadOrder),
	}
	quad.Legendre{}.FixedLocations(g.x, g.w, -1, 1)
	return g
}

func (g *gaussRule) panel(a, b float64) [3]complex128 {
	mid, half := (a+b)/2, (b-a)/2
	for q, x := range g.x {
		g.lam[q] = mid + half*x
	}
	r := g.fn(g.lam)
	var s [3]complex128
	for q, l := range g.lam {
		lo := l * g.off
		wq := g.w[q] * half
		j0 := complex(wq*math.J0(lo), 0)
		s[0] += r.PJ0[q] * j0
		s[1] += r.PJ0b[q] * j0
		s[2] += r.PJ1[q] * complex(wq*math.J1(lo), 0)
	}
	return s
}

// integrate refines the panels between consecutive edges by bisection
// until every panel agrees with the sum of its halves. At most limit
// bisections are made; beyond that the current estimates are accepted and
// ok is false.
func (g *gaussRule) integrate(edges []float64, rtol, atol float64, limit int) (s [3]complex128, ok bool) {
	stack := make([]panel, 0, len(edges)+limit)
	for i := len(edges) - 1; i > 0; i-- {
		a, b := edges[i-1], edges[i]
		stack = append(stack, panel{a: a, b: b, est: g.panel(a, b)})
	}
	ok = true
	splits := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mid := (p.a + p.b) / 2
		left, right := g.panel(p.a, mid), g.panel(mid, p.b)
		done := true
		for k := range p.est {
			fine := left[k] + right[k]
			if cmplx.Abs(fine-p.est[k]) > math.Max(rtol*cmplx.Abs(fine), atol) {
				done = false
				break
			}
		}
		if done || splits >= limit {
			if !done {
				ok = false
			}
			for k := range s {
				s[k] += left[k] + right[k]
			}
			continue
		}
		splits++
		stack = append(stack, panel{a: mid, b: p.b, est: right}, panel{a: p.a, b: mid, est: left})
	}
	return s, ok
}

// quad integrates the kernel over the wavenumber range [A, B] with
// adaptive Gauss-Legendre quadrature, one offset at a time.
func (c HankelConfig) quad(fn KernelFunc, off []float64) ([]Integrals, bool, error) {
	ppd := c.PtsPerDec
	if ppd > 0 {
		sfn, err := splinedKernel(fn, c.A, c.B, ppd)
		if err != nil {
			return nil, false, err
		}
		fn = sfn
	} else {
		ppd = 10
	}
	edges := logGrid(c.A, c.B, ppd, 2)
	for i, v := range edges {
		edges[i] = math.Exp(v)
	}
	edges[0], edges[len(edges)-1] = c.A, c.B

	out := make([]Integrals, len(off))
	allConverged := true
	for i, o := range off {
		s, ok := newGaussRule(fn, o).integrate(edges, c.RTol, c.ATol, c.Limit)
		out[i] = Integrals{I0: s[0], I0b: s[1], I1: s[2]}
		allConverged = allConverged && ok
	}
	return out, allConverged, nil
}
