package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bob-anderson-ok/layeredem/filters"
	"github.com/bob-anderson-ok/layeredem/kernel"
)

// HankelMethod selects the Hankel transform.
type HankelMethod int

const (
	HankelDLF  HankelMethod = iota // Digital linear filter
	HankelQWE                      // Quadrature with extrapolation
	HankelQuad                     // Adaptive Gauss-Legendre quadrature
)

func (m HankelMethod) String() string {
	switch m {
	case HankelDLF:
		return "dlf"
	case HankelQWE:
		return "qwe"
	case HankelQuad:
		return "quad"
	}
	return fmt.Sprintf("HankelMethod(%d)", int(m))
}

// HankelConfig configures the Hankel transform. Zero tolerances and
// counts are replaced by the defaults of the method.
type HankelConfig struct {
	Method HankelMethod
	Filter *filters.Filter // DLF filter, nil for the built-in one

	// PtsPerDec is the DLF variant (0 standard, <0 lagged convolution,
	// >0 splined kernel with that many points per decade). For QWE and
	// Quad a positive value splines the kernel, 0 evaluates it directly.
	PtsPerDec float64

	RTol   float64 // QWE, Quad: relative tolerance
	ATol   float64 // QWE, Quad: absolute tolerance
	NQuad  int     // QWE: Gauss-Legendre points per interval
	MaxInt int     // QWE: maximum number of intervals
	Limit  int     // Quad: maximum number of subdivisions
	A, B   float64 // Quad: wavenumber range [1/m]
}

// DefaultHankel returns the default configuration for a method.
func DefaultHankel(m HankelMethod) HankelConfig {
	c := HankelConfig{Method: m}
	if m == HankelQuad {
		c.PtsPerDec = 40
	}
	return c.WithDefaults()
}

// WithDefaults fills unset fields.
func (c HankelConfig) WithDefaults() HankelConfig {
	switch c.Method {
	case HankelDLF:
		if c.Filter == nil {
			c.Filter = filters.Hankel()
		}
	case HankelQWE:
		setDefault(&c.RTol, 1e-12)
		setDefault(&c.ATol, 1e-30)
		setDefaultInt(&c.NQuad, 51)
		setDefaultInt(&c.MaxInt, 100)
	case HankelQuad:
		setDefault(&c.RTol, 1e-12)
		setDefault(&c.ATol, 1e-20)
		setDefaultInt(&c.Limit, 500)
		setDefault(&c.A, 1e-6)
		setDefault(&c.B, 0.1)
	}
	return c
}

func setDefault(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

func setDefaultInt(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}

// Validate checks the configuration.
func (c HankelConfig) Validate() error {
	switch c.Method {
	case HankelDLF:
		if c.Filter != nil {
			if err := c.Filter.Validate(); err != nil {
				return err
			}
			if !c.Filter.IsHankel() {
				return fmt.Errorf("%w: %q has no J0/J1 weights", filters.ErrBadFilter, c.Filter.Name)
			}
		}
	case HankelQWE:
		if c.NQuad < 0 || c.MaxInt < 0 || c.RTol < 0 || c.ATol < 0 {
			return fmt.Errorf("qwe: tolerances and counts must not be negative")
		}
	case HankelQuad:
		if c.Limit < 0 || c.RTol < 0 || c.ATol < 0 || c.A < 0 || c.B < 0 {
			return fmt.Errorf("quad: tolerances and limits must not be negative")
		}
		if c.A != 0 && c.B != 0 && c.A >= c.B {
			return fmt.Errorf("quad: a=%g must be smaller than b=%g", c.A, c.B)
		}
	default:
		return fmt.Errorf("unknown Hankel method %d", int(c.Method))
	}
	return nil
}

// AllOffsets reports whether the method needs every offset of a depth
// pair in a single call (lagged convolution and splined DLF).
func (c HankelConfig) AllOffsets() bool {
	return c.Method == HankelDLF && c.PtsPerDec != 0
}

// PerOffset reports whether the method integrates each offset on its own.
func (c HankelConfig) PerOffset() bool {
	return c.Method != HankelDLF
}

// Summary describes the configuration for reports.
func (c HankelConfig) Summary() []Setting {
	c = c.WithDefaults()
	switch c.Method {
	case HankelDLF:
		kind := "Standard"
		switch {
		case c.PtsPerDec < 0:
			kind = "Lagged Convolution"
		case c.PtsPerDec > 0:
			kind = fmt.Sprintf("Splined, %.1f pts/dec", c.PtsPerDec)
		}
		return []Setting{
			{"Hankel", "DLF (Fast Hankel Transform)"},
			{"  > Filter", c.Filter.Name},
			{"  > DLF type", kind},
		}
	case HankelQWE:
		return []Setting{
			{"Hankel", "Quadrature-with-Extrapolation"},
			{"  > rtol", fmt.Sprintf("%g", c.RTol)},
			{"  > atol", fmt.Sprintf("%g", c.ATol)},
			{"  > nquad", fmt.Sprintf("%d", c.NQuad)},
			{"  > maxint", fmt.Sprintf("%d", c.MaxInt)},
			{"  > pts_per_dec", fmt.Sprintf("%g", c.PtsPerDec)},
		}
	}
	return []Setting{
		{"Hankel", "Quadrature"},
		{"  > rtol", fmt.Sprintf("%g", c.RTol)},
		{"  > atol", fmt.Sprintf("%g", c.ATol)},
		{"  > limit", fmt.Sprintf("%d", c.Limit)},
		{"  > a", fmt.Sprintf("%g", c.A)},
		{"  > b", fmt.Sprintf("%g", c.B)},
		{"  > pts_per_dec", fmt.Sprintf("%g", c.PtsPerDec)},
	}
}

// Transform computes the Hankel integrals of fn at the offsets, which
// must all be positive. The boolean is false if an iterative method did
// not reach its tolerance for at least one offset.
func (c HankelConfig) Transform(fn KernelFunc, off []float64) ([]Integrals, bool, error) {
	c = c.WithDefaults()
	if len(off) == 0 {
		return nil, true, nil
	}
	switch c.Method {
	case HankelDLF:
		switch {
		case c.PtsPerDec < 0:
			out, err := dlfLagged(c.Filter, fn, off)
			return out, true, err
		case c.PtsPerDec > 0:
			out, err := dlfSplined(c.Filter, fn, off, c.PtsPerDec)
			return out, true, err
		}
		return dlfStandard(c.Filter, fn, off), true, nil
	case HankelQWE:
		return c.qwe(fn, off)
	case HankelQuad:
		return c.quad(fn, off)
	}
	return nil, false, fmt.Errorf("unknown Hankel method %d", int(c.Method))
}

// dlfSum applies the filter to kernel values r[start:start+len(base)].
func dlfSum(f *filters.Filter, r kernel.Response, start int, off float64) Integrals {
	var i0, i0b, i1 complex128
	for k := range f.Base {
		w0 := complex(f.J0[k], 0)
		i0 += r.PJ0[start+k] * w0
		i0b += r.PJ0b[start+k] * w0
		i1 += r.PJ1[start+k] * complex(f.J1[k], 0)
	}
	s := complex(1/off, 0)
	return Integrals{I0: i0 * s, I0b: i0b * s, I1: i1 * s}
}

func dlfStandard(f *filters.Filter, fn KernelFunc, off []float64) []Integrals {
	nb := len(f.Base)
	lam := make([]float64, nb*len(off))
	for i, o := range off {
		for k, b := range f.Base {
			lam[i*nb+k] = b / o
		}
	}
	r := fn(lam)
	out := make([]Integrals, len(off))
	for i, o := range off {
		out[i] = dlfSum(f, r, i*nb, o)
	}
	return out
}

// laggedRefine is the number of sub-shifted copies of the filter base. The
// lagged offsets are spaced by step/laggedRefine in log offset.
const laggedRefine = 10

// dlfLagged evaluates the kernel once on sub-shifted copies of the filter
// base, lagged over the offset range, and interpolates the integrals in log
// offset. The lagged range is padded by two filter steps on either side to
// keep the spline end conditions away from the requested offsets.
func dlfLagged(f *filters.Filter, fn KernelFunc, off []float64) ([]Integrals, error) {
	nb := len(f.Base)
	step := math.Log(f.Factor())
	lo := floats.Min(off) * math.Exp(-2*step)
	hi := floats.Max(off) * math.Exp(2*step)
	nl := int(math.Ceil(math.Log(hi/lo)/step)) + 1
	nlam := nb + nl - 1
	sub := step / laggedRefine

	// Copy q of the base is lagged from the offset hi*exp(-q*sub).
	lam := make([]float64, laggedRefine*nlam)
	for q := 0; q < laggedRefine; q++ {
		top := hi * math.Exp(-float64(q)*sub)
		for m := 0; m < nlam; m++ {
			if m < nb {
				lam[q*nlam+m] = f.Base[m] / top
			} else {
				lam[q*nlam+m] = f.Base[nb-1] * math.Exp(float64(m-nb+1)*step) / top
			}
		}
	}
	r := fn(lam)

	// Lagged offsets in increasing order: index j holds hi*exp(-j'*sub) with
	// j' = n-1-j = shift*laggedRefine + q.
	n := nl * laggedRefine
	x := make([]float64, n)
	i0 := make([]complex128, n)
	i0b := make([]complex128, n)
	i1 := make([]complex128, n)
	for j := 0; j < n; j++ {
		lag := n - 1 - j
		shift, q := lag/laggedRefine, lag%laggedRefine
		o := hi * math.Exp(-float64(lag)*sub)
		v := dlfSum(f, r, q*nlam+shift, o)
		x[j] = math.Log(o)
		i0[j], i0b[j], i1[j] = v.I0, v.I0b, v.I1
	}
	s0, err := fitComplex(x, i0)
	if err != nil {
		return nil, err
	}
	s0b, err := fitComplex(x, i0b)
	if err != nil {
		return nil, err
	}
	s1, err := fitComplex(x, i1)
	if err != nil {
		return nil, err
	}
	out := make([]Integrals, len(off))
	for i, o := range off {
		lx := math.Log(o)
		out[i] = Integrals{I0: s0.at(lx), I0b: s0b.at(lx), I1: s1.at(lx)}
	}
	return out, nil
}

// splinedKernel evaluates fn on a log-spaced wavenumber grid covering
// [lo, hi] and returns an interpolating replacement for fn.
func splinedKernel(fn KernelFunc, lo, hi, ppd float64) (KernelFunc, error) {
	x := logGrid(lo, hi, ppd, 4)
	lam := make([]float64, len(x))
	for i, v := range x {
		lam[i] = math.Exp(v)
	}
	r := fn(lam)
	s0, err := fitComplex(x, r.PJ0)
	if err != nil {
		return nil, err
	}
	s0b, err := fitComplex(x, r.PJ0b)
	if err != nil {
		return nil, err
	}
	s1, err := fitComplex(x, r.PJ1)
	if err != nil {
		return nil, err
	}
	return func(lambda []float64) kernel.Response {
		out := kernel.Response{
			PJ0:  make([]complex128, len(lambda)),
			PJ0b: make([]complex128, len(lambda)),
			PJ1:  make([]complex128, len(lambda)),
		}
		for i, l := range lambda {
			ll := math.Log(l)
			out.PJ0[i] = s0.at(ll)
			out.PJ0b[i] = s0b.at(ll)
			out.PJ1[i] = s1.at(ll)
		}
		return out
	}, nil
}

func dlfSplined(f *filters.Filter, fn KernelFunc, off []float64, ppd float64) ([]Integrals, error) {
	lo, hi := floats.Min(off), floats.Max(off)
	sfn, err := splinedKernel(fn, f.Base[0]/hi, f.Base[len(f.Base)-1]/lo, ppd)
	if err != nil {
		return nil, err
	}
	return dlfStandard(f, sfn, off), nil
}
