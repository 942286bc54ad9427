// Package transform turns wavenumber-domain kernels into space-domain
// fields (Hankel transforms) and frequency-domain responses into
// time-domain responses (Fourier transforms).
//
// Hankel methods: digital linear filters (standard, lagged convolution,
// splined), quadrature with extrapolation (QWE) and adaptive quadrature.
// Fourier methods: sine/cosine digital linear filters, QWE, FFTLog and
// FFT. Every method reports whether it converged instead of failing; the
// caller decides how to surface non-convergence.
package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/bob-anderson-ok/layeredem/kernel"
)

// KernelFunc evaluates the wavenumber-domain kernel of one component for
// one source-receiver depth pair at the given wavenumbers.
type KernelFunc func(lambda []float64) kernel.Response

// Integrals holds the three Hankel integrals of a kernel at one offset:
// I0 = ∫PJ0 J0, I0b = ∫PJ0b J0 and I1 = ∫PJ1 J1.
type Integrals struct {
	I0, I0b, I1 complex128
}

// Setting is one line of a method summary.
type Setting struct {
	Key, Value string
}

// complexSpline interpolates a complex function of a real variable with
// two natural cubic splines.
type complexSpline struct {
	re, im interp.NaturalCubic
}

func fitComplex(x []float64, y []complex128) (*complexSpline, error) {
	re := make([]float64, len(y))
	im := make([]float64, len(y))
	for i, v := range y {
		re[i], im[i] = real(v), imag(v)
	}
	var s complexSpline
	if err := s.re.Fit(x, re); err != nil {
		return nil, fmt.Errorf("spline fit: %w", err)
	}
	if err := s.im.Fit(x, im); err != nil {
		return nil, fmt.Errorf("spline fit: %w", err)
	}
	return &s, nil
}

func (s *complexSpline) at(x float64) complex128 {
	return complex(s.re.Predict(x), s.im.Predict(x))
}

// fitReal fits a natural cubic spline through real samples.
func fitReal(x, y []float64) (*interp.NaturalCubic, error) {
	var s interp.NaturalCubic
	if err := s.Fit(x, y); err != nil {
		return nil, fmt.Errorf("spline fit: %w", err)
	}
	return &s, nil
}

// logGrid returns points at ppd per decade covering [lo, hi] in natural-log
// coordinates, with at least minPts points.
func logGrid(lo, hi, ppd float64, minPts int) []float64 {
	a, b := math.Log(lo), math.Log(hi)
	n := int(math.Ceil((b-a)/math.Ln10*ppd)) + 1
	if n < minPts {
		n = minPts
	}
	if n == 1 {
		return []float64{a}
	}
	return floats.Span(make([]float64, n), a, b)
}
