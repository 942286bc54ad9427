package transform

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/layeredem/kernel"
)

// gaussKernel has closed-form Hankel integrals, see gaussIntegrals.
func gaussKernel(lambda []float64) kernel.Response {
	r := kernel.Response{
		PJ0:  make([]complex128, len(lambda)),
		PJ0b: make([]complex128, len(lambda)),
		PJ1:  make([]complex128, len(lambda)),
	}
	for i, l := range lambda {
		e := math.Exp(-l * l)
		r.PJ0[i] = complex(l*e, 0)
		r.PJ0b[i] = complex(0, 2*l*e)
		r.PJ1[i] = complex(l*l*e, 0)
	}
	return r
}

func gaussIntegrals(off float64) Integrals {
	e := math.Exp(-off * off / 4)
	return Integrals{I0: complex(e/2, 0), I0b: complex(0, e), I1: complex(off*e/4, 0)}
}

// sommerfeld is e^{-λh} with ∫ e^{-λh} J0(λr) dλ = 1/sqrt(r²+h²).
func sommerfeld(h float64) KernelFunc {
	return func(lambda []float64) kernel.Response {
		r := kernel.Response{
			PJ0:  make([]complex128, len(lambda)),
			PJ0b: make([]complex128, len(lambda)),
			PJ1:  make([]complex128, len(lambda)),
		}
		for i, l := range lambda {
			r.PJ0[i] = complex(math.Exp(-l*h), 0)
		}
		return r
	}
}

func assertIntegrals(t *testing.T, want, got Integrals, tol float64, msg string, args ...any) {
	t.Helper()
	assert.LessOrEqual(t, cmplx.Abs(got.I0-want.I0), tol, append([]any{"I0 " + msg}, args...)...)
	assert.LessOrEqual(t, cmplx.Abs(got.I0b-want.I0b), tol, append([]any{"I0b " + msg}, args...)...)
	assert.LessOrEqual(t, cmplx.Abs(got.I1-want.I1), tol, append([]any{"I1 " + msg}, args...)...)
}

func TestBesselZeros(t *testing.T) {
	z1 := besselZeros(1, 3)
	assert.InDelta(t, 3.8317059702075125, z1[0], 1e-13)
	assert.InDelta(t, 7.015586669815619, z1[1], 1e-13)
	assert.InDelta(t, 10.173468135062722, z1[2], 1e-13)
	z0 := besselZeros(0, 2)
	assert.InDelta(t, 2.404825557695773, z0[0], 1e-13)
	assert.InDelta(t, 5.520078110286311, z0[1], 1e-13)
	for _, z := range besselZeros(1, 100) {
		assert.InDelta(t, 0, math.J1(z), 1e-13)
	}
}

func TestEpsilonLog2(t *testing.T) {
	var e epsilon
	var sum, est complex128
	for k := 1; k <= 20; k++ {
		sum += complex(math.Pow(-1, float64(k+1))/float64(k), 0)
		est = e.add(sum)
	}
	assert.InDelta(t, math.Ln2, real(est), 1e-12)
	// the plain partial sum is still far off
	assert.Greater(t, math.Abs(real(sum)-math.Ln2), 1e-2)
}

func TestSeriesStopsWhenSumFreezes(t *testing.T) {
	s := series{rtol: 1e-12, atol: 1e-30}
	s.push(1)
	s.push(0)
	assert.False(t, s.converged())
	s.push(0)
	assert.True(t, s.converged())
	assert.Equal(t, complex(1, 0), s.est)
}

var offsets = []float64{0.3, 0.7, 1.3, 2, 4}

func TestHankelDLF(t *testing.T) {
	for _, tc := range []struct {
		name string
		ppd  float64
		tol  float64
	}{
		{"standard", 0, 1e-8},
		{"lagged", -1, 1e-4},
		{"splined", 40, 1e-6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := HankelConfig{Method: HankelDLF, PtsPerDec: tc.ppd}
			require.NoError(t, c.Validate())
			got, ok, err := c.Transform(gaussKernel, offsets)
			require.NoError(t, err)
			assert.True(t, ok)
			require.Len(t, got, len(offsets))
			for i, o := range offsets {
				assertIntegrals(t, gaussIntegrals(o), got[i], tc.tol, "off=%v", o)
			}
		})
	}
}

func TestHankelDLFSingleOffsetLagged(t *testing.T) {
	c := HankelConfig{Method: HankelDLF, PtsPerDec: -1}
	got, _, err := c.Transform(gaussKernel, []float64{1})
	require.NoError(t, err)
	assertIntegrals(t, gaussIntegrals(1), got[0], 1e-8, "off=1")
}

func TestHankelDLFLaggedDiffusive(t *testing.T) {
	// Fullspace kernel of a 100 Ωm earth at 31 Hz; the integral e^{-γR}/R
	// oscillates and decays by about e^{-3} across the offsets.
	gam := cmplx.Sqrt(complex(0, 2*math.Pi*31*kernel.Mu0/100))
	h := 120.0
	fn := func(lambda []float64) kernel.Response {
		r := kernel.Response{
			PJ0:  make([]complex128, len(lambda)),
			PJ0b: make([]complex128, len(lambda)),
			PJ1:  make([]complex128, len(lambda)),
		}
		for i, l := range lambda {
			g := cmplx.Sqrt(complex(l*l, 0) + gam*gam)
			e := cmplx.Exp(-g * complex(h, 0))
			r.PJ0[i] = complex(l, 0) / g * e
			r.PJ1[i] = complex(l*l, 0) / g * e
		}
		return r
	}
	off := []float64{3006.7, 3700, 4011.2, 4600, 5016}

	std, _, err := HankelConfig{Method: HankelDLF}.Transform(fn, off)
	require.NoError(t, err)
	lag, _, err := HankelConfig{Method: HankelDLF, PtsPerDec: -1}.Transform(fn, off)
	require.NoError(t, err)
	for i, o := range off {
		assert.LessOrEqual(t, cmplx.Abs(lag[i].I0-std[i].I0), 1e-5*cmplx.Abs(std[i].I0), "I0 off=%v", o)
		assert.LessOrEqual(t, cmplx.Abs(lag[i].I1-std[i].I1), 1e-5*cmplx.Abs(std[i].I1), "I1 off=%v", o)
	}
}

func TestHankelQWE(t *testing.T) {
	c := DefaultHankel(HankelQWE)
	off := []float64{0.5, 1, 2}
	got, ok, err := c.Transform(gaussKernel, off)
	require.NoError(t, err)
	assert.True(t, ok)
	for i, o := range off {
		assertIntegrals(t, gaussIntegrals(o), got[i], 1e-10, "off=%v", o)
	}

	off = []float64{0.5, 2, 10}
	got, ok, err = c.Transform(sommerfeld(1.5), off)
	require.NoError(t, err)
	assert.True(t, ok)
	for i, o := range off {
		assert.InEpsilon(t, 1/math.Hypot(o, 1.5), real(got[i].I0), 1e-9, "off=%v", o)
		assert.Equal(t, complex128(0), got[i].I1)
	}
}

func TestHankelQWESplined(t *testing.T) {
	c := HankelConfig{Method: HankelQWE, PtsPerDec: 40}
	off := []float64{0.5, 1, 2}
	got, _, err := c.Transform(gaussKernel, off)
	require.NoError(t, err)
	for i, o := range off {
		assertIntegrals(t, gaussIntegrals(o), got[i], 1e-5, "off=%v", o)
	}
}

func TestHankelQuad(t *testing.T) {
	c := HankelConfig{Method: HankelQuad, RTol: 1e-10, A: 1e-8, B: 30}
	require.NoError(t, c.Validate())
	off := []float64{0.5, 1, 2}
	got, ok, err := c.Transform(gaussKernel, off)
	require.NoError(t, err)
	assert.True(t, ok)
	for i, o := range off {
		assertIntegrals(t, gaussIntegrals(o), got[i], 1e-10, "off=%v", o)
	}

	got, ok, err = c.Transform(sommerfeld(1.5), off)
	require.NoError(t, err)
	assert.True(t, ok)
	for i, o := range off {
		assert.InEpsilon(t, 1/math.Hypot(o, 1.5), real(got[i].I0), 1e-7, "off=%v", o)
	}

	c.PtsPerDec = 40
	got, _, err = c.Transform(gaussKernel, off)
	require.NoError(t, err)
	for i, o := range off {
		assertIntegrals(t, gaussIntegrals(o), got[i], 1e-6, "splined off=%v", o)
	}
}

func TestHankelQuadLimit(t *testing.T) {
	c := HankelConfig{Method: HankelQuad, RTol: 1e-10, A: 1e-8, B: 30, Limit: 1}
	_, ok, err := c.Transform(sommerfeld(1.5), []float64{50})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHankelValidate(t *testing.T) {
	assert.NoError(t, DefaultHankel(HankelDLF).Validate())
	assert.NoError(t, DefaultHankel(HankelQWE).Validate())
	assert.NoError(t, DefaultHankel(HankelQuad).Validate())
	assert.Error(t, HankelConfig{Method: HankelQuad, A: 1, B: 0.5}.Validate())
	assert.Error(t, HankelConfig{Method: HankelQWE, NQuad: -1}.Validate())
	assert.Error(t, HankelConfig{Method: HankelMethod(7)}.Validate())
}

func TestHankelLoopHints(t *testing.T) {
	assert.False(t, HankelConfig{Method: HankelDLF}.AllOffsets())
	assert.True(t, HankelConfig{Method: HankelDLF, PtsPerDec: -1}.AllOffsets())
	assert.True(t, HankelConfig{Method: HankelDLF, PtsPerDec: 10}.AllOffsets())
	assert.False(t, HankelConfig{Method: HankelDLF}.PerOffset())
	assert.True(t, HankelConfig{Method: HankelQWE}.PerOffset())
	assert.True(t, HankelConfig{Method: HankelQuad}.PerOffset())
}

func TestHankelSummary(t *testing.T) {
	s := HankelConfig{Method: HankelDLF, PtsPerDec: -1}.Summary()
	require.Len(t, s, 3)
	assert.Equal(t, Setting{"Hankel", "DLF (Fast Hankel Transform)"}, s[0])
	assert.Equal(t, Setting{"  > DLF type", "Lagged Convolution"}, s[2])
	assert.Equal(t, Setting{"  > DLF type", "Splined, 10.0 pts/dec"}, HankelConfig{PtsPerDec: 10}.Summary()[2])
	assert.Equal(t, "Quadrature-with-Extrapolation", DefaultHankel(HankelQWE).Summary()[0].Value)
	assert.Equal(t, "Quadrature", DefaultHankel(HankelQuad).Summary()[0].Value)
}
