package kernel

import (
	"math"
	"math/cmplx"
)

// HalfspaceVMD returns the vertical magnetic field of a unit-moment vertical
// magnetic dipole on the surface of a quasi-static halfspace, measured on
// the surface at horizontal offset r. k is sqrt(ζη) of the halfspace; for a
// Laplace value it is real.
func HalfspaceVMD(r float64, k complex128) complex128 {
	cr := complex(r, 0)
	kr := k * cr
	poly := 9 + 9*kr + 4*kr*kr + kr*kr*kr
	r5 := complex(math.Pow(r, 5), 0)
	return -(9 - poly*cmplx.Exp(-kr)) / (2 * math.Pi * k * k * r5)
}

// HalfspaceVMDTime is the time-domain counterpart of HalfspaceVMD for a
// halfspace of resistivity res at time t > 0. signal is 0 for the impulse
// response, 1 for switch-on and -1 for switch-off.
func HalfspaceVMDTime(r, res, t float64, signal int) float64 {
	theta := math.Sqrt(Mu0 / (4 * res * t))
	u := theta * r
	u2 := u * u
	ex := math.Exp(-u2)
	if signal == 0 {
		b := 9*math.Erf(u) - 2*u/math.SqrtPi*(9+6*u2+4*u2*u2)*ex
		return -res / (2 * math.Pi * Mu0 * math.Pow(r, 5)) * b
	}
	r3 := 4 * math.Pi * r * r * r
	off := ((9/(2*u2)-1)*math.Erf(u) - (9/u+4*u)*ex/math.SqrtPi) / r3
	if signal < 0 {
		return off
	}
	return -1/r3 - off
}

// clampOffset moves horizontal offsets below MinOffset out to it, keeping
// the direction; a zero offset is moved along x.
func clampOffset(x, y float64) (float64, float64, float64) {
	rho := math.Hypot(x, y)
	if rho >= MinOffset {
		return x, y, rho
	}
	if rho == 0 {
		return MinOffset, 0, MinOffset
	}
	return x * MinOffset / rho, y * MinOffset / rho, MinOffset
}

// Offset is the horizontal offset used by the closed-form solutions.
func Offset(x, y float64) float64 {
	_, _, rho := clampOffset(x, y)
	return rho
}

// HalfspaceWaves holds the direct and reflected waves of an electric dipole
// in a quasi-static VTI halfspace below an insulating air layer.
type HalfspaceWaves struct {
	DirectTE, DirectTM       complex128
	ReflectedTE, ReflectedTM complex128
}

// mode holds the Hankel integrals of exp(-Γh) at offset r for one mode
// with Γ² = aκ² + k²: s0 = ∫κ/Γ J0, s1 = ∫1/Γ J1, t0 = ∫Γκ J0 and
// t1 = ∫Γ J1.
type mode struct {
	s0, s1, t0, t1 complex128
}

func newMode(a, k complex128, r, h float64) mode {
	sa := cmplx.Sqrt(a)
	c := k / sa
	hs := sa * complex(h, 0)
	cr := complex(r, 0)
	R := cmplx.Sqrt(cr*cr + hs*hs)
	R2 := R * R
	R3 := R2 * R
	hs2 := hs * hs
	eR := cmplx.Exp(-c * R)
	eh := cmplx.Exp(-c * hs)
	return mode{
		s0: eR / (sa * R),
		s1: (eh - eR) / (sa * c * cr),
		t0: sa * eR / R3 * ((2+2*c*R+c*c*R2)*hs2/R2 - (1+c*R)*cr*cr/R2),
		t1: sa * (c*eh + eR/R - hs2*(1+c*R)*eR/R3) / cr,
	}
}

// horizontal combines the TM and TE integrals into component ab (11, 12,
// 21 or 22).
func horizontal(ab int, tm, te mode, etaH, zetaH complex128, r, cosp, sinp float64) (ctm, cte complex128) {
	cr := complex(r, 0)
	cc := complex(cosp*cosp, 0)
	ss := complex(sinp*sinp, 0)
	sc := complex(sinp*cosp, 0)
	c2 := complex(cosp*cosp-sinp*sinp, 0)
	s2 := 2 * sc
	fm := -1 / (4 * math.Pi * etaH)
	fe := zetaH / (4 * math.Pi)
	switch ab {
	case 11:
		return fm * (cc*tm.t0 - c2*tm.t1/cr), -fe * (ss*te.s0 + c2*te.s1/cr)
	case 22:
		return fm * (ss*tm.t0 + c2*tm.t1/cr), -fe * (cc*te.s0 - c2*te.s1/cr)
	}
	return fm * (sc*tm.t0 - s2*tm.t1/cr), fe * (sc*te.s0 - s2*te.s1/cr)
}

// Halfspace returns the direct and reflected waves of electric component
// ab (11 to 33) in a quasi-static VTI halfspace below air. The receiver is
// at horizontal offset (x, y) from the source; zsrc and zrec are depths
// below the surface and must not be negative. Displacement currents are
// neglected in both air and earth. The airwave, which only the horizontal
// components carry, is left out; see HalfspaceAirwave.
func Halfspace(x, y, zsrc, zrec float64, etaH, etaV, zetaH, zetaV complex128, ab int) HalfspaceWaves {
	var w HalfspaceWaves
	if ab/10 == 3 || ab%10 == 3 {
		// Vertical currents only excite TM; the image of a vertical source
		// is reversed.
		w.DirectTM = Fullspace(x, y, zrec-zsrc, etaH, etaV, zetaH, zetaV, ab)
		w.ReflectedTM = Fullspace(x, y, zrec+zsrc, etaH, etaV, zetaH, zetaV, ab)
		if ab%10 == 3 {
			w.ReflectedTM = -w.ReflectedTM
		}
		return w
	}
	x, y, rho := clampOffset(x, y)
	cosp, sinp := x/rho, y/rho
	k := cmplx.Sqrt(zetaH * etaH)
	aM := etaH / etaV
	aE := zetaH / zetaV

	hd := math.Abs(zrec - zsrc)
	w.DirectTM, w.DirectTE = horizontal(ab, newMode(aM, k, rho, hd), newMode(aE, k, rho, hd), etaH, zetaH, rho, cosp, sinp)
	hr := zrec + zsrc
	w.ReflectedTM, w.ReflectedTE = horizontal(ab, newMode(aM, k, rho, hr), newMode(aE, k, rho, hr), etaH, zetaH, rho, cosp, sinp)
	return w
}

// HalfspaceAirwaveKernel returns the wavenumber kernel of the airwave of
// the quasi-static halfspace: PJ0 = κF and PJ1 = F with
//
//	F = ζH²κ exp(-Γ(zsrc+zrec)) / (Γ(Γζ0 + κζH)),  Γ² = aEκ² + ζHηH,
//
// where zeta0 is the impedivity of the air. PJ0b is zero.
func HalfspaceAirwaveKernel(zsrc, zrec float64, etaH, zetaH, zetaV, zeta0 complex128) func(lambda []float64) Response {
	k2 := zetaH * etaH
	aE := zetaH / zetaV
	h := complex(zsrc+zrec, 0)
	return func(lambda []float64) Response {
		out := Response{
			PJ0:  make([]complex128, len(lambda)),
			PJ0b: make([]complex128, len(lambda)),
			PJ1:  make([]complex128, len(lambda)),
		}
		for i, l := range lambda {
			kap := complex(l, 0)
			gam := cmplx.Sqrt(aE*kap*kap + k2)
			f := zetaH * zetaH * kap * cmplx.Exp(-gam*h) / (gam * (gam*zeta0 + kap*zetaH))
			out.PJ0[i] = kap * f
			out.PJ1[i] = f
		}
		return out
	}
}

// HalfspaceAirwave combines the Hankel integrals i0 = ∫κF J0 and
// i1 = ∫F J1 of HalfspaceAirwaveKernel, taken at Offset(x, y), into the
// airwave of component ab. Components with a vertical source or receiver
// have none.
func HalfspaceAirwave(x, y float64, i0, i1 complex128, ab int) complex128 {
	x, y, rho := clampOffset(x, y)
	cosp, sinp := x/rho, y/rho
	cr := complex(rho, 0)
	sc := complex(sinp*cosp, 0)
	c2 := complex(cosp*cosp-sinp*sinp, 0)
	switch ab {
	case 11:
		return inv2Pi * (complex(sinp*sinp, 0)*i0 + c2*i1/cr)
	case 22:
		return inv2Pi * (complex(cosp*cosp, 0)*i0 - c2*i1/cr)
	case 12, 21:
		return -inv2Pi * (sc*i0 - 2*sc*i1/cr)
	}
	return 0
}
