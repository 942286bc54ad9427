package kernel

import (
	"math"
	"math/cmplx"
)

// Kind describes how the J1 integral enters the space-domain field.
type Kind int

const (
	// KindJ0 components only need the J0 integral (33, 66, 36, 63).
	KindJ0 Kind = iota
	// KindJ1 components: field = I0b*fac + I1*fac.
	KindJ1
	// KindJ1Offset components divide the J1 integral by the offset:
	// field = I0 + fac*(I0b + I1/off).
	KindJ1Offset
)

// ValidAB reports whether ab is one of the 36 component codes.
func ValidAB(ab int) bool {
	rec, src := ab/10, ab%10
	return rec >= 1 && rec <= 6 && src >= 1 && src <= 6
}

// KindOf returns the Hankel structure of component ab.
func KindOf(ab int) Kind {
	rec, src := ab/10, ab%10
	switch {
	case ab == 33 || ab == 66 || ab == 36 || ab == 63:
		return KindJ0
	case rec == 3 || src == 3 || rec == 6 || src == 6:
		return KindJ1
	}
	return KindJ1Offset
}

// Zero reports whether ab vanishes identically in a layered VTI earth.
func Zero(ab int) bool {
	return ab == 36 || ab == 63
}

// Response is the wavenumber-domain kernel at a set of wavenumbers. PJ0
// carries no angle factor, PJ0b and PJ1 are multiplied by it.
type Response struct {
	PJ0, PJ0b, PJ1 []complex128
}

// Wavenumber evaluates the kernel of component ab at the wavenumbers
// lambda. With direct false the direct (primary) field of the source layer
// is left out.
func (m *Model) Wavenumber(ab int, p Pair, direct bool, lambda []float64) Response {
	nl := len(lambda)
	out := Response{
		PJ0:  make([]complex128, nl),
		PJ0b: make([]complex128, nl),
		PJ1:  make([]complex128, nl),
	}
	if Zero(ab) {
		return out
	}
	rec, src := ab/10, ab%10
	current := src == 1 || src == 2 || src == 6
	useI := rec >= 3 && rec <= 5
	doTM := src != 6 && rec != 6
	doTE := src != 3 && rec != 3

	n := m.Layers()
	var tm, te *line
	ratioTM := make([]complex128, n)
	ratioTE := make([]complex128, n)
	k2 := make([]complex128, n)
	for j := 0; j < n; j++ {
		ratioTM[j] = m.EtaH[j] / m.EtaV[j]
		ratioTE[j] = m.ZetaH[j] / m.ZetaV[j]
		k2[j] = m.ZetaH[j] * m.EtaH[j]
	}
	if doTM {
		tm = newLine(m.Depth, n)
	}
	if doTE {
		te = newLine(m.Depth, n)
	}

	for i, lam := range lambda {
		l2 := complex(lam*lam, 0)
		var gm, ge complex128
		if doTM {
			for j := 0; j < n; j++ {
				g := cmplx.Sqrt(ratioTM[j]*l2 + k2[j])
				tm.gam[j] = g
				tm.z[j] = g / m.EtaH[j]
			}
			tm.reflections()
			v, c := tm.response(p.Lsrc, p.Lrec, p.Zsrc, p.Zrec, current, direct)
			gm = pick(v, c, useI)
		}
		if doTE {
			for j := 0; j < n; j++ {
				g := cmplx.Sqrt(ratioTE[j]*l2 + k2[j])
				te.gam[j] = g
				te.z[j] = m.ZetaH[j] / g
			}
			te.reflections()
			v, c := te.response(p.Lsrc, p.Lrec, p.Zsrc, p.Zrec, current, direct)
			ge = pick(v, c, useI)
		}
		m.assemble(ab, p, lam, gm, ge, &out, i)
	}
	return out
}

func pick(v, c complex128, useI bool) complex128 {
	if useI {
		return c
	}
	return v
}

const inv2Pi = 1 / (2 * math.Pi)

// assemble combines the TM (gm) and TE (ge) line responses into the
// kernel of component ab at wavenumber lam.
func (m *Model) assemble(ab int, p Pair, lam float64, gm, ge complex128, out *Response, i int) {
	l := complex(lam, 0)
	sum := (gm + ge) / 2
	dif := (gm - ge) / 2

	var a0, c2 complex128
	horizontal := true
	switch ab {
	case 11, 15, 51, 55:
		a0, c2 = -sum, dif
	case 22:
		a0, c2 = -sum, -dif
	case 12, 21, 52, 25:
		c2 = dif
	case 14:
		c2 = -dif
	case 41, 54, 45:
		c2 = -dif
	case 42, 24:
		a0, c2 = sum, dif
	case 44:
		a0, c2 = -sum, -dif
	default:
		horizontal = false
	}
	if horizontal {
		out.PJ0[i] = a0 * l * inv2Pi
		out.PJ0b[i] = -c2 * l * inv2Pi
		out.PJ1[i] = 2 * c2 * inv2Pi
		return
	}

	var c1 complex128
	switch ab {
	case 31, 32:
		c1 = l * gm / m.EtaV[p.Lrec]
	case 13, 23, 53:
		c1 = l * gm / m.EtaV[p.Lsrc]
	case 43:
		c1 = -l * gm / m.EtaV[p.Lsrc]
	case 34:
		c1 = -l * gm / m.EtaV[p.Lrec]
	case 35:
		c1 = l * gm / m.EtaV[p.Lrec]
	case 61, 64, 65:
		c1 = l * ge / m.ZetaV[p.Lrec]
	case 62:
		c1 = -l * ge / m.ZetaV[p.Lrec]
	case 16, 46, 56:
		c1 = l * ge / m.ZetaV[p.Lsrc]
	case 26:
		c1 = -l * ge / m.ZetaV[p.Lsrc]
	case 33:
		out.PJ0[i] = l * l * l * gm / (m.EtaV[p.Lsrc] * m.EtaV[p.Lrec]) * inv2Pi
		return
	case 66:
		out.PJ0[i] = l * l * l * ge / (m.ZetaV[p.Lsrc] * m.ZetaV[p.Lrec]) * inv2Pi
		return
	}
	out.PJ1[i] = c1 * l * inv2Pi
}
