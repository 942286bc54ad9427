package kernel

import (
	"math"
	"math/cmplx"
)

// MinOffset is the smallest horizontal offset the closed-form fullspace
// accepts; smaller offsets are moved out to it.
const MinOffset = 1e-3

// green is g = exp(-κR)/(4π√a R) with R² = x²+y²+az² and its first and
// second derivatives.
type green struct {
	g          complex128
	gx, gy, gz complex128
	gxx, gyy   complex128
	gzz, gxy   complex128
	gxz, gyz   complex128
	ex, r      complex128
}

func newGreen(a, kap complex128, x, y, z float64) green {
	cx, cy, cz := complex(x, 0), complex(y, 0), complex(z, 0)
	r := cmplx.Sqrt(cx*cx + cy*cy + a*cz*cz)
	c := 1 / (4 * math.Pi * cmplx.Sqrt(a))
	ex := cmplx.Exp(-kap * r)
	r2 := r * r
	r3 := r2 * r
	f0 := ex / r
	f1 := -(1 + kap*r) * ex / r2
	f2 := (2 + 2*kap*r + kap*kap*r2) * ex / r3

	dx, dy, dz := cx/r, cy/r, a*cz/r
	return green{
		g:   c * f0,
		gx:  c * f1 * dx,
		gy:  c * f1 * dy,
		gz:  c * f1 * dz,
		gxx: c * (f2*dx*dx + f1*(1/r-cx*cx/r3)),
		gyy: c * (f2*dy*dy + f1*(1/r-cy*cy/r3)),
		gzz: c * (f2*dz*dz + f1*(a/r-a*a*cz*cz/r3)),
		gxy: c * (f2*dx*dy - f1*cx*cy/r3),
		gxz: c * (f2*dx*dz - f1*a*cx*cz/r3),
		gyz: c * (f2*dy*dz - f1*a*cy*cz/r3),
		ex:  ex,
		r:   r,
	}
}

// Fullspace returns component ab of the field in a homogeneous VTI
// fullspace for a receiver at (x, y, z) relative to the source. Sources
// and receivers are unit dipoles normalised as in Model.Wavenumber.
func Fullspace(x, y, z float64, etaH, etaV, zetaH, zetaV complex128, ab int) complex128 {
	if Zero(ab) {
		return 0
	}
	x, y, rho := clampOffset(x, y)
	rho2 := complex(rho*rho, 0)
	crho := complex(rho, 0)
	cx, cy, cz := complex(x, 0), complex(y, 0), complex(z, 0)

	k := cmplx.Sqrt(zetaH * etaH)
	k2 := k * k
	aM := etaH / etaV
	aE := zetaH / zetaV
	kM := k / cmplx.Sqrt(aM)
	kE := k / cmplx.Sqrt(aE)
	gM := newGreen(aM, kM, x, y, z)
	gE := newGreen(aE, kE, x, y, z)

	// Q is the TM-TE difference potential in the horizontal plane.
	den := 4 * math.Pi * k * crho
	q1 := (gM.ex - gE.ex) / den
	q2 := -(gM.g - gE.g) - q1/crho
	dq1 := (-kM*(aM*cz/gM.r)*gM.ex + kE*(aE*cz/gE.r)*gE.ex) / den
	dq2 := -(gM.gz - gE.gz) - dq1/crho

	qxx := cx*cx/rho2*(q2-q1/crho) + q1/crho
	qyy := cy*cy/rho2*(q2-q1/crho) + q1/crho
	qxy := cx * cy / rho2 * (q2 - q1/crho)
	qxxz := cx*cx/rho2*(dq2-dq1/crho) + dq1/crho
	qyyz := cy*cy/rho2*(dq2-dq1/crho) + dq1/crho
	qxyz := cx * cy / rho2 * (dq2 - dq1/crho)

	switch ab {
	case 11:
		return -gM.gzz/etaH - aM/etaH*gM.gyy - k2/etaH*qyy
	case 22:
		return -gM.gzz/etaH - aM/etaH*gM.gxx - k2/etaH*qxx
	case 12, 21:
		return aM/etaH*gM.gxy + k2/etaH*qxy
	case 31, 13:
		return gM.gxz / etaV
	case 32, 23:
		return gM.gyz / etaV
	case 33:
		return -etaH / (etaV * etaV) * (gM.gxx + gM.gyy)
	case 41, 14:
		return qxyz
	case 51, 15:
		return gM.gz + qyyz
	case 61, 16:
		return -zetaH / zetaV * gE.gy
	case 42, 24:
		return -gM.gz - qxxz
	case 52, 25:
		return -qxyz
	case 62, 26:
		return zetaH / zetaV * gE.gx
	case 43, 34:
		return etaH / etaV * gM.gy
	case 53, 35:
		return -etaH / etaV * gM.gx
	case 44:
		return -etaH*gM.g + aE/zetaH*gE.gxx - k2/zetaH*qxx
	case 55:
		return -etaH*gM.g + aE/zetaH*gE.gyy - k2/zetaH*qyy
	case 54, 45:
		return aE/zetaH*gE.gxy - k2/zetaH*qxy
	case 64, 46:
		return gE.gxz / zetaV
	case 65, 56:
		return gE.gyz / zetaV
	case 66:
		return -zetaH / (zetaV * zetaV) * (gE.gxx + gE.gyy)
	}
	return 0
}
