package kernel

import "math"

// AngleFactor returns the azimuthal factor of component ab for a receiver
// at angle (radians, from x towards y) seen from the source. Values within
// 1e-10 of zero are returned as exact zeros so that symmetric components
// vanish exactly.
func AngleFactor(ab int, angle float64) float64 {
	var f float64
	switch ab {
	case 11, 22, 24, 15, 44, 55, 42, 51:
		f = math.Cos(2 * angle)
	case 12, 21, 14, 25, 41, 52, 54, 45:
		f = math.Sin(2 * angle)
	case 31, 13, 53, 35, 64, 46, 62, 26:
		f = math.Cos(angle)
	case 32, 23, 43, 34, 65, 56, 61, 16:
		f = math.Sin(angle)
	default:
		return 1
	}
	if math.Abs(f) < 1e-10 {
		return 0
	}
	return f
}

// Field assembles the space-domain field from the three Hankel integrals.
func Field(kind Kind, fac, off float64, i0, i0b, i1 complex128) complex128 {
	switch kind {
	case KindJ0:
		return i0
	case KindJ1Offset:
		return i0 + complex(fac, 0)*(i0b+i1/complex(off, 0))
	}
	return i0 + complex(fac, 0)*(i0b+i1)
}
