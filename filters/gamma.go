package filters

import (
	"math"
	"math/cmplx"
)

// LnGamma returns the principal branch of ln Γ(z) for Re(z) > 0.
//
// The argument is shifted with the recurrence Γ(z+1) = zΓ(z) until
// Re(z) >= 10 and the Stirling series is summed there.
func LnGamma(z complex128) complex128 {
	var shift complex128
	for real(z) < 10 {
		shift += cmplx.Log(z)
		z++
	}
	w2 := z * z
	s := (z-0.5)*cmplx.Log(z) - z + complex(0.5*math.Log(2*math.Pi), 0)
	s += 1/(12*z) - 1/(360*z*w2) + 1/(1260*z*w2*w2) - 1/(1680*z*w2*w2*w2)
	return s - shift
}
