// Package kernel computes the wavenumber-domain Green's function of a
// horizontally layered, VTI-anisotropic earth and the closed-form
// fullspace and halfspace solutions used next to it.
//
// Conventions: time dependence e^{iωt}, z positive downwards, x and y
// horizontal. Layer j lies between Depth[j-1] and Depth[j]; the first and
// last layers extend to infinity. A point exactly on an interface belongs
// to the layer above it.
//
// Components are selected with a two-digit ab code: the tens digit is the
// receiver, the units digit the source, 1..3 electric x,y,z and 4..6
// magnetic x,y,z.
//
// Everything in this package is a pure function of its arguments and is
// safe for concurrent use.
package kernel

import "math"

const (
	// Mu0 is the magnetic permeability of free space [H/m].
	Mu0 = 4e-7 * math.Pi
	// Eps0 is the electric permittivity of free space [F/m].
	Eps0 = 8.854187817e-12
)

// Model holds the electromagnetic parameters of all layers at one
// frequency (or Laplace value).
type Model struct {
	Depth []float64    // Interface depths, strictly increasing, len = layers-1
	EtaH  []complex128 // Horizontal admittivity 1/ρ + sε0εH
	EtaV  []complex128 // Vertical admittivity 1/(ρλ²) + sε0εV
	ZetaH []complex128 // Horizontal impedivity sμ0μH
	ZetaV []complex128 // Vertical impedivity sμ0μV
}

// Layers returns the number of layers.
func (m *Model) Layers() int { return len(m.EtaH) }

// Layer returns the index of the layer containing depth z.
func (m *Model) Layer(z float64) int {
	return LayerOf(m.Depth, z)
}

// LayerOf returns the index of the layer containing z for the given
// interface depths.
func LayerOf(depth []float64, z float64) int {
	n := 0
	for _, d := range depth {
		if d < z {
			n++
		}
	}
	return n
}

// Pair is the vertical position of a source and a receiver.
type Pair struct {
	Zsrc, Zrec float64
	Lsrc, Lrec int
}

// NewPair locates zsrc and zrec in m.
func (m *Model) NewPair(zsrc, zrec float64) Pair {
	return Pair{Zsrc: zsrc, Zrec: zrec, Lsrc: m.Layer(zsrc), Lrec: m.Layer(zrec)}
}

// Laplace returns s for a frequency f: 2πif for f > 0 and the real
// Laplace value -f for f < 0.
func Laplace(f float64) complex128 {
	if f < 0 {
		return complex(-f, 0)
	}
	return complex(0, 2*math.Pi*f)
}

// Params builds the non-dispersive layer parameters at s. All slices
// must have one entry per layer.
func Params(s complex128, res, aniso, epermH, epermV, mpermH, mpermV []float64) (etaH, etaV, zetaH, zetaV []complex128) {
	n := len(res)
	etaH = make([]complex128, n)
	etaV = make([]complex128, n)
	zetaH = make([]complex128, n)
	zetaV = make([]complex128, n)
	for j := range res {
		etaH[j] = complex(1/res[j], 0) + s*complex(Eps0*epermH[j], 0)
		etaV[j] = complex(1/(res[j]*aniso[j]*aniso[j]), 0) + s*complex(Eps0*epermV[j], 0)
		zetaH[j] = s * complex(Mu0*mpermH[j], 0)
		zetaV[j] = s * complex(Mu0*mpermV[j], 0)
	}
	return etaH, etaV, zetaH, zetaV
}
