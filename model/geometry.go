package model

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

// Points are point locations [m]. Scalars (one-element lists) broadcast
// against longer lists.
type Points struct {
	X, Y, Z []float64
}

// Geometry is a set of sources or receivers with an orientation: Dipoles
// or Bipoles.
type Geometry interface {
	// elements resolves the geometry into quadrature points; name is the
	// parameter name used in errors.
	elements(name string, npts int) ([]element, error)
}

// Dipoles are oriented dipoles. Azimuth is measured from x towards y and
// dip downwards from the horizontal, both in degrees. A positive Length
// turns each dipole into a bipole of that length centred on its position.
type Dipoles struct {
	X, Y, Z      []float64
	Azimuth, Dip []float64
	Length       []float64 // nil for point dipoles
}

// Bipoles are finite bipoles from (X1, Y1, Z1) to (X2, Y2, Z2). A bipole
// whose end points coincide has no direction and fails with
// ErrZeroLength; use Dipoles with a zero Length for a point dipole.
type Bipoles struct {
	X1, X2 []float64
	Y1, Y2 []float64
	Z1, Z2 []float64
}

// ParseGeometry builds a geometry from five lists (x, y, z, azimuth, dip)
// or six lists (x1, x2, y1, y2, z1, z2).
func ParseGeometry(name string, v [][]float64) (Geometry, error) {
	switch len(v) {
	case 5:
		return Dipoles{X: v[0], Y: v[1], Z: v[2], Azimuth: v[3], Dip: v[4]}, nil
	case 6:
		return Bipoles{X1: v[0], X2: v[1], Y1: v[2], Y2: v[3], Z1: v[4], Z2: v[5]}, nil
	}
	return nil, paramErr(name, ErrWrongLength)
}

// ParsePoints builds points from three lists (x, y, z).
func ParsePoints(name string, v [][]float64) (Points, error) {
	if len(v) != 3 {
		return Points{}, paramErr(name, ErrWrongLength)
	}
	return Points{X: v[0], Y: v[1], Z: v[2]}, nil
}

// element is one source or receiver resolved into weighted points.
type element struct {
	pts    []r3.Vec
	wts    []float64 // sum to 1
	dir    r3.Vec    // unit direction, exact zeros preserved
	length float64   // 1 for point dipoles
}

// broadcast returns the common length of lists that are each of length 1
// or n.
func broadcast(name string, lists ...[]float64) (int, error) {
	n := 0
	for _, l := range lists {
		if len(l) == 0 {
			return 0, paramErr(name, ErrWrongLength)
		}
		n = max(n, len(l))
	}
	for _, l := range lists {
		if len(l) != 1 && len(l) != n {
			return 0, paramErr(name, ErrShape)
		}
	}
	return n, nil
}

func at(l []float64, i int) float64 {
	if len(l) == 1 {
		return l[0]
	}
	return l[i]
}

func (p Points) count(name string) (int, error) {
	return broadcast(name, p.X, p.Y, p.Z)
}

func (p Points) point(i int) r3.Vec {
	return r3.Vec{X: at(p.X, i), Y: at(p.Y, i), Z: at(p.Z, i)}
}

// elements turns points into dipoles of unit length without orientation.
func (p Points) elements(name string) ([]element, error) {
	n, err := p.count(name)
	if err != nil {
		return nil, err
	}
	out := make([]element, n)
	for i := range out {
		out[i] = element{pts: []r3.Vec{p.point(i)}, wts: []float64{1}, length: 1}
	}
	return out, nil
}

func (d Dipoles) elements(name string, npts int) ([]element, error) {
	lists := [][]float64{d.X, d.Y, d.Z, d.Azimuth, d.Dip}
	if d.Length != nil {
		lists = append(lists, d.Length)
	}
	n, err := broadcast(name, lists...)
	if err != nil {
		return nil, err
	}
	out := make([]element, n)
	for i := range out {
		azm, dip := at(d.Azimuth, i), at(d.Dip, i)
		dir := r3.Vec{X: cosd(dip) * cosd(azm), Y: cosd(dip) * sind(azm), Z: sind(dip)}
		c := r3.Vec{X: at(d.X, i), Y: at(d.Y, i), Z: at(d.Z, i)}
		length := 0.0
		if d.Length != nil {
			length = at(d.Length, i)
			if length < 0 {
				return nil, paramErr(name, ErrNegative)
			}
		}
		if length == 0 {
			out[i] = element{pts: []r3.Vec{c}, wts: []float64{1}, dir: dir, length: 1}
			continue
		}
		half := r3.Scale(length/2, dir)
		out[i] = segment(r3.Sub(c, half), r3.Add(c, half), dir, length, npts)
	}
	return out, nil
}

func (b Bipoles) elements(name string, npts int) ([]element, error) {
	n, err := broadcast(name, b.X1, b.X2, b.Y1, b.Y2, b.Z1, b.Z2)
	if err != nil {
		return nil, err
	}
	out := make([]element, n)
	for i := range out {
		p1 := r3.Vec{X: at(b.X1, i), Y: at(b.Y1, i), Z: at(b.Z1, i)}
		p2 := r3.Vec{X: at(b.X2, i), Y: at(b.Y2, i), Z: at(b.Z2, i)}
		d := r3.Sub(p2, p1)
		length := r3.Norm(d)
		if length == 0 {
			return nil, paramErr(name, ErrZeroLength)
		}
		out[i] = segment(p1, p2, r3.Scale(1/length, d), length, npts)
	}
	return out, nil
}

// segment places npts Gauss-Legendre points between p1 and p2.
func segment(p1, p2, dir r3.Vec, length float64, npts int) element {
	npts = max(npts, 1)
	x := make([]float64, npts)
	w := make([]float64, npts)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	e := element{pts: make([]r3.Vec, npts), wts: w, dir: dir, length: length}
	d := r3.Sub(p2, p1)
	for k, t := range x {
		e.pts[k] = r3.Add(p1, r3.Scale(t, d))
	}
	return e
}

// cosd and sind return exact zeros and ones at multiples of 90 degrees.
func cosd(deg float64) float64 {
	return sind(deg + 90)
}

func sind(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0, 180:
		return 0
	case 90:
		return 1
	case 270:
		return -1
	}
	return math.Sin(r * math.Pi / 180)
}
