package kernel

import "math/cmplx"

// line is the transmission-line analogue of one mode (TM or TE) at a
// single horizontal wavenumber: gam is the vertical propagation constant
// and z the characteristic impedance of every layer.
type line struct {
	depth  []float64
	gam, z []complex128
	rb, rt []complex128 // reflection looking down at the bottom / up at the top of each layer
}

func newLine(depth []float64, n int) *line {
	return &line{
		depth: depth,
		gam:   make([]complex128, n),
		z:     make([]complex128, n),
		rb:    make([]complex128, n),
		rt:    make([]complex128, n),
	}
}

// reflections fills rb and rt from the outermost layers inwards.
func (l *line) reflections() {
	n := len(l.gam)
	for j := n - 2; j >= 0; j-- {
		r := (l.z[j+1] - l.z[j]) / (l.z[j+1] + l.z[j])
		if j == n-2 {
			l.rb[j] = r
			continue
		}
		e := cmplx.Exp(-2 * l.gam[j+1] * complex(l.depth[j+1]-l.depth[j], 0))
		l.rb[j] = (r + l.rb[j+1]*e) / (1 + r*l.rb[j+1]*e)
	}
	for j := 1; j < n; j++ {
		r := (l.z[j-1] - l.z[j]) / (l.z[j-1] + l.z[j])
		if j == 1 {
			l.rt[j] = r
			continue
		}
		e := cmplx.Exp(-2 * l.gam[j-1] * complex(l.depth[j-1]-l.depth[j-2], 0))
		l.rt[j] = (r + l.rt[j-1]*e) / (1 + r*l.rt[j-1]*e)
	}
}

func (l *line) exp(j int, dz float64) complex128 {
	return cmplx.Exp(-l.gam[j] * complex(dz, 0))
}

// response returns voltage and current at depth zr in layer lr for a unit
// source at zs in layer ls. A current source launches Z/2 in both
// directions, a voltage source +1/2 down and -1/2 up. With direct false
// the primary wave of the source layer is left out.
func (l *line) response(ls, lr int, zs, zr float64, current, direct bool) (v, i complex128) {
	n := len(l.gam)
	var ad, au complex128 = 0.5, -0.5
	if current {
		ad = l.z[ls] / 2
		au = ad
	}

	hasTop := ls > 0
	hasBot := ls < n-1
	var pt, pb, rts, rbs, ed complex128
	if hasTop {
		pt = au * l.exp(ls, zs-l.depth[ls-1])
		rts = l.rt[ls]
	}
	if hasBot {
		pb = ad * l.exp(ls, l.depth[ls]-zs)
		rbs = l.rb[ls]
	}
	if hasTop && hasBot {
		ed = l.exp(ls, l.depth[ls]-l.depth[ls-1])
	}
	den := 1 - rts*rbs*ed*ed

	switch {
	case lr == ls:
		zl := l.z[ls]
		if hasTop {
			a := rts * (pt + rbs*ed*pb) / den
			e := l.exp(ls, zr-l.depth[ls-1])
			v += a * e
			i += a * e / zl
		}
		if hasBot {
			b := rbs * (pb + rts*ed*pt) / den
			e := l.exp(ls, l.depth[ls]-zr)
			v += b * e
			i -= b * e / zl
		}
		if direct {
			dz := zr - zs
			if dz < 0 {
				dz = -dz
			}
			e := l.exp(ls, dz)
			switch {
			case zr > zs:
				v += ad * e
				i += ad * e / zl
			case zr < zs:
				v += au * e
				i -= au * e / zl
			default:
				v += (ad + au) / 2 * e
				i += (ad - au) / (2 * zl) * e
			}
		}
		return v, i

	case lr > ls:
		dn := (pb + rts*ed*pt) / den
		for j := ls + 1; j <= lr; j++ {
			zt := l.depth[j-1]
			var ej complex128
			if j < n-1 {
				ej = l.exp(j, l.depth[j]-zt)
				dn *= (1 + l.rb[j-1]) / (1 + l.rb[j]*ej*ej)
			} else {
				dn *= 1 + l.rb[j-1]
			}
			if j == lr {
				e1 := l.exp(j, zr-zt)
				var e2, rb complex128
				if j < n-1 {
					e2 = l.exp(j, 2*l.depth[j]-zt-zr)
					rb = l.rb[j]
				}
				return dn * (e1 + rb*e2), dn * (e1 - rb*e2) / l.z[j]
			}
			dn *= ej
		}

	default:
		up := (pt + rbs*ed*pb) / den
		for j := ls - 1; j >= lr; j-- {
			zb := l.depth[j]
			var ej complex128
			if j > 0 {
				ej = l.exp(j, zb-l.depth[j-1])
				up *= (1 + l.rt[j+1]) / (1 + l.rt[j]*ej*ej)
			} else {
				up *= 1 + l.rt[j+1]
			}
			if j == lr {
				e1 := l.exp(j, zb-zr)
				var e2, rt complex128
				if j > 0 {
					e2 = l.exp(j, zb-2*l.depth[j-1]+zr)
					rt = l.rt[j]
				}
				return up * (e1 + rt*e2), up * (-e1 + rt*e2) / l.z[j]
			}
			up *= ej
		}
	}
	return 0, 0
}
