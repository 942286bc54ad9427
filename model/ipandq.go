package model

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bob-anderson-ok/layeredem/kernel"
	"github.com/bob-anderson-ok/layeredem/report"
)

// IPAndQ returns the in-phase and quadrature components of the secondary
// magnetic field, each relative to the primary field: scale·Hs/Hp, where Hs
// is the layered-earth field without the direct wave and Hp the fullspace
// field of the source layer at the same geometry. A zero scale selects
// 1e3 (parts per thousand). Source and receiver must both be magnetic and
// only the frequency domain is supported.
func IPAndQ(ctx context.Context, src, rec Points, ab int, scale float64, o Options) (ip, q *Result, err error) {
	if err := checkAB(ab); err != nil {
		return nil, nil, err
	}
	if ab/10 < 4 || ab%10 < 4 {
		return nil, nil, paramErr("ab", ErrNotMagnetic)
	}
	if o.Signal != Frequency {
		return nil, nil, paramErr("signal", ErrNotFrequency)
	}
	if scale == 0 {
		scale = 1e3
	}
	report.Warn(o.reporter(), "This function is experimental")

	so := o
	so.XDirect = XDirectNone
	sec, err := Dipole(ctx, src, rec, ab, so)
	if err != nil {
		return nil, nil, err
	}

	e, err := newEarth(&o)
	if err != nil {
		return nil, nil, err
	}
	srcs, _ := src.elements("src")
	recs, _ := rec.elements("rec")
	ip = newResult(sec.NFreqTime, sec.NRec, sec.NSrc, o.KeepDims)
	q = newResult(sec.NFreqTime, sec.NRec, sec.NSrc, o.KeepDims)
	for fi, f := range o.FreqTime {
		m, err := e.model(f)
		if err != nil {
			return nil, nil, err
		}
		for j, rc := range recs {
			for i, sc := range srcs {
				ps := sc.pts[0]
				d := r3.Sub(rc.pts[0], ps)
				l := e.layer(ps.Z)
				pri := kernel.Fullspace(d.X, d.Y, d.Z, m.EtaH[l], m.EtaV[l], m.ZetaH[l], m.ZetaV[l], ab)
				idx := sec.index(fi, j, i)
				v := complex(scale, 0) * sec.Values[idx] / pri
				ip.Values[idx] = complex(real(v), 0)
				q.Values[idx] = complex(imag(v), 0)
			}
		}
	}
	return ip, q, nil
}
