package model

import (
	"context"
	"fmt"
)

// Dipole computes component ab (tens digit receiver, units digit source;
// 1..3 electric x, y, z, 4..6 magnetic x, y, z) between point dipoles.
// Sources and receivers are normalised to unit moment.
func Dipole(ctx context.Context, src, rec Points, ab int, o Options) (*Result, error) {
	if err := checkAB(ab); err != nil {
		return nil, err
	}
	srcs, err := src.elements("src")
	if err != nil {
		return nil, err
	}
	recs, err := rec.elements("rec")
	if err != nil {
		return nil, err
	}
	s, err := prepare(&o, len(recs), len(srcs))
	if err != nil {
		return nil, err
	}
	comps := []component{{ab: ab, fac: 1}}
	for j, r := range recs {
		for i, sr := range srcs {
			s.add(sr, r, comps, j*len(srcs)+i, 1)
		}
	}
	return s.execute(ctx, &o, len(recs), len(srcs))
}

// Bipole computes the field between arbitrarily oriented dipoles or finite
// bipoles. Msrc selects electric or magnetic sources, Mrec electric,
// magnetic or current-density receivers. Finite bipoles are integrated
// with SrcPts and RecPts Gauss points.
func Bipole(ctx context.Context, src, rec Geometry, o Options) (*Result, error) {
	if o.Msrc != Electric && o.Msrc != Magnetic {
		return nil, paramErr("msrc", fmt.Errorf("%w: %s source", ErrUnsupported, o.Msrc))
	}
	if o.Mrec == LoopField {
		return nil, paramErr("mrec", fmt.Errorf("%w: use Loop for loop receivers", ErrUnsupported))
	}
	return oriented(ctx, src, rec, &o, factors{recEta: o.Mrec == CurrentDensity})
}

// Loop computes the field of magnetic loop sources: the magnetic dipole
// field multiplied by iωμ0μH of the source layer, which turns a dipole
// moment into the electromotive force of a loop. With Mrec LoopField the
// receiver is a loop as well and the result is multiplied again by iωμ0μH
// of the receiver layer. Msrc is ignored.
func Loop(ctx context.Context, src, rec Geometry, o Options) (*Result, error) {
	o.Msrc = Magnetic
	if o.Mrec == CurrentDensity {
		return nil, paramErr("mrec", fmt.Errorf("%w: current density with loop sources", ErrUnsupported))
	}
	return oriented(ctx, src, rec, &o, factors{srcZeta: true, recZeta: o.Mrec == LoopField})
}

func oriented(ctx context.Context, src, rec Geometry, o *Options, f factors) (*Result, error) {
	if src == nil {
		return nil, paramErr("src", ErrWrongLength)
	}
	if rec == nil {
		return nil, paramErr("rec", ErrWrongLength)
	}
	srcs, err := src.elements("src", o.SrcPts)
	if err != nil {
		return nil, err
	}
	recs, err := rec.elements("rec", o.RecPts)
	if err != nil {
		return nil, err
	}
	s, err := prepare(o, len(recs), len(srcs))
	if err != nil {
		return nil, err
	}
	s.scale = f
	for j, r := range recs {
		for i, sr := range srcs {
			scale := 1.0
			if o.Strength != 0 {
				scale = o.Strength * sr.length * r.length
			}
			comps := components(sr.dir, r.dir, o.Msrc.magnetic(), o.Mrec.magnetic())
			s.add(sr, r, comps, j*len(srcs)+i, scale)
		}
	}
	return s.execute(ctx, o, len(recs), len(srcs))
}

// prepare validates the axis and the earth and sets up an empty survey.
func prepare(o *Options, nrec, nsrc int) (*survey, error) {
	if err := o.checkAxis(); err != nil {
		return nil, err
	}
	e, err := newEarth(o)
	if err != nil {
		return nil, err
	}
	return newSurvey(o, e, nrec*nsrc)
}
