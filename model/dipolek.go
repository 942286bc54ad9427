package model

import (
	"context"
	"fmt"
	"math"

	"github.com/bob-anderson-ok/layeredem/kernel"
	"github.com/bob-anderson-ok/layeredem/report"
)

// KResult holds wavenumber-domain responses, indexed [frequency][wavenumber].
type KResult struct {
	PJ0 [][]complex128 // integrand of the J0 transform
	PJ1 [][]complex128 // integrand of the J1 transform
}

// DipoleK returns the wavenumber-domain kernel of component ab for one
// source and one receiver dipole, before the Hankel transform: the field is
// ∫PJ0·J0(λr)dλ + ∫PJ1·J1(λr)dλ. The angle factor is included and, for
// the components that carry it, the division of the J1 part by the offset.
// With XDirectNone the direct field is left out; otherwise it is included.
// Only the frequency domain is supported.
func DipoleK(ctx context.Context, src, rec Points, wavenumber []float64, ab int, o Options) (*KResult, error) {
	if err := checkAB(ab); err != nil {
		return nil, err
	}
	if o.Signal != Frequency {
		return nil, fmt.Errorf("dipole_k: %w", ErrNotFrequency)
	}
	srcs, err := src.elements("src")
	if err != nil {
		return nil, err
	}
	recs, err := rec.elements("rec")
	if err != nil {
		return nil, err
	}
	if len(srcs) != 1 || len(recs) != 1 {
		return nil, paramErr("src/rec", fmt.Errorf("%w: exactly one source and one receiver", ErrShape))
	}
	if len(wavenumber) == 0 {
		return nil, paramErr("wavenumber", ErrWrongLength)
	}
	for _, l := range wavenumber {
		if !(l > 0) {
			return nil, paramErr("wavenumber", ErrNonPositive)
		}
	}
	if err := o.checkAxis(); err != nil {
		return nil, err
	}
	e, err := newEarth(&o)
	if err != nil {
		return nil, err
	}
	r := o.reporter()
	r.Report(report.Event{Kind: report.Header, Key: ":: layeredem START ::"})
	reportEarth(r, e)
	reportAxis(r, &o)

	ps, pr := srcs[0].pts[0], recs[0].pts[0]
	dx, dy := pr.X-ps.X, pr.Y-ps.Y
	off := max(math.Hypot(dx, dy), kernel.MinOffset)
	fac := kernel.AngleFactor(ab, math.Atan2(dy, dx))
	kind := kernel.KindOf(ab)
	direct := o.XDirect != XDirectNone

	out := &KResult{
		PJ0: make([][]complex128, len(o.FreqTime)),
		PJ1: make([][]complex128, len(o.FreqTime)),
	}
	for fi, f := range o.FreqTime {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := e.model(f)
		if err != nil {
			return nil, err
		}
		kr := m.Wavenumber(ab, m.NewPair(ps.Z, pr.Z), direct, wavenumber)
		pj0 := make([]complex128, len(wavenumber))
		pj1 := make([]complex128, len(wavenumber))
		cf := complex(fac, 0)
		for k := range wavenumber {
			if kind == kernel.KindJ0 {
				pj0[k] = kr.PJ0[k]
				continue
			}
			pj0[k] = kr.PJ0[k] + cf*kr.PJ0b[k]
			pj1[k] = cf * kr.PJ1[k]
			if kind == kernel.KindJ1Offset {
				pj1[k] /= complex(off, 0)
			}
		}
		out.PJ0[fi], out.PJ1[fi] = pj0, pj1
	}
	return out, nil
}
