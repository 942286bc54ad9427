package model

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bob-anderson-ok/layeredem/kernel"
	"github.com/bob-anderson-ok/layeredem/report"
	"github.com/bob-anderson-ok/layeredem/transform"
)

// item is one point-dipole evaluation contributing to an output cell.
type item struct {
	off, angle float64
	dx, dy, dz float64 // receiver minus source
	out        int     // rec*nsrc + src
	wt         float64 // quadrature weight times direction cosines and strength
}

// group collects the items sharing a component and a depth pair; each group
// needs one kernel per frequency.
type group struct {
	ab         int
	zsrc, zrec float64
	lsrc, lrec int
	items      []item
}

type groupKey struct {
	ab         int
	zsrc, zrec float64
}

// factors are per-layer multipliers applied after the Hankel transform.
type factors struct {
	srcZeta bool // loop source: times ζH of the source layer
	recZeta bool // loop receiver: times ζH of the receiver layer
	recEta  bool // current density: times ηH of the receiver layer
}

// component is an ab code with its direction-cosine weight.
type component struct {
	ab  int
	fac float64
}

// components splits oriented source and receiver directions into the ab
// codes they need. Zero direction cosines drop out exactly.
func components(src, rec r3.Vec, msrc, mrec bool) []component {
	sd := [3]float64{src.X, src.Y, src.Z}
	rd := [3]float64{rec.X, rec.Y, rec.Z}
	so, ro := 1, 1
	if msrc {
		so = 4
	}
	if mrec {
		ro = 4
	}
	var out []component
	for r, rf := range rd {
		for s, sf := range sd {
			if rf == 0 || sf == 0 {
				continue
			}
			out = append(out, component{ab: (ro+r)*10 + so + s, fac: rf * sf})
		}
	}
	return out
}

// survey is a resolved computation: validated earth, transform settings
// and the list of point evaluations.
type survey struct {
	earth   *earth
	hankel  transform.HankelConfig
	xdirect XDirect
	loop    LoopMode
	scale   factors
	workers int
	rep     report.Reporter

	groups []*group
	index  map[groupKey]int
	nout   int

	kernelCalls   atomic.Int64
	hankelFailed  atomic.Bool
	fourierFailed atomic.Bool
}

func newSurvey(o *Options, e *earth, nout int) (*survey, error) {
	h, err := o.hankel()
	if err != nil {
		return nil, err
	}
	s := &survey{
		earth:   e,
		hankel:  h,
		xdirect: o.XDirect,
		loop:    o.Loop,
		workers: o.workers(),
		rep:     o.reporter(),
		index:   make(map[groupKey]int),
		nout:    nout,
	}
	switch {
	case h.PerOffset():
		s.loop = LoopOffsets
	case h.AllOffsets():
		s.loop = LoopFrequencies
	}
	return s, nil
}

// add registers the contribution of the source element to the receiver
// element in output cell out.
func (s *survey) add(src, rec element, comps []component, out int, scale float64) {
	for k, ps := range src.pts {
		for l, pr := range rec.pts {
			d := r3.Sub(pr, ps)
			off := math.Hypot(d.X, d.Y)
			angle := math.Atan2(d.Y, d.X)
			off = max(off, kernel.MinOffset)
			w := src.wts[k] * rec.wts[l] * scale
			for _, c := range comps {
				if kernel.Zero(c.ab) {
					continue
				}
				key := groupKey{ab: c.ab, zsrc: ps.Z, zrec: pr.Z}
				gi, ok := s.index[key]
				if !ok {
					gi = len(s.groups)
					s.index[key] = gi
					s.groups = append(s.groups, &group{
						ab:   c.ab, zsrc: ps.Z, zrec: pr.Z,
						lsrc: s.earth.layer(ps.Z), lrec: s.earth.layer(pr.Z),
					})
				}
				g := s.groups[gi]
				g.items = append(g.items, item{
					off: off, angle: angle,
					dx:  d.X, dy: d.Y, dz: d.Z,
					out: out, wt: w * c.fac,
				})
			}
		}
	}
}

func (s *survey) multiplier(m *kernel.Model, g *group) complex128 {
	mult := complex(1, 0)
	if s.scale.srcZeta {
		mult *= m.ZetaH[g.lsrc]
	}
	if s.scale.recZeta {
		mult *= m.ZetaH[g.lrec]
	}
	if s.scale.recEta {
		mult *= m.EtaH[g.lrec]
	}
	return mult
}

// evalGroup writes the weighted field of items at one frequency to dst.
func (s *survey) evalGroup(g *group, m *kernel.Model, items []item, dst []complex128) error {
	pair := m.NewPair(g.zsrc, g.zrec)
	direct := s.xdirect == XDirectKernel
	fn := func(lambda []float64) kernel.Response {
		s.kernelCalls.Add(1)
		return m.Wavenumber(g.ab, pair, direct, lambda)
	}
	off := make([]float64, len(items))
	for k, it := range items {
		off[k] = it.off
	}
	ints, ok, err := s.hankel.Transform(fn, off)
	if err != nil {
		return err
	}
	if !ok {
		s.hankelFailed.Store(true)
	}
	kind := kernel.KindOf(g.ab)
	mult := s.multiplier(m, g)
	addDirect := s.xdirect == XDirectAnalytical && g.lsrc == g.lrec
	l := g.lsrc
	for k, it := range items {
		v := kernel.Field(kind, kernel.AngleFactor(g.ab, it.angle), it.off, ints[k].I0, ints[k].I0b, ints[k].I1)
		if addDirect {
			v += kernel.Fullspace(it.dx, it.dy, it.dz, m.EtaH[l], m.EtaV[l], m.ZetaH[l], m.ZetaV[l], g.ab)
		}
		dst[k] = v * mult * complex(it.wt, 0)
	}
	return nil
}

// response returns the frequency-domain field at every model, laid out
// as out[f*nout + cell]. The work is split according to the loop mode;
// every task writes its own part of the per-group buffers and the sums
// are formed afterwards in a fixed order.
func (s *survey) response(ctx context.Context, models []*kernel.Model) ([]complex128, error) {
	nf := len(models)
	vals := make([][]complex128, len(s.groups))
	for gi, g := range s.groups {
		vals[gi] = make([]complex128, nf*len(g.items))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for gi, g := range s.groups {
		ni := len(g.items)
		switch s.loop {
		case LoopFrequencies:
			for f, m := range models {
				eg.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					return s.evalGroup(g, m, g.items, vals[gi][f*ni:(f+1)*ni])
				})
			}
		case LoopOffsets:
			for k := range g.items {
				eg.Go(func() error {
					var v [1]complex128
					for f, m := range models {
						if err := ctx.Err(); err != nil {
							return err
						}
						if err := s.evalGroup(g, m, g.items[k:k+1], v[:]); err != nil {
							return err
						}
						vals[gi][f*ni+k] = v[0]
					}
					return nil
				})
			}
		default:
			eg.Go(func() error {
				for f, m := range models {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := s.evalGroup(g, m, g.items, vals[gi][f*ni:(f+1)*ni]); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	acc := make([]complex128, nf*s.nout)
	for gi, g := range s.groups {
		ni := len(g.items)
		for k, it := range g.items {
			for f := 0; f < nf; f++ {
				acc[f*s.nout+it.out] += vals[gi][f*ni+k]
			}
		}
	}
	return acc, nil
}

// run computes the survey for the axis of o into a result of shape
// (freqtime, nrec, nsrc).
func (s *survey) run(ctx context.Context, o *Options, nrec, nsrc int) (*Result, error) {
	res := newResult(len(o.FreqTime), nrec, nsrc, o.KeepDims)
	if o.Signal == Frequency {
		models, err := s.earth.models(o.FreqTime)
		if err != nil {
			return nil, err
		}
		acc, err := s.response(ctx, models)
		if err != nil {
			return nil, err
		}
		copy(res.Values, acc)
		return res, nil
	}

	ft, err := o.fourier()
	if err != nil {
		return nil, err
	}
	plan, err := ft.NewPlan(o.FreqTime, o.Signal.transform())
	if err != nil {
		return nil, paramErr("freqtime", err)
	}
	s.reportFourier(ft, o.Signal, plan)
	models, err := s.earth.models(plan.Freq)
	if err != nil {
		return nil, err
	}
	acc, err := s.response(ctx, models)
	if err != nil {
		return nil, err
	}
	ok, err := toTime(ctx, plan, acc, res, s.workers)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.fourierFailed.Store(true)
	}
	return res, nil
}

// toTime transforms every output cell of the frequency response acc,
// laid out as acc[f*ncell + cell], to the time domain. Cells are
// independent and run in parallel. The boolean is false if the transform
// did not converge for at least one cell.
func toTime(ctx context.Context, plan *transform.Plan, acc []complex128, res *Result, workers int) (bool, error) {
	nf := len(plan.Freq)
	ncell := res.NRec * res.NSrc
	var failed atomic.Bool
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for cell := 0; cell < ncell; cell++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resp := make([]complex128, nf)
			for f := range resp {
				resp[f] = acc[f*ncell+cell]
			}
			v, ok, err := plan.Transform(resp)
			if err != nil {
				return err
			}
			if !ok {
				failed.Store(true)
			}
			for t := range res.NFreqTime {
				res.Values[t*ncell+cell] = complex(v[t], 0)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return false, err
	}
	return !failed.Load(), nil
}
