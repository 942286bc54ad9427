package model

import (
	"context"
	"fmt"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bob-anderson-ok/layeredem/kernel"
	"github.com/bob-anderson-ok/layeredem/report"
	"github.com/bob-anderson-ok/layeredem/transform"
)

// Solution selects a closed-form solution of Analytical.
type Solution int

const (
	// Fullspace is the VTI fullspace including displacement currents.
	Fullspace Solution = iota
	// DiffusiveFullspace is the fullspace without displacement currents.
	DiffusiveFullspace
	// DiffusiveHalfspace is the field of an electric dipole in a
	// quasi-static VTI halfspace below air (electric ab only, z >= 0). The
	// airwave is integrated with the Hankel transform of Options.Hankel.
	DiffusiveHalfspace
	// SurfaceVMD is the vertical magnetic dipole on the surface of a
	// quasi-static halfspace, measured on the surface (ab 66 only). It is
	// normalised like Loop with a magnetic receiver.
	SurfaceVMD
)

func (s Solution) String() string {
	switch s {
	case Fullspace:
		return "fs"
	case DiffusiveFullspace:
		return "dfs"
	case DiffusiveHalfspace:
		return "dhs"
	case SurfaceVMD:
		return "vmd"
	}
	return fmt.Sprintf("Solution(%d)", int(s))
}

// HalfspaceParts is the DiffusiveHalfspace field split into its waves.
type HalfspaceParts struct {
	DirectTE, DirectTM       *Result
	ReflectedTE, ReflectedTM *Result
	Airwave                  *Result
}

// Split returns the direct wave, the reflected wave and the airwave.
func (p *HalfspaceParts) Split() (direct, reflected, air *Result) {
	return sumResults(p.DirectTE, p.DirectTM), sumResults(p.ReflectedTE, p.ReflectedTM), p.Airwave
}

// TETM returns the TE and TM parts; the airwave is a TE wave.
func (p *HalfspaceParts) TETM() (te, tm *Result) {
	return sumResults(p.DirectTE, p.ReflectedTE, p.Airwave), sumResults(p.DirectTM, p.ReflectedTM)
}

// Total returns the complete field.
func (p *HalfspaceParts) Total() *Result {
	return sumResults(p.DirectTE, p.DirectTM, p.ReflectedTE, p.ReflectedTM, p.Airwave)
}

func (p *HalfspaceParts) all() []*Result {
	return []*Result{p.DirectTE, p.DirectTM, p.ReflectedTE, p.ReflectedTM, p.Airwave}
}

func sumResults(rs ...*Result) *Result {
	out := newResult(rs[0].NFreqTime, rs[0].NRec, rs[0].NSrc, rs[0].keepDims)
	for _, r := range rs {
		for i, v := range r.Values {
			out.Values[i] += v
		}
	}
	return out
}

// Analytical computes a closed-form solution for a homogeneous earth given
// by the single-layer lists of o (Depth must be empty). It is independent
// of the layered kernel and serves as a reference.
func Analytical(ctx context.Context, src, rec Points, ab int, sol Solution, o Options) (*Result, error) {
	parts, err := analytical(ctx, src, rec, ab, sol, o)
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return sumResults(parts...), nil
}

// HalfspaceSplit computes the DiffusiveHalfspace solution and returns it
// split into direct, reflected and air waves, the first two further split
// into TE and TM modes.
func HalfspaceSplit(ctx context.Context, src, rec Points, ab int, o Options) (*HalfspaceParts, error) {
	parts, err := analytical(ctx, src, rec, ab, DiffusiveHalfspace, o)
	if err != nil {
		return nil, err
	}
	return &HalfspaceParts{
		DirectTE:    parts[0],
		DirectTM:    parts[1],
		ReflectedTE: parts[2],
		ReflectedTM: parts[3],
		Airwave:     parts[4],
	}, nil
}

// analytical returns one result per part of the solution: the field for
// the fullspaces and the surface VMD, the order of HalfspaceParts.all for
// the halfspace.
func analytical(ctx context.Context, src, rec Points, ab int, sol Solution, o Options) ([]*Result, error) {
	start := time.Now()
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
	if err := o.checkAxis(); err != nil {
		return nil, err
	}
	if len(o.Depth) != 0 || len(o.Res) != 1 {
		return nil, paramErr("res", ErrWrongLength)
	}
	e, err := newEarth(&o)
	if err != nil {
		return nil, err
	}
	var hk transform.HankelConfig
	switch sol {
	case Fullspace:
	case DiffusiveFullspace:
		e.epermH, e.epermV = []float64{0}, []float64{0}
	case DiffusiveHalfspace:
		if ab/10 > 3 || ab%10 > 3 {
			return nil, paramErr("ab", fmt.Errorf("%w: dhs is only implemented for electric sources and receivers", ErrUnsupported))
		}
		for _, el := range srcs {
			if el.pts[0].Z < 0 {
				return nil, paramErr("src", fmt.Errorf("%w: dhs needs z >= 0", ErrUnsupported))
			}
		}
		for _, el := range recs {
			if el.pts[0].Z < 0 {
				return nil, paramErr("rec", fmt.Errorf("%w: dhs needs z >= 0", ErrUnsupported))
			}
		}
		if hk, err = o.hankel(); err != nil {
			return nil, err
		}
		e.epermH, e.epermV = []float64{0}, []float64{0}
	case SurfaceVMD:
		if ab != 66 {
			return nil, paramErr("ab", fmt.Errorf("%w: vmd is only implemented for ab 66", ErrUnsupported))
		}
		for _, el := range srcs {
			if el.pts[0].Z != 0 {
				return nil, paramErr("src", fmt.Errorf("%w: vmd needs z = 0", ErrUnsupported))
			}
		}
		for _, el := range recs {
			if el.pts[0].Z != 0 {
				return nil, paramErr("rec", fmt.Errorf("%w: vmd needs z = 0", ErrUnsupported))
			}
		}
	default:
		return nil, paramErr("solution", ErrUnsupported)
	}

	r := o.reporter()
	r.Report(report.Event{Kind: report.Header, Key: ":: layeredem START ::"})
	reportEarth(r, e)
	reportAxis(r, &o)
	report.Set(r, "Solution", sol.String())
	if sol == DiffusiveHalfspace {
		for _, st := range hk.Summary() {
			report.Set(r, st.Key, st.Value)
		}
	}

	nrec, nsrc := len(recs), len(srcs)
	ncell := nrec * nsrc
	nparts := 1
	if sol == DiffusiveHalfspace {
		nparts = 5
	}
	hankelOK := true
	// field of every part at one frequency for all cells
	eval := func(f float64, dst [][]complex128) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := e.model(f)
		if err != nil {
			return err
		}
		for j, rc := range recs {
			for i, sc := range srcs {
				c := j*nsrc + i
				d := r3.Sub(rc.pts[0], sc.pts[0])
				switch sol {
				case SurfaceVMD:
					k := cmplx.Sqrt(m.ZetaH[0] * m.EtaH[0])
					dst[0][c] = kernel.HalfspaceVMD(kernel.Offset(d.X, d.Y), k)
				case DiffusiveHalfspace:
					w := kernel.Halfspace(d.X, d.Y, sc.pts[0].Z, rc.pts[0].Z, m.EtaH[0], m.EtaV[0], m.ZetaH[0], m.ZetaV[0], ab)
					air, ok, err := airwave(hk, m, f, sc.pts[0].Z, rc.pts[0].Z, d.X, d.Y, ab)
					if err != nil {
						return err
					}
					hankelOK = hankelOK && ok
					dst[0][c], dst[1][c] = w.DirectTE, w.DirectTM
					dst[2][c], dst[3][c] = w.ReflectedTE, w.ReflectedTM
					dst[4][c] = air
				default:
					dst[0][c] = kernel.Fullspace(d.X, d.Y, d.Z, m.EtaH[0], m.EtaV[0], m.ZetaH[0], m.ZetaV[0], ab)
				}
			}
		}
		return nil
	}
	// slices of the parts for frequency fi
	cells := func(vals [][]complex128, fi int) [][]complex128 {
		dst := make([][]complex128, len(vals))
		for p, v := range vals {
			dst[p] = v[fi*ncell : (fi+1)*ncell]
		}
		return dst
	}

	res := make([]*Result, nparts)
	vals := make([][]complex128, nparts)
	for p := range res {
		res[p] = newResult(len(o.FreqTime), nrec, nsrc, o.KeepDims)
		vals[p] = res[p].Values
	}
	switch {
	case o.Signal == Frequency:
		for fi, f := range o.FreqTime {
			if err := eval(f, cells(vals, fi)); err != nil {
				return nil, err
			}
		}
	case sol == SurfaceVMD && o.Hook == nil:
		for ti, t := range o.FreqTime {
			for j, rc := range recs {
				for i, sc := range srcs {
					d := r3.Sub(rc.pts[0], sc.pts[0])
					off := kernel.Offset(d.X, d.Y)
					vals[0][ti*ncell+j*nsrc+i] = complex(kernel.HalfspaceVMDTime(off, e.res[0], t, o.Signal.transform()), 0)
				}
			}
		}
	default:
		ft, err := o.fourier()
		if err != nil {
			return nil, err
		}
		plan, err := ft.NewPlan(o.FreqTime, o.Signal.transform())
		if err != nil {
			return nil, paramErr("freqtime", err)
		}
		for _, st := range ft.Summary(o.Signal.transform()) {
			report.Set(r, st.Key, st.Value)
		}
		acc := make([][]complex128, nparts)
		for p := range acc {
			acc[p] = make([]complex128, len(plan.Freq)*ncell)
		}
		for fi, f := range plan.Freq {
			if err := eval(f, cells(acc, fi)); err != nil {
				return nil, err
			}
		}
		fourierOK := true
		for p := range acc {
			ok, err := toTime(ctx, plan, acc[p], res[p], o.workers())
			if err != nil {
				return nil, err
			}
			fourierOK = fourierOK && ok
		}
		if !fourierOK {
			report.Warn(r, "Fourier-quadrature did not converge at least once; the requested rtol/atol might not be achieved")
		}
	}
	if !hankelOK {
		report.Warn(r, "Hankel-quadrature did not converge at least once; the requested rtol/atol might not be achieved")
	}
	r.Report(report.Event{Kind: report.Timing, Key: "layeredem END; runtime", Elapsed: time.Since(start)})
	return res, nil
}

// airwave integrates the airwave of the diffusive halfspace for one
// source-receiver pair at frequency f.
func airwave(hk transform.HankelConfig, m *kernel.Model, f, zsrc, zrec, x, y float64, ab int) (complex128, bool, error) {
	if ab/10 == 3 || ab%10 == 3 {
		return 0, true, nil
	}
	fn := kernel.HalfspaceAirwaveKernel(zsrc, zrec, m.EtaH[0], m.ZetaH[0], m.ZetaV[0], kernel.Laplace(f)*kernel.Mu0)
	ints, ok, err := hk.Transform(fn, []float64{kernel.Offset(x, y)})
	if err != nil {
		return 0, false, err
	}
	return kernel.HalfspaceAirwave(x, y, ints[0].I0, ints[0].I1, ab), ok, nil
}
