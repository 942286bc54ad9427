package model

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/bob-anderson-ok/layeredem/report"
)

// GPR computes a ground-penetrating-radar trace: the impulse response of
// Dipole convolved with a Ricker wavelet of centre frequency cf [Hz],
// multiplied by the gain 1 + (t·1e9)^gain when gain is positive. FreqTime
// holds the times; Signal must be unset or Impulse. Displacement currents
// matter at radar frequencies, so the permittivities of o should be set.
//
// The layered kernel is not designed for radar frequencies; the routine is
// experimental.
func GPR(ctx context.Context, src, rec Points, ab int, cf, gain float64, o Options) (*Result, error) {
	if o.Signal != Frequency && o.Signal != Impulse {
		return nil, paramErr("signal", fmt.Errorf("%w: GPR is an impulse response", ErrUnsupported))
	}
	if !(cf > 0) || math.IsInf(cf, 0) {
		return nil, paramErr("cf", ErrNonPositive)
	}
	if gain < 0 || math.IsNaN(gain) {
		return nil, paramErr("gain", ErrNegative)
	}
	o.Signal = Impulse
	if err := o.checkAxis(); err != nil {
		return nil, err
	}
	ft, err := o.fourier()
	if err != nil {
		return nil, err
	}
	plan, err := ft.NewPlan(o.FreqTime, o.Signal.transform())
	if err != nil {
		return nil, paramErr("freqtime", err)
	}

	r := o.reporter()
	report.Set(r, "GPR", "EXPERIMENTAL, USE WITH CAUTION")
	report.Set(r, "  > centre freq", strconv.FormatFloat(cf, 'f', -1, 64))
	report.Set(r, "  > gain", strconv.FormatFloat(gain, 'f', -1, 64))
	for _, st := range ft.Summary(o.Signal.transform()) {
		report.Set(r, st.Key, st.Value)
	}

	fo := o
	fo.Signal = Frequency
	fo.FreqTime = plan.Freq
	em, err := Dipole(ctx, src, rec, ab, fo)
	if err != nil {
		return nil, err
	}

	// Ricker spectrum -(f/cf)²·exp(-(f/cf)²)
	ncell := em.NRec * em.NSrc
	for fi, f := range plan.Freq {
		c := -(f / cf) * (f / cf)
		w := complex(c*math.Exp(c), 0)
		for k := range ncell {
			em.Values[fi*ncell+k] *= w
		}
	}

	res := newResult(len(o.FreqTime), em.NRec, em.NSrc, o.KeepDims)
	ok, err := toTime(ctx, plan, em.Values, res, o.workers())
	if err != nil {
		return nil, err
	}
	if !ok {
		report.Warn(r, "Fourier-quadrature did not converge at least once; the requested rtol/atol might not be achieved")
	}
	if gain > 0 {
		for ti, t := range o.FreqTime {
			g := complex(1+math.Pow(t*1e9, gain), 0)
			for k := range ncell {
				res.Values[ti*ncell+k] *= g
			}
		}
	}
	return res, nil
}
