package model

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bob-anderson-ok/layeredem/report"
	"github.com/bob-anderson-ok/layeredem/transform"
)

// execute reports the settings, runs the survey and reports warnings and
// timing.
func (s *survey) execute(ctx context.Context, o *Options, nrec, nsrc int) (*Result, error) {
	start := time.Now()
	s.reportStart(o, nrec, nsrc)
	if err := s.checkLevels(o); err != nil {
		return nil, err
	}
	res, err := s.run(ctx, o, nrec, nsrc)
	if err != nil {
		return nil, err
	}
	s.finish(start)
	return res, nil
}

func (s *survey) reportStart(o *Options, nrec, nsrc int) {
	r := s.rep
	r.Report(report.Event{Kind: report.Header, Key: ":: layeredem START ::"})
	reportEarth(r, s.earth)
	reportAxis(r, o)
	for _, st := range s.hankel.Summary() {
		report.Set(r, st.Key, st.Value)
	}
	report.Set(r, "Loop over", s.loop.String())
	report.Set(r, "Source(s)", countLine(nsrc, o.SrcPts))
	report.Set(r, "Receiver(s)", countLine(nrec, o.RecPts))
	report.Set(r, "Direct field", s.xdirect.String())
	report.Set(r, "Required ab's", s.abList())
}

func reportEarth(r report.Reporter, e *earth) {
	if len(e.depth) == 0 {
		report.Set(r, "depth       [m]", "(fullspace)")
	} else {
		report.Set(r, "depth       [m]", formatList(e.depth))
	}
	report.Set(r, "res     [Ohm.m]", formatList(e.res))
	report.Set(r, "aniso       [-]", formatList(e.aniso))
	report.Set(r, "epermH      [-]", formatList(e.epermH))
	report.Set(r, "epermV      [-]", formatList(e.epermV))
	report.Set(r, "mpermH      [-]", formatList(e.mpermH))
	report.Set(r, "mpermV      [-]", formatList(e.mpermV))
	if e.hook != nil {
		r.Report(report.Event{Kind: report.Detail, Key: "  > hook", Value: hookLine(e.hook)})
	}
}

func hookLine(h *Hook) string {
	var parts []string
	if h.Eta != nil {
		parts = append(parts, "eta")
	}
	if h.Zeta != nil {
		parts = append(parts, "zeta")
	}
	return strings.Join(parts, ", ")
}

func reportAxis(r report.Reporter, o *Options) {
	if o.Signal == Frequency {
		report.Set(r, "frequency  [Hz]", formatList(o.FreqTime))
		return
	}
	report.Set(r, "time        [s]", formatList(o.FreqTime))
	report.Set(r, "Signal", o.Signal.String())
}

func (s *survey) reportFourier(ft transform.FourierConfig, sig Signal, plan *transform.Plan) {
	for _, st := range ft.Summary(sig.transform()) {
		report.Set(s.rep, st.Key, st.Value)
	}
	if len(plan.Freq) > 0 {
		s.rep.Report(report.Event{
			Kind:  report.Detail,
			Key:   "  > freq   [Hz]",
			Value: fmt.Sprintf("%g - %g : %d  [min-max; #]", slices.Min(plan.Freq), slices.Max(plan.Freq), len(plan.Freq)),
		})
	}
}

func countLine(n, pts int) string {
	line := fmt.Sprintf("%d dipole(s)", n)
	if pts > 1 {
		line = fmt.Sprintf("%d bipole(s); %d Gauss points", n, pts)
	}
	return line
}

func (s *survey) abList() string {
	var abs []int
	for _, g := range s.groups {
		if !slices.Contains(abs, g.ab) {
			abs = append(abs, g.ab)
		}
	}
	slices.Sort(abs)
	parts := make([]string, len(abs))
	for i, ab := range abs {
		parts[i] = strconv.Itoa(ab)
	}
	return strings.Join(parts, " ")
}

// checkLevels warns when a receiver or loop factor uses the horizontal
// parameter of a layer whose vertical parameter differs.
func (s *survey) checkLevels(o *Options) error {
	if s.scale == (factors{}) {
		return nil
	}
	f := o.FreqTime[0]
	if o.Signal != Frequency {
		f = 1 / f
	}
	m, err := s.earth.model(f)
	if err != nil {
		return err
	}
	var src, recZ, recE bool
	for _, g := range s.groups {
		src = src || (s.scale.srcZeta && m.ZetaH[g.lsrc] != m.ZetaV[g.lsrc])
		recZ = recZ || (s.scale.recZeta && m.ZetaH[g.lrec] != m.ZetaV[g.lrec])
		recE = recE || (s.scale.recEta && m.EtaH[g.lrec] != m.EtaV[g.lrec])
	}
	if src {
		report.Warn(s.rep, "`mpermH != mpermV` at source level, only mpermH considered for loop factor")
	}
	if recZ {
		report.Warn(s.rep, "`mpermH != mpermV` at receiver level, only mpermH considered for loop factor")
	}
	if recE {
		report.Warn(s.rep, "`etaH != etaV` at receiver level, only etaH considered for current density")
	}
	return nil
}

func (s *survey) finish(start time.Time) {
	if s.hankelFailed.Load() {
		report.Warn(s.rep, "Hankel-quadrature did not converge at least once; the requested rtol/atol might not be achieved")
	}
	if s.fourierFailed.Load() {
		report.Warn(s.rep, "Fourier-quadrature did not converge at least once; the requested rtol/atol might not be achieved")
	}
	s.rep.Report(report.Event{Kind: report.Detail, Key: "Kernel calls", Value: strconv.FormatInt(s.kernelCalls.Load(), 10)})
	s.rep.Report(report.Event{Kind: report.Timing, Key: "layeredem END; runtime", Elapsed: time.Since(start)})
}
