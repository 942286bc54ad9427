package model

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/bob-anderson-ok/layeredem/kernel"
)

// earth is a validated layered model in top-to-bottom order.
type earth struct {
	depth          []float64 // finite interfaces, strictly increasing
	res, aniso     []float64
	epermH, epermV []float64
	mpermH, mpermV []float64
	hook           *Hook
	extra          map[string][]float64
}

// newEarth validates the model part of o. Depths given bottom-up are
// turned around together with every per-layer list, then the infinite
// sentinels are dropped.
func newEarth(o *Options) (*earth, error) {
	n := len(o.Res)
	if n == 0 {
		return nil, paramErr("res", ErrWrongLength)
	}
	if o.Hook != nil {
		if err := o.Hook.validate(); err != nil {
			return nil, err
		}
	}
	depth := slices.Clone(o.Depth)
	for _, d := range depth {
		if math.IsNaN(d) {
			return nil, paramErr("depth", ErrDepthOrder)
		}
	}

	e := &earth{hook: o.Hook}
	lists := []struct {
		name string
		in   []float64
		def  float64
		dst  *[]float64
	}{
		{"res", o.Res, 0, &e.res},
		{"aniso", o.Aniso, 1, &e.aniso},
		{"epermH", o.EpermH, 1, &e.epermH},
		{"epermV", o.EpermV, 1, &e.epermV},
		{"mpermH", o.MpermH, 1, &e.mpermH},
		{"mpermV", o.MpermV, 1, &e.mpermV},
	}
	for _, l := range lists {
		switch {
		case l.in == nil:
			*l.dst = filled(n, l.def)
		case len(l.in) == n:
			*l.dst = slices.Clone(l.in)
		default:
			return nil, paramErr(l.name, ErrWrongLength)
		}
	}
	if o.Hook != nil && len(o.Hook.Extra) > 0 {
		e.extra = make(map[string][]float64, len(o.Hook.Extra))
		for k, v := range o.Hook.Extra {
			e.extra[k] = slices.Clone(v)
		}
	}

	if len(depth) > 1 && depth[0] > depth[len(depth)-1] {
		slices.Reverse(depth)
		for _, l := range lists {
			slices.Reverse(*l.dst)
		}
		for _, v := range e.extra {
			if len(v) == n {
				slices.Reverse(v)
			}
		}
	}
	for i := 1; i < len(depth); i++ {
		if !(depth[i] > depth[i-1]) {
			return nil, paramErr("depth", ErrDepthOrder)
		}
	}
	// A leading -Inf or trailing +Inf only marks the outer layers.
	if len(depth) > 0 && math.IsInf(depth[0], -1) {
		depth = depth[1:]
	}
	if len(depth) > 0 && math.IsInf(depth[len(depth)-1], 1) {
		depth = depth[:len(depth)-1]
	}
	for _, d := range depth {
		if math.IsInf(d, 0) {
			return nil, paramErr("depth", ErrDepthOrder)
		}
	}
	if len(depth) != n-1 {
		return nil, paramErr("res", ErrWrongLength)
	}
	e.depth = depth

	for j := 0; j < n; j++ {
		if o.Hook == nil && !(e.res[j] > 0) {
			return nil, paramErr("res", ErrNonPositive)
		}
		if !(e.aniso[j] > 0) {
			return nil, paramErr("aniso", ErrNonPositive)
		}
		if e.epermH[j] < 0 || e.epermV[j] < 0 {
			return nil, paramErr("eperm", ErrNegative)
		}
		if e.mpermH[j] < 0 || e.mpermV[j] < 0 {
			return nil, paramErr("mperm", ErrNegative)
		}
	}
	return e, nil
}

func filled(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func (e *earth) layers() int { return len(e.res) }

func (e *earth) layer(z float64) int { return kernel.LayerOf(e.depth, z) }

// model returns the layer parameters at frequency f, with the hook applied.
func (e *earth) model(f float64) (*kernel.Model, error) {
	s := kernel.Laplace(f)
	var p Params
	p.EtaH, p.EtaV, p.ZetaH, p.ZetaV = kernel.Params(s, e.res, e.aniso, e.epermH, e.epermV, e.mpermH, e.mpermV)
	if e.hook != nil {
		in := HookInput{
			Freq:   f, S: s,
			Res:    e.res, Aniso: e.aniso,
			EpermH: e.epermH, EpermV: e.epermV,
			MpermH: e.mpermH, MpermV: e.mpermV,
			Extra:  e.extra,
		}
		if err := e.hook.apply(in, &p); err != nil {
			return nil, err
		}
	}
	return &kernel.Model{Depth: e.depth, EtaH: p.EtaH, EtaV: p.EtaV, ZetaH: p.ZetaH, ZetaV: p.ZetaV}, nil
}

// models evaluates model at every frequency.
func (e *earth) models(freq []float64) ([]*kernel.Model, error) {
	out := make([]*kernel.Model, len(freq))
	for i, f := range freq {
		m, err := e.model(f)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func formatList(v []float64) string {
	if len(v) > 6 {
		return fmt.Sprintf("%g - %g : %d  [min-max; #]", slices.Min(v), slices.Max(v), len(v))
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return strings.Join(parts, " ")
}
