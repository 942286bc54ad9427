package model

import (
	"fmt"
	"math/cmplx"

	"github.com/bob-anderson-ok/layeredem/kernel"
)

// HookInput is the data a Hook sees for one frequency. The slices are the
// validated layer parameters in top-to-bottom order and must not be
// modified.
type HookInput struct {
	Freq float64    // Frequency [Hz], negative for Laplace values
	S    complex128 // Laplace variable: 2πif, or -f for f < 0

	Res, Aniso     []float64
	EpermH, EpermV []float64
	MpermH, MpermV []float64

	Extra map[string][]float64 // Hook.Extra, reordered with the layers
}

// Params are the layer parameters computed without the hook.
type Params struct {
	EtaH, EtaV   []complex128
	ZetaH, ZetaV []complex128
}

// Hook replaces the admittivities (Eta) and/or impedivities (Zeta) of the
// layers with user-defined, usually frequency-dependent values. Either
// function may be nil. Both are called once per frequency, possibly from
// several goroutines, and must return one value per layer.
type Hook struct {
	Eta  func(in HookInput, p Params) (etaH, etaV []complex128)
	Zeta func(in HookInput, p Params) (zetaH, zetaV []complex128)

	// Extra holds user parameters. Lists with one entry per layer are
	// reordered together with the layers when depths are given bottom-up.
	Extra map[string][]float64
}

// ColeCole returns a hook for the Cole-Cole conductivity model
//
//	σ(ω) = σ∞ + (σ0 - σ∞) / (1 + (iωτ)^c)
//
// with the per-layer parameters taken from Extra["cond_0"],
// Extra["cond_8"], Extra["tau"] and Extra["c"]. Anisotropy and
// permittivities apply as usual.
func ColeCole(cond0, condInf, tau, c []float64) *Hook {
	return &Hook{
		Extra: map[string][]float64{"cond_0": cond0, "cond_8": condInf, "tau": tau, "c": c},
		Eta: func(in HookInput, p Params) ([]complex128, []complex128) {
			c0, c8, tau, c := in.Extra["cond_0"], in.Extra["cond_8"], in.Extra["tau"], in.Extra["c"]
			etaH := make([]complex128, len(p.EtaH))
			etaV := make([]complex128, len(p.EtaV))
			for j := range etaH {
				sigma := complex(c8[j], 0) + complex(c0[j]-c8[j], 0)/(1+cmplx.Pow(in.S*complex(tau[j], 0), complex(c[j], 0)))
				a2 := complex(in.Aniso[j]*in.Aniso[j], 0)
				etaH[j] = sigma + in.S*complex(kernel.Eps0*in.EpermH[j], 0)
				etaV[j] = sigma/a2 + in.S*complex(kernel.Eps0*in.EpermV[j], 0)
			}
			return etaH, etaV
		},
	}
}

func (h *Hook) validate() error {
	if h.Eta == nil && h.Zeta == nil {
		return paramErr("hook", fmt.Errorf("%w: neither Eta nor Zeta is set", ErrUnsupported))
	}
	return nil
}

// apply runs the hook on p in place.
func (h *Hook) apply(in HookInput, p *Params) error {
	if h.Eta != nil {
		eh, ev := h.Eta(in, *p)
		if len(eh) != len(p.EtaH) || len(ev) != len(p.EtaV) {
			return paramErr("hook", fmt.Errorf("Eta %w", ErrWrongLength))
		}
		p.EtaH, p.EtaV = eh, ev
	}
	if h.Zeta != nil {
		zh, zv := h.Zeta(in, *p)
		if len(zh) != len(p.ZetaH) || len(zv) != len(p.ZetaV) {
			return paramErr("hook", fmt.Errorf("Zeta %w", ErrWrongLength))
		}
		p.ZetaH, p.ZetaV = zh, zv
	}
	return nil
}
