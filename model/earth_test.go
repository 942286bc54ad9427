package model

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/layeredem/kernel"
)

func TestValidationErrors(t *testing.T) {
	ctx := context.Background()
	o := Options{Depth: []float64{0}, Res: []float64{2e14, 10}, FreqTime: []float64{1}}
	src, rec := pts(0, 0, 10), pts(500, 0, 20)

	_, err := ParseGeometry("src", [][]float64{{0}, {0}, {0}})
	require.Error(t, err)
	assert.EqualError(t, err, "Parameter src has wrong length")

	_, err = Bipole(ctx, Bipoles{X1: []float64{5}, X2: []float64{5}, Y1: []float64{0}, Y2: []float64{0}, Z1: []float64{10}, Z2: []float64{10}}, dip(500, 0, 20, 0, 0), o)
	assert.EqualError(t, err, "Parameter src has zero length")

	for _, ab := range []int{0, 10, 17, 70, 67} {
		_, err = Dipole(ctx, src, rec, ab, o)
		assert.ErrorIs(t, err, ErrInvalidAB, "ab=%d", ab)
	}

	_, err = Dipole(ctx, Points{X: []float64{0, 1}, Y: []float64{0, 1, 2}, Z: []float64{10}}, rec, 11, o)
	assert.ErrorIs(t, err, ErrShape)

	tests := []struct {
		name string
		mod  func(*Options)
		want error
	}{
		{"negative res", func(o *Options) { o.Res = []float64{2e14, -10} }, ErrNonPositive},
		{"zero aniso", func(o *Options) { o.Aniso = []float64{1, 0} }, ErrNonPositive},
		{"negative eperm", func(o *Options) { o.EpermV = []float64{1, -1} }, ErrNegative},
		{"negative mperm", func(o *Options) { o.MpermH = []float64{-1, 1} }, ErrNegative},
		{"short aniso", func(o *Options) { o.Aniso = []float64{1} }, ErrWrongLength},
		{"depth count", func(o *Options) { o.Depth = []float64{0, 100} }, ErrWrongLength},
		{"depth order", func(o *Options) {
			o.Depth = []float64{0, 100, 50}
			o.Res = []float64{1, 2, 3, 4}
		}, ErrDepthOrder},
		{"zero frequency", func(o *Options) { o.FreqTime = []float64{1, 0} }, ErrNonPositive},
		{"negative time", func(o *Options) {
			o.Signal = StepOff
			o.FreqTime = []float64{-1}
		}, ErrNonPositive},
		{"empty hook", func(o *Options) { o.Hook = &Hook{} }, ErrUnsupported},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			oo := o
			tc.mod(&oo)
			_, err := Dipole(ctx, src, rec, 11, oo)
			assert.ErrorIs(t, err, tc.want)
			var pe *ParameterError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestNegativeResistivityWithHook(t *testing.T) {
	o := Options{
		Depth: []float64{0}, Res: []float64{-1, -1}, FreqTime: []float64{1},
		Hook:  ColeCole([]float64{1e-14, 0.1}, []float64{1e-14, 0.2}, []float64{1, 0.01}, []float64{1, 0.5}),
	}
	res, err := Dipole(context.Background(), pts(0, 0, 10), pts(500, 0, 20), 11, o)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(real(res.Values[0])))
}

func TestHookLengthChecked(t *testing.T) {
	o := Options{
		Depth: []float64{0}, Res: []float64{2e14, 10}, FreqTime: []float64{1},
		Hook: &Hook{Eta: func(in HookInput, p Params) ([]complex128, []complex128) {
			return p.EtaH[:1], p.EtaV
		}},
	}
	_, err := Dipole(context.Background(), pts(0, 0, 10), pts(500, 0, 20), 11, o)
	assert.ErrorIs(t, err, ErrWrongLength)
}

func TestDepthOrderings(t *testing.T) {
	ctx := context.Background()
	src, rec := pts(0, 0, 5), pts(800, 100, 15)
	base := Options{
		Depth: []float64{0, 10, 20}, Res: []float64{2e14, 10, 1, 50},
		Aniso: []float64{1, 1, 2, 1}, FreqTime: []float64{0.1, 10},
	}
	want, err := Dipole(ctx, src, rec, 13, base)
	require.NoError(t, err)

	rev := func(v []float64) []float64 {
		out := slices.Clone(v)
		slices.Reverse(out)
		return out
	}
	for name, o := range map[string]Options{
		"bottom-up": {Depth: []float64{20, 10, 0}, Res: rev(base.Res), Aniso: rev(base.Aniso)},
		"trailing +Inf": {
			Depth: []float64{0, 10, 20, math.Inf(1)}, Res: base.Res, Aniso: base.Aniso,
		},
		"leading -Inf": {
			Depth: []float64{math.Inf(-1), 0, 10, 20}, Res: base.Res, Aniso: base.Aniso,
		},
		"bottom-up +Inf": {
			Depth: []float64{math.Inf(1), 20, 10, 0}, Res: rev(base.Res), Aniso: rev(base.Aniso),
		},
	} {
		t.Run(name, func(t *testing.T) {
			o.FreqTime = base.FreqTime
			got, err := Dipole(ctx, src, rec, 13, o)
			require.NoError(t, err)
			assert.Equal(t, want.Values, got.Values)
		})
	}
}

func TestHookExtraFollowsLayers(t *testing.T) {
	ctx := context.Background()
	src, rec := pts(0, 0, 50), pts(900, 0, 150)
	c0 := []float64{1e-14, 0.1, 0.02}
	c8 := []float64{1e-14, 0.3, 0.05}
	tau := []float64{1, 1e-3, 1e-2}
	c := []float64{1, 0.5, 0.8}
	fwd := Options{Depth: []float64{0, 100}, Res: []float64{1, 1, 1}, FreqTime: []float64{1, 100}, Hook: ColeCole(c0, c8, tau, c)}
	want, err := Dipole(ctx, src, rec, 11, fwd)
	require.NoError(t, err)

	rev := func(v []float64) []float64 {
		out := slices.Clone(v)
		slices.Reverse(out)
		return out
	}
	bwd := Options{
		Depth: []float64{100, 0}, Res: []float64{1, 1, 1}, FreqTime: fwd.FreqTime,
		Hook:  ColeCole(rev(c0), rev(c8), rev(tau), rev(c)),
	}
	got, err := Dipole(ctx, src, rec, 11, bwd)
	require.NoError(t, err)
	assert.Equal(t, want.Values, got.Values)

	// The user's lists are not reordered in place.
	assert.Equal(t, []float64{0.02, 0.1, 1e-14}, bwd.Hook.Extra["cond_0"])
}

func TestColeColeWithoutDispersion(t *testing.T) {
	ctx := context.Background()
	res := []float64{2e14, 10, 3}
	cond := make([]float64, len(res))
	for i, r := range res {
		cond[i] = 1 / r
	}
	o := Options{Depth: []float64{0, 200}, Res: res, Aniso: []float64{1, 1.5, 1}, FreqTime: []float64{0.5, 50}}
	src, rec := pts(0, 0, 20), pts(1200, 300, 250)
	want, err := Dipole(ctx, src, rec, 12, o)
	require.NoError(t, err)

	o.Hook = ColeCole(cond, cond, []float64{1, 1, 1}, []float64{0.5, 0.5, 0.5})
	got, err := Dipole(ctx, src, rec, 12, o)
	require.NoError(t, err)
	assertClose(t, want.Values, got.Values, 1e-10)
}

func TestMirroredEarth(t *testing.T) {
	ctx := context.Background()
	down := Options{
		Depth: []float64{0, 500}, Res: []float64{10, 1, 30},
		Aniso: []float64{1, 2, 1}, FreqTime: []float64{1},
	}
	up := Options{
		Depth: []float64{-500, 0}, Res: []float64{30, 1, 10},
		Aniso: []float64{1, 2, 1}, FreqTime: []float64{1},
	}
	for _, ab := range []int{11, 12, 13, 31, 33, 44, 16, 61, 66, 24} {
		// magnetic components and vertical components change sign
		sign := complex(1, 0)
		for _, c := range []int{ab / 10, ab % 10} {
			if c > 3 {
				sign = -sign
			}
			if c == 3 || c == 6 {
				sign = -sign
			}
		}
		want, err := Dipole(ctx, pts(0, -100, 200), pts(1500, 300, 300), ab, down)
		require.NoError(t, err)
		got, err := Dipole(ctx, pts(0, -100, -200), pts(1500, 300, -300), ab, up)
		require.NoError(t, err)
		assertClose(t, want.Values, scaled(got.Values, sign), 1e-10, "ab=%d", ab)
	}
}

func TestHooksMatchScaledModels(t *testing.T) {
	ctx := context.Background()
	const fact = 3.0
	base := Options{
		Depth: []float64{0, 150}, Res: []float64{2e14, 20, 4},
		Aniso: []float64{1, 1, 1.4}, FreqTime: []float64{0.3, 30},
	}
	src, rec := pts(0, 0, 40), pts(700, -200, 200)

	scaledRes := base
	scaledRes.Res = []float64{2e14 * fact, 20 * fact, 4 * fact}
	want, err := Dipole(ctx, src, rec, 11, scaledRes)
	require.NoError(t, err)

	eta := base
	eta.Hook = &Hook{Eta: func(in HookInput, p Params) ([]complex128, []complex128) {
		eh := make([]complex128, len(in.Res))
		ev := make([]complex128, len(in.Res))
		for j, r := range in.Res {
			eh[j] = complex(1/(r*fact), 0) + in.S*complex(kernel.Eps0*in.EpermH[j], 0)
			ev[j] = complex(1/(r*fact*in.Aniso[j]*in.Aniso[j]), 0) + in.S*complex(kernel.Eps0*in.EpermV[j], 0)
		}
		return eh, ev
	}}
	got, err := Dipole(ctx, src, rec, 11, eta)
	require.NoError(t, err)
	assertClose(t, want.Values, got.Values, 1e-12)

	scaledMu := base
	scaledMu.MpermH = []float64{fact, fact, fact}
	scaledMu.MpermV = []float64{fact, fact, fact}
	want, err = Dipole(ctx, src, rec, 44, scaledMu)
	require.NoError(t, err)

	zeta := base
	zeta.Hook = &Hook{Zeta: func(in HookInput, p Params) ([]complex128, []complex128) {
		zh := make([]complex128, len(in.Res))
		zv := make([]complex128, len(in.Res))
		for j := range in.Res {
			zh[j] = in.S * complex(kernel.Mu0*fact, 0)
			zv[j] = zh[j]
		}
		return zh, zv
	}}
	got, err = Dipole(ctx, src, rec, 44, zeta)
	require.NoError(t, err)
	assertClose(t, want.Values, got.Values, 1e-12)
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "0 10 20", formatList([]float64{0, 10, 20}))
	assert.Equal(t, "1 - 7 : 7  [min-max; #]", formatList([]float64{3, 1, 2, 7, 4, 5, 6}))
}
