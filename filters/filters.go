// Package filters provides the digital linear filters (DLF) used for the
// Hankel and Fourier transforms of the layered-earth response.
//
// A filter evaluates ∫ f(x) K(xr) dx ≈ (1/r) Σ f(b_k/r) w_k, where b_k is a
// logarithmically spaced base and K is J0, J1, sin or cos. The built-in
// filters are designed at first use and shared read-only afterwards.
package filters

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Filter is a DLF table. Hankel filters carry J0 and J1 weights, Fourier
// filters carry Sin and Cos weights; all weights share Base.
type Filter struct {
	Name string    `yaml:"name" json:"name"`
	Base []float64 `yaml:"base" json:"base"`
	J0   []float64 `yaml:"j0,omitempty" json:"j0,omitempty"`
	J1   []float64 `yaml:"j1,omitempty" json:"j1,omitempty"`
	Sin  []float64 `yaml:"sin,omitempty" json:"sin,omitempty"`
	Cos  []float64 `yaml:"cos,omitempty" json:"cos,omitempty"`
}

var (
	// ErrBadFilter is returned for filters that cannot be used by the transforms.
	ErrBadFilter = errors.New("invalid filter")

	hankelOnce  sync.Once
	hankel      *Filter
	fourierOnce sync.Once
	fourier     *Filter
)

// Hankel returns the built-in J0/J1 filter.
func Hankel() *Filter {
	hankelOnce.Do(func() {
		d := DefaultDesign
		hankel = &Filter{
			Name: fmt.Sprintf("dlf_hankel_%d", d.Len()),
			Base: d.Base(),
			J0:   d.Weights(BesselJ0),
			J1:   d.Weights(BesselJ1),
		}
	})
	return hankel
}

// Fourier returns the built-in sine/cosine filter.
func Fourier() *Filter {
	fourierOnce.Do(func() {
		d := DefaultDesign
		fourier = &Filter{
			Name: fmt.Sprintf("dlf_fourier_%d", d.Len()),
			Base: d.Base(),
			Sin:  d.Weights(Sine),
			Cos:  d.Weights(Cosine),
		}
	})
	return fourier
}

// Factor is the ratio of two consecutive base values.
func (f *Filter) Factor() float64 {
	return f.Base[1] / f.Base[0]
}

// IsHankel reports whether f carries J0 and J1 weights.
func (f *Filter) IsHankel() bool {
	return len(f.J0) > 0 && len(f.J1) > 0
}

// IsFourier reports whether f carries sine and cosine weights.
func (f *Filter) IsFourier() bool {
	return len(f.Sin) > 0 && len(f.Cos) > 0
}

// Weights returns the weights for the given kind, or nil if the filter
// does not carry them.
func (f *Filter) Weights(kind Kind) []float64 {
	switch kind {
	case BesselJ0:
		return f.J0
	case BesselJ1:
		return f.J1
	case Sine:
		return f.Sin
	case Cosine:
		return f.Cos
	}
	return nil
}

// Validate checks that the base is positive and log-spaced and that all
// weight sets match its length. Lagged convolution relies on the
// constant spacing.
func (f *Filter) Validate() error {
	n := len(f.Base)
	if n < 2 {
		return fmt.Errorf("%w: base needs at least two points", ErrBadFilter)
	}
	if !f.IsHankel() && !f.IsFourier() {
		return fmt.Errorf("%w: %q carries neither J0/J1 nor sin/cos weights", ErrBadFilter, f.Name)
	}
	for _, w := range [][]float64{f.J0, f.J1, f.Sin, f.Cos} {
		if len(w) != 0 && len(w) != n {
			return fmt.Errorf("%w: %d weights for %d base points", ErrBadFilter, len(w), n)
		}
	}
	if f.Base[0] <= 0 {
		return fmt.Errorf("%w: base must be positive", ErrBadFilter)
	}
	r := math.Log(f.Factor())
	for k := 1; k < n; k++ {
		if f.Base[k] <= 0 || math.Abs(math.Log(f.Base[k]/f.Base[k-1])-r) > 1e-6*math.Abs(r) {
			return fmt.Errorf("%w: base is not logarithmically spaced at index %d", ErrBadFilter, k)
		}
	}
	return nil
}

// Apply evaluates ∫ fn(x) K(xr) dx with the weights of kind.
func (f *Filter) Apply(kind Kind, r float64, fn func(x float64) float64) float64 {
	w := f.Weights(kind)
	var s float64
	for k, b := range f.Base {
		s += fn(b/r) * w[k]
	}
	return s / r
}
