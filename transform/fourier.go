package transform

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/bob-anderson-ok/layeredem/filters"
)

// FourierMethod selects the frequency-to-time transform.
type FourierMethod int

const (
	FourierDLF FourierMethod = iota // Sine/cosine digital linear filter
	FourierQWE                      // Quadrature with extrapolation
	FFTLog                          // Logarithmic fast Fourier transform
	FFT                             // Linear fast Fourier transform
)

func (m FourierMethod) String() string {
	switch m {
	case FourierDLF:
		return "dlf"
	case FourierQWE:
		return "qwe"
	case FFTLog:
		return "fftlog"
	case FFT:
		return "fft"
	}
	return fmt.Sprintf("FourierMethod(%d)", int(m))
}

// Signal types. The frequency-domain response is the response to a unit
// source of e^{iωt} time dependence.
const (
	SignalStepOff = -1
	SignalImpulse = 0
	SignalStepOn  = 1
)

// ErrBadTimes is returned for empty or non-positive time lists.
var ErrBadTimes = errors.New("times must be positive")

// FourierConfig configures the Fourier transform. Zero values are
// replaced by the defaults of the method.
type FourierConfig struct {
	Method FourierMethod
	Filter *filters.Filter // DLF filter, nil for the built-in one

	// PtsPerDec is the DLF variant (0 standard, <0 lagged convolution,
	// >0 splined). QWE splines the response with that many points per
	// decade, FFTLog samples with it.
	PtsPerDec float64

	RTol   float64 // QWE: relative tolerance
	ATol   float64 // QWE: absolute tolerance
	NQuad  int     // QWE: Gauss-Legendre points per interval
	MaxInt int     // QWE: maximum number of intervals

	AddDec [2]float64 // FFTLog: decades added below and above the times
	Q      float64    // FFTLog: power-law bias

	DFreq float64 // FFT: frequency spacing [Hz]
	NFreq int     // FFT: number of computed frequencies
	NTot  int     // FFT: transform length including zero padding
}

// DefaultFourier returns the default configuration for a method.
func DefaultFourier(m FourierMethod) FourierConfig {
	c := FourierConfig{Method: m}
	if m == FourierDLF {
		c.PtsPerDec = -1
	}
	return c.WithDefaults()
}

// WithDefaults fills unset fields.
func (c FourierConfig) WithDefaults() FourierConfig {
	switch c.Method {
	case FourierDLF:
		if c.Filter == nil {
			c.Filter = filters.Fourier()
		}
	case FourierQWE:
		setDefault(&c.RTol, 1e-8)
		setDefault(&c.ATol, 1e-20)
		setDefaultInt(&c.NQuad, 21)
		setDefaultInt(&c.MaxInt, 200)
		setDefault(&c.PtsPerDec, 20)
	case FFTLog:
		setDefault(&c.PtsPerDec, 10)
		if c.AddDec == [2]float64{} {
			c.AddDec = [2]float64{-2, 1}
		}
	case FFT:
		setDefault(&c.DFreq, 0.002)
		setDefaultInt(&c.NFreq, 2048)
		setDefaultInt(&c.NTot, 2048)
	}
	return c
}

// Validate checks the configuration.
func (c FourierConfig) Validate() error {
	switch c.Method {
	case FourierDLF:
		if c.Filter != nil {
			if err := c.Filter.Validate(); err != nil {
				return err
			}
			if !c.Filter.IsFourier() {
				return fmt.Errorf("%w: %q has no sine/cosine weights", filters.ErrBadFilter, c.Filter.Name)
			}
		}
	case FourierQWE:
		if c.NQuad < 0 || c.MaxInt < 0 || c.RTol < 0 || c.ATol < 0 || c.PtsPerDec < 0 {
			return fmt.Errorf("qwe: tolerances and counts must not be negative")
		}
	case FFTLog:
		if c.PtsPerDec < 0 {
			return fmt.Errorf("fftlog: pts_per_dec must not be negative")
		}
		if c.AddDec[0] > 0 || c.AddDec[1] < 0 {
			return fmt.Errorf("fftlog: add_dec must widen the time range, got %v", c.AddDec)
		}
		if math.Abs(c.Q) >= 1 {
			return fmt.Errorf("fftlog: |q| must be smaller than 1, got %g", c.Q)
		}
	case FFT:
		if c.DFreq < 0 || c.NFreq < 0 || c.NTot < 0 {
			return fmt.Errorf("fft: dfreq, nfreq and ntot must not be negative")
		}
	default:
		return fmt.Errorf("unknown Fourier method %d", int(c.Method))
	}
	return nil
}

// Summary describes the configuration for reports.
func (c FourierConfig) Summary(signal int) []Setting {
	c = c.WithDefaults()
	switch c.Method {
	case FourierDLF:
		name := "DLF (Sine-Filter)"
		if kernelKind(signal) == filters.Cosine {
			name = "DLF (Cosine-Filter)"
		}
		kind := "Standard"
		switch {
		case c.PtsPerDec < 0:
			kind = "Lagged Convolution"
		case c.PtsPerDec > 0:
			kind = fmt.Sprintf("Splined, %.1f pts/dec", c.PtsPerDec)
		}
		return []Setting{
			{"Fourier", name},
			{"  > Filter", c.Filter.Name},
			{"  > DLF type", kind},
		}
	case FourierQWE:
		return []Setting{
			{"Fourier", "Quadrature-with-Extrapolation"},
			{"  > rtol", fmt.Sprintf("%g", c.RTol)},
			{"  > atol", fmt.Sprintf("%g", c.ATol)},
			{"  > nquad", fmt.Sprintf("%d", c.NQuad)},
			{"  > maxint", fmt.Sprintf("%d", c.MaxInt)},
			{"  > pts_per_dec", fmt.Sprintf("%g", c.PtsPerDec)},
		}
	case FFTLog:
		return []Setting{
			{"Fourier", "FFTLog"},
			{"  > pts_per_dec", fmt.Sprintf("%g", c.PtsPerDec)},
			{"  > add_dec", fmt.Sprintf("%g", c.AddDec[:])},
			{"  > q", fmt.Sprintf("%g", c.Q)},
		}
	}
	return []Setting{
		{"Fourier", "Fast Fourier Transform FFT"},
		{"  > dfreq", fmt.Sprintf("%g", c.DFreq)},
		{"  > nfreq", fmt.Sprintf("%d", c.NFreq)},
		{"  > ntot", fmt.Sprintf("%d", max(c.NTot, c.NFreq+1))},
	}
}

// kernelKind is the transform kernel used for a signal.
func kernelKind(signal int) filters.Kind {
	if signal < 0 {
		return filters.Cosine
	}
	return filters.Sine
}

// integrand is the real function g(ω) whose sine or cosine transform,
// scaled by 2/π, is the time-domain response.
func integrand(signal int, w float64, v complex128) float64 {
	switch signal {
	case SignalImpulse:
		return -imag(v)
	case SignalStepOn:
		return real(v) / w
	}
	return -imag(v) / w
}

// Plan holds the frequencies at which the response must be computed for a
// set of times. Build it with NewPlan, compute the response at Freq and
// pass it to Transform.
type Plan struct {
	Freq []float64 // [Hz]

	cfg    FourierConfig
	times  []float64
	signal int
	kind   filters.Kind

	// transform from the response at Freq to the response at a set of
	// internal times, which are then interpolated to the requested ones
	apply func(resp []complex128) (tcalc, vals []float64, ok bool, err error)
}

// NewPlan prepares the transform of the response to the given times.
func (c FourierConfig) NewPlan(times []float64, signal int) (*Plan, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(times) == 0 || floats.Min(times) <= 0 {
		return nil, ErrBadTimes
	}
	if signal < SignalStepOff || signal > SignalStepOn {
		return nil, fmt.Errorf("unknown signal %d", signal)
	}
	p := &Plan{cfg: c, times: slices.Clone(times), signal: signal, kind: kernelKind(signal)}
	var err error
	switch c.Method {
	case FourierDLF:
		switch {
		case c.PtsPerDec < 0:
			p.dlfLagged()
		case c.PtsPerDec > 0:
			p.dlfSplined()
		default:
			p.dlfStandard()
		}
	case FourierQWE:
		p.qwe()
	case FFTLog:
		err = p.fftlog()
	case FFT:
		p.fft()
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Transform returns the time-domain response at the plan's times. resp
// holds the frequency-domain response at Freq. The boolean is false if
// QWE did not converge for at least one time.
func (p *Plan) Transform(resp []complex128) ([]float64, bool, error) {
	if len(resp) != len(p.Freq) {
		return nil, false, fmt.Errorf("response has %d values, plan has %d frequencies", len(resp), len(p.Freq))
	}
	tcalc, vals, ok, err := p.apply(resp)
	if err != nil {
		return nil, false, err
	}
	if tcalc == nil {
		return vals, ok, nil
	}
	s, err := fitReal(tcalc, vals)
	if err != nil {
		return nil, false, err
	}
	out := make([]float64, len(p.times))
	for i, t := range p.times {
		out[i] = s.Predict(p.interpX(t))
	}
	return out, ok, nil
}

// interpX maps a time onto the interpolation axis of the method.
func (p *Plan) interpX(t float64) float64 {
	if p.cfg.Method == FFT {
		return t
	}
	return math.Log(t)
}

func toHz(w []float64) []float64 {
	f := make([]float64, len(w))
	for i, v := range w {
		f[i] = v / (2 * math.Pi)
	}
	return f
}

func (p *Plan) weights() []float64 {
	return p.cfg.Filter.Weights(p.kind)
}

// dlfStandard evaluates the filter at every time.
func (p *Plan) dlfStandard() {
	base := p.cfg.Filter.Base
	nb := len(base)
	w := make([]float64, 0, nb*len(p.times))
	for _, t := range p.times {
		for _, b := range base {
			w = append(w, b/t)
		}
	}
	p.Freq = toHz(w)
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		wt := p.weights()
		out := make([]float64, len(p.times))
		for i, t := range p.times {
			var sum float64
			for k := range base {
				sum += integrand(p.signal, w[i*nb+k], resp[i*nb+k]) * wt[k]
			}
			out[i] = 2 / math.Pi * sum / t
		}
		return nil, out, true, nil
	}
}

// dlfLagged evaluates the filter on times spaced by the filter factor
// below the largest time, all sharing one frequency grid.
func (p *Plan) dlfLagged() {
	base := p.cfg.Filter.Base
	nb := len(base)
	lo, hi := floats.Min(p.times), floats.Max(p.times)
	step := math.Log(p.cfg.Filter.Factor())
	nl := max(int(math.Ceil(math.Log(hi/lo)/step))+1, 4)
	w := make([]float64, nb+nl-1)
	for m := range w {
		if m < nb {
			w[m] = base[m] / hi
		} else {
			w[m] = base[nb-1] * math.Exp(float64(m-nb+1)*step) / hi
		}
	}
	p.Freq = toHz(w)
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		wt := p.weights()
		g := make([]float64, len(w))
		for m := range w {
			g[m] = integrand(p.signal, w[m], resp[m])
		}
		x := make([]float64, nl)
		vals := make([]float64, nl)
		for j := 0; j < nl; j++ {
			shift := nl - 1 - j
			t := hi * math.Exp(-float64(shift)*step)
			var sum float64
			for k := range base {
				sum += g[shift+k] * wt[k]
			}
			x[j] = math.Log(t)
			vals[j] = 2 / math.Pi * sum / t
		}
		return x, vals, true, nil
	}
}

// dlfSplined interpolates the response from a log-spaced frequency grid
// onto the filter frequencies of every time.
func (p *Plan) dlfSplined() {
	base := p.cfg.Filter.Base
	lo, hi := floats.Min(p.times), floats.Max(p.times)
	lw := logGrid(base[0]/hi, base[len(base)-1]/lo, p.cfg.PtsPerDec, 4)
	w := make([]float64, len(lw))
	for i, v := range lw {
		w[i] = math.Exp(v)
	}
	p.Freq = toHz(w)
	p.apply = func(resp []complex128) ([]float64, []float64, bool, error) {
		s, err := fitComplex(lw, resp)
		if err != nil {
			return nil, nil, false, err
		}
		wt := p.weights()
		out := make([]float64, len(p.times))
		for i, t := range p.times {
			var sum float64
			for k, b := range base {
				wk := b / t
				sum += integrand(p.signal, wk, s.at(math.Log(wk))) * wt[k]
			}
			out[i] = 2 / math.Pi * sum / t
		}
		return nil, out, true, nil
	}
}
