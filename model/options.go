package model

import (
	"fmt"
	"math"
	"runtime"

	"github.com/bob-anderson-ok/layeredem/report"
	"github.com/bob-anderson-ok/layeredem/transform"
)

// Signal selects the domain of FreqTime.
type Signal int

const (
	// Frequency interprets FreqTime as frequencies in Hz. Negative values are
	// Laplace-domain values s = -f.
	Frequency Signal = iota
	// Impulse is the time-domain impulse response.
	Impulse
	// StepOn is the time-domain response to switching the source on.
	StepOn
	// StepOff is the time-domain response to switching the source off.
	StepOff
)

func (s Signal) String() string {
	switch s {
	case Frequency:
		return "frequency"
	case Impulse:
		return "impulse"
	case StepOn:
		return "switch-on"
	case StepOff:
		return "switch-off"
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

func (s Signal) transform() int {
	switch s {
	case StepOn:
		return transform.SignalStepOn
	case StepOff:
		return transform.SignalStepOff
	}
	return transform.SignalImpulse
}

// LoopMode chooses how the work is split into parallel tasks. It changes
// speed and memory, never results.
type LoopMode int

const (
	// LoopNone evaluates all offsets and frequencies of a depth pair at once.
	LoopNone LoopMode = iota
	// LoopOffsets evaluates one offset at a time.
	LoopOffsets
	// LoopFrequencies evaluates one frequency at a time.
	LoopFrequencies
)

func (l LoopMode) String() string {
	switch l {
	case LoopNone:
		return "None (all vectorized)"
	case LoopOffsets:
		return "Offsets"
	case LoopFrequencies:
		return "Frequencies"
	}
	return fmt.Sprintf("LoopMode(%d)", int(l))
}

// XDirect controls how the direct field of the source layer is computed.
type XDirect int

const (
	// XDirectKernel keeps the direct field in the wavenumber domain.
	XDirectKernel XDirect = iota
	// XDirectAnalytical adds the closed-form fullspace field in the space
	// domain and leaves only the reflected field to the kernel.
	XDirectAnalytical
	// XDirectNone drops the direct field: only the secondary field is returned.
	XDirectNone
)

func (x XDirect) String() string {
	switch x {
	case XDirectKernel:
		return "Comp. in wavenumber domain"
	case XDirectAnalytical:
		return "Comp. in frequency domain"
	case XDirectNone:
		return "Not calculated"
	}
	return fmt.Sprintf("XDirect(%d)", int(x))
}

// FieldType is the type of a source or receiver.
type FieldType int

const (
	// Electric dipole (source) or electric field (receiver).
	Electric FieldType = iota
	// Magnetic dipole (source) or magnetic field (receiver).
	Magnetic
	// CurrentDensity receiver: electric field times the horizontal
	// admittivity of the receiver layer.
	CurrentDensity
	// LoopField receiver of Loop: magnetic field times the impedivity of
	// the receiver layer.
	LoopField
)

func (f FieldType) String() string {
	switch f {
	case Electric:
		return "electric"
	case Magnetic:
		return "magnetic"
	case CurrentDensity:
		return "current density"
	case LoopField:
		return "loop"
	}
	return fmt.Sprintf("FieldType(%d)", int(f))
}

func (f FieldType) magnetic() bool { return f == Magnetic || f == LoopField }

// Options holds the earth model, the axis and the numerical settings of a
// computation. The zero value of every optional field selects its default.
type Options struct {
	// Depth lists the layer interfaces [m]; len(Depth) = len(Res)-1. Depths
	// may be given increasing or decreasing (all layer lists then follow the
	// same order) and may include ±Inf for the outermost layers.
	Depth []float64
	Res   []float64 // Horizontal resistivity [Ωm], one per layer
	Aniso []float64 // Anisotropy sqrt(ρv/ρh), default 1

	EpermH, EpermV []float64 // Relative electric permittivities, default 1
	MpermH, MpermV []float64 // Relative magnetic permeabilities, default 1

	// Hook replaces the computed admittivities or impedivities, e.g. with a
	// Cole-Cole model. With a hook, Res may hold non-positive values.
	Hook *Hook

	FreqTime []float64 // Frequencies [Hz] or times [s]
	Signal   Signal

	Msrc FieldType // Bipole source type: Electric or Magnetic
	Mrec FieldType // Receiver type of Bipole and Loop

	SrcPts, RecPts int // Gauss points along finite bipoles, default 1

	// Strength is the source current [A]. Zero normalises to unit source and
	// receiver moments; otherwise the result is multiplied by the current
	// and by the lengths of the source and receiver bipoles.
	Strength float64

	Hankel  *transform.HankelConfig  // nil: standard DLF
	Fourier *transform.FourierConfig // nil: lagged-convolution DLF

	Loop    LoopMode
	XDirect XDirect

	// KeepDims keeps singleton axes in the result shape.
	KeepDims bool

	// Reporter receives diagnostic events; nil discards them. Use a
	// report.TextReporter for the leveled text report.
	Reporter report.Reporter
	Workers  int // Parallel tasks, default GOMAXPROCS
}

func (o *Options) reporter() report.Reporter {
	if o.Reporter == nil {
		return report.Discard
	}
	return o.Reporter
}

func (o *Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o *Options) hankel() (transform.HankelConfig, error) {
	c := transform.DefaultHankel(transform.HankelDLF)
	if o.Hankel != nil {
		c = o.Hankel.WithDefaults()
	}
	if err := c.Validate(); err != nil {
		return c, paramErr("ht", err)
	}
	return c, nil
}

func (o *Options) fourier() (transform.FourierConfig, error) {
	c := transform.DefaultFourier(transform.FourierDLF)
	if o.Fourier != nil {
		c = o.Fourier.WithDefaults()
	}
	if err := c.Validate(); err != nil {
		return c, paramErr("ft", err)
	}
	return c, nil
}

// checkAxis validates FreqTime for the signal.
func (o *Options) checkAxis() error {
	if len(o.FreqTime) == 0 {
		return paramErr("freqtime", ErrWrongLength)
	}
	switch o.Signal {
	case Frequency:
		for _, f := range o.FreqTime {
			if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return paramErr("freqtime", fmt.Errorf("%w: frequencies must be non-zero and finite", ErrNonPositive))
			}
		}
	case Impulse, StepOn, StepOff:
		for _, t := range o.FreqTime {
			if !(t > 0) || math.IsInf(t, 0) {
				return paramErr("freqtime", ErrNonPositive)
			}
		}
	default:
		return paramErr("signal", ErrUnsupported)
	}
	return nil
}

// checkAB validates a component code.
func checkAB(ab int) error {
	if ab < 11 || ab > 66 || ab%10 == 0 || ab%10 > 6 {
		return paramErr("ab", ErrInvalidAB)
	}
	return nil
}
