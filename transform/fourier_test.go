package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lowPass is 1/(1+iω): impulse and switch-off responses are e^{-t},
// the switch-on response is 1-e^{-t}.
func lowPass(freq []float64) []complex128 {
	r := make([]complex128, len(freq))
	for i, f := range freq {
		r[i] = 1 / complex(1, 2*math.Pi*f)
	}
	return r
}

func lowPassTime(signal int, t float64) float64 {
	if signal == SignalStepOn {
		return 1 - math.Exp(-t)
	}
	return math.Exp(-t)
}

var times = []float64{0.1, 0.5, 1, 2, 5}

func checkFourier(t *testing.T, c FourierConfig, signal int, ts []float64, tol float64) {
	t.Helper()
	p, err := c.NewPlan(ts, signal)
	require.NoError(t, err)
	got, ok, err := p.Transform(lowPass(p.Freq))
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, len(ts))
	for i, tt := range ts {
		assert.InDelta(t, lowPassTime(signal, tt), got[i], tol, "signal=%d t=%v", signal, tt)
	}
}

func TestFourierDLF(t *testing.T) {
	for _, tc := range []struct {
		name string
		ppd  float64
		tol  float64
	}{
		{"standard", 0, 1e-7},
		{"lagged", -1, 5e-5},
		{"splined", 10, 5e-5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := FourierConfig{Method: FourierDLF, PtsPerDec: tc.ppd}
			checkFourier(t, c, SignalImpulse, times, tc.tol)
			checkFourier(t, c, SignalStepOff, times, tc.tol)
			// the sine transform of a response with a DC value is less accurate
			checkFourier(t, c, SignalStepOn, times, 5e-3)
		})
	}
}

func TestFourierQWE(t *testing.T) {
	c := DefaultFourier(FourierQWE)
	for _, signal := range []int{SignalStepOff, SignalImpulse, SignalStepOn} {
		checkFourier(t, c, signal, times, 2e-5)
	}
}

func TestFFTLog(t *testing.T) {
	checkFourier(t, DefaultFourier(FFTLog), SignalImpulse, times, 1e-3)
}

func TestFFT(t *testing.T) {
	checkFourier(t, DefaultFourier(FFT), SignalStepOff, []float64{0.5, 1, 2, 5}, 1e-3)
}

func TestFFTRampedSpectrum(t *testing.T) {
	// The response is cut at 5.12 Hz where -Im(F) is still 0.03; without
	// the ramp to 81.92 Hz the impulse response is off by about 1e-2.
	c := FourierConfig{Method: FFT, DFreq: 0.01, NFreq: 512, NTot: 8192}
	checkFourier(t, c, SignalImpulse, []float64{1, 2, 3}, 3e-3)
	checkFourier(t, c, SignalStepOff, []float64{1, 2, 3}, 2e-3)
}

func TestFFTFrequencies(t *testing.T) {
	p, err := FourierConfig{Method: FFT, DFreq: 0.5, NFreq: 4, NTot: 16}.NewPlan([]float64{1}, SignalImpulse)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, p.Freq)
}

func TestFourierDLFStandardFrequencies(t *testing.T) {
	c := DefaultFourier(FourierDLF)
	c.PtsPerDec = 0
	p, err := c.NewPlan([]float64{1, 2}, SignalImpulse)
	require.NoError(t, err)
	assert.Len(t, p.Freq, 2*len(c.Filter.Base))
	assert.InEpsilon(t, c.Filter.Base[0]/(2*math.Pi*2), p.Freq[len(c.Filter.Base)], 1e-14)
}

func TestPlanErrors(t *testing.T) {
	c := DefaultFourier(FourierDLF)
	_, err := c.NewPlan(nil, SignalImpulse)
	assert.ErrorIs(t, err, ErrBadTimes)
	_, err = c.NewPlan([]float64{1, -1}, SignalImpulse)
	assert.ErrorIs(t, err, ErrBadTimes)
	_, err = c.NewPlan([]float64{1}, 3)
	assert.Error(t, err)
	_, err = FourierConfig{Method: FFTLog, Q: 2}.NewPlan([]float64{1}, SignalImpulse)
	assert.Error(t, err)

	p, err := c.NewPlan([]float64{1}, SignalImpulse)
	require.NoError(t, err)
	_, _, err = p.Transform(make([]complex128, 3))
	assert.Error(t, err)
}

func TestFourierSummary(t *testing.T) {
	c := DefaultFourier(FourierDLF)
	assert.Equal(t, Setting{"Fourier", "DLF (Sine-Filter)"}, c.Summary(SignalImpulse)[0])
	assert.Equal(t, Setting{"Fourier", "DLF (Cosine-Filter)"}, c.Summary(SignalStepOff)[0])
	assert.Equal(t, Setting{"  > DLF type", "Lagged Convolution"}, c.Summary(SignalStepOff)[2])
	assert.Equal(t, "Quadrature-with-Extrapolation", DefaultFourier(FourierQWE).Summary(0)[0].Value)
	assert.Equal(t, "FFTLog", DefaultFourier(FFTLog).Summary(0)[0].Value)
	fft := DefaultFourier(FFT).Summary(0)
	assert.Equal(t, "Fast Fourier Transform FFT", fft[0].Value)
	assert.Equal(t, Setting{"  > ntot", "2049"}, fft[3])
}
