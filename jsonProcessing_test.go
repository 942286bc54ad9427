package main

import (
	"testing"

	json "github.com/KevinWang15/go-json5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/layeredem/model"
	"github.com/bob-anderson-ok/layeredem/sounding"
	"github.com/bob-anderson-ok/layeredem/transform"
)

func parseSurvey(t *testing.T, src string) (*Survey, string, bool) {
	t.Helper()
	var jsonTable map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(src), &jsonTable))
	s := &Survey{}
	msg, ok := validateJsonFileAndFillSurvey(jsonTable, s)
	return s, msg, ok
}

func TestSurveyDefaults(t *testing.T) {
	s, msg, ok := parseSurvey(t, `{
		src: [[0, 0], [0, 0], [100, 100], [0, 90], [0, 0]],
		rec: [[1000], [0], [200], [0], [0]],
		model: {res: 100},
		freqtime: 1,
	}`)
	require.True(t, ok, msg)
	assert.Equal(t, "No problem found in json file", msg)
	assert.Equal(t, "bipole", s.Routine)
	assert.Equal(t, 11, s.AB)
	assert.Equal(t, 2, s.Verb)
	assert.Equal(t, []float64{100}, s.Options.Res)
	assert.Equal(t, []float64{1}, s.Options.FreqTime)
	assert.Nil(t, s.Options.Hankel)
	assert.Nil(t, s.Options.Fourier)
	assert.Empty(t, s.Plot.File)
}

func TestSurveyDipole(t *testing.T) {
	s, msg, ok := parseSurvey(t, `{
		// two-layer marine model
		title: 'marine',
		routine: 'dipole',
		ab: 12,
		src: [0, 0, 100],
		rec: [[500, 1000], [0, 0], 200,],
		model: {
			depth: [0, 300],
			res: [2e14, 0.3, 1],
			aniso: [1, 1, 2],
		},
		freqtime: [0.1, 1],
		xdirect: 'analytical',
		ht: {method: 'qwe', rtol: 1e-10, nquad: 9},
		verb: 0,
	}`)
	require.True(t, ok, msg)
	assert.Equal(t, "marine", s.Title)
	assert.Equal(t, "dipole", s.Routine)
	assert.Equal(t, 12, s.AB)
	assert.Equal(t, [][]float64{{0}, {0}, {100}}, s.Src)
	assert.Equal(t, [][]float64{{500, 1000}, {0, 0}, {200}}, s.Rec)

	want := model.Options{
		Depth:    []float64{0, 300},
		Res:      []float64{2e14, 0.3, 1},
		Aniso:    []float64{1, 1, 2},
		FreqTime: []float64{0.1, 1},
		XDirect:  model.XDirectAnalytical,
		Hankel:   &transform.HankelConfig{Method: transform.HankelQWE, RTol: 1e-10, NQuad: 9},
	}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSurveyTimeDomain(t *testing.T) {
	s, msg, ok := parseSurvey(t, `{
		routine: 'loop',
		src: [0, 0, 0, 0, 90],
		rec: [100, 0, 0, 0, 90],
		model: {depth: 0, res: [2e14, 10]},
		freqtime: [1e-3, 1e-2],
		signal: 'switch-off',
		mrec: 'loop',
		ft: {method: 'fftlog', pts_per_dec: 10, add_dec: [-2, 1], q: 0},
		cole_cole: {cond_0: [1e-8, 0.1], cond_8: [1e-8, 0.2], tau: [1, 0.5], c: [0.5, 0.5]},
		plot: {file: 'loop.png', parts: ['amplitude']},
	}`)
	require.True(t, ok, msg)
	assert.Equal(t, model.StepOff, s.Options.Signal)
	assert.Equal(t, model.LoopField, s.Options.Mrec)
	require.NotNil(t, s.Options.Fourier)
	assert.Equal(t, transform.FFTLog, s.Options.Fourier.Method)
	assert.Equal(t, [2]float64{-2, 1}, s.Options.Fourier.AddDec)
	assert.Equal(t, 10.0, s.Options.Fourier.PtsPerDec)
	assert.NotNil(t, s.Options.Hook)

	assert.Equal(t, PlotRequest{
		File:  "loop.png",
		Parts: []sounding.Part{sounding.Amplitude},
		LogX:  true,
		LogY:  true,
	}, s.Plot)
}

func TestSurveyAnalyticalSolution(t *testing.T) {
	base := `src: [0, 0, 0], rec: [100, 0, 0], model: {res: 10}, freqtime: 1,`

	s, msg, ok := parseSurvey(t, `{routine: 'analytical', `+base+`}`)
	require.True(t, ok, msg)
	assert.Equal(t, model.Fullspace, s.Solution)

	s, msg, ok = parseSurvey(t, `{routine: 'analytical', solution: 'dhs', ab: 12, `+base+`}`)
	require.True(t, ok, msg)
	assert.Equal(t, model.DiffusiveHalfspace, s.Solution)
	assert.Equal(t, 12, s.AB)

	s, msg, ok = parseSurvey(t, `{routine: 'analytical', solution: 'vmd', ab: 66, `+base+`}`)
	require.True(t, ok, msg)
	assert.Equal(t, model.SurfaceVMD, s.Solution)
	assert.Equal(t, 66, s.AB)

	_, msg, ok = parseSurvey(t, `{routine: 'analytical', solution: 'hs', `+base+`}`)
	assert.False(t, ok)
	assert.Equal(t, `solution: "hs" is not one of dfs, dhs, fs, vmd`, msg)
}

func TestSurveyGPR(t *testing.T) {
	s, msg, ok := parseSurvey(t, `{
		routine: 'gpr',
		src: [0, 0, 0.0000001],
		rec: [2, 0, 0.5],
		model: {depth: [0, 1], res: [1e23, 200, 20], epermH: [1, 9, 15], epermV: [1, 9, 15]},
		freqtime: [1e-9, 2e-9],
		cf: 250e6,
		gain: 3,
		ft: {method: 'fft', dfreq: 1e6, nfreq: 2048, ntot: 4096},
	}`)
	require.True(t, ok, msg)
	assert.Equal(t, "gpr", s.Routine)
	assert.Equal(t, 250e6, s.Cf)
	assert.Equal(t, 3.0, s.Gain)
	assert.Equal(t, model.Impulse, s.Options.Signal)
	require.NotNil(t, s.Options.Fourier)
	assert.Equal(t, transform.FFT, s.Options.Fourier.Method)
}

func TestSurveyErrors(t *testing.T) {
	const geom = `src: [0, 0, 0], rec: [100, 0, 0],`
	tests := []struct {
		name, src, want string
	}{
		{"no source", `{rec: [1, 0, 0], model: {res: 1}, freqtime: 1}`, "src: not found"},
		{"no res", `{` + geom + ` freqtime: 1}`, "model.res: not found"},
		{"no freqtime", `{` + geom + ` model: {res: 1}}`, "freqtime: not found"},
		{"bad res", `{` + geom + ` model: {res: 'ten'}, freqtime: 1}`, "model.res: is not a list of numbers"},
		{"bad list item", `{` + geom + ` model: {res: [1, 'x']}, freqtime: 1}`, "model.res[1]: is not a float64"},
		{"bad coordinate", `{src: [0, 'a', 0], rec: [1, 0, 0], model: {res: 1}, freqtime: 1}`, "src[1]: is not a list of numbers"},
		{"fractional ab", `{` + geom + ` model: {res: 1}, freqtime: 1, ab: 1.5}`, "ab: is not an integer"},
		{"routine", `{` + geom + ` model: {res: 1}, freqtime: 1, routine: 'survey'}`, `routine: "survey" is not one of analytical, bipole, dipole, gpr, ipandq, loop`},
		{"signal", `{` + geom + ` model: {res: 1}, freqtime: 1, signal: 'step'}`, `signal: "step" is not one of frequency, impulse, switch-off, switch-on`},
		{"hankel method", `{` + geom + ` model: {res: 1}, freqtime: 1, ht: {method: 'fht'}}`, `ht.method: "fht" is not one of dlf, quad, qwe`},
		{"add_dec", `{` + geom + ` model: {res: 1}, freqtime: 1, ft: {add_dec: [1, 2, 3]}}`, "ft.add_dec: needs two values"},
		{"filter file", `{` + geom + ` model: {res: 1}, freqtime: 1, ht: {filter: 'weights.txt'}}`, `ht.filter: unknown filter file extension ".txt"`},
		{"cole-cole", `{` + geom + ` model: {res: [1, 2]}, freqtime: 1, cole_cole: {cond_0: [1], cond_8: [1, 1], tau: [1, 1], c: [1, 1]}}`, "cole_cole.cond_0: needs one value per layer (2)"},
		{"gpr without cf", `{` + geom + ` model: {res: 1}, freqtime: 1e-9, routine: 'gpr'}`, "cf: not found"},
		{"verb", `{` + geom + ` model: {res: 1}, freqtime: 1, verb: 7}`, "verb: must be between 0 and 4"},
		{"plot file", `{` + geom + ` model: {res: 1}, freqtime: 1, plot: {rec: 0}}`, "plot.file: not found"},
		{"plot part", `{` + geom + ` model: {res: 1}, freqtime: 1, plot: {file: 'a.png', parts: ['real', 'abs']}}`, `plot.parts[1]: "abs" is not one of amplitude, imag, phase, real`},
		{"show input", `{` + geom + ` model: {res: 1}, freqtime: 1, show_input_bool: 1}`, "show_input_bool: is not a bool"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, msg, ok := parseSurvey(t, tc.src)
			assert.False(t, ok)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestParseArrayFormat(t *testing.T) {
	pairs, err := parseArrayFormat([]byte(`[
		[1, 0.5], // first
		[10, -0.25],
	]`))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{1, 0.5}, {10, -0.25}}, pairs)

	_, err = parseArrayFormat([]byte(`{x: 1}`))
	assert.Error(t, err)
}
