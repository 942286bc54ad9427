package sounding

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/bob-anderson-ok/layeredem/model"
)

func testResult() *model.Result {
	// two frequencies, one receiver, two sources
	return &model.Result{
		NFreqTime: 2, NRec: 1, NSrc: 2,
		Values:    []complex128{complex(1, 1), complex(-3, 4), complex(0, -2), complex(5, 0)},
	}
}

func TestExtract(t *testing.T) {
	res := testResult()
	axis := []float64{1, 10}

	pts, err := Extract(res, axis, 0, 1, Amplitude)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 5}, {10, 5}}, pts)

	pts, err = Extract(res, axis, 0, 0, Imag)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 1}, {10, -2}}, pts)

	pts, err = Extract(res, axis, 0, 0, Phase)
	require.NoError(t, err)
	assert.InDelta(t, 45, pts[0].Value, 1e-12)
	assert.InDelta(t, -90, pts[1].Value, 1e-12)

	pts, err = Extract(res, axis, 0, 1, Real)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, -3}, {10, 5}}, pts)
}

func TestExtractErrors(t *testing.T) {
	res := testResult()
	_, err := Extract(res, []float64{1}, 0, 0, Real)
	assert.Error(t, err)

	_, err = Extract(res, []float64{1, 2}, 1, 0, Real)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Extract(res, []float64{1, 2}, 0, -1, Real)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParsePart(t *testing.T) {
	for p := Real; p <= Phase; p++ {
		got, err := ParsePart(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePart("magnitude")
	assert.Error(t, err)
}

func TestSegments(t *testing.T) {
	pts := []Point{{1, 1}, {2, -2}, {3, -3}, {4, 4}, {5, 0}, {6, math.NaN()}, {7, 7}}

	pos, neg := segments(pts, false, true)
	assert.Equal(t, []plotter.XYs{{{X: 1, Y: 1}}, {{X: 4, Y: 4}}, {{X: 7, Y: 7}}}, pos)
	assert.Equal(t, []plotter.XYs{{{X: 2, Y: 2}, {X: 3, Y: 3}}}, neg)

	// On a linear axis only invalid values split the curve.
	pos, neg = segments(pts, false, false)
	assert.Empty(t, neg)
	require.Len(t, pos, 2)
	assert.Len(t, pos[0], 5)

	// Non-positive abscissae are dropped on a logarithmic X axis.
	pos, _ = segments([]Point{{0, 1}, {1, 1}, {2, 1}}, true, false)
	assert.Equal(t, []plotter.XYs{{{X: 1, Y: 1}, {X: 2, Y: 1}}}, pos)
}

func TestPlotCurves(t *testing.T) {
	curves := []Curve{
		{Label: "Re", Points: []Point{{1, -1e-9}, {10, -5e-10}, {100, 2e-11}}},
		{Label: "Im", Points: []Point{{1, 1e-10}, {10, 3e-10}, {100, 1e-10}}},
	}
	img, err := PlotCurves(curves, PlotOptions{Title: "test", LogX: true, LogY: true}, 400, 300)
	require.NoError(t, err)
	assert.InDelta(t, 400, img.Bounds().Dx(), 1)
	assert.InDelta(t, 300, img.Bounds().Dy(), 1)

	_, err = PlotCurves([]Curve{{Points: []Point{{1, 0}}}}, PlotOptions{LogY: true}, 400, 300)
	assert.Error(t, err)
}

func TestSavePlot(t *testing.T) {
	name := filepath.Join(t.TempDir(), "phase.png")
	curves := []Curve{{Label: "phase", Points: []Point{{1, -40}, {10, 10}, {100, 80}}}}
	require.NoError(t, SavePlot(name, curves, PlotOptions{LogX: true, YStep: 45}, 300, 200))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.InDelta(t, 300, img.Bounds().Dx(), 1)
}
