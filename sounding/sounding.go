// Package sounding extracts sounding curves, the response of one
// source-receiver pair over frequency or time, from model results and plots
// them.
package sounding

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/cmplx"
	"os"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bob-anderson-ok/layeredem/model"
)

// Part selects which real quantity of a complex response is plotted.
type Part int

const (
	Real Part = iota
	Imag
	Amplitude
	Phase // degrees
)

func (p Part) String() string {
	switch p {
	case Real:
		return "real"
	case Imag:
		return "imag"
	case Amplitude:
		return "amplitude"
	case Phase:
		return "phase"
	}
	return fmt.Sprintf("Part(%d)", int(p))
}

// ParsePart parses the names returned by Part.String.
func ParsePart(s string) (Part, error) {
	for p := Real; p <= Phase; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown part %q", s)
}

// Point is a single point of a sounding curve.
type Point struct {
	Abscissa float64 // Frequency [Hz] or time [s]
	Value    float64
}

// Curve is a labelled sounding curve.
type Curve struct {
	Label  string
	Points []Point
}

// ErrOutOfRange is returned when a receiver or source index does not exist
// in the result.
var ErrOutOfRange = errors.New("index out of range")

// Extract returns the curve of receiver rec and source src over axis, the
// frequencies or times the result was computed for.
func Extract(res *model.Result, axis []float64, rec, src int, part Part) ([]Point, error) {
	if len(axis) != res.NFreqTime {
		return nil, fmt.Errorf("axis has %d values, result has %d", len(axis), res.NFreqTime)
	}
	if rec < 0 || rec >= res.NRec || src < 0 || src >= res.NSrc {
		return nil, fmt.Errorf("receiver %d, source %d: %w", rec, src, ErrOutOfRange)
	}
	pts := make([]Point, len(axis))
	for i, x := range axis {
		v := res.At(i, rec, src)
		pts[i] = Point{Abscissa: x, Value: value(v, part)}
	}
	return pts, nil
}

func value(v complex128, part Part) float64 {
	switch part {
	case Imag:
		return imag(v)
	case Amplitude:
		return cmplx.Abs(v)
	case Phase:
		return cmplx.Phase(v) * 180 / math.Pi
	}
	return real(v)
}

// StepTicks is a custom tick marker for plots with fixed step intervals.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// PlotOptions control the appearance of a sounding plot.
type PlotOptions struct {
	Title, XLabel, YLabel string

	// LogX and LogY select logarithmic axes. On a logarithmic Y axis the
	// absolute values are shown, negative values dashed.
	LogX, LogY bool

	// YStep is a fixed tick step for a linear Y axis, 0 for automatic ticks.
	YStep float64
}

var palette = []color.Color{
	color.RGBA{R: 0, G: 0, B: 255, A: 255},
	color.RGBA{R: 255, G: 0, B: 0, A: 255},
	color.RGBA{R: 0, G: 150, B: 0, A: 255},
	color.RGBA{R: 200, G: 120, B: 0, A: 255},
	color.RGBA{R: 120, G: 0, B: 160, A: 255},
}

func setFonts(p *plot.Plot) {
	for _, s := range []*text.Style{&p.Title.TextStyle, &p.X.Label.TextStyle, &p.Y.Label.TextStyle} {
		s.Font.Typeface = "Liberation"
		s.Font.Variant = "Sans"
		s.Font.Size = vg.Points(12)
	}
	for _, s := range []*text.Style{&p.X.Tick.Label, &p.Y.Tick.Label} {
		s.Font.Typeface = "Liberation"
		s.Font.Variant = "Sans"
		s.Font.Size = vg.Points(10)
	}
}

// segments splits a curve into runs of equal sign. With logY the values
// are made absolute and zeros dropped.
func segments(pts []Point, logX, logY bool) (pos, neg []plotter.XYs) {
	var cur plotter.XYs
	curNeg := false
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if curNeg {
			neg = append(neg, cur)
		} else {
			pos = append(pos, cur)
		}
		cur = nil
	}
	for _, pt := range pts {
		x, y := pt.Abscissa, pt.Value
		if (logX && !(x > 0)) || math.IsNaN(y) || math.IsInf(y, 0) {
			flush()
			continue
		}
		isNeg := false
		if logY {
			if y == 0 {
				flush()
				continue
			}
			isNeg = y < 0
			y = math.Abs(y)
		}
		if isNeg != curNeg {
			flush()
			curNeg = isNeg
		}
		cur = append(cur, plotter.XY{X: x, Y: y})
	}
	flush()
	return pos, neg
}

// PlotCurves draws the curves into an image of wPx by hPx pixels.
func PlotCurves(curves []Curve, opt PlotOptions, wPx, hPx float64) (image.Image, error) {
	p := plot.New()
	setFonts(p)
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	if opt.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if opt.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	} else if opt.YStep > 0 {
		p.Y.Tick.Marker = StepTicks{Step: opt.YStep, Format: "%g"}
	}
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, c := range curves {
		col := palette[i%len(palette)]
		pos, neg := segments(c.Points, opt.LogX, opt.LogY)
		for k, xy := range pos {
			line, err := plotter.NewLine(xy)
			if err != nil {
				return nil, err
			}
			line.Color = col
			line.Width = vg.Points(1.5)
			p.Add(line)
			if k == 0 && c.Label != "" {
				p.Legend.Add(c.Label, line)
			}
			drawn++
		}
		for k, xy := range neg {
			line, err := plotter.NewLine(xy)
			if err != nil {
				return nil, err
			}
			line.Color = col
			line.Width = vg.Points(1.5)
			line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
			p.Add(line)
			if k == 0 && len(pos) == 0 && c.Label != "" {
				p.Legend.Add(c.Label, line)
			}
			drawn++
		}
	}
	if drawn == 0 {
		return nil, errors.New("nothing to plot")
	}
	p.Legend.Top = true

	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := vgdraw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}

// SavePlot creates a sounding plot and saves it to a PNG file.
func SavePlot(filename string, curves []Curve, opt PlotOptions, wPx, hPx float64) (err error) {
	img, err := PlotCurves(curves, opt, wPx, hPx)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}
