package main

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/bob-anderson-ok/layeredem/filters"
	"github.com/bob-anderson-ok/layeredem/model"
	"github.com/bob-anderson-ok/layeredem/sounding"
)

// makeFilterPlot draws the weights of a DLF filter against its base and
// saves the plot as a PNG file.
func makeFilterPlot(f *filters.Filter, filename string) error {
	p := plot.New()

	// Modify the font fields directly on existing styles
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Title.Text = "Filter weights: " + f.Name
	p.X.Label.Text = "base"
	p.Y.Label.Text = "weight"

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid()) // grid + ticks

	weights := []struct {
		name string
		w    []float64
		col  color.Color
	}{
		{"J0", f.J0, color.RGBA{R: 0, G: 0, B: 255, A: 255}},
		{"J1", f.J1, color.RGBA{R: 255, G: 0, B: 0, A: 255}},
		{"sin", f.Sin, color.RGBA{R: 0, G: 0, B: 255, A: 255}},
		{"cos", f.Cos, color.RGBA{R: 255, G: 0, B: 0, A: 255}},
	}
	for _, wt := range weights {
		if len(wt.w) == 0 {
			continue
		}
		n := len(f.Base)
		pts := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			pts[i].X = f.Base[i]
			pts[i].Y = wt.w[i]
		}

		linePoints, scatterPoints, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		linePoints.Color = wt.col
		linePoints.Width = vg.Points(1)

		scatterPoints.Shape = draw.CircleGlyph{}
		scatterPoints.Radius = vg.Points(2)
		scatterPoints.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}

		p.Add(linePoints, scatterPoints)
		p.Legend.Add(wt.name, linePoints)
	}

	hpts := plotter.XYs{
		{X: f.Base[0], Y: 0.0},
		{X: f.Base[len(f.Base)-1], Y: 0.0},
	}

	hline, err := plotter.NewLine(hpts)
	if err != nil {
		return err
	}

	p.Add(hline)

	hline.Dashes = []vg.Length{
		vg.Points(6), // dash length
		vg.Points(4), // gap length
	}
	hline.Color = color.RGBA{R: 0, G: 0, B: 0, A: 255} // black

	return p.Save(8*vg.Inch, 4*vg.Inch, filename)
}

// makeSoundingPlot draws the requested parts of one source-receiver pair
// and, if given, the measured data of the request.
func makeSoundingPlot(s *Survey, res *model.Result) error {
	req := s.Plot
	var curves []sounding.Curve
	for _, part := range req.Parts {
		pts, err := sounding.Extract(res, s.Options.FreqTime, req.Rec, req.Src, part)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		curves = append(curves, sounding.Curve{Label: part.String(), Points: pts})
	}

	if req.DataFile != "" {
		data, err := os.ReadFile(req.DataFile)
		if err != nil {
			return fmt.Errorf("attempt to read data file %q failed: %w", req.DataFile, err)
		}
		pairs, err := parseArrayFormat(data)
		if err != nil {
			return fmt.Errorf("error reading data file %q: %w", req.DataFile, err)
		}
		if len(pairs) < 1 {
			return fmt.Errorf("the data file %q is empty", req.DataFile)
		}
		pts := make([]sounding.Point, len(pairs))
		for i, pr := range pairs {
			pts[i] = sounding.Point{Abscissa: pr[0], Value: pr[1]}
		}
		curves = append(curves, sounding.Curve{Label: "data", Points: pts})
	}

	xlabel := "frequency (Hz)"
	if s.Options.Signal != model.Frequency {
		xlabel = "time (s)"
	}
	opt := sounding.PlotOptions{
		Title:  s.Title,
		XLabel: xlabel,
		YLabel: fmt.Sprintf("%s response", s.Routine),
		LogX:   req.LogX,
		LogY:   req.LogY,
	}
	if len(req.Parts) == 1 && req.Parts[0] == sounding.Phase && !req.LogY {
		opt.YStep = 45
	}
	return sounding.SavePlot(req.File, curves, opt, 1200, 600)
}
