// Example program demonstrating how to use the model and sounding packages to:
// 1. Compute the frequency response of a loop source over a layered earth
// 2. Compare it with the closed-form halfspace solution
// 3. Plot both sounding curves
//
// Usage:
//
//	go run main.go
//
// The plot is written to sounding_plot.png in the current directory.
package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/bob-anderson-ok/layeredem/model"
	"github.com/bob-anderson-ok/layeredem/sounding"
)

func main() {
	fmt.Println("Loop Sounding Example")
	fmt.Println("=====================")

	ctx := context.Background()

	// 40 frequencies from 1 Hz to 100 kHz
	freq := make([]float64, 40)
	for i := range freq {
		freq[i] = math.Pow(10, 5*float64(i)/float64(len(freq)-1))
	}

	// Vertical magnetic dipole and receiver on the surface, 100 m apart
	src := model.Dipoles{X: []float64{0}, Y: []float64{0}, Z: []float64{0}, Azimuth: []float64{0}, Dip: []float64{90}}
	rec := model.Dipoles{X: []float64{100}, Y: []float64{0}, Z: []float64{0}, Azimuth: []float64{0}, Dip: []float64{90}}

	// A conductive layer at 30 m depth in a 100 Ohm.m background
	layered := model.Options{
		Depth:    []float64{0, 30, 60},
		Res:      []float64{2e14, 100, 5, 100},
		EpermH:   []float64{0, 0, 0, 0},
		EpermV:   []float64{0, 0, 0, 0},
		FreqTime: freq,
		Mrec:     model.Magnetic,
	}
	lres, err := model.Loop(ctx, src, rec, layered)
	if err != nil {
		log.Fatalf("Failed to compute layered response: %v", err)
	}
	fmt.Printf("\nComputed layered response, shape %v\n", lres.Shape())

	// Same geometry over the homogeneous background
	halfspace := model.Options{Res: []float64{100}, EpermH: []float64{0}, EpermV: []float64{0}, FreqTime: freq}
	pts := model.Points{X: []float64{0}, Y: []float64{0}, Z: []float64{0}}
	hres, err := model.Analytical(ctx, pts, model.Points{X: []float64{100}, Y: []float64{0}, Z: []float64{0}}, 66, model.SurfaceVMD, halfspace)
	if err != nil {
		log.Fatalf("Failed to compute halfspace response: %v", err)
	}

	var curves []sounding.Curve
	for _, c := range []struct {
		label string
		res   *model.Result
		part  sounding.Part
	}{
		{"layered, real", lres, sounding.Real},
		{"layered, imag", lres, sounding.Imag},
		{"halfspace, real", hres, sounding.Real},
		{"halfspace, imag", hres, sounding.Imag},
	} {
		points, err := sounding.Extract(c.res, freq, 0, 0, c.part)
		if err != nil {
			log.Fatalf("Failed to extract %s: %v", c.label, err)
		}
		curves = append(curves, sounding.Curve{Label: c.label, Points: points})
	}

	// Print the first few and last few points
	fmt.Println("\nSample sounding data (layered, imag):")
	im := curves[1].Points
	for i := 0; i < 3 && i < len(im); i++ {
		fmt.Printf("    f = %10.2f Hz, Hz = %12.4e\n", im[i].Abscissa, im[i].Value)
	}
	for i := len(im) - 3; i < len(im) && i >= 0; i++ {
		fmt.Printf("    f = %10.2f Hz, Hz = %12.4e\n", im[i].Abscissa, im[i].Value)
	}

	outputPlot := "sounding_plot.png"
	opt := sounding.PlotOptions{
		Title:  "Loop response over a conductive layer",
		XLabel: "frequency (Hz)",
		YLabel: "|Hz| (A/m), negative dashed",
		LogX:   true,
		LogY:   true,
	}
	if err := sounding.SavePlot(outputPlot, curves, opt, 1200, 600); err != nil {
		log.Printf("Could not save sounding plot: %v\n", err)
	} else {
		fmt.Printf("\nSaved sounding plot to %s\n", outputPlot)
	}

	fmt.Println("\nDone!")
}
