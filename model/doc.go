// Package model computes controlled-source electromagnetic fields of
// electric and magnetic dipoles, finite bipoles and loops in a horizontally
// layered, VTI-anisotropic earth, in the frequency, Laplace or time domain.
//
// The entry points are Dipole, Bipole, Loop, Analytical, HalfspaceSplit,
// DipoleK, IPAndQ and GPR. Each takes the earth model and the transform settings in an
// Options value and returns a Result of shape (freqtime, receivers,
// sources), with singleton axes squeezed unless Options.KeepDims is set.
//
// Basic usage:
//
//	res, err := model.Dipole(ctx,
//		model.Points{X: []float64{0}, Y: []float64{0}, Z: []float64{100}},
//		model.Points{X: []float64{1000, 2000}, Y: []float64{0}, Z: []float64{200}},
//		11,
//		model.Options{
//			Depth:    []float64{0, 300},
//			Res:      []float64{2e14, 0.3, 1},
//			FreqTime: []float64{1},
//		})
//
// Conventions: time dependence e^{iωt}, z positive downwards, angles in
// degrees (azimuth from x towards y, dip positive downwards). Diagnostics
// never go to stdout; they are sent to Options.Reporter as report events.
package model
