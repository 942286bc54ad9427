package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	json "github.com/KevinWang15/go-json5"

	"github.com/bob-anderson-ok/layeredem/filters"
	"github.com/bob-anderson-ok/layeredem/model"
	"github.com/bob-anderson-ok/layeredem/sounding"
	"github.com/bob-anderson-ok/layeredem/transform"
)

// Survey is a computation described by a json5 parameter file.
type Survey struct {
	Title     string
	ShowInput bool
	Routine   string // dipole, bipole, loop, analytical, ipandq or gpr
	AB        int
	Solution  model.Solution
	Scale     float64 // ipandq
	Cf, Gain  float64 // gpr
	Src, Rec  [][]float64
	Options   model.Options
	Verb      int
	Output    string
	Plot      PlotRequest
}

// PlotRequest selects the sounding curves drawn after a run.
type PlotRequest struct {
	File       string
	Rec, Src   int
	Parts      []sounding.Part
	LogX, LogY bool
	DataFile   string // optional json5 [[x, value], ...] pairs drawn as measured data
}

// parseArrayFormat reads a json5 list of [x, y] pairs.
func parseArrayFormat(data []byte) ([][2]float64, error) {
	var pairs [][2]float64
	err := json.Unmarshal(data, &pairs)
	return pairs, err
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func keyName(path []string) string { return strings.Join(path, ".") }

// getFloat reads a number; a missing key leaves dst unchanged.
func getFloat(jsonTable map[string]interface{}, dst *float64, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true
	}
	f, ok := v.(float64)
	if !ok {
		return keyName(path) + ": is not a float64", false
	}
	*dst = f
	return "", true
}

func getInt(jsonTable map[string]interface{}, dst *int, path ...string) (string, bool) {
	f := float64(*dst)
	if msg, ok := getFloat(jsonTable, &f, path...); !ok {
		return msg, false
	}
	if f != float64(int(f)) {
		return keyName(path) + ": is not an integer", false
	}
	*dst = int(f)
	return "", true
}

func getString(jsonTable map[string]interface{}, dst *string, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true
	}
	s, ok := v.(string)
	if !ok {
		return keyName(path) + ": is not a string", false
	}
	*dst = s
	return "", true
}

func getBool(jsonTable map[string]interface{}, dst *bool, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true
	}
	b, ok := v.(bool)
	if !ok {
		return keyName(path) + ": is not a bool", false
	}
	*dst = b
	return "", true
}

// getList reads a list of numbers; a single number is a list of one.
func getList(jsonTable map[string]interface{}, dst *[]float64, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true
	}
	if f, ok := v.(float64); ok {
		*dst = []float64{f}
		return "", true
	}
	items, ok := v.([]interface{})
	if !ok {
		return keyName(path) + ": is not a list of numbers", false
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, ok := it.(float64)
		if !ok {
			return fmt.Sprintf("%s[%d]: is not a float64", keyName(path), i), false
		}
		out[i] = f
	}
	*dst = out
	return "", true
}

// getLists reads a list of coordinate lists such as [[x...], [y...], [z...]].
func getLists(jsonTable map[string]interface{}, dst *[][]float64, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return keyName(path) + ": not found", false
	}
	items, ok := v.([]interface{})
	if !ok {
		return keyName(path) + ": is not a list of lists", false
	}
	out := make([][]float64, len(items))
	for i, it := range items {
		table := map[string]interface{}{"v": it}
		if msg, ok := getList(table, &out[i], "v"); !ok {
			return fmt.Sprintf("%s[%d]: %s", keyName(path), i, strings.TrimPrefix(msg, "v: ")), false
		}
	}
	*dst = out
	return "", true
}

// choice maps a string value onto one of the allowed names.
func choice[T any](jsonTable map[string]interface{}, dst *T, names map[string]T, path ...string) (string, bool) {
	var s string
	if msg, ok := getString(jsonTable, &s, path...); !ok {
		return msg, false
	}
	if s == "" {
		return "", true
	}
	v, ok := names[s]
	if !ok {
		allowed := slices.Sorted(maps.Keys(names))
		return fmt.Sprintf("%s: %q is not one of %s", keyName(path), s, strings.Join(allowed, ", ")), false
	}
	*dst = v
	return "", true
}

type step func() (string, bool)

func runSteps(steps ...step) (string, bool) {
	for _, s := range steps {
		if msg, ok := s(); !ok {
			return msg, false
		}
	}
	return "", true
}

var (
	routines  = map[string]string{"dipole": "dipole", "bipole": "bipole", "loop": "loop", "analytical": "analytical", "ipandq": "ipandq", "gpr": "gpr"}
	solutions = map[string]model.Solution{"fs": model.Fullspace, "dfs": model.DiffusiveFullspace, "dhs": model.DiffusiveHalfspace, "vmd": model.SurfaceVMD}
	signals   = map[string]model.Signal{
		"frequency": model.Frequency, "impulse": model.Impulse,
		"switch-on": model.StepOn, "switch-off": model.StepOff,
	}
	fieldTypes = map[string]model.FieldType{
		"electric": model.Electric, "magnetic": model.Magnetic,
		"current":  model.CurrentDensity, "loop": model.LoopField,
	}
	loopModes = map[string]model.LoopMode{"none": model.LoopNone, "off": model.LoopOffsets, "freq": model.LoopFrequencies}
	xdirects  = map[string]model.XDirect{"kernel": model.XDirectKernel, "analytical": model.XDirectAnalytical, "none": model.XDirectNone}
	hankels   = map[string]transform.HankelMethod{"dlf": transform.HankelDLF, "qwe": transform.HankelQWE, "quad": transform.HankelQuad}
	fouriers  = map[string]transform.FourierMethod{
		"dlf":    transform.FourierDLF, "qwe": transform.FourierQWE,
		"fftlog": transform.FFTLog, "fft": transform.FFT,
	}
	parts = map[string]sounding.Part{
		"real":      sounding.Real, "imag": sounding.Imag,
		"amplitude": sounding.Amplitude, "phase": sounding.Phase,
	}
)

// loadFilter replaces the built-in filter when a file name is given.
func loadFilter(jsonTable map[string]interface{}, dst **filters.Filter, path ...string) (string, bool) {
	var name string
	if msg, ok := getString(jsonTable, &name, path...); !ok {
		return msg, false
	}
	if name == "" {
		return "", true
	}
	f, err := filters.Load(name)
	if err != nil {
		return fmt.Sprintf("%s: %v", keyName(path), err), false
	}
	*dst = f
	return "", true
}

func validateHankel(jsonTable map[string]interface{}, o *model.Options) (string, bool) {
	if _, ok := getLeafValue(jsonTable, "ht"); !ok {
		return "", true
	}
	var h transform.HankelConfig
	msg, ok := runSteps(
		func() (string, bool) { return choice(jsonTable, &h.Method, hankels, "ht", "method") },
		func() (string, bool) { return loadFilter(jsonTable, &h.Filter, "ht", "filter") },
		func() (string, bool) { return getFloat(jsonTable, &h.PtsPerDec, "ht", "pts_per_dec") },
		func() (string, bool) { return getFloat(jsonTable, &h.RTol, "ht", "rtol") },
		func() (string, bool) { return getFloat(jsonTable, &h.ATol, "ht", "atol") },
		func() (string, bool) { return getInt(jsonTable, &h.NQuad, "ht", "nquad") },
		func() (string, bool) { return getInt(jsonTable, &h.MaxInt, "ht", "maxint") },
		func() (string, bool) { return getInt(jsonTable, &h.Limit, "ht", "limit") },
		func() (string, bool) { return getFloat(jsonTable, &h.A, "ht", "a") },
		func() (string, bool) { return getFloat(jsonTable, &h.B, "ht", "b") },
	)
	if !ok {
		return msg, false
	}
	o.Hankel = &h
	return "", true
}

func validateFourier(jsonTable map[string]interface{}, o *model.Options) (string, bool) {
	if _, ok := getLeafValue(jsonTable, "ft"); !ok {
		return "", true
	}
	var ft transform.FourierConfig
	var addDec []float64
	msg, ok := runSteps(
		func() (string, bool) { return choice(jsonTable, &ft.Method, fouriers, "ft", "method") },
		func() (string, bool) { return loadFilter(jsonTable, &ft.Filter, "ft", "filter") },
		func() (string, bool) { return getFloat(jsonTable, &ft.PtsPerDec, "ft", "pts_per_dec") },
		func() (string, bool) { return getFloat(jsonTable, &ft.RTol, "ft", "rtol") },
		func() (string, bool) { return getFloat(jsonTable, &ft.ATol, "ft", "atol") },
		func() (string, bool) { return getInt(jsonTable, &ft.NQuad, "ft", "nquad") },
		func() (string, bool) { return getInt(jsonTable, &ft.MaxInt, "ft", "maxint") },
		func() (string, bool) { return getList(jsonTable, &addDec, "ft", "add_dec") },
		func() (string, bool) { return getFloat(jsonTable, &ft.Q, "ft", "q") },
		func() (string, bool) { return getFloat(jsonTable, &ft.DFreq, "ft", "dfreq") },
		func() (string, bool) { return getInt(jsonTable, &ft.NFreq, "ft", "nfreq") },
		func() (string, bool) { return getInt(jsonTable, &ft.NTot, "ft", "ntot") },
	)
	if !ok {
		return msg, false
	}
	switch len(addDec) {
	case 0:
	case 2:
		ft.AddDec = [2]float64{addDec[0], addDec[1]}
	default:
		return "ft.add_dec: needs two values", false
	}
	o.Fourier = &ft
	return "", true
}

func validateHook(jsonTable map[string]interface{}, o *model.Options) (string, bool) {
	if _, ok := getLeafValue(jsonTable, "cole_cole"); !ok {
		return "", true
	}
	var c0, c8, tau, c []float64
	msg, ok := runSteps(
		func() (string, bool) { return getList(jsonTable, &c0, "cole_cole", "cond_0") },
		func() (string, bool) { return getList(jsonTable, &c8, "cole_cole", "cond_8") },
		func() (string, bool) { return getList(jsonTable, &tau, "cole_cole", "tau") },
		func() (string, bool) { return getList(jsonTable, &c, "cole_cole", "c") },
	)
	if !ok {
		return msg, false
	}
	n := len(o.Res)
	for name, l := range map[string][]float64{"cond_0": c0, "cond_8": c8, "tau": tau, "c": c} {
		if len(l) != n {
			return fmt.Sprintf("cole_cole.%s: needs one value per layer (%d)", name, n), false
		}
	}
	o.Hook = model.ColeCole(c0, c8, tau, c)
	return "", true
}

func validatePlot(jsonTable map[string]interface{}, p *PlotRequest) (string, bool) {
	if _, ok := getLeafValue(jsonTable, "plot"); !ok {
		return "", true
	}
	p.LogX, p.LogY = true, true
	var names []interface{}
	msg, ok := runSteps(
		func() (string, bool) { return getString(jsonTable, &p.File, "plot", "file") },
		func() (string, bool) { return getInt(jsonTable, &p.Rec, "plot", "rec") },
		func() (string, bool) { return getInt(jsonTable, &p.Src, "plot", "src") },
		func() (string, bool) { return getBool(jsonTable, &p.LogX, "plot", "log_x") },
		func() (string, bool) { return getBool(jsonTable, &p.LogY, "plot", "log_y") },
		func() (string, bool) { return getString(jsonTable, &p.DataFile, "plot", "data_file") },
	)
	if !ok {
		return msg, false
	}
	if p.File == "" {
		return "plot.file: not found", false
	}
	if v, ok := getLeafValue(jsonTable, "plot", "parts"); ok {
		names, ok = v.([]interface{})
		if !ok {
			return "plot.parts: is not a list of strings", false
		}
	}
	for i, n := range names {
		table := map[string]interface{}{"part": n}
		var part sounding.Part
		if msg, ok := choice(table, &part, parts, "part"); !ok {
			return fmt.Sprintf("plot.parts[%d]: %s", i, strings.TrimPrefix(msg, "part: ")), false
		}
		p.Parts = append(p.Parts, part)
	}
	if len(p.Parts) == 0 {
		p.Parts = []sounding.Part{sounding.Real, sounding.Imag}
	}
	return "", true
}

func validateJsonFileAndFillSurvey(jsonTable map[string]interface{}, s *Survey) (string, bool) {
	s.Routine = "bipole"
	s.AB = 11
	s.Verb = 2
	o := &s.Options
	var solution string

	msg, ok := runSteps(
		func() (string, bool) { return getBool(jsonTable, &s.ShowInput, "show_input_bool") },
		func() (string, bool) { return getString(jsonTable, &s.Title, "title") },
		func() (string, bool) { return choice(jsonTable, &s.Routine, routines, "routine") },
		func() (string, bool) { return getInt(jsonTable, &s.AB, "ab") },
		func() (string, bool) { return getString(jsonTable, &solution, "solution") },
		func() (string, bool) { return getFloat(jsonTable, &s.Scale, "scale") },
		func() (string, bool) { return getFloat(jsonTable, &s.Cf, "cf") },
		func() (string, bool) { return getFloat(jsonTable, &s.Gain, "gain") },
		func() (string, bool) { return getLists(jsonTable, &s.Src, "src") },
		func() (string, bool) { return getLists(jsonTable, &s.Rec, "rec") },

		func() (string, bool) { return getList(jsonTable, &o.Depth, "model", "depth") },
		func() (string, bool) { return getList(jsonTable, &o.Res, "model", "res") },
		func() (string, bool) { return getList(jsonTable, &o.Aniso, "model", "aniso") },
		func() (string, bool) { return getList(jsonTable, &o.EpermH, "model", "epermH") },
		func() (string, bool) { return getList(jsonTable, &o.EpermV, "model", "epermV") },
		func() (string, bool) { return getList(jsonTable, &o.MpermH, "model", "mpermH") },
		func() (string, bool) { return getList(jsonTable, &o.MpermV, "model", "mpermV") },

		func() (string, bool) { return getList(jsonTable, &o.FreqTime, "freqtime") },
		func() (string, bool) { return choice(jsonTable, &o.Signal, signals, "signal") },
		func() (string, bool) { return choice(jsonTable, &o.Msrc, fieldTypes, "msrc") },
		func() (string, bool) { return choice(jsonTable, &o.Mrec, fieldTypes, "mrec") },
		func() (string, bool) { return getFloat(jsonTable, &o.Strength, "strength") },
		func() (string, bool) { return getInt(jsonTable, &o.SrcPts, "srcpts") },
		func() (string, bool) { return getInt(jsonTable, &o.RecPts, "recpts") },
		func() (string, bool) { return choice(jsonTable, &o.Loop, loopModes, "loop") },
		func() (string, bool) { return choice(jsonTable, &o.XDirect, xdirects, "xdirect") },
		func() (string, bool) { return getBool(jsonTable, &o.KeepDims, "keep_dims") },
		func() (string, bool) { return getInt(jsonTable, &o.Workers, "workers") },
		func() (string, bool) { return validateHankel(jsonTable, o) },
		func() (string, bool) { return validateFourier(jsonTable, o) },

		func() (string, bool) { return getInt(jsonTable, &s.Verb, "verb") },
		func() (string, bool) { return getString(jsonTable, &s.Output, "output") },
		func() (string, bool) { return validatePlot(jsonTable, &s.Plot) },
	)
	if !ok {
		return msg, false
	}

	if len(o.Res) == 0 {
		return "model.res: not found", false
	}
	if len(o.FreqTime) == 0 {
		return "freqtime: not found", false
	}
	if msg, ok := validateHook(jsonTable, o); !ok {
		return msg, false
	}
	if s.Routine == "analytical" {
		if solution == "" {
			solution = "fs"
		}
		sol, ok := solutions[solution]
		if !ok {
			return fmt.Sprintf("solution: %q is not one of dfs, dhs, fs, vmd", solution), false
		}
		s.Solution = sol
	}
	if s.Routine == "gpr" {
		if s.Cf == 0 {
			return "cf: not found", false
		}
		if o.Signal == model.Frequency {
			o.Signal = model.Impulse
		}
	}
	if s.Verb < 0 || s.Verb > 4 {
		return "verb: must be between 0 and 4", false
	}
	return "No problem found in json file", true
}
