package model

// Result holds a field for every combination of frequency or time,
// receiver and source. Time-domain results are real; their imaginary
// parts are zero.
type Result struct {
	NFreqTime, NRec, NSrc int

	// Values in row-major order: index (f*NRec+r)*NSrc + s.
	Values []complex128

	keepDims bool
}

func newResult(nft, nrec, nsrc int, keepDims bool) *Result {
	r := &Result{NFreqTime: nft, NRec: nrec, NSrc: nsrc, keepDims: keepDims}
	r.Values = make([]complex128, nft*nrec*nsrc)
	return r
}

func (r *Result) index(f, rec, src int) int {
	return (f*r.NRec+rec)*r.NSrc + src
}

// At returns the value for frequency or time f, receiver rec and source src.
func (r *Result) At(f, rec, src int) complex128 {
	return r.Values[r.index(f, rec, src)]
}

// Shape is the shape of the result: (freqtime, receivers, sources), with
// axes of length one removed unless the computation asked to keep them. A
// single value has shape [].
func (r *Result) Shape() []int {
	dims := []int{r.NFreqTime, r.NRec, r.NSrc}
	if r.keepDims {
		return dims
	}
	out := []int{}
	for _, d := range dims {
		if d != 1 {
			out = append(out, d)
		}
	}
	return out
}

// Real returns the real parts of Values.
func (r *Result) Real() []float64 {
	out := make([]float64, len(r.Values))
	for i, v := range r.Values {
		out[i] = real(v)
	}
	return out
}

// Imag returns the imaginary parts of Values.
func (r *Result) Imag() []float64 {
	out := make([]float64, len(r.Values))
	for i, v := range r.Values {
		out[i] = imag(v)
	}
	return out
}

// Scalar returns the only value of a single-valued result.
func (r *Result) Scalar() (complex128, bool) {
	if len(r.Values) != 1 {
		return 0, false
	}
	return r.Values[0], true
}
