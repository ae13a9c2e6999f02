package blep

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Builds piecewise-polynomial BLEP tables at package init()
 *		time, from a windowed-sinc band-limited step response. Only
 *		the table lengths and polynomial degrees per family are
 *		fixed constants; this package regenerates the coefficient
 *		data numerically using gonum/mat to solve each segment's
 *		least-squares polynomial fit.
 *
 *----------------------------------------------------------------*/

// Polynomial evaluates a fixed-degree polynomial via Horner's method,
// coefficients highest-degree first -- the same representation
// Septic.h/Quintic.h/Nonic.h use for their functor constructors.
type Polynomial struct {
	coeffs []float64
}

// Eval returns p(x).
func (p Polynomial) Eval(x float64) float64 {
	v := 0.0
	for _, c := range p.coeffs {
		v = v*x + c
	}
	return v
}

// Table is one precision variant's set of L-1 polynomials covering a
// residue window L-1 samples wide, centered on the discontinuity.
type Table struct {
	Length int
	Degree int
	polys  []Polynomial
}

// Size returns the number of window entries (and polynomials): one less
// than the nominal table length.
func (t *Table) Size() int {
	return len(t.polys)
}

// Peek returns the look-ahead distance associated with this table:
// half-length minus one.
func (t *Table) Peek() int {
	return t.Length/2 - 1
}

// Residue returns residue(k, x): the stored polynomial for entry k,
// evaluated at the normalized argument that locates (k, x) along the
// overall band-limited step curve, with the naive step subtracted. The
// argument's lower half is the pre-step side (naive value 0); on the
// upper half the naive step has already landed, so 1 is subtracted
// back out. Arguments outside [0, 1) fall outside the window entirely.
func (t *Table) Residue(k int, x float64) float64 {
	arg := (float64(k) + 0.5 - x) / float64(len(t.polys))
	if arg < 0 || arg >= 1 {
		return 0
	}
	v := t.polys[k].Eval(arg)
	if arg < 0.5 {
		return v
	}
	return v - 1
}

const fitOversample = 64   // kernel samples per unit sample, for the step-response model
const fitPointsPerSeg = 10 // sample points used to fit each segment's polynomial

// buildTable numerically constructs a Table of the given length and
// polynomial degree using a windowed-sinc step response shaped by kind,
// with the kernel's cutoff as a fraction of Nyquist.
func buildTable(length, degree int, kind windowKind, cutoff float64) *Table {
	value := stepResponseFunc(length, kind, cutoff)

	polys := make([]Polynomial, length-1)
	for k := range polys {
		u := make([]float64, fitPointsPerSeg)
		y := make([]float64, fitPointsPerSeg)
		for s := 0; s < fitPointsPerSeg; s++ {
			x := float64(s) / float64(fitPointsPerSeg-1)
			arg := (float64(k) + 0.5 - x) / float64(length-1)
			u[s] = arg
			y[s] = value(arg)
		}
		polys[k] = Polynomial{coeffs: fitPolynomial(u, y, degree)}
	}
	return &Table{Length: length, Degree: degree, polys: polys}
}

// stepResponseFunc returns a function mapping a normalized table
// position u (0 = well before the step, 1 = well after) to the
// band-limited step response value there, by integrating a windowed
// sinc kernel reaching the table's length in sample units to either
// side of the step: the same
// sinc*window construction an FIR lowpass kernel uses, generalized into
// a cumulative step model.
func stepResponseFunc(length int, kind windowKind, cutoff float64) func(u float64) float64 {
	span := float64(length)
	n := int(2*span*fitOversample) + 1
	dt := 1.0 / fitOversample
	mid := n / 2

	kernel := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i-mid) * dt
		kernel[i] = sinc(cutoff*t) * windowWeight(kind, n, i)
	}

	area := 0.0
	for _, v := range kernel {
		area += v * dt
	}
	if area != 0 {
		for i := range kernel {
			kernel[i] /= area
		}
	}

	cum := make([]float64, n)
	acc := 0.0
	for i, v := range kernel {
		acc += v * dt
		cum[i] = acc
	}

	return func(u float64) float64 {
		t := (u - 0.5) * float64(length-1)
		pos := t/dt + float64(mid)
		i0 := int(math.Floor(pos))
		if i0 < 0 {
			return 0
		}
		if i0 >= n-1 {
			return 1
		}
		f := pos - float64(i0)
		return cum[i0]*(1-f) + cum[i0+1]*f
	}
}

// fitPolynomial least-squares fits a degree-D polynomial through the
// (u, y) samples, returning coefficients highest-degree first. Solved
// via gonum's QR-backed Dense.Solve, which handles the overdetermined
// (more samples than coefficients) case directly.
func fitPolynomial(u, y []float64, degree int) []float64 {
	rows := len(u)
	cols := degree + 1

	a := mat.NewDense(rows, cols, nil)
	for i, ui := range u {
		val := 1.0
		for c := cols - 1; c >= 0; c-- {
			a.Set(i, c, val)
			val *= ui
		}
	}
	b := mat.NewDense(rows, 1, append([]float64(nil), y...))

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		// Degenerate fit (e.g. a perfectly flat segment): fall back to a
		// constant polynomial at the segment's mean value.
		mean := 0.0
		for _, v := range y {
			mean += v
		}
		mean /= float64(len(y))
		coeffs := make([]float64, cols)
		coeffs[cols-1] = mean
		return coeffs
	}

	coeffs := make([]float64, cols)
	for c := 0; c < cols; c++ {
		coeffs[c] = x.At(c, 0)
	}
	return coeffs
}
