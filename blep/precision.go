package blep

/*------------------------------------------------------------------
 *
 * Purpose:	Precision selects among three table lengths/degrees
 *		(Precise=60/7, Fast=20/9, ExtraFast=16/5) crossed with four
 *		window families (Perfect/Monotonic/Ripple/HalfRipple).
 *
 *----------------------------------------------------------------*/

// Precision selects both a table length/degree family and a window
// variant: one of 12 precision values.
type Precision int

const (
	Precise Precision = iota
	MonotonicPrecise
	RipplePrecise
	HalfRipplePrecise
	Fast
	MonotonicFast
	RippleFast
	HalfRippleFast
	ExtraFast
	MonotonicExtraFast
	RippleExtraFast
	HalfRippleExtraFast
)

const (
	lengthPrecise   = 60
	degreePrecise   = 7
	lengthFast      = 20
	degreeFast      = 9
	lengthExtraFast = 16
	degreeExtraFast = 5
)

// Window/cutoff pairings per family: the default family windows the
// full-Nyquist sinc with Blackman for a clean, nearly ideal step; the
// Monotonic family keeps Blackman but pulls the kernel cutoff to 0.8 of
// Nyquist for a softer step (the sinc still has negative lobes, so its
// step response is not free of ripple); Ripple keeps the brightest
// kernel under the lightest window, trading a little overshoot for
// less attenuation at Nyquist; HalfRipple sits between them.
const (
	cutoffPerfect    = 1.0
	cutoffMonotonic  = 0.8
	cutoffRipple     = 1.0
	cutoffHalfRipple = 0.9
)

var tables map[Precision]*Table

func init() {
	tables = map[Precision]*Table{
		Precise:             buildTable(lengthPrecise, degreePrecise, windowBlackman, cutoffPerfect),
		MonotonicPrecise:    buildTable(lengthPrecise, degreePrecise, windowBlackman, cutoffMonotonic),
		RipplePrecise:       buildTable(lengthPrecise, degreePrecise, windowCosine, cutoffRipple),
		HalfRipplePrecise:   buildTable(lengthPrecise, degreePrecise, windowHamming, cutoffHalfRipple),
		Fast:                buildTable(lengthFast, degreeFast, windowBlackman, cutoffPerfect),
		MonotonicFast:       buildTable(lengthFast, degreeFast, windowBlackman, cutoffMonotonic),
		RippleFast:          buildTable(lengthFast, degreeFast, windowCosine, cutoffRipple),
		HalfRippleFast:      buildTable(lengthFast, degreeFast, windowHamming, cutoffHalfRipple),
		ExtraFast:           buildTable(lengthExtraFast, degreeExtraFast, windowBlackman, cutoffPerfect),
		MonotonicExtraFast:  buildTable(lengthExtraFast, degreeExtraFast, windowBlackman, cutoffMonotonic),
		RippleExtraFast:     buildTable(lengthExtraFast, degreeExtraFast, windowCosine, cutoffRipple),
		HalfRippleExtraFast: buildTable(lengthExtraFast, degreeExtraFast, windowHamming, cutoffHalfRipple),
	}
}

// TableFor returns the constructed Table for a precision variant.
func TableFor(p Precision) *Table {
	return tables[p]
}
