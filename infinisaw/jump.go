// Package infinisaw implements a sum-of-sawtooth-jumps oscillator with
// BLEP-based anti-aliasing across block boundaries.
package infinisaw

// Jump is one discontinuity in the waveform: an upward step of
// amplitude Amp at phase position Pos.
type Jump struct {
	Pos float64
	Amp float32
}

// waveform evaluates w(p) for the given jump set: a sum of descending
// unit-slope ramps, each stepping up by amp_j at pos_j.
func waveform(phase float64, jumps []Jump) float64 {
	w := 0.0
	for _, j := range jumps {
		side := -0.5
		if phase >= j.Pos {
			side = 0.5
		}
		w += float64(j.Amp) * (side + (j.Pos - phase))
	}
	return w
}

// jumpFraction reports whether pos falls in the half-open interval
// [from, to) modulo 1, wrap-aware, and if so the fractional position of
// pos within that interval. The right endpoint is excluded so a jump
// landing exactly on a sample's phase is assigned to that sample and
// never re-detected by its predecessor's interval.
func jumpFraction(from, to, pos float64) (frac float64, in bool) {
	if from < to {
		if pos >= from && pos < to {
			return (pos - from) / (to - from), true
		}
		return 0, false
	}
	// Wrapped: the interval runs from `from` up to 1, then 0 up to `to`.
	span := (1 - from) + to
	if span <= 0 {
		return 0, false
	}
	if pos >= from && pos < 1 {
		return (pos - from) / span, true
	}
	if pos >= 0 && pos < to {
		return ((1 - from) + pos) / span, true
	}
	return 0, false
}
