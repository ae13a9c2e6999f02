// Package synth implements the synth base and its phase accumulator,
// the Noise synth built on it, and the Panner effect and Composite
// composition root.
package synth

import (
	"github.com/BigFatSpider/json2wav/control"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/ramp"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Every oscillator shares the same two scheduled
 *		parameters (amplitude, frequency) and the same phase
 *		accumulator recurrence:
 *
 *			phase <- (phase + frequency*dt) mod 1.0
 *
 *		Base wraps a control.Object with those two params
 *		registered and exposes the per-sample pull loop a
 *		concrete oscillator's kernel plugs into.
 *
 *----------------------------------------------------------------*/

// Standard parameter IDs shared by every synth built on Base.
const (
	ParamAmplitude control.ParamID = iota
	ParamFrequency
	ParamPan
)

// Base is the phase-accumulator + amplitude/frequency control mixin
// shared by every oscillator.
type Base struct {
	graph.Base
	Controls   *control.Object
	phase      float64
	nextSample uint64
}

// NewBase returns a Base with amplitude and frequency registered at the
// given initial values.
func NewBase(amplitude, frequency float64) Base {
	ctrl := control.NewObject()
	ctrl.RegisterParam(ParamAmplitude, amplitude)
	ctrl.RegisterParam(ParamFrequency, frequency)
	return Base{Controls: ctrl}
}

// Phase returns the current phase accumulator value, in [0, 1).
func (b *Base) Phase() float64 {
	return b.phase
}

// SetPhase hard-syncs the phase accumulator to an arbitrary value in
// [0, 1), wrapping if necessary.
func (b *Base) SetPhase(p float64) {
	b.phase = wrap01(p)
}

// AddEvent schedules a parameter change on this synth's control object.
func (b *Base) AddEvent(targetSample uint64, param control.ParamID, targetValue float64, durationSamples uint64, shape ramp.Shape) error {
	return b.Controls.AddEvent(targetSample, param, targetValue, durationSamples, shape)
}

// TickNext commits the next sample in this synth's absolute timeline: it
// ticks the control object to the internally-owned running sample
// counter, advances the phase accumulator by one sample at the
// frequency in effect at that instant, and returns the pre-advance
// phase, the post-advance phase, the amplitude, the frequency, and the
// absolute sample number that was just committed.
//
// The counter always advances exactly once per call, whether or not the
// caller emits the result immediately -- a kernel that peeks ahead (as
// InfiniSaw does) must still call this once per logical next sample, not
// once per sample it writes out.
func (b *Base) TickNext(sampleRate uint32) (prePhase, postPhase, amplitude, frequency float64, sampleNum uint64) {
	sampleNum = b.nextSample
	b.Controls.Tick(sampleNum)
	amplitude = b.Controls.Value(ParamAmplitude)
	frequency = b.Controls.Value(ParamFrequency)
	prePhase = b.phase
	dt := 1.0 / float64(sampleRate)
	b.phase = wrap01(b.phase + frequency*dt)
	postPhase = b.phase
	b.nextSample++
	return
}

func wrap01(p float64) float64 {
	p -= float64(int64(p))
	if p < 0 {
		p += 1
	}
	return p
}

// Releaser is implemented by nodes that wrap an envelope and can report
// how long a release tail extends past a note's end. The envelope
// implementation itself is an external collaborator; this is only the
// query surface a composing caller needs.
type Releaser interface {
	Release() float64
}
