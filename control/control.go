// Package control converts a time-ordered queue of scheduled parameter
// events into sample-accurate values via shaped ramps (ramp.Shape).
package control

import (
	"sort"

	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/ramp"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Per-(object, param) ordered event queues, and the mixin
 *		that turns them into a per-sample current value by
 *		lazily starting ramp segments as the sample counter
 *		reaches each event's target_sample.
 *
 *----------------------------------------------------------------*/

// ParamID names a single scheduled control parameter on a host object
// (e.g. amplitude, frequency). Hosts define their own small enumerations
// of these.
type ParamID int

// Event is a single scheduled parameter change.
type Event struct {
	TargetSample    uint64
	Param           ParamID
	TargetValue     float64
	DurationSamples uint64
	Shape           ramp.Shape

	seq uint64 // insertion index, for tie-break ordering
}

type segment struct {
	from, to         float64
	start, duration  uint64
	shape            ramp.Shape
}

func (s segment) valueAt(sampleNum uint64) float64 {
	t := ramp.Fraction(sampleNum, s.start, s.duration)
	return ramp.Value(s.shape, s.from, s.to, t)
}

type paramState struct {
	seg   segment
	queue []Event // pending, sorted by (TargetSample, seq)
}

// Object is the scheduled-parameter mixin. It is embedded by hosts such
// as synth.Base.
type Object struct {
	current uint64
	seqNext uint64
	params  map[ParamID]*paramState
}

// NewObject returns a control Object with its sample counter at 0.
func NewObject() *Object {
	return &Object{params: make(map[ParamID]*paramState)}
}

// RegisterParam declares a parameter and its initial value. Must be
// called before AddEvent/Tick reference that param.
func (o *Object) RegisterParam(id ParamID, initial float64) {
	o.params[id] = &paramState{seg: segment{from: initial, to: initial, start: 0, duration: 0, shape: ramp.Instant}}
}

// maxQueuedEvents bounds each (Object, ParamID) queue: spec.md §7 lists
// EventQueue alongside SampleMetadata/AntiAliasQueue as one of the three
// fixed-capacity queues that can raise QueueOverflow. A scheduled-event
// queue has no natural peek-distance minimum the way the DSP ring
// buffers do, so this is sized generously against realistic render
// lengths rather than derived from a BLEP constant.
const maxQueuedEvents = 1024

// AddEvent schedules a parameter change. duration == 0 is equivalent to
// ramp.Instant regardless of the requested shape.
func (o *Object) AddEvent(targetSample uint64, param ParamID, targetValue float64, durationSamples uint64, shape ramp.Shape) error {
	if targetSample < o.current {
		return &errs.EventInPast{TargetSample: targetSample, CurrentSample: o.current}
	}
	ps, ok := o.params[param]
	if !ok {
		ps = &paramState{seg: segment{from: targetValue, to: targetValue, shape: ramp.Instant}}
		o.params[param] = ps
	}
	if len(ps.queue) >= maxQueuedEvents {
		return &errs.QueueOverflow{Queue: "EventQueue"}
	}
	if durationSamples == 0 {
		shape = ramp.Instant
	}
	e := Event{
		TargetSample:    targetSample,
		Param:           param,
		TargetValue:     targetValue,
		DurationSamples: durationSamples,
		Shape:           shape,
		seq:             o.seqNext,
	}
	o.seqNext++

	idx := sort.Search(len(ps.queue), func(i int) bool {
		if ps.queue[i].TargetSample != targetSample {
			return ps.queue[i].TargetSample > targetSample
		}
		return ps.queue[i].seq > e.seq
	})
	ps.queue = append(ps.queue, Event{})
	copy(ps.queue[idx+1:], ps.queue[idx:])
	ps.queue[idx] = e
	return nil
}

// Tick advances the object's sample counter to sampleNum, activating any
// event whose target_sample has been reached (in target_sample, then
// insertion order). Values become observable via Value starting at
// target_sample.
func (o *Object) Tick(sampleNum uint64) {
	for _, ps := range o.params {
		for len(ps.queue) > 0 && ps.queue[0].TargetSample <= sampleNum {
			e := ps.queue[0]
			ps.queue = ps.queue[1:]
			newFrom := ps.seg.valueAt(e.TargetSample)
			ps.seg = segment{
				from:     newFrom,
				to:       e.TargetValue,
				start:    e.TargetSample,
				duration: e.DurationSamples,
				shape:    e.Shape,
			}
		}
	}
	o.current = sampleNum
}

// Value returns the current value of param as of the last Tick.
func (o *Object) Value(param ParamID) float64 {
	ps, ok := o.params[param]
	if !ok {
		return 0
	}
	return ps.seg.valueAt(o.current)
}

// CurrentSample is the object's sample counter as of the last Tick.
func (o *Object) CurrentSample() uint64 {
	return o.current
}
