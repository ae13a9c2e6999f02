package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/ramp"
)

const (
	paramAmp ParamID = iota
	paramFreq
)

func newTestObject(initial float64) *Object {
	o := NewObject()
	o.RegisterParam(paramAmp, initial)
	return o
}

func TestInitialValueBeforeAnyEvent(t *testing.T) {
	o := newTestObject(0.5)
	o.Tick(0)
	assert.Equal(t, 0.5, o.Value(paramAmp))
}

func TestEventInPastRejected(t *testing.T) {
	o := newTestObject(0)
	o.Tick(100)
	err := o.AddEvent(50, paramAmp, 1, 0, ramp.Instant)
	assert.Error(t, err)
	var pastErr *errs.EventInPast
	assert.ErrorAs(t, err, &pastErr)
}

func TestFutureEventAcceptedAtAnyTime(t *testing.T) {
	o := newTestObject(0)
	o.Tick(1000)
	err := o.AddEvent(2000, paramAmp, 1, 0, ramp.Instant)
	assert.NoError(t, err)
}

func TestZeroDurationStepsInstantlyAtTarget(t *testing.T) {
	o := newTestObject(0)
	assert.NoError(t, o.AddEvent(10, paramAmp, 1, 0, ramp.Linear))

	o.Tick(9)
	assert.Equal(t, 0.0, o.Value(paramAmp))

	o.Tick(10)
	assert.Equal(t, 1.0, o.Value(paramAmp))
}

func TestRampSegmentInterpolatesAcrossDuration(t *testing.T) {
	o := newTestObject(0)
	assert.NoError(t, o.AddEvent(10, paramAmp, 10, 10, ramp.Linear))

	o.Tick(10)
	assert.Equal(t, 0.0, o.Value(paramAmp))

	o.Tick(15)
	assert.InDelta(t, 5.0, o.Value(paramAmp), 1e-9)

	o.Tick(20)
	assert.Equal(t, 10.0, o.Value(paramAmp))

	o.Tick(25)
	assert.Equal(t, 10.0, o.Value(paramAmp), "value holds at target after segment ends")
}

func TestReplacingUnfinishedSegmentUsesInterpolatedFrom(t *testing.T) {
	o := newTestObject(0)
	assert.NoError(t, o.AddEvent(0, paramAmp, 10, 10, ramp.Linear))
	// Replace mid-flight at sample 5, where the first segment would read 5.
	assert.NoError(t, o.AddEvent(5, paramAmp, 0, 0, ramp.Instant))

	o.Tick(5)
	assert.Equal(t, 0.0, o.Value(paramAmp))
}

func TestSameTargetSampleEventsActivateInInsertionOrder(t *testing.T) {
	o := newTestObject(0)
	assert.NoError(t, o.AddEvent(10, paramAmp, 1, 5, ramp.Linear))
	assert.NoError(t, o.AddEvent(10, paramAmp, 2, 5, ramp.Linear))

	// The second event (inserted after) wins: its ramp is the one in
	// effect once both are activated at the same target_sample.
	o.Tick(15)
	assert.Equal(t, 2.0, o.Value(paramAmp))
}

func TestUnregisteredParamReadsZero(t *testing.T) {
	o := NewObject()
	o.Tick(0)
	assert.Equal(t, 0.0, o.Value(paramFreq))
}

func TestCurrentSampleTracksTick(t *testing.T) {
	o := newTestObject(0)
	o.Tick(42)
	assert.Equal(t, uint64(42), o.CurrentSample())
}

func TestAddEventOverflowsAtQueueCapacity(t *testing.T) {
	o := newTestObject(0)
	for i := uint64(0); i < maxQueuedEvents; i++ {
		assert.NoError(t, o.AddEvent(i+1, paramAmp, float64(i), 0, ramp.Instant))
	}

	err := o.AddEvent(maxQueuedEvents+1, paramAmp, 1, 0, ramp.Instant)
	assert.Error(t, err)
	var overflow *errs.QueueOverflow
	assert.ErrorAs(t, err, &overflow)
	assert.Equal(t, "EventQueue", overflow.Queue)
}
