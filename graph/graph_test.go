package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/sample"
)

// constNode is a minimal Node that fills every sample with a constant
// value, counting how many times GetSamples actually ran its body (as
// opposed to being served from memoization).
type constNode struct {
	Base
	value sample.Sample
	calls int
}

func (c *constNode) NumChannels() int { return 1 }

func (c *constNode) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester RequestID) {
	if cached, hit := c.Memoized(requester); hit {
		for ch := 0; ch < numChannels && ch < len(bufs) && ch < len(cached); ch++ {
			copy(bufs[ch], cached[ch])
		}
		return
	}
	c.calls++
	for i := 0; i < numSamples && i < len(bufs[0]); i++ {
		bufs[0][i] = c.value
	}
	c.Cache(bufs)
	Broadcast(bufs, numChannels, numSamples)
}

func TestSumAddsInputs(t *testing.T) {
	sum := NewSum(1)
	a := &constNode{value: 0.25}
	b := &constNode{value: 0.5}
	assert.NoError(t, sum.AddInput(a))
	assert.NoError(t, sum.AddInput(b))

	bufs := allocBlock(1, 4)
	sum.GetSamples(bufs, 1, 4, 44100, NewRequestID())
	for _, s := range bufs[0] {
		assert.InDelta(t, 0.75, float64(s), 1e-7)
	}
}

func TestSumAddInputIsIdempotent(t *testing.T) {
	sum := NewSum(1)
	a := &constNode{value: 1}
	assert.NoError(t, sum.AddInput(a))
	assert.NoError(t, sum.AddInput(a))
	assert.Len(t, sum.Inputs(), 1)
}

func TestSumRemoveInputRemovesFirstOccurrence(t *testing.T) {
	sum := NewSum(1)
	a := &constNode{value: 1}
	b := &constNode{value: 2}
	assert.NoError(t, sum.AddInput(a))
	assert.NoError(t, sum.AddInput(b))
	sum.RemoveInput(a)
	assert.Equal(t, []Node{b}, sum.Inputs())
}

func TestSumAddInputRejectsCycle(t *testing.T) {
	outer := NewSum(1)
	inner := NewSum(1)
	assert.NoError(t, outer.AddInput(inner))

	err := inner.AddInput(outer)
	assert.Error(t, err)
	var cyc *errs.CyclicGraph
	assert.ErrorAs(t, err, &cyc)
}

func TestMultiEdgeReuseCallsNodeOnce(t *testing.T) {
	shared := &constNode{value: 1}
	left := NewSum(1)
	right := NewSum(1)
	assert.NoError(t, left.AddInput(shared))
	assert.NoError(t, right.AddInput(shared))

	top := NewSum(1)
	assert.NoError(t, top.AddInput(left))
	assert.NoError(t, top.AddInput(right))

	bufs := allocBlock(1, 8)
	top.GetSamples(bufs, 1, 8, 44100, NewRequestID())

	assert.Equal(t, 1, shared.calls, "shared node pulled through two edges must compute exactly once per block")
	for _, s := range bufs[0] {
		assert.InDelta(t, 2.0, float64(s), 1e-7)
	}
}

// faultyNode always latches a diagnostic instead of producing real
// samples, the way an internal fault anywhere in the graph would.
type faultyNode struct {
	Base
}

func (f *faultyNode) NumChannels() int { return 1 }

func (f *faultyNode) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester RequestID) {
	f.Fail(bufs, numChannels, numSamples, assertError{})
}

type assertError struct{}

func (assertError) Error() string { return "synthetic fault" }

func TestSumPropagatesChildDiagnostic(t *testing.T) {
	sum := NewSum(1)
	assert.NoError(t, sum.AddInput(&faultyNode{}))
	assert.NoError(t, sum.AddInput(&constNode{value: 1}))

	bufs := allocBlock(1, 4)
	sum.GetSamples(bufs, 1, 4, 44100, NewRequestID())

	var diag Diagnosable = sum
	assert.Error(t, diag.LastDiagnostic(), "a fault latched by any input must surface on the Sum itself")
}

func TestBroadcastFansOutChannelZero(t *testing.T) {
	bufs := allocBlock(3, 4)
	for i := range bufs[0] {
		bufs[0][i] = sample.Sample(i)
	}
	Broadcast(bufs, 3, 4)
	assert.Equal(t, bufs[0], bufs[1])
	assert.Equal(t, bufs[0], bufs[2])
}

func TestRingPushPopFIFO(t *testing.T) {
	r := NewRing[int](64, "test")
	for i := 0; i < 5; i++ {
		assert.NoError(t, r.Push(i))
	}
	for i := 0; i < 5; i++ {
		v, ok := r.Pop()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := r.Pop()
	assert.False(t, ok)
}

func TestRingOverflows(t *testing.T) {
	r := NewRing[int](64, "test")
	for i := 0; i < 64; i++ {
		assert.NoError(t, r.Push(i))
	}
	err := r.Push(64)
	assert.Error(t, err)
}

func TestRingMinimumCapacityIsEnforced(t *testing.T) {
	r := NewRing[int](4, "test")
	assert.Equal(t, 64, r.Cap())
}

func TestRingPeekDoesNotRemove(t *testing.T) {
	r := NewRing[int](64, "test")
	assert.NoError(t, r.Push(7))
	v, ok := r.Peek(0)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, r.Len())
}
