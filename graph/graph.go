// Package graph implements the pull-based audio-object DAG: the node
// contract, per-block request-ID memoization, and zero-and-latch failure
// policy.
package graph

import (
	"github.com/google/uuid"

	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Every node in the render graph is pulled for blocks of
 *		samples by its consumer(s). A node reachable through more
 *		than one edge in a single block must return the same
 *		cached block to every caller instead of recomputing (or,
 *		worse, advancing its internal state twice); RequestID is
 *		how a block-level pull is told apart from a later one.
 *
 *		Nodes never panic out of GetSamples: an internal fault
 *		zeroes the block and latches a one-shot diagnostic that
 *		render.Renderer collects at end-of-render.
 *
 *----------------------------------------------------------------*/

// RequestID identifies one top-level GetSamples pull through the whole
// graph. The Renderer mints a fresh one per block; every node along the
// way compares it against the last RequestID it saw to detect revisits
// within the same block.
type RequestID = uuid.UUID

// NewRequestID mints a RequestID unique to one block pull.
func NewRequestID() RequestID {
	return uuid.New()
}

// Node is the capability contract every graph participant implements.
type Node interface {
	// GetSamples fills bufs[0:numChannels][0:numSamples] for the given
	// sample rate. It never panics or returns an error; on internal
	// fault it zeroes its output and records a diagnostic retrievable
	// via LastDiagnostic.
	GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester RequestID)
	// NumChannels reports how many channels this node naturally
	// produces; callers may ask for more (broadcast from channel 0)
	// or fewer.
	NumChannels() int
}

// Diagnosable is implemented by nodes that can latch a one-shot fault for
// the Renderer to surface after the file is written.
type Diagnosable interface {
	LastDiagnostic() error
}

// Base provides the common per-block memoization and diagnostic-latch
// bookkeeping every node needs. Embed it in a concrete node and call
// Memoized at the top of GetSamples.
type Base struct {
	lastRequest RequestID
	hasRequest  bool
	cached      [][]sample.Sample
	diagnostic  error
}

// Memoized reports whether requester matches the last request this node
// served, and if so returns the cached block (which must still be valid
// for the caller's channel count) so the caller can skip recomputation.
// It also records requester as the in-flight request for this block.
func (b *Base) Memoized(requester RequestID) (cached [][]sample.Sample, hit bool) {
	if b.hasRequest && b.lastRequest == requester {
		return b.cached, true
	}
	b.lastRequest = requester
	b.hasRequest = true
	b.cached = nil
	return nil, false
}

// Cache records the block this node produced for the current request so
// a later revisit within the same block can reuse it.
func (b *Base) Cache(bufs [][]sample.Sample) {
	b.cached = bufs
}

// Fail zeroes bufs and latches err as the node's diagnostic. Call this
// instead of panicking or returning an error from GetSamples.
func (b *Base) Fail(bufs [][]sample.Sample, numChannels, numSamples int, err error) {
	b.SetDiagnostic(err)
	for c := 0; c < numChannels && c < len(bufs); c++ {
		row := bufs[c]
		for i := 0; i < numSamples && i < len(row); i++ {
			row[i] = 0
		}
	}
}

// SetDiagnostic latches err as this node's diagnostic without touching
// its output buffer. A composing node (Sum, Composite, Panner) calls
// this to surface a fault latched by one of its inputs: the input's own
// block is already zeroed by its own Fail call, so the composing node's
// output is correct as-is, but the fault would otherwise never reach
// the Renderer, which only inspects the root node.
func (b *Base) SetDiagnostic(err error) {
	b.diagnostic = err
}

// LastDiagnostic returns the most recently latched fault, or nil.
func (b *Base) LastDiagnostic() error {
	return b.diagnostic
}

// Broadcast fills bufs[ch] from bufs[0] for ch in [1, numChannels): a
// node that only produced channel 0 is fanned out to the rest.
func Broadcast(bufs [][]sample.Sample, numChannels, numSamples int) {
	if numChannels == 0 || len(bufs) == 0 {
		return
	}
	src := bufs[0]
	for ch := 1; ch < numChannels && ch < len(bufs); ch++ {
		dst := bufs[ch]
		n := numSamples
		if len(dst) < n {
			n = len(dst)
		}
		if len(src) < n {
			n = len(src)
		}
		copy(dst[:n], src[:n])
	}
}
