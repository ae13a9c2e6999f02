package synth

import (
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Noise is a synth kind taking a single amplitude parameter.
 *		It runs white noise through a 3-pole/2-zero -3dB/octave
 *		"pinking" filter (the variant with a zero at the origin, so
 *		b3 is always 0).
 *
 *----------------------------------------------------------------*/

// Source is the external RNG collaborator a Noise synth pulls from.
// Random-number generation is out of scope for the core; callers supply
// any source shaped like math/rand/v2's Float64, scaled to [-1, 1) by
// the caller via Next.
type Source interface {
	// Next returns the next uniform sample in [-1, 1).
	Next() float64
}

// Noise is a pink-noise generator driven by an injected Source.
type Noise struct {
	Base
	rng        Source
	z1, z2, z3 float64
}

// NewNoise returns a Noise synth at the given amplitude, reading from rng.
func NewNoise(amplitude float64, rng Source) *Noise {
	return &Noise{Base: NewBase(amplitude, 1000.0), rng: rng}
}

const (
	pinkA1 = -2.29166666667
	pinkA2 = 1.65892918381
	pinkA3 = -0.36692761917
	pinkB0 = 0.030517578125 * 6.0
	pinkB1 = -0.0508626302083 * 6.0
	pinkB2 = 0.02067995006 * 6.0
)

// GetSamples implements graph.Node.
func (n *Noise) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	if numChannels == 0 {
		return
	}
	if cached, hit := n.Memoized(requester); hit {
		copy(bufs[0][:min(numSamples, len(bufs[0]))], cached[0][:min(numSamples, len(cached[0]))])
		graph.Broadcast(bufs, numChannels, numSamples)
		return
	}

	buf := bufs[0]
	for i := 0; i < numSamples && i < len(buf); i++ {
		_, _, amp, _, _ := n.TickNext(sampleRate)
		smpIn := amp * n.rng.Next()
		mid := smpIn - pinkA1*n.z1 - pinkA2*n.z2 - pinkA3*n.z3
		out := pinkB0*mid + pinkB1*n.z1 + pinkB2*n.z2
		n.z3 = n.z2
		n.z2 = n.z1
		n.z1 = mid
		buf[i] = sample.Sample(out)
	}
	n.Cache(bufs)
	graph.Broadcast(bufs, numChannels, numSamples)
}

// NumChannels implements graph.Node: Noise is a mono source.
func (n *Noise) NumChannels() int { return 1 }
