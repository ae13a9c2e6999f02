package synth

import (
	"math"

	"github.com/BigFatSpider/json2wav/control"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/ramp"
	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Panner is an effect kind taking pan in [-1,+1]. A single
 *		mono input is spread across however many output channels
 *		are requested using an equal-power law, the same two-
 *		channel constant-power pan every mixing desk uses. Simple
 *		per-voice panning only, not full stereo field modeling.
 *
 *----------------------------------------------------------------*/

// Panner takes a single input node and spreads it across output
// channels with an equal-power pan law driven by ParamPan.
type Panner struct {
	graph.Base
	Controls *control.Object
	input    graph.Node
}

// NewPanner returns a Panner wrapping input, with pan at its initial
// value (-1 = full left, 0 = center, +1 = full right).
func NewPanner(input graph.Node, pan float64) *Panner {
	ctrl := control.NewObject()
	ctrl.RegisterParam(ParamPan, pan)
	return &Panner{Controls: ctrl, input: input}
}

// AddEvent schedules a pan change on this node's control object.
func (p *Panner) AddEvent(targetSample uint64, param control.ParamID, targetValue float64, durationSamples uint64, shape ramp.Shape) error {
	return p.Controls.AddEvent(targetSample, param, targetValue, durationSamples, shape)
}

// Inputs implements graph.Traversable, so cycle detection can see through
// a Panner the way it sees through AudioSum.
func (p *Panner) Inputs() []graph.Node {
	if p.input == nil {
		return nil
	}
	return []graph.Node{p.input}
}

// NumChannels implements graph.Node. A Panner always produces at least
// two channels: panning a single channel is meaningless.
func (p *Panner) NumChannels() int {
	return 2
}

// GetSamples implements graph.Node.
func (p *Panner) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	if cached, hit := p.Memoized(requester); hit {
		copyInto(bufs, cached, numChannels, numSamples)
		return
	}

	if p.input == nil || numChannels == 0 {
		for ch := 0; ch < numChannels && ch < len(bufs); ch++ {
			row := bufs[ch]
			for i := range row {
				row[i] = 0
			}
		}
		p.Cache(bufs)
		return
	}

	mono := allocBlock(1, numSamples)
	p.input.GetSamples(mono, 1, numSamples, sampleRate, requester)
	if d, ok := p.input.(graph.Diagnosable); ok {
		if err := d.LastDiagnostic(); err != nil {
			p.SetDiagnostic(err)
		}
	}
	src := mono[0]

	sampleNum := p.Controls.CurrentSample()
	for i := 0; i < numSamples && i < len(src); i++ {
		p.Controls.Tick(sampleNum)
		sampleNum++
		pan := p.Controls.Value(ParamPan)
		left, right := equalPowerGains(pan)
		if len(bufs) > 0 && i < len(bufs[0]) {
			bufs[0][i] = sample.Sample(float64(src[i]) * left)
		}
		if numChannels > 1 && len(bufs) > 1 && i < len(bufs[1]) {
			bufs[1][i] = sample.Sample(float64(src[i]) * right)
		}
	}
	for ch := 2; ch < numChannels && ch < len(bufs); ch++ {
		copy(bufs[ch], bufs[0])
	}
	p.Cache(bufs)
}

// equalPowerGains converts pan in [-1, +1] into (left, right) gains such
// that left^2 + right^2 == 1 for every pan value.
func equalPowerGains(pan float64) (left, right float64) {
	if pan < -1 {
		pan = -1
	}
	if pan > 1 {
		pan = 1
	}
	theta := (pan + 1) * (math.Pi / 4)
	return math.Cos(theta), math.Sin(theta)
}

// allocBlock and copyInto mirror graph's unexported helpers of the same
// shape; Panner lives outside package graph so it keeps its own copies
// rather than exporting graph's internal scratch-buffer helpers.
func allocBlock(numChannels, numSamples int) [][]sample.Sample {
	block := make([][]sample.Sample, numChannels)
	for ch := range block {
		block[ch] = make([]sample.Sample, numSamples)
	}
	return block
}

func copyInto(dst, src [][]sample.Sample, numChannels, numSamples int) {
	for ch := 0; ch < numChannels && ch < len(dst) && ch < len(src); ch++ {
		n := numSamples
		if len(dst[ch]) < n {
			n = len(dst[ch])
		}
		if len(src[ch]) < n {
			n = len(src[ch])
		}
		copy(dst[ch][:n], src[ch][:n])
	}
}
