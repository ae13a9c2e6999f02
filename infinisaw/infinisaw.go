package infinisaw

import (
	"github.com/BigFatSpider/json2wav/blep"
	"github.com/BigFatSpider/json2wav/control"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/ramp"
	"github.com/BigFatSpider/json2wav/sample"
	"github.com/BigFatSpider/json2wav/synth"
)

/*------------------------------------------------------------------
 *
 * Purpose:	InfiniSaw is a sum of independently placed sawtooth jumps,
 *		rendered with BLEP residue injection so each jump is
 *		band-limited instead of a bare discontinuity. The hard part
 *		is the peek-ahead bookkeeping: a jump detected near the tail
 *		of one block can only be fully corrected once its BLEP
 *		window's future half has been computed, so look-ahead
 *		samples are committed (phase advances, control ticks) but
 *		held in a pending queue rather than written to any output
 *		buffer until a later GetSamples call claims them -- and
 *		jump detection for those samples runs exactly once, in
 *		whichever call first computes them, never when they are
 *		later replayed from the queue.
 *
 *----------------------------------------------------------------*/

// ParamHardSync is the control parameter a HardSync event targets. Its
// value is an opaque monotonically increasing marker: whenever the
// marker changes at the exact tick it was scheduled for, a hard sync
// fires at that sample.
const ParamHardSync control.ParamID = 100

// InfiniSaw is the jump-set oscillator.
type InfiniSaw struct {
	synth.Base
	jumps     []Jump
	precision blep.Precision

	pending   *graph.Ring[sampleMeta]
	antiAlias *graph.Ring[carryItem]

	hardSyncCounter    float64
	lastHardSyncMarker float64
}

// NewInfiniSaw returns an InfiniSaw with no jumps and the given
// amplitude, frequency, and BLEP precision.
func NewInfiniSaw(amplitude, frequency float64, precision blep.Precision) *InfiniSaw {
	s := &InfiniSaw{
		Base:      synth.NewBase(amplitude, frequency),
		precision: precision,
		pending:   graph.NewRing[sampleMeta](64, "InfiniSaw.pending"),
		antiAlias: graph.NewRing[carryItem](64, "InfiniSaw.antiAlias"),
	}
	s.Controls.RegisterParam(ParamHardSync, 0)
	return s
}

// SetJumps replaces the jump set. The set is fixed during any single
// GetSamples call; changing it between calls is the normal way a
// caller moves the waveform's harmonic content.
func (s *InfiniSaw) SetJumps(jumps []Jump) {
	s.jumps = jumps
}

// SetPrecision switches the BLEP table family/variant used by
// subsequent GetSamples calls. Changing it mid-block is undefined; this
// implementation only reads s.precision at the start of each GetSamples
// call, so "mid-block" simply cannot occur from the caller's
// perspective.
func (s *InfiniSaw) SetPrecision(p blep.Precision) {
	s.precision = p
}

// HardSync schedules a band-limited phase reset at targetSample,
// dispatched through the same event queue as amplitude/frequency ramps.
func (s *InfiniSaw) HardSync(targetSample uint64) error {
	s.hardSyncCounter++
	return s.AddEvent(targetSample, ParamHardSync, s.hardSyncCounter, 0, ramp.Instant)
}

// NumChannels implements graph.Node: InfiniSaw is a mono source.
func (s *InfiniSaw) NumChannels() int { return 1 }

// GetSamples implements graph.Node.
func (s *InfiniSaw) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	if numChannels == 0 {
		return
	}
	if cached, hit := s.Memoized(requester); hit {
		for ch := 0; ch < numChannels && ch < len(bufs) && ch < len(cached); ch++ {
			n := min(numSamples, len(bufs[ch]), len(cached[ch]))
			copy(bufs[ch][:n], cached[ch][:n])
		}
		return
	}

	table := blep.TableFor(s.precision)
	if table == nil {
		s.Fail(bufs, numChannels, numSamples, unsupportedPrecision{})
		return
	}
	peek := table.Peek()
	pendingLen := s.pending.Len()

	// One extra tick beyond the peek window: the last look-ahead
	// sample's jump interval needs the phase of the sample after it.
	totalTicks := numSamples + peek + 1
	if totalTicks < pendingLen {
		totalTicks = pendingLen
	}

	ampAt := make([]float64, totalTicks)
	prePhaseAt := make([]float64, totalTicks)
	postPhaseAt := make([]float64, totalTicks)
	waveformAt := make([]float64, totalTicks)
	hardSyncAt := make([]bool, totalTicks)
	var scheduled []jumpMeta

	for i := 0; i < totalTicks; i++ {
		var meta sampleMeta
		if m, ok := s.pending.Pop(); ok {
			meta = m
		} else {
			meta = s.computeFreshTick(sampleRate, i, &scheduled)
		}
		ampAt[i] = meta.amp
		prePhaseAt[i] = meta.prePhase
		postPhaseAt[i] = meta.postPhase
		waveformAt[i] = meta.waveform
		hardSyncAt[i] = meta.hardSync
	}

	// Sample i's jump interval is [phase_i, phase_{i+1}): half-open, one
	// sample wide, so a jump landing exactly on a sample's phase belongs
	// to that sample and never to its predecessor. Windows already
	// checked by the call that first computed a tick are not re-checked
	// here. A hard-synced sample's window is skipped entirely: its
	// synthetic compensating jump stands in for whatever the reset
	// crossed.
	start := pendingLen
	if start < 1 {
		start = 1
	}
	for i := start; i < totalTicks; i++ {
		if hardSyncAt[i-1] {
			continue
		}
		for _, j := range s.jumps {
			if frac, in := jumpFraction(prePhaseAt[i], postPhaseAt[i], j.Pos); in {
				scheduled = append(scheduled, jumpMeta{localIndex: i - 1, frac: frac, amp: float64(j.Amp)})
			}
		}
	}

	accum := make([]float64, numSamples)
	copy(accum, waveformAt[:numSamples])

	var overflow error

	// Drain residue tails carried over from the previous block before
	// mixing this block's own jumps: carried jumps were scheduled
	// earlier, and a split render must add contributions to any given
	// sample in the same order a single longer render would.
	var stillCarried []carryItem
	for {
		item, ok := s.antiAlias.Pop()
		if !ok {
			break
		}
		k, b := item.k, 0
		for ; k < table.Size() && b < numSamples; k, b = k+1, b+1 {
			accum[b] += ampAt[b] * item.amp * table.Residue(k, item.x)
		}
		if k < table.Size() {
			stillCarried = append(stillCarried, carryItem{k: k, x: item.x, amp: item.amp})
		}
	}
	for _, item := range stillCarried {
		if err := s.antiAlias.Push(item); err != nil {
			overflow = err
			break
		}
	}

	half := table.Length/2 - 1
	for _, jm := range scheduled {
		if overflow != nil {
			break
		}
		k := 0
		if jm.localIndex < half {
			// Leading residue samples before the render's first sample
			// have no buffer to land in; only happens at startup.
			k = half - jm.localIndex
		}
		b := jm.localIndex + k - half
		for ; k < table.Size() && b < numSamples; k, b = k+1, b+1 {
			accum[b] += ampAt[b] * jm.amp * table.Residue(k, jm.frac)
		}
		if k < table.Size() {
			// The rest of the window resumes at the next block's first
			// sample; one queue entry per jump records where to pick up.
			if err := s.antiAlias.Push(carryItem{k: k, x: jm.frac, amp: jm.amp}); err != nil {
				overflow = err
			}
		}
	}

	if overflow == nil {
		for i := numSamples; i < totalTicks; i++ {
			if err := s.pending.Push(sampleMeta{
				prePhase:  prePhaseAt[i],
				postPhase: postPhaseAt[i],
				amp:       ampAt[i],
				waveform:  waveformAt[i],
				hardSync:  hardSyncAt[i],
			}); err != nil {
				overflow = err
				break
			}
		}
	}

	if overflow != nil {
		s.Fail(bufs, numChannels, numSamples, overflow)
		return
	}

	if len(bufs) > 0 {
		for i := 0; i < numSamples && i < len(bufs[0]); i++ {
			bufs[0][i] = sample.Sample(accum[i])
		}
	}
	s.Cache(bufs)
	graph.Broadcast(bufs, numChannels, numSamples)
}

// computeFreshTick advances the oscillator by exactly one sample: it
// commits a control/phase tick, evaluates the naive waveform, and
// applies a pending hard sync if one lands on this exact sample,
// appending the resulting synthetic band-limiting jump to scheduled.
// The synthetic jump's amplitude already folds in the voice amplitude
// (it cancels the emitted sample itself), unlike regular jumps, whose
// amplitude is applied per buffer index during the BLEP mix.
func (s *InfiniSaw) computeFreshTick(sampleRate uint32, localIndex int, scheduled *[]jumpMeta) sampleMeta {
	prePhase, postPhase, amp, _, _ := s.TickNext(sampleRate)
	raw := waveform(postPhase, s.jumps)
	out := amp * raw

	hardSync := false
	if marker := s.Controls.Value(ParamHardSync); marker != s.lastHardSyncMarker {
		s.lastHardSyncMarker = marker
		s.SetPhase(0)
		postPhase = 0
		hardSync = true
		*scheduled = append(*scheduled, jumpMeta{localIndex: localIndex, frac: 0.5, amp: -out})
	}

	return sampleMeta{prePhase: prePhase, postPhase: postPhase, amp: amp, waveform: out, hardSync: hardSync}
}

type unsupportedPrecision struct{}

func (unsupportedPrecision) Error() string { return "infinisaw: no BLEP table for requested precision" }
