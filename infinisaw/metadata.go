package infinisaw

// sampleMeta is one committed-but-not-necessarily-output tick's state:
// the phase accumulator immediately before and after the tick, the
// amplitude in effect, the already-computed naive waveform sample, and
// whether a hard sync fired on this tick. It is computed exactly once,
// at the call where the tick is first advanced, whether or not that
// call writes it into an output buffer -- a later call that consumes it
// from the peek-ahead queue replays the stored value rather than
// recomputing it against a possibly different jump set.
type sampleMeta struct {
	prePhase, postPhase float64
	amp                 float64
	waveform            float64
	hardSync            bool
}

// jumpMeta is a scheduled jump ready for the BLEP pass: the local tick
// index it was detected at, its fractional sub-sample position, and its
// raw step amplitude. The voice amplitude is applied per buffer index
// during the mix, not here, because the residue window spans samples
// whose amplitude the control object has already moved past.
type jumpMeta struct {
	localIndex int
	frac       float64
	amp        float64
}

// carryItem is the unapplied tail of one jump's BLEP window: the table
// index k to resume from, applied starting at the next block's first
// sample. One entry per carried jump.
type carryItem struct {
	k   int
	x   float64
	amp float64
}
