package synth

import (
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Composite is a composition root: a mutable set of synths
 *		feeding an effect chain. GetSamples skips allocating a
 *		summing node when exactly one synth and no effects are
 *		attached, forwarding directly. That optimization is kept,
 *		but only until the first effect is attached or a second
 *		synth is added, so it can never silently bypass a wired
 *		effect.
 *
 *----------------------------------------------------------------*/

// Composite wires zero or more synths into a summing head and, on top
// of that, an effect chain. AddEffect wants an already-constructed node
// whose input is Tail() at the time of the call (mirroring how
// NewPanner(composite.Tail(), pan) is meant to be used).
type Composite struct {
	graph.Base
	synths             []graph.Node
	effects            []graph.Node
	sum                *graph.Sum
	effectEverAttached bool
	channels           int
}

// NewComposite returns an empty Composite. numChannels is the channel
// count reported before any synth is attached; 0 means "follow the
// tail of the chain".
func NewComposite(numChannels int) *Composite {
	return &Composite{channels: numChannels}
}

// AddSynth attaches a synth. The one-synth bypass optimization is
// retained only while this is the sole synth and no effect has ever
// been attached; otherwise a summing head is lazily built (or grown).
func (c *Composite) AddSynth(n graph.Node) error {
	c.synths = append(c.synths, n)
	if len(c.synths) > 1 || c.effectEverAttached {
		return c.ensureSum()
	}
	return nil
}

func (c *Composite) ensureSum() error {
	if c.sum == nil {
		c.sum = graph.NewSum(c.channels)
	}
	for _, s := range c.synths {
		if err := c.sum.AddInput(s); err != nil {
			return err
		}
	}
	return nil
}

// AddEffect appends an already-wired effect node to the chain, after
// forcing the summing head into existence: once any effect exists, the
// single-synth bypass can never apply again, even if that effect is
// later the only one.
func (c *Composite) AddEffect(e graph.Node) error {
	c.effectEverAttached = true
	if err := c.ensureSum(); err != nil {
		return err
	}
	c.effects = append(c.effects, e)
	return nil
}

// Tail returns the current end of the chain: the last effect, or the
// summing head, or (only when exactly one synth and no effect have
// ever been attached) that lone synth directly.
func (c *Composite) Tail() graph.Node {
	if len(c.effects) > 0 {
		return c.effects[len(c.effects)-1]
	}
	if c.sum != nil {
		return c.sum
	}
	if len(c.synths) == 1 {
		return c.synths[0]
	}
	return nil
}

// Inputs implements graph.Traversable.
func (c *Composite) Inputs() []graph.Node {
	if t := c.Tail(); t != nil {
		return []graph.Node{t}
	}
	return nil
}

// NumChannels implements graph.Node.
func (c *Composite) NumChannels() int {
	if c.channels > 0 {
		return c.channels
	}
	if t := c.Tail(); t != nil {
		return t.NumChannels()
	}
	return 0
}

// GetSamples implements graph.Node.
func (c *Composite) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	if cached, hit := c.Memoized(requester); hit {
		copyInto(bufs, cached, numChannels, numSamples)
		return
	}
	t := c.Tail()
	if t == nil {
		for ch := 0; ch < numChannels && ch < len(bufs); ch++ {
			row := bufs[ch]
			for i := range row {
				row[i] = 0
			}
		}
		c.Cache(bufs)
		return
	}
	t.GetSamples(bufs, numChannels, numSamples, sampleRate, requester)
	if d, ok := t.(graph.Diagnosable); ok {
		if err := d.LastDiagnostic(); err != nil {
			c.SetDiagnostic(err)
		}
	}
	c.Cache(bufs)
}

// Release implements Releaser by reporting the longest release tail
// among attached synths that themselves implement Releaser; synths that
// don't (e.g. raw InfiniSaw/Noise with no envelope wrapper) contribute 0.
func (c *Composite) Release() float64 {
	max := 0.0
	for _, s := range c.synths {
		if r, ok := s.(Releaser); ok {
			if v := r.Release(); v > max {
				max = v
			}
		}
	}
	return max
}
