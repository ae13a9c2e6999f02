package graph

import (
	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Sum is the summing mix node. Inputs are an ordered,
 *		reference-shared set of graph nodes; BasicSum is the
 *		variant used at composition roots, since Go's GC already
 *		makes an owning/non-owning distinction moot for memory
 *		safety -- what's left is just the API shape a composition
 *		root wants.
 *
 *----------------------------------------------------------------*/

// Traversable is implemented by any node that can enumerate the nodes it
// pulls from, so AddInput can walk the DAG to reject cycles.
type Traversable interface {
	Inputs() []Node
}

// Sum is the owning summing mix node.
type Sum struct {
	Base
	inputs   []Node
	channels int
}

// NewSum returns an empty Sum. numChannels is the channel count reported
// by NumChannels before any input is added (0 means "follow the inputs").
func NewSum(numChannels int) *Sum {
	return &Sum{channels: numChannels}
}

// Inputs implements Traversable.
func (s *Sum) Inputs() []Node {
	return s.inputs
}

// AddInput appends n to the input list. It is idempotent: adding a node
// already present is a no-op. It fails with errs.CyclicGraph if n can
// already reach s, which would make the DAG cyclic once the edge is
// added.
func (s *Sum) AddInput(n Node) error {
	for _, existing := range s.inputs {
		if existing == n {
			return nil
		}
	}
	if reaches(n, s, make(map[Node]bool)) {
		return &errs.CyclicGraph{From: "input", To: "sum"}
	}
	s.inputs = append(s.inputs, n)
	return nil
}

// RemoveInput removes the first occurrence of n, if present.
func (s *Sum) RemoveInput(n Node) {
	for i, existing := range s.inputs {
		if existing == n {
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			return
		}
	}
}

// NumChannels reports the configured channel count, or the maximum among
// inputs if none was configured.
func (s *Sum) NumChannels() int {
	if s.channels > 0 {
		return s.channels
	}
	max := 0
	for _, in := range s.inputs {
		if n := in.NumChannels(); n > max {
			max = n
		}
	}
	return max
}

// GetSamples implements Node. Saturation is deferred to the final
// encoder: the sum is accumulated without clamping.
func (s *Sum) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester RequestID) {
	if cached, hit := s.Memoized(requester); hit {
		copyInto(bufs, cached, numChannels, numSamples)
		return
	}

	for ch := 0; ch < numChannels && ch < len(bufs); ch++ {
		row := bufs[ch]
		for i := 0; i < numSamples && i < len(row); i++ {
			row[i] = 0
		}
	}

	scratch := allocBlock(numChannels, numSamples)
	for _, in := range s.inputs {
		for _, row := range scratch {
			for i := range row {
				row[i] = 0
			}
		}
		in.GetSamples(scratch, numChannels, numSamples, sampleRate, requester)
		if d, ok := in.(Diagnosable); ok {
			if err := d.LastDiagnostic(); err != nil {
				s.SetDiagnostic(err)
			}
		}
		for ch := 0; ch < numChannels && ch < len(bufs); ch++ {
			dst := bufs[ch]
			src := scratch[ch]
			for i := 0; i < numSamples && i < len(dst) && i < len(src); i++ {
				dst[i] += src[i]
			}
		}
	}

	s.Cache(bufs)
}

// BasicSum is the non-owning composition-root variant. It behaves
// identically to Sum; an owning/back-referencing distinction only
// matters for manual lifetime management, which Go does not need.
type BasicSum struct {
	Sum
}

// NewBasicSum returns an empty BasicSum.
func NewBasicSum(numChannels int) *BasicSum {
	return &BasicSum{Sum: Sum{channels: numChannels}}
}

func reaches(from, target Node, visited map[Node]bool) bool {
	if from == target {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	if t, ok := from.(Traversable); ok {
		for _, child := range t.Inputs() {
			if reaches(child, target, visited) {
				return true
			}
		}
	}
	return false
}

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
