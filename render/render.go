// Package render implements the Renderer that pulls fixed-size chunks
// from a root graph node, encodes them to PCM, and reports
// progress/diagnostics for long-running operations.
package render

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/sample"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Drives the root audio node in fixed-size chunks, encodes
 *		each produced block into the caller's chosen PCM format,
 *		and reports progress at 4% granularity via charmbracelet/log.
 *
 *----------------------------------------------------------------*/

// DefaultChunkSize is the block size pulled from the root node per
// iteration.
const DefaultChunkSize = 1024

// Renderer drives a root node to completion and encodes its output.
type Renderer struct {
	Root        graph.Node
	SampleRate  uint32
	Format      Format
	NumChannels int
	ChunkSize   int
}

// New returns a Renderer with the chunk size defaulted and the sample
// rate mapped to a supported rate by RoundSampleRate.
func New(root graph.Node, numChannels int, sampleRate uint32, format Format) *Renderer {
	return &Renderer{
		Root:        root,
		SampleRate:  RoundSampleRate(sampleRate),
		Format:      format,
		NumChannels: numChannels,
		ChunkSize:   DefaultChunkSize,
	}
}

// Result is the finished output of a render: the interleaved PCM byte
// buffer and any diagnostics latched by nodes along the way.
type Result struct {
	PCM         []byte
	Diagnostics []error
}

// Render pulls totalSamples samples from Root and encodes them. A
// channel count below 1 has no encodable PCM layout (there is no such
// thing as a zero-channel or negative-channel frame), so Render rejects
// it up front with UnsupportedFormat instead of pulling anything.
func (r *Renderer) Render(totalSamples int) Result {
	if r.NumChannels < 1 {
		err := &errs.UnsupportedFormat{Reason: fmt.Sprintf("channel count %d is not encodable", r.NumChannels)}
		log.Error("render: rejecting format", "err", err)
		return Result{Diagnostics: []error{err}}
	}

	chunk := r.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	bpf := r.Format.BytesPerSample()
	out := make([]byte, totalSamples*r.NumChannels*bpf)

	var diagnostics []error
	lastReportedPct := -1
	produced := 0

	for produced < totalSamples {
		n := chunk
		if produced+n > totalSamples {
			n = totalSamples - produced
		}

		bufs := make([][]sample.Sample, r.NumChannels)
		for c := range bufs {
			bufs[c] = make([]sample.Sample, n)
		}

		requester := graph.NewRequestID()
		r.Root.GetSamples(bufs, r.NumChannels, n, r.SampleRate, requester)

		if d, ok := r.Root.(graph.Diagnosable); ok {
			if err := d.LastDiagnostic(); err != nil {
				diagnostics = append(diagnostics, err)
			}
		}

		encodeInto(out, produced, bufs, r.NumChannels, n, r.Format)
		produced += n

		if totalSamples > 0 {
			pct := (produced * 100) / totalSamples
			step := pct / 4 * 4
			if step != lastReportedPct {
				lastReportedPct = step
				log.Info("render progress", "percent", step, "samples", produced, "total", totalSamples)
			}
		}
	}

	return Result{PCM: out, Diagnostics: diagnostics}
}

// encodeInto writes one chunk's samples into out at the interleaved byte
// offset for sample index offsetSamples.
func encodeInto(out []byte, offsetSamples int, bufs [][]sample.Sample, numChannels, numSamples int, format Format) {
	bpf := format.BytesPerSample()
	frame := numChannels * bpf
	base := offsetSamples * frame

	for i := 0; i < numSamples; i++ {
		for ch := 0; ch < numChannels; ch++ {
			var s sample.Sample
			if ch < len(bufs) && i < len(bufs[ch]) {
				s = bufs[ch][i]
			}
			pos := base + i*frame + ch*bpf
			encodeSample(out[pos:pos+bpf], s, format)
		}
	}
}

func encodeSample(dst []byte, s sample.Sample, format Format) {
	switch format {
	case Int16:
		v := uint16(s.AsInt16())
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
	case Int24:
		v := uint32(s.AsInt24())
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
	case Float32:
		bits := math.Float32bits(s.AsFloat32())
		dst[0] = byte(bits)
		dst[1] = byte(bits >> 8)
		dst[2] = byte(bits >> 16)
		dst[3] = byte(bits >> 24)
	}
}
