// Package wavio owns no rendering logic of its own; it only serializes a
// finished render.Result onto an io.WriteSeeker as a RIFF/WAVE file.
package wavio

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/BigFatSpider/json2wav/render"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Wrap github.com/go-audio/wav's Encoder so the Renderer's
 *		already-encoded interleaved PCM byte buffer can be written
 *		out as a standard WAVE container, driving the external
 *		format library instead of reimplementing RIFF framing.
 *
 *		go-audio/wav's Encoder.Write takes an *audio.IntBuffer: for
 *		16- and 24-bit PCM the buffer holds the signed sample
 *		values directly; for the Float32 format it holds each
 *		sample's IEEE-754 bit pattern reinterpreted as an int32,
 *		which is the convention go-audio/wav expects for
 *		WavAudioFormat 3 (IEEE float).
 *
 *----------------------------------------------------------------*/

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// Write serializes result onto w as a WAVE file with the given channel
// count, sample rate, and PCM format. w must also support Seek, since
// go-audio/wav rewrites the RIFF/data chunk sizes on Close.
func Write(w io.WriteSeeker, result render.Result, numChannels int, sampleRate uint32, format render.Format) error {
	bitDepth := format.BitDepth()
	audioFormat := wavFormatPCM
	if format == render.Float32 {
		audioFormat = wavFormatFloat
	}

	enc := wav.NewEncoder(w, int(sampleRate), bitDepth, numChannels, audioFormat)

	data, err := decodeToInts(result.PCM, format)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  int(sampleRate),
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	return enc.Close()
}

// decodeToInts unpacks the Renderer's interleaved little-endian PCM bytes
// back into one int per sample, the shape audio.IntBuffer wants. For
// Float32 the int holds the raw IEEE-754 bit pattern, not the scaled
// value, per go-audio/wav's float encoding convention.
func decodeToInts(pcm []byte, format render.Format) ([]int, error) {
	bpf := format.BytesPerSample()
	if bpf <= 0 || len(pcm)%bpf != 0 {
		return nil, fmt.Errorf("wavio: PCM buffer length %d not a multiple of %d-byte frame", len(pcm), bpf)
	}

	n := len(pcm) / bpf
	out := make([]int, n)

	for i := 0; i < n; i++ {
		b := pcm[i*bpf : i*bpf+bpf]
		switch format {
		case render.Int16:
			v := uint16(b[0]) | uint16(b[1])<<8
			out[i] = int(int16(v))
		case render.Int24:
			v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
			if v&0x800000 != 0 {
				v |= 0xFF000000
			}
			out[i] = int(int32(v))
		case render.Float32:
			bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
			out[i] = int(int32(bits))
		default:
			return nil, fmt.Errorf("wavio: unsupported format %v", format)
		}
	}
	return out, nil
}
