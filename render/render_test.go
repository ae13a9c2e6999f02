package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BigFatSpider/json2wav/errs"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/sample"
)

type constNode struct {
	graph.Base
	value    sample.Sample
	channels int
}

func (c *constNode) NumChannels() int { return c.channels }

func (c *constNode) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	for ch := 0; ch < numChannels && ch < len(bufs); ch++ {
		for i := 0; i < numSamples && i < len(bufs[ch]); i++ {
			bufs[ch][i] = c.value
		}
	}
}

func TestRenderSilenceProducesAllZeroBytes(t *testing.T) {
	root := graph.NewSum(2)
	r := New(root, 2, 44100, Int16)
	result := r.Render(4410)
	assert.Len(t, result.PCM, 4410*2*2)
	for _, b := range result.PCM {
		assert.Equal(t, byte(0), b)
	}
}

func TestRenderEncodesInt16Interleaved(t *testing.T) {
	root := &constNode{value: 0.5, channels: 2}
	r := New(root, 2, 44100, Int16)
	result := r.Render(2)

	assert.Len(t, result.PCM, 2*2*2)
	v0 := int16(uint16(result.PCM[0]) | uint16(result.PCM[1])<<8)
	v1 := int16(uint16(result.PCM[2]) | uint16(result.PCM[3])<<8)
	assert.Equal(t, v0, v1, "both channels carry the same constant source")
	assert.Greater(t, v0, int16(0))
}

func TestRenderIdempotentAcrossCalls(t *testing.T) {
	mk := func() graph.Node { return &constNode{value: 0.3, channels: 1} }
	r1 := New(mk(), 1, 44100, Int16)
	r2 := New(mk(), 1, 44100, Int16)
	res1 := r1.Render(5000)
	res2 := r2.Render(5000)
	assert.Equal(t, res1.PCM, res2.PCM)
}

func TestRenderCollectsLatchedDiagnostics(t *testing.T) {
	root := &faultyNode{}
	r := New(root, 1, 44100, Int16)
	result := r.Render(16)
	assert.NotEmpty(t, result.Diagnostics)
}

type faultyNode struct {
	graph.Base
}

func (f *faultyNode) NumChannels() int { return 1 }

func (f *faultyNode) GetSamples(bufs [][]sample.Sample, numChannels, numSamples int, sampleRate uint32, requester graph.RequestID) {
	f.Fail(bufs, numChannels, numSamples, assertError{})
}

type assertError struct{}

func (assertError) Error() string { return "synthetic fault" }

func TestRenderRejectsUnencodableChannelCount(t *testing.T) {
	root := &constNode{value: 0.5, channels: 0}
	r := New(root, 0, 44100, Int16)
	result := r.Render(16)

	assert.Nil(t, result.PCM)
	assert.Len(t, result.Diagnostics, 1)
	var unsupported *errs.UnsupportedFormat
	assert.ErrorAs(t, result.Diagnostics[0], &unsupported)
}

func TestRoundSampleRateDefaultsWhenUnspecified(t *testing.T) {
	assert.Equal(t, DefaultSampleRate, RoundSampleRate(0))
}

func TestRoundSampleRateMapsToNearestSupported(t *testing.T) {
	assert.Equal(t, uint32(44100), RoundSampleRate(44100))
	assert.Equal(t, uint32(44100), RoundSampleRate(45000))
	assert.Equal(t, uint32(48000), RoundSampleRate(50000))
	assert.Equal(t, uint32(192000), RoundSampleRate(200000))
	assert.Equal(t, uint32(8000), RoundSampleRate(4000))
}

func TestBytesPerSampleByFormat(t *testing.T) {
	assert.Equal(t, 2, Int16.BytesPerSample())
	assert.Equal(t, 3, Int24.BytesPerSample())
	assert.Equal(t, 4, Float32.BytesPerSample())
}

func TestValidBitDepthRoundsUp(t *testing.T) {
	assert.Equal(t, 8, ValidBitDepth(4))
	assert.Equal(t, 16, ValidBitDepth(16))
	assert.Equal(t, 24, ValidBitDepth(20))
	assert.Equal(t, 32, ValidBitDepth(28))
}
