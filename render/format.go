package render

/*------------------------------------------------------------------
 *
 * Purpose:	PCM format selection and sample-rate/bit-depth rounding.
 *		Unsupported rates and bit depths are mapped to a supported
 *		value via threshold tables whose cut points lie between
 *		adjacent supported values, so a request can map to the
 *		supported value just below it.
 *
 *----------------------------------------------------------------*/

// Format is the PCM sample encoding the Renderer writes.
type Format int

const (
	Int16 Format = iota
	Int24
	Float32
)

// BytesPerSample reports the encoded width of one channel sample.
func (f Format) BytesPerSample() int {
	switch f {
	case Int16:
		return 2
	case Int24:
		return 3
	case Float32:
		return 4
	default:
		return 2
	}
}

// BitDepth reports the WAV bit depth the format encodes to, for
// building the fmt chunk internal/wavio writes.
func (f Format) BitDepth() int {
	return f.BytesPerSample() * 8
}

// ValidSampleRates are the sample rates the renderer supports natively.
var ValidSampleRates = []uint32{
	8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100,
	48000, 64000, 88200, 96000, 128000, 176400, 192000,
}

// DefaultSampleRate is used when the caller does not specify one.
const DefaultSampleRate uint32 = 44100

// RoundSampleRate maps an arbitrary requested rate to a valid rate,
// exactly mirroring GetValidSampleRate's threshold table. Each cut point
// lies between two adjacent valid rates, so a rate a little above a
// valid rate maps down to it (45000 gives 44100); the result is not
// always the next valid rate at or above the request. An unspecified
// (zero) rate means the default, not the lowest rate.
func RoundSampleRate(rate uint32) uint32 {
	switch {
	case rate == 0:
		return DefaultSampleRate
	case rate <= 9512:
		return 8000
	case rate <= 11512:
		return 11025
	case rate < 14000:
		return 12000
	case rate < 19025:
		return 16000
	case rate < 23025:
		return 22050
	case rate < 28000:
		return 24000
	case rate < 38050:
		return 32000
	case rate < 46050:
		return 44100
	case rate < 56000:
		return 48000
	case rate < 76100:
		return 64000
	case rate < 92100:
		return 88200
	case rate < 112000:
		return 96000
	case rate < 152200:
		return 128000
	case rate < 184200:
		return 176400
	default:
		return 192000
	}
}

// ValidBitDepth maps an arbitrary bit depth to a supported encoding
// width, mirroring GetValidBitDepth: below 12 gives 8, below 20 gives
// 16, below 28 gives 24, anything else 32 (so 10 maps down to 8).
func ValidBitDepth(bits int) int {
	switch {
	case bits < 12:
		return 8
	case bits < 20:
		return 16
	case bits < 28:
		return 24
	default:
		return 32
	}
}
