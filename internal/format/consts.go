// Package format houses the byte-level layout of the RIFF container family:
// signatures, field offsets, subtype markers, and the built-in descriptors
// the engine registers at startup. Everything here is static data or a pure
// function of a byte slice; orchestration lives in the dissect package.
package format

var (
	// RIFFSignature is the container magic at offset 0 of every RIFF file.
	RIFFSignature = []byte{'R', 'I', 'F', 'F'}

	// WEBPSignature is the format marker of a WebP image.
	WEBPSignature = []byte{'W', 'E', 'B', 'P'}

	// WAVESignature is the format marker of a WAVE audio file.
	WAVESignature = []byte{'W', 'A', 'V', 'E'}

	// AVISignature is the format marker of an AVI video file. Note the
	// trailing space.
	AVISignature = []byte{'A', 'V', 'I', ' '}
)

const (
	// TagSize is the width of every RIFF four-character code.
	TagSize = 4

	// ChunkHeaderSize is the fourcc plus the u32 LE body size.
	ChunkHeaderSize = 8

	// ChunkSizeFieldSize is the width of a chunk body size.
	ChunkSizeFieldSize = 4

	// RIFF header field offsets.
	RIFFMagicOffset   = 0x00 // 4, 'RIFF'
	RIFFSizeOffset    = 0x04 // 4, u32 LE, file size minus 8
	RIFFMarkerOffset  = 0x08 // 4, form type ('WEBP', 'WAVE', 'AVI ')
	RIFFSubtypeOffset = 0x0C // 4, first chunk fourcc
	RIFFPayloadOffset = 0x10 // first chunk body size

	// RIFFHeaderSize is the minimum prefix required to establish identity
	// and resolve the subtype.
	RIFFHeaderSize = RIFFPayloadOffset

	// RIFFSizeBias is added to the declared size to obtain the file length:
	// the size field excludes the magic and itself.
	RIFFSizeBias = 8

	// VP8XBodySize is the fixed size of a WebP extended-format header body:
	// 1 byte flags, 3 reserved, 3 bytes canvas width-1, 3 bytes height-1.
	VP8XBodySize         = 10
	VP8XCanvasWidthOffs  = 0x04
	VP8XCanvasHeightOffs = 0x07
	VP8XCanvasFieldSize  = 3
)

// WAVE "fmt " body layout (WAVEFORMAT plus the PCM bits-per-sample word).
const (
	WaveFmtMinSize = 16 // audio format, channels, rate, byte rate, align, bits

	// WaveFactSize is the body size of a "fact" chunk: one u32 sample count.
	WaveFactSize = 4

	// ListTypeSize is the form type that opens every LIST body.
	ListTypeSize = TagSize
)

// VP8X feature flags (first body byte).
const (
	VP8XFlagAnimation = 1 << 1
	VP8XFlagXMP       = 1 << 2
	VP8XFlagEXIF      = 1 << 3
	VP8XFlagAlpha     = 1 << 4
	VP8XFlagICC       = 1 << 5
)

// Subtype markers observed after the RIFF form type.
const (
	MarkerVP8  = "VP8 "
	MarkerVP8L = "VP8L"
	MarkerVP8X = "VP8X"

	MarkerFmt  = "fmt "
	MarkerFact = "fact"
	MarkerData = "data"
	MarkerList = "LIST"
	MarkerJunk = "JUNK"
	MarkerIdx1 = "idx1"
)
