package format

import "github.com/joshuapare/riffkit/pkg/types"

// Field names shared by every RIFF-family descriptor.
const (
	FieldMagic   = "magic"
	FieldSize    = "size"
	FieldMarker  = "marker"
	FieldSubtype = "subtype"
)

// Subtype tags for the built-in descriptors. LIST, JUNK and the generic
// chunk tag are shared between formats and map to one decoder each.
const (
	TagLossy    types.SubtypeTag = "webp.lossy"
	TagLossless types.SubtypeTag = "webp.lossless"
	TagExtended types.SubtypeTag = "webp.extended"
	TagWaveFmt  types.SubtypeTag = "wave.fmt"
	TagWaveFact types.SubtypeTag = "wave.fact"
	TagWaveData types.SubtypeTag = "wave.data"
	TagAVIIndex types.SubtypeTag = "avi.idx1"
	TagList     types.SubtypeTag = "riff.list"
	TagJunk     types.SubtypeTag = "riff.junk"
	TagChunk    types.SubtypeTag = "riff.chunk"
)

// NewRIFFDescriptor builds a descriptor for a RIFF form type. name is used
// for field abbreviations ("webp" gives "webp.file_size").
func NewRIFFDescriptor(name, display, mediaType string, form []byte, subtypes map[string]types.SubtypeTag) *types.Descriptor {
	marker := make([]byte, len(form))
	copy(marker, form)
	table := make(map[string]types.SubtypeTag, len(subtypes))
	for k, v := range subtypes {
		table[k] = v
	}
	return &types.Descriptor{
		Name:         name,
		DisplayName:  display,
		MediaType:    mediaType,
		Magic:        RIFFSignature,
		MagicOffset:  RIFFMagicOffset,
		Marker:       marker,
		MarkerOffset: RIFFMarkerOffset,
		Header: []types.FieldSpec{
			{Name: FieldMagic, Abbrev: name + ".riff_marker", Length: TagSize, Rule: types.RuleTag},
			{Name: FieldSize, Abbrev: name + ".file_size", Length: ChunkSizeFieldSize, Rule: types.RuleUintLE},
			{Name: FieldMarker, Abbrev: name + ".marker", Length: TagSize, Rule: types.RuleTag},
		},
		SubtypeOffset: RIFFSubtypeOffset,
		SubtypeLength: TagSize,
		SubtypeName:   FieldSubtype,
		SubtypeAbbrev: name + ".subtype",
		Subtypes:      table,
		SizeField:     FieldSize,
		SizeBias:      RIFFSizeBias,
	}
}

// WebP describes "RIFF" <size> "WEBP" followed by a VP8, VP8L or VP8X chunk.
func WebP() *types.Descriptor {
	return NewRIFFDescriptor("webp", "WEBP", "image/webp", WEBPSignature, map[string]types.SubtypeTag{
		MarkerVP8:  TagLossy,
		MarkerVP8L: TagLossless,
		MarkerVP8X: TagExtended,
	})
}

// WAVE describes "RIFF" <size> "WAVE"; the first chunk is normally "fmt ".
func WAVE() *types.Descriptor {
	return NewRIFFDescriptor("wave", "WAVE", "audio/wav", WAVESignature, map[string]types.SubtypeTag{
		MarkerFmt:  TagWaveFmt,
		MarkerFact: TagWaveFact,
		MarkerData: TagWaveData,
		MarkerList: TagList,
		MarkerJunk: TagJunk,
	})
}

// AVI describes "RIFF" <size> "AVI "; the first chunk is the "hdrl" LIST.
func AVI() *types.Descriptor {
	return NewRIFFDescriptor("avi", "AVI", "video/x-msvideo", AVISignature, map[string]types.SubtypeTag{
		MarkerList: TagList,
		MarkerJunk: TagJunk,
		MarkerIdx1: TagAVIIndex,
	})
}

// Builtins returns fresh copies of every built-in descriptor in probe order.
func Builtins() []*types.Descriptor {
	return []*types.Descriptor{WebP(), WAVE(), AVI()}
}
