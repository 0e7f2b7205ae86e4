package chunk

import (
	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// Decoders returns the decoder bound to each built-in subtype tag.
func Decoders() map[types.SubtypeTag]dissect.Decoder {
	return map[types.SubtypeTag]dissect.Decoder{
		format.TagLossy:    Generic,
		format.TagLossless: Generic,
		format.TagExtended: VP8X,
		format.TagWaveFmt:  WaveFormat,
		format.TagWaveFact: WaveFact,
		format.TagWaveData: Generic,
		format.TagAVIIndex: Generic,
		format.TagList:     List,
		format.TagJunk:     Generic,
		format.TagChunk:    Generic,
	}
}

// Register binds the built-in chunk decoders, then binds Generic to every tag
// of extra that has no decoder yet. Tags already bound are left alone, so
// hosts may register their own decoders first.
func Register(reg *dissect.Registry, extra ...*types.Descriptor) error {
	for tag, dec := range Decoders() {
		if _, ok := reg.Decoder(tag); ok {
			continue
		}
		if err := reg.RegisterDecoder(tag, dec); err != nil {
			return err
		}
	}
	for _, d := range extra {
		for _, tag := range d.Tags() {
			if _, ok := reg.Decoder(tag); ok {
				continue
			}
			if err := reg.RegisterDecoder(tag, Generic); err != nil {
				return err
			}
		}
	}
	return nil
}
