package chunk

import (
	"fmt"

	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

var vp8xFlags = []struct {
	name string
	mask uint64
}{
	{"icc", format.VP8XFlagICC},
	{"alpha", format.VP8XFlagAlpha},
	{"exif", format.VP8XFlagEXIF},
	{"xmp", format.VP8XFlagXMP},
	{"animation", format.VP8XFlagAnimation},
}

// vp8xBody decodes the extended-format header:
//
//	Offset  Size  Field
//	0x00    1     flags (Rsv:2 ICC Alpha EXIF XMP Anim Rsv)
//	0x01    3     reserved
//	0x04    3     canvas width minus one (u24 LE)
//	0x07    3     canvas height minus one (u24 LE)
//
// Bytes past the fixed header are kept as an opaque extension.
func vp8xBody(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error {
	if body.Len() < format.VP8XBodySize {
		return types.Errorf(types.ErrKindMalformed, "VP8X body is %d bytes, want %d: %w",
			body.Len(), format.VP8XBodySize, types.ErrMalformed)
	}

	idx, err := dissect.ReadUintLE(body, res, "flags", abbrev(ctx, "vp8x.flags"), 1)
	if err != nil {
		return err
	}
	flags := res.Fields[idx]
	for _, f := range vp8xFlags {
		var set uint64
		if flags.Value.Uint&f.mask != 0 {
			set = 1
		}
		res.Add(types.Field{
			Name:   f.name,
			Abbrev: abbrev(ctx, "vp8x.flags."+f.name),
			Offset: flags.Offset,
			Length: 1,
			Value:  types.UintValue(set, flags.Value.Raw),
		})
	}

	if _, err := dissect.ReadBytes(body, res, "reserved", "", 3); err != nil {
		return err
	}
	var canvas [2]uint64
	for i, name := range []string{"canvas_width", "canvas_height"} {
		idx, err := dissect.ReadUintLE(body, res, name, abbrev(ctx, "vp8x."+name), format.VP8XCanvasFieldSize)
		if err != nil {
			return err
		}
		// Stored minus one.
		res.Fields[idx].Value.Uint++
		canvas[i] = res.Fields[idx].Value.Uint
	}
	res.Summary = fmt.Sprintf("Canvas %dx%d", canvas[0], canvas[1])

	if n := body.Remaining(); n > 0 {
		if _, err := dissect.ReadBytes(body, res, "extension", abbrev(ctx, "vp8x.extension"), n); err != nil {
			return err
		}
	}
	return nil
}

var waveFmtLayout = []struct {
	name  string
	width int
}{
	{"audio_format", 2},
	{"channels", 2},
	{"sample_rate", 4},
	{"byte_rate", 4},
	{"block_align", 2},
	{"bits_per_sample", 2},
}

// waveFmtBody decodes the WAVEFORMAT header. Any extension (cbSize and the
// WAVEFORMATEXTENSIBLE fields) is kept as opaque bytes.
func waveFmtBody(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error {
	if body.Len() < format.WaveFmtMinSize {
		return types.Errorf(types.ErrKindMalformed, "fmt body is %d bytes, want at least %d: %w",
			body.Len(), format.WaveFmtMinSize, types.ErrMalformed)
	}
	for _, f := range waveFmtLayout {
		if _, err := dissect.ReadUintLE(body, res, f.name, abbrev(ctx, "fmt."+f.name), f.width); err != nil {
			return err
		}
	}
	if n := body.Remaining(); n > 0 {
		if _, err := dissect.ReadBytes(body, res, "extension", abbrev(ctx, "fmt.extension"), n); err != nil {
			return err
		}
	}
	return nil
}

func waveFactBody(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error {
	if body.Len() < format.WaveFactSize {
		return types.Errorf(types.ErrKindMalformed, "fact body is %d bytes, want %d: %w",
			body.Len(), format.WaveFactSize, types.ErrMalformed)
	}
	_, err := dissect.ReadUintLE(body, res, "sample_length", abbrev(ctx, "fact.sample_length"), format.WaveFactSize)
	return err
}
