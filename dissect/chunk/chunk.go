// Package chunk decodes RIFF chunk framing: body sizes, pad bytes, LIST
// nesting and the fixed headers that describe a file (VP8X, WAVE fmt).
// Codec bitstreams inside chunk bodies are left opaque.
//
// Every decoder is invoked with the cursor on the chunk's size field; the
// fourcc has already been read by the caller as the marker that selected the
// decoder. A decoder invoked for the container payload (Level 1) also
// dispatches the sibling chunks that follow its own.
package chunk

import (
	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// bodyFunc decodes a chunk body. body is limited to the declared size.
type bodyFunc func(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error

// framed reads the size field, hands the body to a bodyFunc and skips the pad
// byte of odd-sized bodies.
type framed struct {
	body bodyFunc
}

var (
	// Generic frames any chunk and records its body as opaque bytes.
	Generic dissect.Decoder = framed{body: opaqueBody}

	// List frames a LIST chunk and dispatches its sub-chunks.
	List dissect.Decoder = framed{body: listBody}

	// VP8X frames the WebP extended-format header.
	VP8X dissect.Decoder = framed{body: vp8xBody}

	// WaveFormat frames a WAVE "fmt " chunk.
	WaveFormat dissect.Decoder = framed{body: waveFmtBody}

	// WaveFact frames a WAVE "fact" chunk.
	WaveFact dissect.Decoder = framed{body: waveFactBody}
)

func (f framed) Decode(ctx *dissect.Context, cur *dissect.Cursor) (int, *types.Result, error) {
	res := ctx.NewResult(cur)
	if err := decodeFrame(ctx, cur, res, f.body); err != nil {
		return cur.Pos(), res, err
	}
	if ctx.Level() == 1 {
		walk(ctx, cur, res)
	}
	return cur.Pos(), res, nil
}

func decodeFrame(ctx *dissect.Context, cur *dissect.Cursor, res *types.Result, body bodyFunc) error {
	idx, err := dissect.ReadUintLE(cur, res, "size", abbrev(ctx, "chunk_size"), format.ChunkSizeFieldSize)
	if err != nil {
		return err
	}
	size := res.Fields[idx].Value.Uint
	if size > uint64(cur.Remaining()) {
		return types.Errorf(types.ErrKindMalformed, "%s chunk at offset %d declares %d body bytes, %d left: %w",
			ctx.Tag(), res.Fields[idx].Offset, size, cur.Remaining(), format.ErrChunkOverrun)
	}

	sub, err := cur.Sub(int(size))
	if err != nil {
		return err
	}
	if err := body(ctx, sub, res); err != nil {
		return err
	}
	// The pad byte may be missing at the very end of a capture.
	if size%2 == 1 && cur.Remaining() > 0 {
		if _, err := dissect.ReadBytes(cur, res, "pad", "", 1); err != nil {
			return err
		}
	}
	return nil
}

// walk dispatches each chunk left in cur in order. Markers missing from the
// descriptor's table go to the generic framing decoder. A chunk whose decoder
// was refused or failed is stepped over using its own header, so later
// siblings are still dispatched; the walk stops at the first chunk that cannot
// be framed. Outcomes are recorded on res.
func walk(ctx *dissect.Context, cur *dissect.Cursor, res *types.Result) {
	for cur.Remaining() >= format.ChunkHeaderSize {
		rest := cur.Bytes()
		frame, frameErr := format.NextChunk(rest, 0)

		idx, err := dissect.ReadTag(cur, res, "chunk_id", abbrev(ctx, "chunk_id"))
		if err != nil {
			return
		}
		tag := ctx.Resolve(res.Fields[idx].Value.Raw)
		if tag == types.Unrecognized {
			tag = format.TagChunk
		}
		err = ctx.DispatchField(res, idx, tag, cur)
		if err == nil && res.Fields[idx].Resolution == types.ResolutionDecoded {
			continue
		}
		if frameErr != nil {
			return
		}
		// The pad byte may be missing at the very end.
		if cur.Skip(min(frame.End(), len(rest))-format.TagSize) != nil {
			return
		}
	}
}

func abbrev(ctx *dissect.Context, name string) string {
	return ctx.Descriptor().Name + "." + name
}

func opaqueBody(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error {
	_, err := dissect.ReadBytes(body, res, "data", abbrev(ctx, "chunk_data"), body.Len())
	return err
}

func listBody(ctx *dissect.Context, body *dissect.Cursor, res *types.Result) error {
	if body.Len() < format.ListTypeSize {
		return types.Errorf(types.ErrKindMalformed, "LIST body is %d bytes, want at least %d: %w",
			body.Len(), format.ListTypeSize, types.ErrMalformed)
	}
	idx, err := dissect.ReadTag(body, res, "list_type", abbrev(ctx, "list_type"))
	if err != nil {
		return err
	}
	res.Summary = "LIST " + res.Fields[idx].Value.Str
	walk(ctx, body, res)
	if n := body.Remaining(); n > 0 {
		res.Annotate(types.Annotation{
			Severity:  types.SevInfo,
			Category:  types.CatTrailing,
			Offset:    body.Abs(),
			Structure: res.Summary,
			Issue:     "bytes left in LIST body",
			Actual:    n,
		})
	}
	return nil
}
