package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

func newEngine(t *testing.T, opts dissect.Options, extra ...*types.Descriptor) *dissect.Engine {
	t.Helper()
	reg := dissect.NewRegistry()
	for _, d := range append(format.Builtins(), extra...) {
		require.NoError(t, reg.RegisterFormat(d))
	}
	require.NoError(t, Register(reg, extra...))
	return dissect.NewEngine(reg, opts)
}

func u24(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16)} }

func vp8xBodyBytes(flags byte, width, height uint32) []byte {
	b := []byte{flags, 0, 0, 0}
	b = append(b, u24(width-1)...)
	return append(b, u24(height-1)...)
}

func mustField(t *testing.T, res *types.Result, name string) *types.Field {
	t.Helper()
	require.NotNil(t, res)
	f, ok := res.Field(name)
	require.True(t, ok, "field %q missing", name)
	return f
}

// chunkIDs returns the values of the chunk_id fields of res, in order.
func chunkIDs(res *types.Result) []string {
	var out []string
	for _, f := range res.Fields {
		if f.Name == "chunk_id" {
			out = append(out, f.Value.Str)
		}
	}
	return out
}

func TestWebP_SimpleLossy(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8, make([]byte, 10)))

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, "webp", res.Format)
	require.Equal(t, len(data), res.Consumed)
	require.Empty(t, res.AllAnnotations())

	sub := res.Fields[3]
	require.Equal(t, types.ResolutionDecoded, sub.Resolution)
	require.Equal(t, uint64(10), mustField(t, sub.Child, "size").Value.Uint)
	require.Equal(t, "webp.chunk_size", mustField(t, sub.Child, "size").Abbrev)
	data10 := mustField(t, sub.Child, "data")
	require.Equal(t, 20, data10.Offset)
	require.Equal(t, 10, data10.Length)
	require.Equal(t, 14, sub.Child.Consumed)
}

func TestWebP_OddBodyIsPadded(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8L, []byte{0x2F, 1, 2, 3, 4}))
	require.Len(t, data, 26)

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, 26, res.Consumed)
	pad := mustField(t, res.Fields[3].Child, "pad")
	require.Equal(t, 25, pad.Offset)

	// A capture cut right before the pad byte is still fully framed.
	res, err = eng.DissectAny(data[:25])
	require.NoError(t, err)
	require.Equal(t, 25, res.Consumed)
	_, ok := res.Fields[3].Child.Field("pad")
	require.False(t, ok)
}

func TestWebP_ExtendedWalksSiblingChunks(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := format.BuildRIFF("WEBP",
		format.AppendChunk(nil, format.MarkerVP8X, vp8xBodyBytes(format.VP8XFlagICC|format.VP8XFlagAlpha, 400, 300)),
		format.AppendChunk(nil, "ICCP", []byte{1, 2, 3}),
		format.AppendChunk(nil, format.MarkerVP8, make([]byte, 6)),
	)
	require.Len(t, data, 56)

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, "File Type: VP8X", res.Summary)
	require.Equal(t, 56, res.Consumed)
	require.Empty(t, res.AllAnnotations())

	ext := res.Fields[3].Child
	require.Equal(t, "webp.extended", ext.Format)
	require.Equal(t, "Canvas 400x300", ext.Summary)
	require.Equal(t, uint64(1), mustField(t, ext, "icc").Value.Uint)
	require.Equal(t, uint64(1), mustField(t, ext, "alpha").Value.Uint)
	require.Equal(t, uint64(0), mustField(t, ext, "animation").Value.Uint)
	require.Equal(t, uint64(400), mustField(t, ext, "canvas_width").Value.Uint)
	require.Equal(t, uint64(300), mustField(t, ext, "canvas_height").Value.Uint)
	require.Equal(t, 27, mustField(t, ext, "canvas_height").Offset)

	require.Equal(t, []string{"ICCP", "VP8 "}, chunkIDs(ext))
	iccp := mustField(t, ext, "chunk_id")
	require.Equal(t, 30, iccp.Offset)
	require.Equal(t, types.ResolutionDecoded, iccp.Resolution)
	require.Equal(t, string(format.TagChunk), iccp.Child.Format)
	require.Equal(t, 8, iccp.Child.Consumed, "size + body + pad")

	vp8 := ext.Fields[len(ext.Fields)-1]
	require.Equal(t, string(format.TagLossy), vp8.Child.Format)
}

func TestWebP_LongVP8XBodyKeepsExtension(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	body := append(vp8xBodyBytes(0, 64, 32), 0xDE, 0xAD, 0xBE, 0xEF)
	data := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8X, body))

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.Consumed)
	require.Empty(t, res.AllAnnotations())

	ext := res.Fields[3].Child
	require.Equal(t, "Canvas 64x32", ext.Summary)
	tail := mustField(t, ext, "extension")
	require.Equal(t, "webp.vp8x.extension", tail.Abbrev)
	require.Equal(t, 16+4+format.VP8XBodySize, tail.Offset)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, tail.Value.Raw)
}

func TestWebP_ShortVP8XBodyIsMalformed(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8X, []byte{0, 0, 0, 0}))

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, types.ResolutionFailed, res.Fields[3].Resolution)
	notes := res.AnnotationsBy(types.CatMalformed)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0].Err, "VP8X body is 4 bytes")
}

func TestChunkOverrunIsMalformed(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8, make([]byte, 10)))
	format.PutU32(data, format.RIFFPayloadOffset, 100)

	res, err := eng.DissectAny(data)
	require.NoError(t, err, "a bad chunk never aborts the container")
	require.Len(t, res.Fields, 4)
	require.Equal(t, types.ResolutionFailed, res.Fields[3].Resolution)
	require.True(t, res.HasErrors())

	notes := res.AnnotationsBy(types.CatMalformed)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0].Err, "declares 100 body bytes, 10 left")
	require.Contains(t, notes[0].Err, format.ErrChunkOverrun.Error())
	require.Equal(t, 16, res.Consumed)
}

func TestWAVE_FormatListAndData(t *testing.T) {
	eng := newEngine(t, dissect.Options{})

	fmtBody := make([]byte, 16)
	format.PutU16(fmtBody, 0, 1)      // PCM
	format.PutU16(fmtBody, 2, 2)      // stereo
	format.PutU32(fmtBody, 4, 44100)  // sample rate
	format.PutU32(fmtBody, 8, 176400) // byte rate
	format.PutU16(fmtBody, 12, 4)
	format.PutU16(fmtBody, 14, 16)

	info := append([]byte("INFO"), format.AppendChunk(nil, "ISFT", []byte("Lavf\x00"))...)
	data := format.BuildRIFF("WAVE",
		format.AppendChunk(nil, format.MarkerFmt, fmtBody),
		format.AppendChunk(nil, format.MarkerList, info),
		format.AppendChunk(nil, format.MarkerData, make([]byte, 8)),
	)

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, "wave", res.Format)
	require.Equal(t, "WAVE", res.Protocol)
	require.Equal(t, "File Type: fmt ", res.Summary)
	require.Equal(t, len(data), res.Consumed)
	require.Empty(t, res.AllAnnotations())

	wf := res.Fields[3].Child
	require.Equal(t, uint64(2), mustField(t, wf, "channels").Value.Uint)
	require.Equal(t, uint64(44100), mustField(t, wf, "sample_rate").Value.Uint)
	require.Equal(t, "wave.fmt.bits_per_sample", mustField(t, wf, "bits_per_sample").Abbrev)
	require.Equal(t, []string{"LIST", "data"}, chunkIDs(wf))

	list := mustField(t, wf, "chunk_id").Child
	require.Equal(t, "LIST INFO", list.Summary)
	require.Equal(t, []string{"ISFT"}, chunkIDs(list))
}

func aviSample() []byte {
	strl := append([]byte("strl"), format.AppendChunk(nil, "strh", make([]byte, 8))...)
	hdrl := append([]byte("hdrl"), format.AppendChunk(nil, "avih", make([]byte, 12))...)
	hdrl = format.AppendChunk(hdrl, format.MarkerList, strl)
	movi := append([]byte("movi"), format.AppendChunk(nil, "00dc", []byte{1, 2, 3})...)

	return format.BuildRIFF("AVI ",
		format.AppendChunk(nil, format.MarkerList, hdrl),
		format.AppendChunk(nil, format.MarkerJunk, make([]byte, 4)),
		format.AppendChunk(nil, format.MarkerList, movi),
		format.AppendChunk(nil, format.MarkerIdx1, make([]byte, 16)),
	)
}

func TestAVI_NestedLists(t *testing.T) {
	eng := newEngine(t, dissect.Options{})
	data := aviSample()

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, "avi", res.Format)
	require.Equal(t, len(data), res.Consumed)
	require.False(t, res.HasErrors())

	hdrl := res.Fields[3].Child
	require.Equal(t, "LIST hdrl", hdrl.Summary)
	require.Equal(t, []string{"avih", "LIST", "JUNK", "LIST", "idx1"}, chunkIDs(hdrl))

	var lists []string
	res.Walk(func(_ int, f *types.Field) {
		if f.Child != nil && f.Child.Format == string(format.TagList) {
			lists = append(lists, f.Child.Summary)
		}
	})
	require.Equal(t, []string{"LIST hdrl", "LIST strl", "LIST movi"}, lists)
}

func TestAVI_DepthGuardScopedToBranch(t *testing.T) {
	eng := newEngine(t, dissect.Options{MaxDepth: types.ShallowMaxDepth})

	res, err := eng.DissectAny(aviSample())
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	var tooDeep []string
	res.Walk(func(_ int, f *types.Field) {
		if f.Resolution == types.ResolutionTooDeep {
			tooDeep = append(tooDeep, f.Value.Str)
		}
	})
	require.Equal(t, []string{"strh", "00dc"}, tooDeep)

	hdrl := res.Fields[3].Child
	require.Equal(t, []string{"avih", "LIST", "JUNK", "LIST", "idx1"}, chunkIDs(hdrl),
		"siblings of the tripped branch are still decoded")

	summary := res.Summarize()
	require.Equal(t, 2, summary.Errors)
}

func TestAVI_DepthGuardKeepsLaterSiblings(t *testing.T) {
	eng := newEngine(t, dissect.Options{MaxDepth: types.ShallowMaxDepth})

	strl := append([]byte("strl"), format.AppendChunk(nil, "strh", make([]byte, 8))...)
	strl = format.AppendChunk(strl, "strf", make([]byte, 5))
	hdrl := format.AppendChunk([]byte("hdrl"), format.MarkerList, strl)
	data := format.BuildRIFF("AVI ", format.AppendChunk(nil, format.MarkerList, hdrl))

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.Consumed)

	var tooDeep []string
	res.Walk(func(_ int, f *types.Field) {
		if f.Resolution == types.ResolutionTooDeep {
			tooDeep = append(tooDeep, f.Value.Str)
		}
	})
	require.Equal(t, []string{"strh", "strf"}, tooDeep)

	list := mustField(t, res.Fields[3].Child, "chunk_id").Child
	require.Equal(t, "LIST strl", list.Summary)
	require.Equal(t, []string{"strh", "strf"}, chunkIDs(list))
	for _, a := range res.AllAnnotations() {
		require.NotEqual(t, types.CatTrailing, a.Category, a.String())
	}
	require.Equal(t, 2, res.Summarize().Errors)
}

func TestWAVE_FailedSiblingIsSkipped(t *testing.T) {
	eng := newEngine(t, dissect.Options{})

	data := format.BuildRIFF("WAVE",
		format.AppendChunk(nil, format.MarkerFmt, make([]byte, format.WaveFmtMinSize)),
		format.AppendChunk(nil, format.MarkerFact, []byte{1, 2}),
		format.AppendChunk(nil, format.MarkerData, make([]byte, 6)),
	)

	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.Consumed)

	wf := res.Fields[3].Child
	require.Equal(t, []string{"fact", "data"}, chunkIDs(wf))

	var resolutions []types.Resolution
	for _, f := range wf.Fields {
		if f.Name == "chunk_id" {
			resolutions = append(resolutions, f.Resolution)
		}
	}
	require.Equal(t, []types.Resolution{types.ResolutionFailed, types.ResolutionDecoded}, resolutions)

	notes := wf.AnnotationsBy(types.CatMalformed)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0].Err, "fact body is 2 bytes")
	require.Equal(t, 1, res.Summarize().Errors)
}

func TestWAVE_UnframeableSiblingStopsWalk(t *testing.T) {
	eng := newEngine(t, dissect.Options{})

	data := format.BuildRIFF("WAVE",
		format.AppendChunk(nil, format.MarkerFmt, make([]byte, format.WaveFmtMinSize)),
		format.AppendChunk(nil, format.MarkerData, make([]byte, 4)),
	)
	// Declare a data body larger than the file.
	format.PutU32(data, len(data)-8, 64)

	res, err := eng.DissectAny(data)
	require.NoError(t, err)

	wf := res.Fields[3].Child
	require.Equal(t, []string{"data"}, chunkIDs(wf))
	require.Equal(t, types.ResolutionFailed, wf.Fields[len(wf.Fields)-1].Resolution)
	require.Equal(t, len(data)-8, res.Consumed)
}

func TestRegister_ExtraDescriptor(t *testing.T) {
	acon := format.NewRIFFDescriptor("acon", "ANI", "application/x-navi-animation", []byte("ACON"),
		map[string]types.SubtypeTag{"anih": "acon.anih"})
	eng := newEngine(t, dissect.Options{}, acon)

	data := format.BuildRIFF("ACON", format.AppendChunk(nil, "anih", make([]byte, 36)))
	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	require.Equal(t, "acon", res.Format)
	require.Equal(t, types.ResolutionDecoded, res.Fields[3].Resolution)
	require.Equal(t, "acon.chunk_size", res.Fields[3].Child.Fields[0].Abbrev)
}

func TestRegister_KeepsHostDecoders(t *testing.T) {
	reg := dissect.NewRegistry()
	require.NoError(t, reg.RegisterFormat(format.WebP()))
	host := dissect.DecoderFunc(func(ctx *dissect.Context, cur *dissect.Cursor) (int, *types.Result, error) {
		return 0, nil, nil
	})
	require.NoError(t, reg.RegisterDecoder(format.TagLossy, host))
	require.NoError(t, Register(reg))

	dec, ok := reg.Decoder(format.TagLossy)
	require.True(t, ok)
	require.IsType(t, host, dec)

	frozen := dissect.NewRegistry()
	frozen.Freeze()
	require.ErrorIs(t, Register(frozen), types.ErrRegistryFrozen)
}
