package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// dissectSample runs the engine over a WebP VP8X file with a decoder that
// records the whole payload as one opaque field.
func dissectSample(t *testing.T, opts dissect.Options) *types.Result {
	t.Helper()

	reg := dissect.NewRegistry()
	require.NoError(t, reg.RegisterFormat(format.WebP()))
	require.NoError(t, reg.RegisterDecoder(format.TagExtended, dissect.DecoderFunc(
		func(ctx *dissect.Context, cur *dissect.Cursor) (int, *types.Result, error) {
			res := ctx.NewResult(cur)
			_, err := dissect.ReadBytes(cur, res, "payload", "webp.payload", cur.Len())
			return cur.Pos(), res, err
		})))
	eng := dissect.NewEngine(reg, opts)

	payload := bytes.Repeat([]byte{0xAB}, 20)
	data := format.BuildRIFF("WEBP", append([]byte(format.MarkerVP8X), payload...))
	res, err := eng.DissectAny(data)
	require.NoError(t, err)
	return res
}

func TestPrinter_Render_Text(t *testing.T) {
	res := dissectSample(t, dissect.Options{})

	var buf bytes.Buffer
	p := New(&buf, DefaultOptions()).WithSource("sample.webp")
	require.NoError(t, p.Render(res))

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	require.True(t, strings.HasPrefix(output, "sample.webp: WEBP  File Type: VP8X  (36 bytes)\n"))
	require.Contains(t, output, `[0x00000000] magic = "RIFF" (webp.riff_marker)`)
	require.Contains(t, output, "[0x00000004] size = 28 (0x1C) (webp.file_size)")
	require.Contains(t, output, `[0x0000000C] subtype = "VP8X" (webp.subtype) [decoded]`)
	require.Contains(t, output, "webp.extended: 20 bytes at 0x00000010")
	require.Contains(t, output, "payload = ABABABABABABABABABABABABABABABAB... (20 bytes)")
	require.NotContains(t, output, "Annotations:")
}

func TestPrinter_Render_TextOptions(t *testing.T) {
	res := dissectSample(t, dissect.Options{})

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowAbbrevs = false
	opts.MaxDepth = 1
	opts.MaxValueBytes = 0
	require.NoError(t, New(&buf, opts).Render(res))

	output := buf.String()
	require.NotContains(t, output, "webp.riff_marker")
	require.NotContains(t, output, "payload =", "nested results are cut at MaxDepth")
}

// nestedSample builds root -> LIST hdrl -> LIST strl -> strh.
func nestedSample() *types.Result {
	leaf := types.NewResult("riff.chunk", 36)
	leaf.Add(types.Field{Name: "leaf_size", Offset: 36, Length: 4, Value: types.UintValue(8, nil)})

	strl := types.NewResult("riff.list", 24)
	i := strl.Add(types.Field{Name: "strl_id", Offset: 32, Length: 4, Value: types.StringValue("strh", nil)})
	strl.Fields[i].Child = leaf

	hdrl := types.NewResult("riff.list", 16)
	i = hdrl.Add(types.Field{Name: "hdrl_id", Offset: 20, Length: 4, Value: types.StringValue("LIST", nil)})
	hdrl.Fields[i].Child = strl

	root := types.NewResult("avi", 0)
	i = root.Add(types.Field{Name: "subtype", Offset: 12, Length: 4, Value: types.StringValue("LIST", nil)})
	root.Fields[i].Child = hdrl
	return root
}

func TestPrinter_Render_MaxDepthCountsNestedResults(t *testing.T) {
	render := func(fm Format, maxDepth int) string {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.Format = fm
		opts.MaxDepth = maxDepth
		require.NoError(t, New(&buf, opts).Render(nestedSample()))
		return buf.String()
	}

	tests := []struct {
		maxDepth int
		want     []string
		wantNot  []string
	}{
		{1, []string{"subtype"}, []string{"hdrl_id", "strl_id", "leaf_size"}},
		{2, []string{"hdrl_id"}, []string{"strl_id", "leaf_size"}},
		{3, []string{"hdrl_id", "strl_id"}, []string{"leaf_size"}},
		{0, []string{"hdrl_id", "strl_id", "leaf_size"}, nil},
	}
	for _, tt := range tests {
		for _, f := range []Format{FormatText, FormatJSON} {
			out := render(f, tt.maxDepth)
			for _, s := range tt.want {
				require.Contains(t, out, s, "%s MaxDepth=%d", f, tt.maxDepth)
			}
			for _, s := range tt.wantNot {
				require.NotContains(t, out, s, "%s MaxDepth=%d", f, tt.maxDepth)
			}
		}
	}
}

func TestPrinter_Render_Annotations(t *testing.T) {
	reg := dissect.NewRegistry()
	require.NoError(t, reg.RegisterFormat(format.WebP()))
	eng := dissect.NewEngine(reg, dissect.Options{CheckDeclaredSize: true})

	data := format.BuildRIFF("WEBP", []byte("VP8Z"))
	data[4] = 0xFF
	res, err := eng.DissectAny(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Render(res))
	output := buf.String()
	require.Contains(t, output, "Annotations:")
	require.Contains(t, output, "SIZE_MISMATCH")
	require.Contains(t, output, "UNRECOGNIZED")
	require.Contains(t, output, "[unrecognized]")
}

func TestPrinter_Render_JSON(t *testing.T) {
	res := dissectSample(t, dissect.Options{})

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.MaxValueBytes = 4
	require.NoError(t, New(&buf, opts).WithSource("sample.webp").Render(res))

	// Verify it's valid JSON
	var doc struct {
		Source   string `json:"source"`
		Protocol string `json:"protocol"`
		Summary  string `json:"summary"`
		Consumed int    `json:"consumed"`
		Fields   []struct {
			Name       string `json:"name"`
			Abbrev     string `json:"abbrev"`
			Value      any    `json:"value"`
			Resolution string `json:"resolution"`
			Child      *struct {
				Format string `json:"format"`
				Fields []struct {
					Value string `json:"value"`
				} `json:"fields"`
			} `json:"child"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "sample.webp", doc.Source)
	require.Equal(t, "WEBP", doc.Protocol)
	require.Equal(t, "File Type: VP8X", doc.Summary)
	require.Equal(t, 36, doc.Consumed)
	require.Len(t, doc.Fields, 4)
	require.Equal(t, "webp.file_size", doc.Fields[1].Abbrev)
	require.Equal(t, float64(28), doc.Fields[1].Value)
	require.Equal(t, "decoded", doc.Fields[3].Resolution)
	require.NotNil(t, doc.Fields[3].Child)
	require.Equal(t, "webp.extended", doc.Fields[3].Child.Format)
	require.Equal(t, "abababab", doc.Fields[3].Child.Fields[0].Value)
}

func TestPrinter_Render_Nil(t *testing.T) {
	require.Error(t, New(&bytes.Buffer{}, DefaultOptions()).Render(nil))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	_, err = ParseFormat("reg")
	require.Error(t, err)
}

func TestColumns_ReportFromEngine(t *testing.T) {
	var buf bytes.Buffer
	cols := NewColumns(&buf)
	dissectSample(t, dissect.Options{Columns: cols})

	require.Equal(t, 1, cols.Rows())
	require.NoError(t, cols.Err())
	require.Equal(t, "1      WEBP     File Type: VP8X\n", buf.String())
}

func TestColumns_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	cols := NewColumns(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cols.Report("WAVE", "File Type: fmt ")
		}()
	}
	wg.Wait()
	require.Equal(t, 16, cols.Rows())
	require.Equal(t, 16, strings.Count(buf.String(), "\n"))
}
