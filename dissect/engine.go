package dissect

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joshuapare/riffkit/internal/buf"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// ColumnReporter receives the one-line summary of each top-level dissection,
// e.g. for a capture list's protocol and info columns.
type ColumnReporter interface {
	Report(protocol, summary string)
}

// Options controls engine behavior.
type Options struct {
	// MaxDepth is the nested dispatch budget. The top-level subtype dispatch
	// spends the first unit.
	// Default: types.DefaultMaxDepth
	MaxDepth int

	// CheckDeclaredSize compares the descriptor's size field with the buffer
	// length and records a warning on mismatch. The size is never used to
	// bound parsing.
	// Default: false
	CheckDeclaredSize bool

	// Columns, when set, is called after every successful Dissect.
	Columns ColumnReporter

	// Logger receives debug-level dispatch decisions.
	// Default: zerolog.Nop()
	Logger *zerolog.Logger
}

// Engine dissects buffers against a frozen Registry. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	reg  *Registry
	opts Options
	log  zerolog.Logger
}

// NewEngine freezes reg and returns an engine over it.
func NewEngine(reg *Registry, opts Options) *Engine {
	reg.Freeze()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = types.DefaultMaxDepth
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Engine{reg: reg, opts: opts, log: log}
}

// Registry returns the engine's (frozen) registry.
func (e *Engine) Registry() *Registry { return e.reg }

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// DissectAny probes every registered format in order and dissects data with
// the first one that accepts it. It fails with types.ErrUnknownFormat when no
// format matches.
func (e *Engine) DissectAny(data []byte) (*types.Result, error) {
	d, ok := e.reg.Detect(data)
	if !ok {
		return nil, types.Errorf(types.ErrKindFormat, "dissect %d bytes: %w", len(data), types.ErrUnknownFormat)
	}
	return e.Dissect(d, data)
}

// DissectFormat dissects data with the descriptor registered under name.
func (e *Engine) DissectFormat(name string, data []byte) (*types.Result, error) {
	d, ok := e.reg.Format(name)
	if !ok {
		return nil, types.Errorf(types.ErrKindFormat, "format %q: %w", name, types.ErrUnknownFormat)
	}
	return e.Dissect(d, data)
}

// Dissect parses data as a container described by d.
//
// It fails only when data is shorter than d.MinHeaderLen(), with
// types.ErrTruncated and a nil result. Every later problem is recorded as an
// annotation on the returned result. Dissect never reads past len(data) and
// never modifies it.
func (e *Engine) Dissect(d *types.Descriptor, data []byte) (*types.Result, error) {
	if len(data) < d.MinHeaderLen() {
		return nil, types.Errorf(types.ErrKindTruncated,
			"%s header: need %d bytes, have %d: %w", d.Name, d.MinHeaderLen(), len(data), types.ErrTruncated)
	}

	cur := NewCursor(data)
	res := types.NewResult(d.Name, 0)
	res.Protocol = d.DisplayName

	for _, spec := range d.Header {
		if _, err := ReadField(cur, res, spec); err != nil {
			return nil, fmt.Errorf("%s header field %q: %w", d.Name, spec.Name, err)
		}
	}
	e.checkSignatures(d, data, res)
	if e.opts.CheckDeclaredSize {
		e.checkDeclaredSize(d, data, res)
	}

	// The header fields are contiguous up to SubtypeOffset (Validate), so the
	// cursor already sits on the subtype marker.
	idx, err := ReadField(cur, res, types.FieldSpec{
		Name:   d.SubtypeName,
		Abbrev: d.SubtypeAbbrev,
		Length: d.SubtypeLength,
		Rule:   types.RuleTag,
	})
	if err != nil {
		return nil, fmt.Errorf("%s subtype marker: %w", d.Name, err)
	}
	marker := res.Fields[idx].Value
	res.Summary = "File Type: " + marker.Str
	tag := d.Resolve(marker.Raw)

	ctx := &Context{engine: e, desc: d, depth: e.opts.MaxDepth}
	// Failures are already recorded on res; they never abort the container.
	_ = ctx.DispatchField(res, idx, tag, cur)

	if res.Fields[idx].Resolution == types.ResolutionDecoded && cur.Remaining() > 0 {
		res.Annotate(types.Annotation{
			Severity:  types.SevInfo,
			Category:  types.CatTrailing,
			Offset:    cur.Abs(),
			Structure: d.Name,
			Issue:     fmt.Sprintf("%d bytes after the subtype payload", cur.Remaining()),
		})
	}
	res.Consumed = cur.Pos()

	e.log.Debug().Str("format", d.Name).Str("summary", res.Summary).Int("consumed", res.Consumed).
		Int("annotations", len(res.Annotations)).Msg("dissected")
	if e.opts.Columns != nil {
		e.opts.Columns.Report(res.Protocol, res.Summary)
	}
	return res, nil
}

// checkSignatures records a warning when an explicitly chosen descriptor
// does not match the buffer's magic or marker.
func (e *Engine) checkSignatures(d *types.Descriptor, data []byte, res *types.Result) {
	check := func(name string, off int, want []byte) {
		got, ok := buf.Slice(data, off, len(want))
		if ok && string(got) == string(want) {
			return
		}
		res.Annotate(types.Annotation{
			Severity:  types.SevWarning,
			Category:  types.CatSignature,
			Offset:    off,
			Structure: name,
			Issue:     "signature mismatch",
			Expected:  format.TagString(want),
			Actual:    format.TagString(got),
			Err:       fmt.Errorf("%s at offset %d: %w", name, off, format.ErrSignatureMismatch).Error(),
		})
	}
	check("magic", d.MagicOffset, d.Magic)
	check("marker", d.MarkerOffset, d.Marker)
}

// checkDeclaredSize compares the size field with the buffer length. The
// declared size is advisory: a mismatch is a warning, never a failure.
func (e *Engine) checkDeclaredSize(d *types.Descriptor, data []byte, res *types.Result) {
	if d.SizeField == "" {
		return
	}
	f, ok := res.Field(d.SizeField)
	if !ok {
		return
	}
	if len(data) < d.SizeBias {
		res.Annotate(types.Annotation{
			Severity:  types.SevWarning,
			Category:  types.CatSizeMismatch,
			Offset:    f.Offset,
			Structure: f.Name,
			Issue:     fmt.Sprintf("buffer is shorter than the %d-byte size bias", d.SizeBias),
			Actual:    len(data),
		})
		return
	}
	if want := uint64(len(data) - d.SizeBias); f.Value.Uint != want {
		res.Annotate(types.Annotation{
			Severity:  types.SevWarning,
			Category:  types.CatSizeMismatch,
			Offset:    f.Offset,
			Structure: f.Name,
			Issue:     "declared size does not match buffer length",
			Expected:  want,
			Actual:    f.Value.Uint,
		})
	}
}
