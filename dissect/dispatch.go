package dissect

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/joshuapare/riffkit/pkg/types"
)

// Decoder interprets the payload of one subtype.
//
// Decode receives a cursor positioned at the first payload byte and limited
// to the bytes left in the enclosing region. It returns how many bytes it
// consumed (0 <= consumed <= cur.Len()) and the fields it decoded. Bytes past
// consumed stay with the enclosing container. A returned error marks the
// payload as malformed; a partial result returned alongside it is kept.
type Decoder interface {
	Decode(ctx *Context, cur *Cursor) (consumed int, res *types.Result, err error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx *Context, cur *Cursor) (int, *types.Result, error)

// Decode calls f(ctx, cur).
func (f DecoderFunc) Decode(ctx *Context, cur *Cursor) (int, *types.Result, error) {
	return f(ctx, cur)
}

// Context carries per-branch dissection state into decoders: the active
// descriptor, the subtype being decoded, and the remaining depth budget.
// A Context is never shared between branches.
type Context struct {
	engine *Engine
	desc   *types.Descriptor
	tag    types.SubtypeTag
	depth  int
	level  int
}

// Descriptor is the container descriptor being dissected.
func (c *Context) Descriptor() *types.Descriptor { return c.desc }

// Tag is the subtype tag this context was created for (Unrecognized at the
// container level).
func (c *Context) Tag() types.SubtypeTag { return c.tag }

// Depth is the number of nested decoder invocations still allowed.
func (c *Context) Depth() int { return c.depth }

// Level is the nesting level of the decoder holding this context: 1 for the
// decoder of the container payload, 2 for anything it dispatches, and so on.
func (c *Context) Level() int { return c.level }

// Logger returns the engine's logger.
func (c *Context) Logger() *zerolog.Logger { return &c.engine.log }

// Resolve maps a marker to a tag using the active descriptor's table.
func (c *Context) Resolve(marker []byte) types.SubtypeTag {
	return c.desc.Resolve(marker)
}

// NewResult creates a result for the current subtype anchored at cur.
func (c *Context) NewResult(cur *Cursor) *types.Result {
	return types.NewResult(string(c.tag), cur.Abs())
}

// DispatchField runs the decoder registered for tag over the unread bytes of
// cur and records the outcome on res.Fields[idx], which is normally the field
// holding the marker that produced tag.
//
//   - tag is Unrecognized: the marker is kept as-is, an info annotation is
//     added, and nil is returned.
//   - no decoder is registered for tag: same, with ResolutionNoDecoder.
//   - the depth budget is spent: ResolutionTooDeep, an error annotation, and
//     an error wrapping types.ErrTooDeep.
//   - the decoder fails: ResolutionFailed, an error annotation, any partial
//     result attached, the cursor left in place, and the decoder's error.
//   - the decoder succeeds: its result becomes the field's Child and cur
//     advances by exactly the consumed length.
func (c *Context) DispatchField(res *types.Result, idx int, tag types.SubtypeTag, cur *Cursor) error {
	field := &res.Fields[idx]
	log := c.engine.log.With().Str("format", c.desc.Name).Str("tag", string(tag)).Int("offset", cur.Abs()).Logger()

	if tag == types.Unrecognized {
		field.Resolution = types.ResolutionUnrecognized
		res.Annotate(types.Annotation{
			Severity:  types.SevInfo,
			Category:  types.CatUnrecognized,
			Offset:    field.Offset,
			Structure: field.Name,
			Issue:     "unrecognized subtype marker",
			Actual:    field.Value.Str,
		})
		log.Debug().Str("marker", field.Value.Str).Msg("unrecognized marker")
		return nil
	}

	dec, ok := c.engine.reg.Decoder(tag)
	if !ok {
		field.Resolution = types.ResolutionNoDecoder
		res.Annotate(types.Annotation{
			Severity:  types.SevInfo,
			Category:  types.CatNoDecoder,
			Offset:    field.Offset,
			Structure: string(tag),
			Issue:     "no decoder registered",
		})
		log.Debug().Msg("no decoder registered")
		return nil
	}

	if c.depth <= 0 {
		err := types.Errorf(types.ErrKindTooDeep, "dispatch %q at offset %d: %w", tag, cur.Abs(), types.ErrTooDeep)
		field.Resolution = types.ResolutionTooDeep
		res.Annotate(types.Annotation{
			Severity:  types.SevError,
			Category:  types.CatTooDeep,
			Offset:    cur.Abs(),
			Structure: string(tag),
			Issue:     "nesting depth exhausted",
			Err:       err.Error(),
		})
		log.Debug().Msg("depth exhausted")
		return err
	}

	child := &Context{engine: c.engine, desc: c.desc, tag: tag, depth: c.depth - 1, level: c.level + 1}
	payload := cur.Rest()
	consumed, sub, err := dec.Decode(child, payload)
	if err == nil && (consumed < 0 || consumed > payload.Len()) {
		err = types.Errorf(types.ErrKindMalformed,
			"decoder %q reported %d consumed bytes of %d available: %w", tag, consumed, payload.Len(), types.ErrMalformed)
	}
	if err != nil {
		cat, resolution := types.CatMalformed, types.ResolutionFailed
		if errors.Is(err, types.ErrTooDeep) {
			cat, resolution = types.CatTooDeep, types.ResolutionTooDeep
		}
		field.Resolution = resolution
		field.Child = sub
		res.Annotate(types.Annotation{
			Severity:  types.SevError,
			Category:  cat,
			Offset:    cur.Abs(),
			Structure: string(tag),
			Issue:     "sub-payload could not be decoded",
			Err:       err.Error(),
		})
		log.Debug().Err(err).Msg("decoder failed")
		return err
	}

	if sub == nil {
		sub = child.NewResult(payload)
	}
	sub.Offset = payload.Base()
	sub.Consumed = consumed
	field.Child = sub
	field.Resolution = types.ResolutionDecoded
	_ = cur.Skip(consumed)
	log.Debug().Int("consumed", consumed).Msg("decoded")
	return nil
}
