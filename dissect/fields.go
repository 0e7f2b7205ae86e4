package dissect

import (
	"github.com/joshuapare/riffkit/internal/buf"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// ReadField reads one field described by spec from cur and appends it to
// res. It returns the index of the new field. On failure nothing is appended
// and the cursor does not move.
func ReadField(cur *Cursor, res *types.Result, spec types.FieldSpec) (int, error) {
	off := cur.Abs()
	raw, err := cur.Peek(spec.Length)
	if err != nil {
		return -1, err
	}
	var v types.Value
	switch spec.Rule {
	case types.RuleTag:
		v = types.StringValue(format.TagString(raw), raw)
	case types.RuleUintLE:
		n, ok := buf.UintLE(raw, spec.Length)
		if !ok {
			return -1, types.Errorf(types.ErrKindMalformed,
				"field %q: unsupported integer width %d: %w", spec.Name, spec.Length, types.ErrMalformed)
		}
		v = types.UintValue(n, raw)
	default:
		return -1, types.Errorf(types.ErrKindMalformed, "field %q: unknown rule %v: %w", spec.Name, spec.Rule, types.ErrMalformed)
	}
	_ = cur.Skip(spec.Length)
	return res.Add(types.Field{
		Name:   spec.Name,
		Abbrev: spec.Abbrev,
		Offset: off,
		Length: spec.Length,
		Value:  v,
	}), nil
}

// ReadTag reads a four-character code field.
func ReadTag(cur *Cursor, res *types.Result, name, abbrev string) (int, error) {
	return ReadField(cur, res, types.FieldSpec{Name: name, Abbrev: abbrev, Length: format.TagSize, Rule: types.RuleTag})
}

// ReadUintLE reads a little-endian integer field of the given width.
func ReadUintLE(cur *Cursor, res *types.Result, name, abbrev string, width int) (int, error) {
	return ReadField(cur, res, types.FieldSpec{Name: name, Abbrev: abbrev, Length: width, Rule: types.RuleUintLE})
}

// ReadBytes records n opaque bytes as a field.
func ReadBytes(cur *Cursor, res *types.Result, name, abbrev string, n int) (int, error) {
	off := cur.Abs()
	raw, err := cur.Read(n)
	if err != nil {
		return -1, err
	}
	return res.Add(types.Field{
		Name:   name,
		Abbrev: abbrev,
		Offset: off,
		Length: n,
		Value:  types.BytesValue(raw),
	}), nil
}
