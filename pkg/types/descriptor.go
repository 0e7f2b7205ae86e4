package types

import "fmt"

// FieldRule selects how a fixed-header field is decoded.
type FieldRule int

const (
	// RuleTag exposes the bytes verbatim as an ASCII string.
	RuleTag FieldRule = iota
	// RuleUintLE decodes a little-endian unsigned integer of the field width.
	RuleUintLE
)

func (r FieldRule) String() string {
	switch r {
	case RuleTag:
		return "tag"
	case RuleUintLE:
		return "uint-le"
	default:
		return "unknown"
	}
}

// FieldSpec declares one fixed-header field: (name, byte length, decode rule).
type FieldSpec struct {
	Name   string
	Abbrev string // display-filter style name, e.g. "webp.file_size"
	Length int
	Rule   FieldRule
}

// Descriptor is the static schema of one container format. Descriptors are
// immutable once registered.
//
// For the RIFF family the layout is:
//
//	Offset  Size  Field
//	0x00    4     container magic ('R' 'I' 'F' 'F')
//	0x04    4     declared size (u32 LE, file size minus 8)
//	0x08    4     format marker (e.g. 'W' 'E' 'B' 'P')
//	0x0C    4     subtype marker, looked up in Subtypes
//	0x10    ...   subtype payload, dispatched to a decoder
type Descriptor struct {
	Name        string // registry key, e.g. "webp"
	DisplayName string // protocol column text, e.g. "WEBP"
	MediaType   string // e.g. "image/webp"; optional

	Magic        []byte
	MagicOffset  int
	Marker       []byte
	MarkerOffset int

	// Header lists the fixed fields in parse order. They must be contiguous
	// from offset 0 and end at SubtypeOffset.
	Header []FieldSpec

	SubtypeOffset int
	SubtypeLength int
	SubtypeName   string
	SubtypeAbbrev string

	// Subtypes maps raw marker bytes (as a string) to a subtype tag.
	Subtypes map[string]SubtypeTag

	// SizeField names the header field holding the declared payload size.
	// The declared size plus SizeBias should equal the buffer length.
	SizeField string
	SizeBias  int
}

// MinHeaderLen is the number of bytes required before dispatch can start:
// the end of the subtype marker.
func (d *Descriptor) MinHeaderLen() int {
	return d.SubtypeOffset + d.SubtypeLength
}

// Resolve looks marker up with exact byte equality. Unknown markers resolve
// to Unrecognized.
func (d *Descriptor) Resolve(marker []byte) SubtypeTag {
	if tag, ok := d.Subtypes[string(marker)]; ok {
		return tag
	}
	return Unrecognized
}

// Tags returns the subtype tags declared by d.
func (d *Descriptor) Tags() []SubtypeTag {
	out := make([]SubtypeTag, 0, len(d.Subtypes))
	for _, tag := range d.Subtypes {
		out = append(out, tag)
	}
	return out
}

// Validate checks the descriptor for internal consistency.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}
	if len(d.Magic) == 0 || len(d.Marker) == 0 {
		return fmt.Errorf("%w: %s: magic and marker are required", ErrInvalidDescriptor, d.Name)
	}
	if d.MagicOffset < 0 || d.MarkerOffset < 0 {
		return fmt.Errorf("%w: %s: negative signature offset", ErrInvalidDescriptor, d.Name)
	}
	if d.SubtypeLength <= 0 {
		return fmt.Errorf("%w: %s: subtype length must be positive", ErrInvalidDescriptor, d.Name)
	}
	if d.MagicOffset+len(d.Magic) > d.MinHeaderLen() || d.MarkerOffset+len(d.Marker) > d.MinHeaderLen() {
		return fmt.Errorf("%w: %s: signatures extend past the subtype marker", ErrInvalidDescriptor, d.Name)
	}

	off := 0
	sizeSeen := d.SizeField == ""
	for _, f := range d.Header {
		if f.Length <= 0 {
			return fmt.Errorf("%w: %s: field %q has length %d", ErrInvalidDescriptor, d.Name, f.Name, f.Length)
		}
		if f.Rule == RuleUintLE {
			switch f.Length {
			case 1, 2, 3, 4, 8:
			default:
				return fmt.Errorf("%w: %s: field %q has unsupported integer width %d",
					ErrInvalidDescriptor, d.Name, f.Name, f.Length)
			}
		}
		if f.Name == d.SizeField {
			if f.Rule != RuleUintLE {
				return fmt.Errorf("%w: %s: size field %q is not an integer", ErrInvalidDescriptor, d.Name, f.Name)
			}
			sizeSeen = true
		}
		off += f.Length
	}
	if off != d.SubtypeOffset {
		return fmt.Errorf("%w: %s: header ends at %d, subtype marker at %d",
			ErrInvalidDescriptor, d.Name, off, d.SubtypeOffset)
	}
	if !sizeSeen {
		return fmt.Errorf("%w: %s: size field %q not in header", ErrInvalidDescriptor, d.Name, d.SizeField)
	}
	for marker := range d.Subtypes {
		if len(marker) != d.SubtypeLength {
			return fmt.Errorf("%w: %s: subtype marker %q is not %d bytes",
				ErrInvalidDescriptor, d.Name, marker, d.SubtypeLength)
		}
	}
	return nil
}
