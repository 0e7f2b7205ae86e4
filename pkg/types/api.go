package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindTruncated ErrKind = iota // buffer too short for a required fixed-size read
	ErrKindMalformed                // a decoder rejected its sub-payload
	ErrKindTooDeep                  // nesting guard tripped
	ErrKindFormat                   // buffer matches no registered container format
	ErrKindState                    // invalid operation for current state (e.g., frozen registry)
	ErrKindConfig                   // invalid descriptor or registration
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTruncated:
		return "truncated"
	case ErrKindMalformed:
		return "malformed"
	case ErrKindTooDeep:
		return "too-deep"
	case ErrKindFormat:
		return "format"
	case ErrKindState:
		return "state"
	case ErrKindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause

	// formatted marks messages built by Errorf, which already include Err.
	formatted bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil && !e.formatted {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error of the given kind with a formatted message. A %w
// verb in format is preserved as the underlying cause.
func Errorf(kind ErrKind, format string, args ...any) error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Msg: wrapped.Error(), Err: unwrapOnce(wrapped), formatted: true}
}

func unwrapOnce(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}

// Sentinels commonly returned by the engine and decoders.
var (
	// ErrTruncated indicates a required fixed-size read ran past the buffer.
	ErrTruncated = &Error{Kind: ErrKindTruncated, Msg: "truncated buffer"}
	// ErrMalformed indicates a decoder rejected its sub-payload.
	ErrMalformed = &Error{Kind: ErrKindMalformed, Msg: "malformed sub-payload"}
	// ErrTooDeep indicates the nesting-depth guard rejected a dispatch.
	ErrTooDeep = &Error{Kind: ErrKindTooDeep, Msg: "maximum nesting depth exceeded"}
	// ErrUnknownFormat indicates no registered container format accepted the buffer.
	ErrUnknownFormat = &Error{Kind: ErrKindFormat, Msg: "no registered container format matches"}
	// ErrRegistryFrozen indicates a registration after the registry was frozen.
	ErrRegistryFrozen = &Error{Kind: ErrKindState, Msg: "registry is frozen"}
	// ErrInvalidDescriptor indicates a container descriptor failed validation.
	ErrInvalidDescriptor = &Error{Kind: ErrKindConfig, Msg: "invalid container descriptor"}
	// ErrDuplicate indicates a format name or subtype tag registered twice.
	ErrDuplicate = &Error{Kind: ErrKindConfig, Msg: "already registered"}
	// ErrInvalidDecoder indicates a decoder registration with a nil decoder or
	// the Unrecognized tag.
	ErrInvalidDecoder = &Error{Kind: ErrKindConfig, Msg: "invalid decoder registration"}
)

// -----------------------------------------------------------------------------
// Subtype tags and resolution
// -----------------------------------------------------------------------------

// SubtypeTag names an embedded payload type. Tags are the keys of the decoder
// registry, so they must be unique across all registered descriptors.
type SubtypeTag string

// Unrecognized is the tag assigned to a subtype marker absent from the
// descriptor's subtype table. It is a terminal state, not an error.
const Unrecognized SubtypeTag = ""

// Resolution records what happened to a marker during dispatch.
type Resolution int

const (
	ResolutionNone         Resolution = iota // field is not a subtype marker
	ResolutionDecoded                        // decoder ran and succeeded
	ResolutionFailed                         // decoder ran and rejected the payload
	ResolutionNoDecoder                      // marker known, no decoder registered
	ResolutionUnrecognized                   // marker absent from the subtype table
	ResolutionTooDeep                        // nesting guard refused the dispatch
)

func (r Resolution) String() string {
	switch r {
	case ResolutionNone:
		return ""
	case ResolutionDecoded:
		return "decoded"
	case ResolutionFailed:
		return "failed"
	case ResolutionNoDecoder:
		return "no-decoder"
	case ResolutionUnrecognized:
		return "unrecognized"
	case ResolutionTooDeep:
		return "too-deep"
	default:
		return "unknown"
	}
}

// MarshalText renders the resolution by name in JSON output.
func (r Resolution) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// -----------------------------------------------------------------------------
// Result tree
// -----------------------------------------------------------------------------

// ValueKind identifies which member of Value is meaningful.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindUint
	KindBytes
)

// Value is a decoded field value. Raw always aliases the bytes the value was
// decoded from (nil for KindNone).
type Value struct {
	Kind ValueKind `json:"-"`
	Str  string    `json:"str,omitempty"`
	Uint uint64    `json:"uint,omitempty"`
	Raw  []byte    `json:"-"`
}

// StringValue wraps a string decoded from raw.
func StringValue(s string, raw []byte) Value { return Value{Kind: KindString, Str: s, Raw: raw} }

// UintValue wraps an integer decoded from raw.
func UintValue(v uint64, raw []byte) Value { return Value{Kind: KindUint, Uint: v, Raw: raw} }

// BytesValue wraps an opaque byte range.
func BytesValue(raw []byte) Value { return Value{Kind: KindBytes, Raw: raw} }

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindUint:
		return fmt.Sprintf("%d", v.Uint)
	case KindBytes:
		return fmt.Sprintf("%d bytes", len(v.Raw))
	default:
		return ""
	}
}

// Field is one node of the dissection tree. Offset is absolute within the
// top-level buffer.
type Field struct {
	Name       string     `json:"name"`
	Abbrev     string     `json:"abbrev,omitempty"`
	Offset     int        `json:"offset"`
	Length     int        `json:"length"`
	Value      Value      `json:"value"`
	Resolution Resolution `json:"resolution,omitempty"`
	Child      *Result    `json:"child,omitempty"`
}

// Result is the structured output of one dissection (or one nested decoder
// invocation). Fields are ordered as they were read.
type Result struct {
	Format      string       `json:"format"`
	Protocol    string       `json:"protocol,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Offset      int          `json:"offset"`
	Consumed    int          `json:"consumed"`
	Fields      []Field      `json:"fields"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// NewResult creates an empty result anchored at the absolute offset off.
func NewResult(format string, off int) *Result {
	return &Result{Format: format, Offset: off}
}

// Add appends a field and returns its index so callers can attach children
// or resolutions later.
func (r *Result) Add(f Field) int {
	r.Fields = append(r.Fields, f)
	return len(r.Fields) - 1
}

// Field returns the first field with the given name.
func (r *Result) Field(name string) (*Field, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// Annotate appends a non-fatal finding.
func (r *Result) Annotate(a Annotation) {
	r.Annotations = append(r.Annotations, a)
}

// AnnotationsBy returns the annotations of one category, in recording order.
func (r *Result) AnnotationsBy(cat Category) []Annotation {
	var out []Annotation
	for _, a := range r.Annotations {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

// HasErrors reports whether this result or any nested result carries an
// error-severity annotation.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, a := range r.Annotations {
		if a.Severity >= SevError {
			return true
		}
	}
	for i := range r.Fields {
		if r.Fields[i].Child.HasErrors() {
			return true
		}
	}
	return false
}

// Walk visits every field depth-first with its nesting depth.
func (r *Result) Walk(fn func(depth int, f *Field)) {
	r.walk(0, fn)
}

func (r *Result) walk(depth int, fn func(int, *Field)) {
	if r == nil {
		return
	}
	for i := range r.Fields {
		fn(depth, &r.Fields[i])
		r.Fields[i].Child.walk(depth+1, fn)
	}
}
