package types

// ============================================================================
// Dissection Limits
// ============================================================================
// Nested sub-dissection is bounded by a depth budget that each dispatch
// decrements. Buffers above MaxBufferSize are rejected by the file-level
// helpers before any parsing happens.

const (
	// DefaultMaxDepth allows a container, its subtype payload, and a few
	// levels of nested chunk lists (RIFF LIST inside LIST).
	DefaultMaxDepth = 8

	// ShallowMaxDepth dispatches the subtype payload and one nested level.
	ShallowMaxDepth = 2

	// DeepMaxDepth is a relaxed budget for pathological but legitimate
	// AVI files with deeply nested LIST chunks.
	DeepMaxDepth = 64

	// DefaultMaxBufferSize matches the largest size a 32-bit RIFF size
	// field can describe, plus the 8-byte chunk header.
	DefaultMaxBufferSize = 1<<32 - 1 + 8

	// StrictMaxBufferSize is a conservative ceiling for scanning untrusted
	// blobs (64 MB).
	StrictMaxBufferSize = 64 << 20
)

// Limits bounds the work a single dissection may perform.
type Limits struct {
	// MaxDepth is the number of nested dispatches allowed. The top-level
	// subtype dispatch counts as the first.
	MaxDepth int

	// MaxBufferSize is the largest buffer the file helpers will map.
	MaxBufferSize int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:      DefaultMaxDepth,
		MaxBufferSize: DefaultMaxBufferSize,
	}
}

// StrictLimits returns conservative limits for untrusted input.
func StrictLimits() Limits {
	return Limits{
		MaxDepth:      ShallowMaxDepth,
		MaxBufferSize: StrictMaxBufferSize,
	}
}

// LimitsByName returns the preset called "default", "strict" or "relaxed".
func LimitsByName(name string) (Limits, bool) {
	switch name {
	case "default":
		return DefaultLimits(), true
	case "strict":
		return StrictLimits(), true
	case "relaxed":
		return RelaxedLimits(), true
	default:
		return Limits{}, false
	}
}

// RelaxedLimits returns permissive limits for deeply nested containers.
func RelaxedLimits() Limits {
	return Limits{
		MaxDepth:      DeepMaxDepth,
		MaxBufferSize: DefaultMaxBufferSize,
	}
}
