package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChunkOverrun indicates a chunk declared a body larger than the bytes left.
	ErrChunkOverrun = errors.New("format: chunk body overruns buffer")
)
