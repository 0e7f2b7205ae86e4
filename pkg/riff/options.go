package riff

import (
	"github.com/rs/zerolog"

	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/pkg/types"
)

// Result is a dissection tree (re-exported for convenience).
type Result = types.Result

// Annotation is a non-fatal finding (re-exported for convenience).
type Annotation = types.Annotation

// Descriptor is a container format schema (re-exported for convenience).
type Descriptor = types.Descriptor

// Limits bounds dissection work (re-exported for convenience).
type Limits = types.Limits

// Options controls how a Dissector is assembled. Unlike Config it holds
// runtime objects, not values read from a file.
type Options struct {
	// Logger receives debug-level dispatch decisions.
	// Default: logging.L
	Logger *zerolog.Logger

	// Columns receives one summary row per top-level dissection.
	Columns dissect.ColumnReporter

	// Decoders are bound before the built-in chunk decoders and take
	// precedence over them.
	Decoders map[types.SubtypeTag]dissect.Decoder
}
