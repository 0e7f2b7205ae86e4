// Package dissect is the container dissection engine.
//
// # Overview
//
// A host builds a Registry once at startup: container descriptors
// (RegisterFormat) and subtype decoders (RegisterDecoder). NewEngine freezes
// the registry; from then on an Engine may be shared by any number of
// goroutines, each dissection allocating only its own Cursor and Result.
//
//	reg := dissect.NewRegistry()
//	_ = reg.RegisterFormat(format.WebP())
//	_ = reg.RegisterDecoder(format.TagLossy, myVP8Decoder)
//	eng := dissect.NewEngine(reg, dissect.Options{})
//	res, err := eng.DissectAny(data)
//
// # Dissection
//
// Dissect reads the descriptor's fixed header through a bounds-checked
// Cursor, resolves the subtype marker against the descriptor's table, and
// dispatches the remaining bytes to the registered decoder:
//
//	Start -> FixedHeaderParsed -> SubtypeResolved -> {Dispatched | Unrecognized | NoDecoder} -> Done
//
// Only the first transition can fail (ErrTruncated, no partial result).
// Everything after it is recorded on the Result: unknown markers, missing
// decoders and decoder failures become Annotations, never errors.
//
// # Nesting
//
// Decoders may dispatch nested regions with Context.DispatchField. Each
// dispatch that invokes a decoder spends one unit of Options.MaxDepth; a
// dispatch with no budget left returns ErrTooDeep for that branch only.
package dissect
