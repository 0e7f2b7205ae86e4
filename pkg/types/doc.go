// Package types defines the data model shared by the riffkit dissection
// engine, its decoders, and presentation layers: typed errors, container
// descriptors, and the Result tree produced by one dissection call.
//
// Design goals:
//   - Plain data: every type here can be built by a host process or a test
//     without touching the engine.
//   - Typed errors with stable categories (truncated/malformed/too deep/...).
//   - Non-fatal findings are Annotations on the Result, never panics or prints.
//
// This package has no dependencies beyond the standard library.
package types
