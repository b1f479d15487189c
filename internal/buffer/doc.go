// Package buffer owns raw pixel storage for the hue pipeline.
//
// A Buffer is a rectangle of interleaved or single-channel 8-bit pixels with
// an explicit row stride and a Format describing what the bytes mean. The
// package knows nothing about color math; it only allocates, wraps and
// releases storage.
//
// # Ownership
//
// Buffers come from one of three places:
//   - Allocator.Allocate: owned by the caller, released with Allocator.Release.
//   - Scope.Allocate: owned by the Scope, released together by Scope.Close.
//     Such buffers cannot be released individually.
//   - Wrap: a view over memory supplied by someone else (a decoded image).
//     Wrapped buffers are never released by this package.
//
// A released buffer keeps its geometry but loses its storage. Bytes on a
// released buffer returns ErrReleased instead of handing out memory that may
// already be reused by another allocation.
//
// # Thread Safety
//
// Allocator is safe for concurrent use. Buffer and Scope are not; each belongs
// to a single pipeline.
package buffer
