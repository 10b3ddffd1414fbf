// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream provides a streaming writer for CBOR items.
//
// The package exists for producers that need to emit deeply nested
// container structures without materializing them in memory: rows
// pulled from a database cursor, chunks of a large file, or events
// arriving on a socket can be committed into an open CBOR array or map
// one at a time, with container heads and terminators emitted at the
// right positions automatically.
//
// A [Writer] wraps a sink and is the starting point for one or more
// independent top-level items:
//
//	writer := stream.NewWriter(&buffer)
//	array, err := writer.Array(stream.Definite(3))
//	if err != nil { ... }
//	array.Write(1)
//	array.Write(2)
//	array.Write(3)
//	if err := array.Close(); err != nil { ... }
//
// Array and Map open a nested container scope: the container head is
// written immediately, and the returned [ArrayWriter] or [MapWriter]
// is bound to that scope until Close. Closing an indefinite-length
// container emits the break terminator; closing a definite-length
// container emits nothing (the head already carries the count) but
// verifies that exactly the declared number of elements was written.
//
// Definite-length containers track remaining capacity. A write or
// nested open beyond the declared count fails with
// [ErrCapacityExceeded] before any byte reaches the sink, and a Close
// before the count is reached fails with [ErrInsufficientElements].
// Indefinite-length containers accept any number of commits and
// always close successfully. A nested container consumes exactly one
// capacity slot in its parent, regardless of its own size.
//
// Map pairs are written in exactly the order submitted. The package
// performs no key sorting, no key uniqueness checking, and no element
// type validation — the caller owns the shape of the data.
//
// The first error on a scope poisons it: subsequent operations and
// Close return the original failure rather than burying it under
// secondary protocol errors. A failed stream is partially written and
// should be discarded by the caller; the break terminator still
// emitted for a failed indefinite scope is a stream-closing courtesy,
// not a correctness guarantee.
//
// Scalar and compound values pass through an [Encoder]. The default
// encoder (see [NewWriter]) encodes values with lib/codec and emits
// container heads with minimal-width arguments per RFC 8949 §3.
// [NewWriterWithEncoder] accepts a custom implementation.
//
// Writers are not safe for concurrent use. One writer drives one sink;
// callers that share a sink across goroutines must serialize access
// themselves.
package stream
