// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing for encoded CBOR
// streams.
//
// A digest identifies the exact bytes of an emitted stream — after
// compression, if any — so that a consumer can verify an artifact was
// transferred intact without decoding it. The digest is computed by
// streaming the input through the hash function, keeping memory
// constant regardless of stream size.
//
// The API surface is small:
//
//   - [HashReader] — streams a reader through BLAKE3, returning a
//     [Digest]
//   - [HashBytes] — hashes an in-memory buffer
//   - [Hasher] — an io.Writer tee target for hashing a stream while
//     it is being emitted
//   - [FormatDigest] — canonical lowercase-hex string form
//   - [ParseDigest] — parses the hex form back, validating length
//
// This package has no dependencies on other cborstream packages.
package binhash
