// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// cborstream.
//
// The streaming layer (lib/stream) controls container structure
// itself: it emits array and map heads, break terminators, and element
// ordering directly. Everything else — the scalar and compound values
// committed into those containers — passes through this package, so
// that every value encodes identically regardless of which writer
// produced it.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2) for
// values: smallest integer encoding, shortest float form, sorted map
// keys inside compound values. Note that this applies only to values
// handed to the encoder whole; the pair order of a streamed map is
// whatever the caller submitted, by design.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// The Diagnose helpers expose RFC 8949 §8 diagnostic notation and are
// the basis of the "cborstream diag" command.
package codec
