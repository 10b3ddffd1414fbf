// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/cborstream/lib/codec"
)

// Encoder is the primitive-value encoder the streaming writers drive.
// The writers own container structure — when heads and terminators
// are emitted, and in what order values are committed — while the
// Encoder owns the byte-level representation of each piece.
//
// The default implementation (see [NewEncoder]) writes to an
// io.Writer using lib/codec for values. A custom implementation can
// substitute a different value encoding or capture the call sequence
// for testing.
type Encoder interface {
	// Encode writes the wire bytes for one scalar or compound value.
	Encode(value any) error

	// EncodeLength writes the head of a definite-length container
	// holding count elements or pairs.
	EncodeLength(kind ContainerKind, count uint64) error

	// EncodeIndefinite writes the start marker of an
	// indefinite-length container.
	EncodeIndefinite(kind ContainerKind) error

	// EncodeBreak writes the break terminator (0xff) that closes an
	// indefinite-length container.
	EncodeBreak() error
}

// CBOR encoding constants (RFC 8949 §3). The high three bits of an
// initial byte carry the major type; the low five carry the argument.
const (
	arrayMajorTag = 0x80 // major type 4
	mapMajorTag   = 0xa0 // major type 5

	additionalIndefinite = 0x1f
	breakCode            = 0xff
)

// majorTag returns the initial-byte tag bits for a container kind.
func majorTag(kind ContainerKind) byte {
	if kind == KindMap {
		return mapMajorTag
	}
	return arrayMajorTag
}

// wireEncoder is the default Encoder: values through lib/codec,
// container heads hand-encoded with minimal-width arguments.
type wireEncoder struct {
	w io.Writer

	// scratch holds head bytes between calls. A container head is at
	// most 9 bytes (initial byte plus 8-byte argument).
	scratch [9]byte
}

// NewEncoder returns an Encoder writing CBOR to w. Values are encoded
// with lib/codec's Core Deterministic Encoding profile.
func NewEncoder(w io.Writer) Encoder {
	return &wireEncoder{w: w}
}

func (e *wireEncoder) Encode(value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	_, err = e.w.Write(data)
	return err
}

func (e *wireEncoder) EncodeLength(kind ContainerKind, count uint64) error {
	head := appendHead(e.scratch[:0], majorTag(kind), count)
	_, err := e.w.Write(head)
	return err
}

func (e *wireEncoder) EncodeIndefinite(kind ContainerKind) error {
	e.scratch[0] = majorTag(kind) | additionalIndefinite
	_, err := e.w.Write(e.scratch[:1])
	return err
}

func (e *wireEncoder) EncodeBreak() error {
	e.scratch[0] = breakCode
	_, err := e.w.Write(e.scratch[:1])
	return err
}

// appendHead appends a CBOR head with the given major-type tag bits
// and argument, using the smallest argument width that holds the
// value (RFC 8949 §3, "preferred serialization").
func appendHead(dst []byte, tag byte, argument uint64) []byte {
	switch {
	case argument < 24:
		return append(dst, tag|byte(argument))
	case argument <= 0xff:
		return append(dst, tag|24, byte(argument))
	case argument <= 0xffff:
		return append(dst, tag|25, byte(argument>>8), byte(argument))
	case argument <= 0xffffffff:
		return append(dst, tag|26,
			byte(argument>>24), byte(argument>>16), byte(argument>>8), byte(argument))
	default:
		return append(dst, tag|27,
			byte(argument>>56), byte(argument>>48), byte(argument>>40), byte(argument>>32),
			byte(argument>>24), byte(argument>>16), byte(argument>>8), byte(argument))
	}
}
