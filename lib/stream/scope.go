// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import "fmt"

// containerScope tracks one open container on the stream: its kind,
// its declared length, the remaining capacity for definite lengths,
// and the open/closed state. ArrayWriter and MapWriter differ only in
// what one committed unit means (element vs pair) and in key
// handling; both delegate the bookkeeping here.
type containerScope struct {
	encoder Encoder
	kind    ContainerKind
	length  Length

	// remaining counts the commits still permitted. Meaningful only
	// when length is definite; invariant: never negative.
	remaining int

	// closed marks the scope terminal. The head is already on the
	// wire, so nothing may be appended once the terminator is emitted
	// or the count validated.
	closed bool

	// err is the first failure observed by this scope. A poisoned
	// scope returns err from every subsequent operation, including
	// Close, so the original failure is never buried under secondary
	// protocol errors.
	err error
}

// openScope emits the container head and returns the scope in the
// Open state. The length must already be validated.
func openScope(encoder Encoder, kind ContainerKind, length Length) (*containerScope, error) {
	var err error
	if length.IsDefinite() {
		err = encoder.EncodeLength(kind, uint64(length.Count()))
	} else {
		err = encoder.EncodeIndefinite(kind)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s head: %w", kind, err)
	}
	return &containerScope{
		encoder:   encoder,
		kind:      kind,
		length:    length,
		remaining: length.Count(),
	}, nil
}

// protocol wraps a sentinel in a ProtocolError carrying this scope's
// container kind.
func (s *containerScope) protocol(sentinel error) error {
	return &ProtocolError{Kind: s.kind, Err: sentinel}
}

// fail records the first failure on the scope and returns it.
func (s *containerScope) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return err
}

// commit consumes one capacity unit ahead of a write or nested open.
// For a definite length it fails with ErrCapacityExceeded when the
// counter is already zero — before the caller touches the sink, so an
// over-commit never produces a malformed byte. For an indefinite
// length it only checks scope state.
func (s *containerScope) commit() error {
	if s.closed {
		return s.protocol(ErrWriterClosed)
	}
	if s.err != nil {
		return s.err
	}
	if s.length.IsDefinite() {
		if s.remaining == 0 {
			return s.fail(s.protocol(ErrCapacityExceeded))
		}
		s.remaining--
	}
	return nil
}

// close transitions the scope to Closed. Indefinite scopes emit the
// break terminator unconditionally — even when the scope body already
// failed, so a consumer tailing the stream sees the container end.
// Definite scopes emit nothing (the head carries the count) but
// verify the capacity counter reached exactly zero.
//
// A failure recorded on the scope takes priority over close's own
// outcome; the original error is returned, never swallowed.
func (s *containerScope) close() error {
	if s.closed {
		return s.protocol(ErrWriterClosed)
	}
	s.closed = true

	if !s.length.IsDefinite() {
		breakErr := s.encoder.EncodeBreak()
		if s.err != nil {
			return s.err
		}
		if breakErr != nil {
			return fmt.Errorf("encode break: %w", breakErr)
		}
		return nil
	}

	if s.err != nil {
		return s.err
	}
	if s.remaining > 0 {
		return s.protocol(ErrInsufficientElements)
	}
	return nil
}

// capacity returns the remaining commit count, or -1 for indefinite
// lengths.
func (s *containerScope) capacity() int {
	if !s.length.IsDefinite() {
		return -1
	}
	return s.remaining
}
