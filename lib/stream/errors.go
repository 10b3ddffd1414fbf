// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
)

// Sentinel causes for [ProtocolError]. Compare with errors.Is:
//
//	if errors.Is(err, stream.ErrCapacityExceeded) { ... }
var (
	// ErrCapacityExceeded reports a write or nested open on a
	// definite-length container whose declared count is already
	// reached. The failing operation did not touch the sink.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInsufficientElements reports a Close on a definite-length
	// container before the declared count was reached.
	ErrInsufficientElements = errors.New("insufficient elements")

	// ErrWriterClosed reports an operation on a closed scope. Closed
	// is terminal: the sink is append-only, and a stray post-close
	// write would silently corrupt sibling or parent structure.
	ErrWriterClosed = errors.New("writer is closed")
)

// ProtocolError reports misuse of the streaming writer protocol. All
// protocol errors are synchronous and non-retryable; the stream is
// left partially written and should be discarded.
type ProtocolError struct {
	// Kind is the container whose scope detected the misuse.
	Kind ContainerKind

	// Err is the sentinel cause: ErrCapacityExceeded,
	// ErrInsufficientElements, or ErrWriterClosed.
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("stream: %s writer: %v", e.Kind, e.Err)
}

// Unwrap returns the sentinel cause so that errors.Is reaches it
// through the ProtocolError wrapper.
func (e *ProtocolError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid length passed to Array or
// Map. It is raised before any bytes are written and before the
// parent container's capacity slot is consumed.
type ConfigurationError struct {
	// Count is the rejected definite length.
	Count int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("stream: container length must be a non-negative integer, got %d", e.Count)
}
