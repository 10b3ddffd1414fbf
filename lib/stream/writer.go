// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"io"
)

// ValueWriter is the shared shape of the writers that commit plain
// values: the top-level [Writer] and the [ArrayWriter] bound to an
// open array. [MapWriter] has the same operations but takes a key
// with each commit, so it stands apart.
type ValueWriter interface {
	// Write commits one value.
	Write(value any) error

	// Array opens a nested array scope and returns the writer bound
	// to it. The container head is written before Array returns.
	Array(length Length) (*ArrayWriter, error)

	// Map opens a nested map scope and returns the writer bound to
	// it. The container head is written before Map returns.
	Map(length Length) (*MapWriter, error)
}

var (
	_ ValueWriter = (*Writer)(nil)
	_ ValueWriter = (*ArrayWriter)(nil)
)

// Writer is the top-level entry point for streaming CBOR items. It is
// bound directly to an Encoder with no enclosing container and no
// capacity bookkeeping: each Write emits one independent top-level
// item, and Array/Map start a top-level container.
type Writer struct {
	encoder Encoder
}

// NewWriter returns a Writer emitting CBOR to w through the default
// encoder (see [NewEncoder]).
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: NewEncoder(w)}
}

// NewWriterWithEncoder returns a Writer driving a custom primitive
// encoder.
func NewWriterWithEncoder(encoder Encoder) *Writer {
	return &Writer{encoder: encoder}
}

// Write encodes one top-level value.
func (w *Writer) Write(value any) error {
	return w.encoder.Encode(value)
}

// Array opens a top-level array scope.
func (w *Writer) Array(length Length) (*ArrayWriter, error) {
	if err := length.validate(); err != nil {
		return nil, err
	}
	scope, err := openScope(w.encoder, KindArray, length)
	if err != nil {
		return nil, err
	}
	return &ArrayWriter{scope: scope}, nil
}

// Map opens a top-level map scope.
func (w *Writer) Map(length Length) (*MapWriter, error) {
	if err := length.validate(); err != nil {
		return nil, err
	}
	scope, err := openScope(w.encoder, KindMap, length)
	if err != nil {
		return nil, err
	}
	return &MapWriter{scope: scope}, nil
}

// ArrayWriter writes the elements of one open array. Every operation
// commits exactly one capacity unit before touching the sink, so a
// definite-length array over-commit is caught before any malformed
// byte is produced.
type ArrayWriter struct {
	scope *containerScope
}

// Write commits one element.
func (w *ArrayWriter) Write(value any) error {
	if err := w.scope.commit(); err != nil {
		return err
	}
	if err := w.scope.encoder.Encode(value); err != nil {
		return w.scope.fail(fmt.Errorf("encode array element: %w", err))
	}
	return nil
}

// Array commits one element slot and opens a nested array scope in
// it. The nested container counts as exactly one element of this
// array regardless of its own size.
func (w *ArrayWriter) Array(length Length) (*ArrayWriter, error) {
	scope, err := w.openNested(KindArray, length)
	if err != nil {
		return nil, err
	}
	return &ArrayWriter{scope: scope}, nil
}

// Map commits one element slot and opens a nested map scope in it.
func (w *ArrayWriter) Map(length Length) (*MapWriter, error) {
	scope, err := w.openNested(KindMap, length)
	if err != nil {
		return nil, err
	}
	return &MapWriter{scope: scope}, nil
}

func (w *ArrayWriter) openNested(kind ContainerKind, length Length) (*containerScope, error) {
	if err := length.validate(); err != nil {
		return nil, err
	}
	if err := w.scope.commit(); err != nil {
		return nil, err
	}
	scope, err := openScope(w.scope.encoder, kind, length)
	if err != nil {
		return nil, w.scope.fail(err)
	}
	return scope, nil
}

// Close exits the array scope: an indefinite array emits its break
// terminator, a definite array is checked for exactly the declared
// element count. The scope is terminal afterwards.
func (w *ArrayWriter) Close() error {
	return w.scope.close()
}

// Remaining reports how many elements the array still accepts, or -1
// for an indefinite-length array.
func (w *ArrayWriter) Remaining() int {
	return w.scope.capacity()
}

// MapWriter writes the key/value pairs of one open map. Every
// operation commits exactly one capacity unit (one pair). Pairs are
// emitted as a flat alternating key/value sequence in exactly the
// order submitted; no sorting, no uniqueness checking.
type MapWriter struct {
	scope *containerScope
}

// Write commits one key/value pair.
func (w *MapWriter) Write(key, value any) error {
	if err := w.scope.commit(); err != nil {
		return err
	}
	if err := w.scope.encoder.Encode(key); err != nil {
		return w.scope.fail(fmt.Errorf("encode map key: %w", err))
	}
	if err := w.scope.encoder.Encode(value); err != nil {
		return w.scope.fail(fmt.Errorf("encode map value: %w", err))
	}
	return nil
}

// Array commits one pair slot, writes key, and opens a nested array
// scope in the value position.
func (w *MapWriter) Array(key any, length Length) (*ArrayWriter, error) {
	scope, err := w.openNested(key, KindArray, length)
	if err != nil {
		return nil, err
	}
	return &ArrayWriter{scope: scope}, nil
}

// Map commits one pair slot, writes key, and opens a nested map scope
// in the value position.
func (w *MapWriter) Map(key any, length Length) (*MapWriter, error) {
	scope, err := w.openNested(key, KindMap, length)
	if err != nil {
		return nil, err
	}
	return &MapWriter{scope: scope}, nil
}

func (w *MapWriter) openNested(key any, kind ContainerKind, length Length) (*containerScope, error) {
	if err := length.validate(); err != nil {
		return nil, err
	}
	if err := w.scope.commit(); err != nil {
		return nil, err
	}
	if err := w.scope.encoder.Encode(key); err != nil {
		return nil, w.scope.fail(fmt.Errorf("encode map key: %w", err))
	}
	scope, err := openScope(w.scope.encoder, kind, length)
	if err != nil {
		return nil, w.scope.fail(err)
	}
	return scope, nil
}

// Close exits the map scope: an indefinite map emits its break
// terminator, a definite map is checked for exactly the declared pair
// count. The scope is terminal afterwards.
func (w *MapWriter) Close() error {
	return w.scope.close()
}

// Remaining reports how many pairs the map still accepts, or -1 for
// an indefinite-length map.
func (w *MapWriter) Remaining() int {
	return w.scope.capacity()
}
