// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// The container test vectors below pin exact wire bytes per RFC 8949.
// Byte-string keys ([]byte) keep the map vectors stable across
// encoders.

// pair is one ordered key/value entry of a test map.
type pair struct {
	key   any
	value any
}

// Test document shapes. fixedArray/fixedMap declare their length in
// the container head; varArray/varMap are indefinite-length.
type (
	fixedArray []any
	varArray   []any
	fixedMap   []pair
	varMap     []pair
)

// writeItem streams value through w, choosing the container form from
// the test shape types.
func writeItem(w ValueWriter, value any) error {
	switch v := value.(type) {
	case fixedArray:
		return writeArray(w, []any(v), Definite(len(v)))
	case varArray:
		return writeArray(w, []any(v), Indefinite)
	case fixedMap:
		return writeMap(w, []pair(v), Definite(len(v)))
	case varMap:
		return writeMap(w, []pair(v), Indefinite)
	default:
		return w.Write(v)
	}
}

func writeArray(w ValueWriter, elements []any, length Length) error {
	array, err := w.Array(length)
	if err != nil {
		return err
	}
	for _, element := range elements {
		if err := writeItem(array, element); err != nil {
			return err
		}
	}
	return array.Close()
}

func writeMap(w ValueWriter, pairs []pair, length Length) error {
	mapped, err := w.Map(length)
	if err != nil {
		return err
	}
	for _, entry := range pairs {
		if err := writeMapEntry(mapped, entry); err != nil {
			return err
		}
	}
	return mapped.Close()
}

func writeMapEntry(w *MapWriter, entry pair) error {
	switch v := entry.value.(type) {
	case fixedArray:
		return writeNestedArray(w, entry.key, []any(v), Definite(len(v)))
	case varArray:
		return writeNestedArray(w, entry.key, []any(v), Indefinite)
	case fixedMap:
		return writeNestedMap(w, entry.key, []pair(v), Definite(len(v)))
	case varMap:
		return writeNestedMap(w, entry.key, []pair(v), Indefinite)
	default:
		return w.Write(entry.key, v)
	}
}

func writeNestedArray(w *MapWriter, key any, elements []any, length Length) error {
	array, err := w.Array(key, length)
	if err != nil {
		return err
	}
	for _, element := range elements {
		if err := writeItem(array, element); err != nil {
			return err
		}
	}
	return array.Close()
}

func writeNestedMap(w *MapWriter, key any, pairs []pair, length Length) error {
	mapped, err := w.Map(key, length)
	if err != nil {
		return err
	}
	for _, entry := range pairs {
		if err := writeMapEntry(mapped, entry); err != nil {
			return err
		}
	}
	return mapped.Close()
}

func TestWriter_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "int", value: 1000000, want: "1a000f4240"},
		{name: "double", value: 1.0e+300, want: "fb7e37e43c8800759c"},
		{name: "text", value: "IETF", want: "6449455446"},
		{name: "bool", value: true, want: "f5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := NewWriter(&buffer).Write(tt.value); err != nil {
				t.Fatalf("Write(%v): %v", tt.value, err)
			}
			if got := hex.EncodeToString(buffer.Bytes()); got != tt.want {
				t.Errorf("Write(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestWriter_Containers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{
			name:  "fixed array of one",
			value: fixedArray{1},
			want:  "8101",
		},
		{
			name:  "fixed array",
			value: fixedArray{1, 2, 3},
			want:  "83010203",
		},
		{
			name:  "variable array",
			value: varArray{1, 2, 3, 4},
			want:  "9f01020304ff",
		},
		{
			name:  "nested fixed arrays",
			value: fixedArray{1, fixedArray{2, 3}, fixedArray{4, 5}},
			want:  "8301820203820405",
		},
		{
			name:  "nested variable arrays",
			value: varArray{1, varArray{2, 3}, varArray{4, 5}},
			want:  "9f019f0203ff9f0405ffff",
		},
		{
			name:  "nested mixed arrays",
			value: varArray{1, fixedArray{2, 3}, fixedArray{4, 5}},
			want:  "9f01820203820405ff",
		},
		{
			name:  "fixed map",
			value: fixedMap{{[]byte("a"), 1}},
			want:  "a1416101",
		},
		{
			name:  "variable map",
			value: varMap{{[]byte("a"), 1}},
			want:  "bf416101ff",
		},
		{
			name:  "nested fixed maps",
			value: fixedMap{{[]byte("a"), 1}, {[]byte("b"), fixedMap{{[]byte("c"), 2}}}},
			want:  "a24161014162a1416302",
		},
		{
			name:  "nested variable maps",
			value: varMap{{[]byte("a"), 1}, {[]byte("b"), varMap{{[]byte("c"), 2}}}},
			want:  "bf4161014162bf416302ffff",
		},
		{
			name:  "variable map holding fixed array",
			value: varMap{{[]byte("a"), fixedArray{1, 2, 3}}},
			want:  "bf416183010203ff",
		},
		{
			name:  "variable array holding fixed map",
			value: varArray{1, 2, fixedMap{{[]byte("a"), 1}}},
			want:  "9f0102a1416101ff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := writeItem(NewWriter(&buffer), tt.value); err != nil {
				t.Fatalf("writeItem: %v", err)
			}
			if got := hex.EncodeToString(buffer.Bytes()); got != tt.want {
				t.Errorf("stream = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriter_RepeatedTopLevelItems(t *testing.T) {
	var buffer bytes.Buffer
	writer := NewWriter(&buffer)

	if err := writer.Write(1); err != nil {
		t.Fatalf("first item: %v", err)
	}
	if err := writeItem(writer, fixedArray{2, 3}); err != nil {
		t.Fatalf("second item: %v", err)
	}
	if err := writer.Write(4); err != nil {
		t.Fatalf("third item: %v", err)
	}

	if got := hex.EncodeToString(buffer.Bytes()); got != "0182020304" {
		t.Errorf("sequence = %s, want 0182020304", got)
	}
}

func TestArrayWriter_CapacityExceeded(t *testing.T) {
	var buffer bytes.Buffer
	array, err := NewWriter(&buffer).Array(Definite(2))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}

	for i := range 2 {
		if err := array.Write(i); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	sinkBefore := buffer.Len()

	err = array.Write(99)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("third write error = %v, want ErrCapacityExceeded", err)
	}
	if buffer.Len() != sinkBefore {
		t.Errorf("over-commit reached the sink: %d bytes written", buffer.Len()-sinkBefore)
	}

	var protocolErr *ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("error is %T, want *ProtocolError", err)
	}
	if protocolErr.Kind != KindArray {
		t.Errorf("Kind = %s, want array", protocolErr.Kind)
	}

	// The failure poisons the scope: Close reports the original
	// failure rather than succeeding on the (now complete) count.
	if err := array.Close(); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Close after over-commit = %v, want ErrCapacityExceeded", err)
	}
}

func TestArrayWriter_InsufficientElements(t *testing.T) {
	var buffer bytes.Buffer
	array, err := NewWriter(&buffer).Array(Definite(3))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if err := array.Write(1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := array.Write(2); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := array.Close(); !errors.Is(err, ErrInsufficientElements) {
		t.Fatalf("Close = %v, want ErrInsufficientElements", err)
	}

	// Definite containers are self-delimiting by count: the failed
	// close emits no terminator, the sink holds exactly head plus the
	// two elements.
	if got := hex.EncodeToString(buffer.Bytes()); got != "830102" {
		t.Errorf("sink = %s, want 830102", got)
	}
}

func TestArrayWriter_ClosedIsTerminal(t *testing.T) {
	var buffer bytes.Buffer
	array, err := NewWriter(&buffer).Array(Definite(1))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if err := array.Write(1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := array.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := array.Write(2); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Write after Close = %v, want ErrWriterClosed", err)
	}
	if _, err := array.Array(Indefinite); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Array after Close = %v, want ErrWriterClosed", err)
	}
	if err := array.Close(); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("second Close = %v, want ErrWriterClosed", err)
	}

	if got := hex.EncodeToString(buffer.Bytes()); got != "8101" {
		t.Errorf("sink = %s, want 8101", got)
	}
}

func TestWriter_NegativeLength(t *testing.T) {
	var buffer bytes.Buffer
	writer := NewWriter(&buffer)

	if _, err := writer.Array(Definite(-1)); err == nil {
		t.Fatal("expected error for negative array length")
	} else {
		var configErr *ConfigurationError
		if !errors.As(err, &configErr) {
			t.Fatalf("error is %T, want *ConfigurationError", err)
		}
		if configErr.Count != -1 {
			t.Errorf("Count = %d, want -1", configErr.Count)
		}
	}
	if _, err := writer.Map(Definite(-5)); err == nil {
		t.Fatal("expected error for negative map length")
	}
	if buffer.Len() != 0 {
		t.Errorf("rejected open wrote %d bytes to the sink", buffer.Len())
	}
}

func TestArrayWriter_NegativeNestedLengthKeepsSlot(t *testing.T) {
	var buffer bytes.Buffer
	array, err := NewWriter(&buffer).Array(Definite(1))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}

	// The invalid length is rejected before the parent slot is
	// committed, so the parent still accepts its one element.
	if _, err := array.Array(Definite(-1)); err == nil {
		t.Fatal("expected error for negative nested length")
	}
	if got := array.Remaining(); got != 1 {
		t.Errorf("Remaining after rejected open = %d, want 1", got)
	}
	if err := array.Write(7); err != nil {
		t.Fatalf("write after rejected open: %v", err)
	}
	if err := array.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := hex.EncodeToString(buffer.Bytes()); got != "8107" {
		t.Errorf("sink = %s, want 8107", got)
	}
}

func TestMapWriter_PairOrderPreserved(t *testing.T) {
	var buffer bytes.Buffer
	mapped, err := NewWriter(&buffer).Map(Indefinite)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	// Submitted in reverse lexical order; the stream must carry the
	// submission order, not a sorted one.
	if err := mapped.Write("b", 2); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := mapped.Write("a", 1); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := mapped.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := hex.EncodeToString(buffer.Bytes()); got != "bf616202616101ff" {
		t.Errorf("stream = %s, want bf616202616101ff", got)
	}
}

func TestMapWriter_DuplicateKeysPassThrough(t *testing.T) {
	var buffer bytes.Buffer
	mapped, err := NewWriter(&buffer).Map(Definite(2))
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	// Key uniqueness is the caller's responsibility; the writer
	// commits both pairs verbatim.
	if err := mapped.Write("k", 1); err != nil {
		t.Fatalf("first pair: %v", err)
	}
	if err := mapped.Write("k", 2); err != nil {
		t.Fatalf("second pair: %v", err)
	}
	if err := mapped.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := hex.EncodeToString(buffer.Bytes()); got != "a2616b01616b02" {
		t.Errorf("stream = %s, want a2616b01616b02", got)
	}
}

func TestMapWriter_CapacityCountsPairs(t *testing.T) {
	var buffer bytes.Buffer
	mapped, err := NewWriter(&buffer).Map(Definite(1))
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	if err := mapped.Write("a", 1); err != nil {
		t.Fatalf("first pair: %v", err)
	}

	pairErr := mapped.Write("b", 2)
	if !errors.Is(pairErr, ErrCapacityExceeded) {
		t.Fatalf("second pair = %v, want ErrCapacityExceeded", pairErr)
	}
	var protocolErr *ProtocolError
	if !errors.As(pairErr, &protocolErr) {
		t.Fatalf("error is %T, want *ProtocolError", pairErr)
	}
	if protocolErr.Kind != KindMap {
		t.Errorf("Kind = %s, want map", protocolErr.Kind)
	}
}

func TestNestedContainerConsumesOneSlot(t *testing.T) {
	var buffer bytes.Buffer
	outer, err := NewWriter(&buffer).Array(Definite(2))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}

	// A nested container of any size occupies exactly one slot of
	// its parent, counted before the nested head hits the wire.
	inner, err := outer.Array(Definite(3))
	if err != nil {
		t.Fatalf("nested Array: %v", err)
	}
	if got := outer.Remaining(); got != 1 {
		t.Errorf("outer Remaining with nested open = %d, want 1", got)
	}
	for _, element := range []int{1, 2, 3} {
		if err := inner.Write(element); err != nil {
			t.Fatalf("inner write %d: %v", element, err)
		}
	}
	if err := inner.Close(); err != nil {
		t.Fatalf("inner Close: %v", err)
	}

	if err := outer.Write(9); err != nil {
		t.Fatalf("outer write: %v", err)
	}
	if err := outer.Close(); err != nil {
		t.Fatalf("outer Close: %v", err)
	}

	if got := hex.EncodeToString(buffer.Bytes()); got != "828301020309" {
		t.Errorf("stream = %s, want 828301020309", got)
	}
}

func TestNestedOverCommitWritesNoHead(t *testing.T) {
	var buffer bytes.Buffer
	outer, err := NewWriter(&buffer).Array(Definite(1))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if err := outer.Write(1); err != nil {
		t.Fatalf("write: %v", err)
	}
	sinkBefore := buffer.Len()

	// The slot commit fails before the nested head would be emitted,
	// so the over-commit never produces a malformed byte.
	if _, err := outer.Array(Definite(5)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("nested open = %v, want ErrCapacityExceeded", err)
	}
	if buffer.Len() != sinkBefore {
		t.Errorf("rejected nested open wrote %d bytes", buffer.Len()-sinkBefore)
	}
}

func TestRemaining(t *testing.T) {
	var buffer bytes.Buffer
	writer := NewWriter(&buffer)

	definite, err := writer.Array(Definite(2))
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if got := definite.Remaining(); got != 2 {
		t.Errorf("Remaining = %d, want 2", got)
	}
	if err := definite.Write(1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := definite.Remaining(); got != 1 {
		t.Errorf("Remaining = %d, want 1", got)
	}

	indefinite, err := writer.Array(Indefinite)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if got := indefinite.Remaining(); got != -1 {
		t.Errorf("indefinite Remaining = %d, want -1", got)
	}
}

func TestLength_String(t *testing.T) {
	if got := Indefinite.String(); got != "indefinite" {
		t.Errorf("Indefinite.String() = %q, want \"indefinite\"", got)
	}
	if got := Definite(12).String(); got != "12" {
		t.Errorf("Definite(12).String() = %q, want \"12\"", got)
	}
	if Indefinite.IsDefinite() {
		t.Error("Indefinite.IsDefinite() = true")
	}
	if !Definite(0).IsDefinite() {
		t.Error("Definite(0).IsDefinite() = false")
	}
}

func TestWriter_EmptyContainers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "empty fixed array", value: fixedArray{}, want: "80"},
		{name: "empty variable array", value: varArray{}, want: "9fff"},
		{name: "empty fixed map", value: fixedMap{}, want: "a0"},
		{name: "empty variable map", value: varMap{}, want: "bfff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := writeItem(NewWriter(&buffer), tt.value); err != nil {
				t.Fatalf("writeItem: %v", err)
			}
			if got := hex.EncodeToString(buffer.Bytes()); got != tt.want {
				t.Errorf("stream = %s, want %s", got, tt.want)
			}
		})
	}
}
