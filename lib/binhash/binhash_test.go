// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"bytes"
	"strings"
	"testing"
)

func TestHashReaderMatchesHashBytes(t *testing.T) {
	payload := []byte("a short cbor sequence stand-in")

	fromReader, err := HashReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	if fromBytes := HashBytes(payload); fromReader != fromBytes {
		t.Errorf("HashReader = %s, HashBytes = %s", FormatDigest(fromReader), FormatDigest(fromBytes))
	}
}

func TestHashReader_InputsDiffer(t *testing.T) {
	first, err := HashReader(strings.NewReader("stream one"))
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	second, err := HashReader(strings.NewReader("stream two"))
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	if first == second {
		t.Error("different inputs produced the same digest")
	}
}

func TestHasher_MatchesHashBytes(t *testing.T) {
	hasher := NewHasher()
	if _, err := hasher.Write([]byte("first chunk ")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := hasher.Write([]byte("second chunk")); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := HashBytes([]byte("first chunk second chunk"))
	if got := hasher.Digest(); got != want {
		t.Errorf("Hasher digest = %s, want %s", FormatDigest(got), FormatDigest(want))
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	digest := HashBytes([]byte("payload"))

	formatted := FormatDigest(digest)
	if len(formatted) != 64 {
		t.Fatalf("formatted digest is %d characters, want 64", len(formatted))
	}

	parsed, err := ParseDigest(formatted)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != digest {
		t.Errorf("round trip mismatch: %s != %s", FormatDigest(parsed), formatted)
	}
}

func TestParseDigest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not hex", input: "zz"},
		{name: "too short", input: "abcd"},
		{name: "too long", input: strings.Repeat("ab", 33)},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDigest(tt.input); err == nil {
				t.Errorf("ParseDigest(%q) succeeded, want error", tt.input)
			}
		})
	}
}
