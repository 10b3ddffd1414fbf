// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of an encoded stream.
type Digest [32]byte

// HashReader computes the BLAKE3 digest of everything readable from
// r. The input is streamed through the hash function (via io.Copy) to
// keep memory usage constant regardless of stream size.
func HashReader(r io.Reader) (Digest, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Digest{}, fmt.Errorf("hashing stream: %w", err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// HashBytes computes the BLAKE3 digest of an in-memory buffer.
func HashBytes(data []byte) Digest {
	return blake3.Sum256(data)
}

// Hasher accumulates stream bytes into a Digest. It implements
// io.Writer so it can sit in an io.MultiWriter tee next to the real
// sink, hashing exactly what was emitted.
type Hasher struct {
	inner *blake3.Hasher
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{inner: blake3.New()}
}

// Write adds stream bytes to the digest. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.inner.Write(p)
}

// Digest returns the digest of the bytes written so far.
func (h *Hasher) Digest() Digest {
	var digest Digest
	copy(digest[:], h.inner.Sum(nil))
	return digest
}

// FormatDigest returns the hex-encoded string representation of a
// digest. This is the canonical format used in CLI output.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a hex-encoded digest string into a Digest.
// Returns an error if the string is not a valid 64-character hex
// encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != 32 {
		return digest, fmt.Errorf("hash digest is %d bytes, want 32", len(decoded))
	}
	copy(digest[:], decoded)
	return digest, nil
}
