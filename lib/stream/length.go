// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import "fmt"

// ContainerKind identifies the kind of CBOR container a scope writes.
type ContainerKind uint8

const (
	// KindArray is a CBOR array (major type 4).
	KindArray ContainerKind = iota + 1
	// KindMap is a CBOR map (major type 5).
	KindMap
)

// String returns the container kind name as used in error messages.
func (k ContainerKind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Length declares the length of a container: either definite with a
// known element or pair count, or indefinite. The zero value is
// [Indefinite].
//
// Length is a tagged value rather than a nullable integer so that an
// indefinite container never carries a capacity count at all.
type Length struct {
	definite bool
	count    int
}

// Indefinite declares an indefinite-length container: it accepts any
// number of commits and is closed by an explicit break terminator.
var Indefinite = Length{}

// Definite declares a definite-length container holding exactly count
// elements (for arrays) or key/value pairs (for maps). A negative
// count is rejected with a [ConfigurationError] when the container is
// opened, before any bytes are written.
func Definite(count int) Length {
	return Length{definite: true, count: count}
}

// IsDefinite reports whether the length declares a fixed count.
func (l Length) IsDefinite() bool { return l.definite }

// Count returns the declared count. Meaningful only when IsDefinite
// reports true; an indefinite length returns 0.
func (l Length) Count() int { return l.count }

// String returns "indefinite" or the declared count.
func (l Length) String() string {
	if !l.definite {
		return "indefinite"
	}
	return fmt.Sprintf("%d", l.count)
}

// validate rejects negative definite counts. Runs before the parent
// slot is committed and before any header byte is written.
func (l Length) validate() error {
	if l.definite && l.count < 0 {
		return &ConfigurationError{Count: l.count}
	}
	return nil
}
