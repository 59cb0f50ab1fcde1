// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package line provides the line store that underlies the differ and
// patcher: an ordered sequence of opaque text lines, each paired with a
// cached hash so that inequality between two lines can usually be decided
// in O(1) without a byte comparison.

// Contributors: Jeff Overbey

package line

import "github.com/cespare/xxhash/v2"

// A Line is one line of a source file with its trailing "\n" and/or "\r"
// stripped.  The hash is a pure function of the bytes: two Lines with equal
// hashes may still differ (Equal always falls back to a full byte
// comparison on hash equality), but two Lines with different hashes are
// always different.
type Line struct {
	bytes []byte
	hash  uint64
}

// New returns a Line wrapping the given bytes.  The caller must not mutate
// b afterward; New does not copy it.
func New(b []byte) Line {
	return Line{bytes: b, hash: xxhash.Sum64(b)}
}

// NewString returns a Line wrapping the given string.
func NewString(s string) Line {
	return New([]byte(s))
}

// Bytes returns the bytes of this Line, excluding any line terminator.
func (l Line) Bytes() []byte {
	return l.bytes
}

// String returns this Line's text.
func (l Line) String() string {
	return string(l.bytes)
}

// Hash returns the cached 64-bit hash of this Line.
func (l Line) Hash() uint64 {
	return l.hash
}

// Equal reports whether two Lines have identical content.  It compares
// hashes first and only falls back to a byte comparison on a hash match, so
// the common case (distinct lines) is decided in O(1).
func (l Line) Equal(other Line) bool {
	if l.hash != other.hash {
		return false
	}
	return string(l.bytes) == string(other.bytes)
}

// IsNull reports whether this Line is the zero value.  A well-formed Store
// never yields a null Line; IsNull exists purely as the safety check the
// lcs.Element contract calls for.
func (l Line) IsNull() bool {
	return l.bytes == nil && l.hash == 0
}
