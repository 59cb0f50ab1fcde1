// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// char is a minimal Element used to exercise Compute independently of the
// line package.
type char byte

func (c char) Equal(other char) bool { return c == other }
func (c char) IsNull() bool          { return false }

func chars(s string) []char {
	out := make([]char, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = char(s[i])
	}
	return out
}

// referenceLCSLength computes LCS length with the textbook O(nm) recurrence,
// independently of Compute's table-filling code, for cross-checking its result.
func referenceLCSLength(a, b []char) int {
	n, m := len(a), len(b)
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				d[i][j] = d[i+1][j+1] + 1
			} else if d[i+1][j] > d[i][j+1] {
				d[i][j] = d[i+1][j]
			} else {
				d[i][j] = d[i][j+1]
			}
		}
	}
	return d[0][0]
}

func countKeeps[T any](trace []TraceEntry[T]) int {
	n := 0
	for _, e := range trace {
		if e.Kind == Keep {
			n++
		}
	}
	return n
}

func TestComputeEmptyBothSides(t *testing.T) {
	r := Compute[char](nil, nil)
	assert.Equal(t, Empty, r.Status)
	assert.Empty(t, r.Trace)
}

func TestComputeIdentical(t *testing.T) {
	r := Compute(chars("abc"), chars("abc"))
	assert.Equal(t, Identical, r.Status)
	assert.Equal(t, 3, r.Length)
	assert.Equal(t, 3, countKeeps(r.Trace))
}

func TestComputeAgainstReferenceSmallInputs(t *testing.T) {
	cases := []struct{ a, b string }{
		{"abceghj", "abdbfehj"},
		{"", "abc"},
		{"abc", ""},
		{"aaaa", "aa"},
		{"abcabcabc", "cbacbacba"},
		{"xyz", "xyz"},
		{"xyz", "abc"},
	}
	for _, c := range cases {
		r := Compute(chars(c.a), chars(c.b))
		require.NotEqual(t, Failed, r.Status)
		assert.Equal(t, referenceLCSLength(chars(c.a), chars(c.b)), r.Length, "a=%q b=%q", c.a, c.b)
		assert.Equal(t, r.Length, countKeeps(r.Trace), "a=%q b=%q", c.a, c.b)
	}
}

// TestTraceProjections verifies that projecting the trace on Keep+Remove
// reproduces A, and projecting on Keep+Insert reproduces B.
func TestTraceProjections(t *testing.T) {
	a := chars("a b a b c")
	b := chars("a b a b c d")
	r := Compute(a, b)

	var fromA, fromB []char
	for _, e := range r.Trace {
		switch e.Kind {
		case Keep:
			fromA = append(fromA, e.Elem)
			fromB = append(fromB, e.Elem)
		case Remove:
			fromA = append(fromA, e.Elem)
		case Insert:
			fromB = append(fromB, e.Elem)
		}
	}
	assert.Equal(t, a, fromA)
	assert.Equal(t, b, fromB)
}

func TestTraceLength(t *testing.T) {
	a := chars("xaxbxcx")
	b := chars("ybycyd")
	r := Compute(a, b)
	assert.Equal(t, len(a)+len(b)-r.Length, len(r.Trace))
}

func TestNullElementFails(t *testing.T) {
	r := Compute[nullable]([]nullable{{null: true}}, []nullable{{}})
	assert.Equal(t, Failed, r.Status)
	assert.Error(t, r.Err)
}

type nullable struct{ null bool }

func (n nullable) Equal(other nullable) bool { return n.null == other.null }
func (n nullable) IsNull() bool              { return n.null }
