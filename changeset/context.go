// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changeset

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/line"
)

// detectPattern grows initial into a range enclosing it that is unique in
// ref: an expansion phase that alternates right/left extension (preferring
// right), followed by a single contraction attempt that undoes the final
// expansion step if the result is still unique and still encloses initial.
// The result is not always the smallest such range: no sub-range of the
// final window other than that single undo is tried.
func detectPattern(ref *line.Store, initial Range) (Range, error) {
	cur := initial
	preferRight := true
	expanded := false
	lastRight := false

	for !isUnique(ref, cur) {
		canRight := cur.R < ref.Len()
		canLeft := cur.L > 0
		wantRight := canRight && (preferRight || cur.L == 0)

		switch {
		case wantRight:
			cur = Range{cur.L, cur.R + 1}
			preferRight = false
			lastRight = true
		case canLeft:
			cur = Range{cur.L - 1, cur.R}
			preferRight = true
			lastRight = false
		default:
			return Range{}, ctxerr.New(ctxerr.Internal, "context selector exhausted reference without finding a unique window")
		}
		expanded = true
	}

	if expanded && cur.Size() > 2 {
		var candidate Range
		if lastRight {
			candidate = Range{cur.L, cur.R - 1}
		} else {
			candidate = Range{cur.L + 1, cur.R}
		}
		if candidate.Valid() && candidate.Encloses(initial) && isUnique(ref, candidate) {
			cur = candidate
		}
	}

	return cur, nil
}

// isUnique reports whether r's content occurs exactly once as a contiguous
// subsequence of ref.
//
// Rather than testing one candidate start offset at a time, this keeps a
// bitset of still-alive candidate offsets and narrows it one line of the
// window at a time, clearing any candidate whose line at that offset
// mismatches — the same "bitset of survivors, narrowed column by column"
// shape as a dataflow gen/kill pass, applied here to line content instead
// of reaching definitions.
func isUnique(ref *line.Store, r Range) bool {
	n := ref.Len()
	size := r.Size()
	if size <= 0 || size > n {
		return true
	}
	nStarts := n - size + 1
	if nStarts <= 1 {
		return true
	}

	alive := bitset.New(uint(nStarts))
	for i := 0; i < nStarts; i++ {
		alive.Set(uint(i))
	}

	for j := 0; j < size; j++ {
		want := ref.At(r.L + j)
		for i, ok := alive.NextSet(0); ok; i, ok = alive.NextSet(i + 1) {
			if !ref.At(int(i)+j).Equal(want) {
				alive.Clear(i)
			}
		}
		if alive.Count() == 1 {
			return true
		}
	}
	return alive.Count() == 1
}
