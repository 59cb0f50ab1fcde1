// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changeset

import "fmt"

// A Range is a half-open interval [L, R) over a line.Store.
type Range struct {
	L, R int
}

// Size returns R-L.
func (r Range) Size() int { return r.R - r.L }

// Valid reports whether L < R.
func (r Range) Valid() bool { return r.L < r.R }

// Encloses reports whether r's endpoints span other's.
func (r Range) Encloses(other Range) bool {
	return r.L <= other.L && r.R >= other.R
}

// Shift translates both endpoints by offset.
func (r Range) Shift(offset int) Range {
	return Range{r.L + offset, r.R + offset}
}

// Extend grows this range by exactly one element at index idx.  If the
// range is already valid, idx must equal r.R (trace entries within a run
// must arrive in strict ascending order); otherwise a fresh [idx, idx+1)
// range is started.  This mirrors CRange::extend in the original source.
func (r Range) Extend(idx int) (Range, error) {
	if r.Valid() {
		if r.R != idx {
			return r, fmt.Errorf("changeset: out-of-order extend: range ends at %d, got index %d", r.R, idx)
		}
		return Range{r.L, r.R + 1}, nil
	}
	return Range{idx, idx + 1}, nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.L, r.R)
}
