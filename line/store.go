// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package line

import (
	"bufio"
	"bytes"
	"io"
)

// A Store is an ordered, 0-indexed sequence of Lines.  It is immutable in
// diff mode (the two input files never change) and mutable in builder/
// applier mode, where it tracks the "evolving reference" / "working copy":
// every edit applied to a Store is also reflected immediately, so that
// later operations see exactly what the other side of the wire will see.
//
// Indices into a Store are stable only between mutations; Insert and
// Delete shift every index at or beyond the mutation point.
type Store struct {
	lines []Line
}

// NewStore returns a Store containing the given Lines.  The Store takes
// ownership of the slice; the caller should not mutate it afterward.
func NewStore(lines []Line) *Store {
	if lines == nil {
		lines = []Line{}
	}
	return &Store{lines: lines}
}

// Read reads r to EOF, splitting it into Lines on "\n" and stripping a
// trailing "\r" from each line.  Unlike a naive bufio.Scanner split, the
// final line is kept even if it is empty or unterminated: a blank line in
// the input is a Line with zero-length bytes, not a skipped record.
func Read(r io.Reader) (*Store, error) {
	br := bufio.NewReader(r)
	var lines []Line
	for {
		chunk, err := br.ReadBytes('\n')
		if len(chunk) > 0 {
			chunk = bytes.TrimRight(chunk, "\r\n")
			lines = append(lines, New(chunk))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return NewStore(lines), nil
}

// Len returns the number of Lines in this Store.
func (s *Store) Len() int {
	return len(s.lines)
}

// At returns the Line at index i.
func (s *Store) At(i int) Line {
	return s.lines[i]
}

// Slice returns the Lines in the half-open range [l, r), sharing storage
// with this Store's backing array.  The caller must not mutate the Store
// while holding the result.
func (s *Store) Slice(l, r int) []Line {
	return s.lines[l:r]
}

// All returns every Line in this Store, in order.
func (s *Store) All() []Line {
	return s.lines
}

// Insert splices lines into this Store immediately before position at.
func (s *Store) Insert(at int, lines ...Line) {
	if len(lines) == 0 {
		return
	}
	grown := make([]Line, len(s.lines)+len(lines))
	copy(grown, s.lines[:at])
	copy(grown[at:], lines)
	copy(grown[at+len(lines):], s.lines[at:])
	s.lines = grown
}

// Delete removes count Lines starting at position at.
func (s *Store) Delete(at, count int) {
	if count == 0 {
		return
	}
	s.lines = append(s.lines[:at], s.lines[at+count:]...)
}

// WriteTo writes this Store's Lines to w, one per line, separated by "\n".
// No trailing "\n" is written after the final line, matching the legacy
// tool this format is compatible with.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for i, l := range s.lines {
		if i > 0 {
			n, err := io.WriteString(w, "\n")
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
		n, err := w.Write(l.Bytes())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
