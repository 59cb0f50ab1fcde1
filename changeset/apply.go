// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changeset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/line"
)

// Apply parses the change-set read from cs and replays it against ref,
// returning the reconstructed destination store. ref is not mutated;
// Apply works against an internal copy.
func Apply(ref *line.Store, cs io.Reader) (*line.Store, error) {
	toks, err := lex(cs)
	if err != nil {
		return nil, err
	}

	work := line.NewStore(append([]line.Line{}, ref.All()...))
	a := &applier{work: work}
	if err := a.run(toks); err != nil {
		return nil, err
	}
	return work, nil
}

// lexLine is one line of a change-set: either a command token (isToken) or
// a content line with its "> " prefix already stripped.
type lexLine struct {
	isToken bool
	text    string
}

// lex reads cs to EOF and classifies every line: lines starting with "["
// are tokens (trailing whitespace after the closing "]" is tolerated);
// everything else must start with the literal "> " prefix.
func lex(cs io.Reader) ([]lexLine, error) {
	br := bufio.NewReader(cs)
	var out []lexLine
	for {
		raw, err := br.ReadString('\n')
		raw = strings.TrimRight(raw, "\r\n")
		if raw != "" || err == nil {
			lx, lerr := classify(raw)
			if lerr != nil {
				return nil, lerr
			}
			out = append(out, lx)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.IORead, err)
		}
	}
	return out, nil
}

func classify(raw string) (lexLine, error) {
	if strings.HasPrefix(raw, "[") {
		end := strings.IndexByte(raw, ']')
		if end < 0 {
			return lexLine{}, ctxerr.Newf(ctxerr.BadChangeSet, "unterminated token: %q", raw)
		}
		if strings.TrimSpace(raw[end+1:]) != "" {
			return lexLine{}, ctxerr.Newf(ctxerr.BadChangeSet, "trailing garbage after token: %q", raw)
		}
		return lexLine{isToken: true, text: raw[:end+1]}, nil
	}
	if !strings.HasPrefix(raw, contentPrefix) {
		return lexLine{}, ctxerr.Newf(ctxerr.BadChangeSet, "content line missing %q prefix: %q", contentPrefix, raw)
	}
	return lexLine{text: raw[len(contentPrefix):]}, nil
}

type parseState int

const (
	stPreBegin parseState = iota
	stBetweenEdits
	stInInsertWhat
	stInInsertBefore
	stInInsertAfter
	stInDeleteWhat
	stInDeleteBefore
	stInDeleteAfter
	stInReplaceOld
	stInReplaceNew
	stDone
)

func isEditOrEnd(tok string) bool {
	switch tok {
	case tokInsert, tokDelete, tokReplace, tokEnd:
		return true
	default:
		return false
	}
}

// applier runs the change-set parser as a small state machine and, for
// each completed edit, performs the locate-then-mutate step directly
// against work.
type applier struct {
	work *line.Store

	what, before, after []line.Line
	oldLines, newLines  []line.Line
}

func (a *applier) run(toks []lexLine) error {
	state := stPreBegin
	i := 0
	for i < len(toks) {
		lx := toks[i]
		switch state {
		case stPreBegin:
			if !lx.isToken || lx.text != tokBegin {
				return ctxerr.New(ctxerr.BadChangeSet, "change-set does not start with [BEGIN]")
			}
			state = stBetweenEdits
			i++

		case stBetweenEdits:
			if !lx.isToken {
				return ctxerr.Newf(ctxerr.BadChangeSet, "expected a command token, found content line %q", lx.text)
			}
			switch lx.text {
			case tokInsert:
				a.what = nil
				state = stInInsertWhat
			case tokDelete:
				a.what = nil
				state = stInDeleteWhat
			case tokReplace:
				a.oldLines = nil
				state = stInReplaceOld
			case tokEnd:
				state = stDone
			default:
				return ctxerr.Newf(ctxerr.BadChangeSet, "unknown token %q", lx.text)
			}
			i++

		case stInInsertWhat:
			if lx.isToken {
				if lx.text != tokBetween {
					return ctxerr.Newf(ctxerr.BadChangeSet, "expected [BETWEEN], found %q", lx.text)
				}
				a.before = nil
				state = stInInsertBefore
				i++
			} else {
				a.what = append(a.what, line.NewString(lx.text))
				i++
			}

		case stInInsertBefore:
			if lx.isToken {
				if lx.text != tokAnd {
					return ctxerr.Newf(ctxerr.BadChangeSet, "expected [AND], found %q", lx.text)
				}
				a.after = nil
				state = stInInsertAfter
				i++
			} else {
				a.before = append(a.before, line.NewString(lx.text))
				i++
			}

		case stInInsertAfter:
			if lx.isToken && isEditOrEnd(lx.text) {
				if err := a.applyInsert(); err != nil {
					return err
				}
				state = stBetweenEdits
			} else if !lx.isToken {
				a.after = append(a.after, line.NewString(lx.text))
				i++
			} else {
				return ctxerr.Newf(ctxerr.BadChangeSet, "unexpected token %q inside [INSERT]", lx.text)
			}

		case stInDeleteWhat:
			if lx.isToken {
				if lx.text != tokBetween {
					return ctxerr.Newf(ctxerr.BadChangeSet, "expected [BETWEEN], found %q", lx.text)
				}
				a.before = nil
				state = stInDeleteBefore
				i++
			} else {
				a.what = append(a.what, line.NewString(lx.text))
				i++
			}

		case stInDeleteBefore:
			if lx.isToken {
				if lx.text != tokAnd {
					return ctxerr.Newf(ctxerr.BadChangeSet, "expected [AND], found %q", lx.text)
				}
				a.after = nil
				state = stInDeleteAfter
				i++
			} else {
				a.before = append(a.before, line.NewString(lx.text))
				i++
			}

		case stInDeleteAfter:
			if lx.isToken && isEditOrEnd(lx.text) {
				if err := a.applyDelete(); err != nil {
					return err
				}
				state = stBetweenEdits
			} else if !lx.isToken {
				a.after = append(a.after, line.NewString(lx.text))
				i++
			} else {
				return ctxerr.Newf(ctxerr.BadChangeSet, "unexpected token %q inside [DELETE]", lx.text)
			}

		case stInReplaceOld:
			if lx.isToken {
				if lx.text != tokWith {
					return ctxerr.Newf(ctxerr.BadChangeSet, "expected [WITH], found %q", lx.text)
				}
				a.newLines = nil
				state = stInReplaceNew
				i++
			} else {
				a.oldLines = append(a.oldLines, line.NewString(lx.text))
				i++
			}

		case stInReplaceNew:
			if lx.isToken && isEditOrEnd(lx.text) {
				if err := a.applyReplace(); err != nil {
					return err
				}
				state = stBetweenEdits
			} else if !lx.isToken {
				a.newLines = append(a.newLines, line.NewString(lx.text))
				i++
			} else {
				return ctxerr.Newf(ctxerr.BadChangeSet, "unexpected token %q inside [REPLACE]", lx.text)
			}

		case stDone:
			return ctxerr.New(ctxerr.BadChangeSet, "content after [END]")
		}
	}

	if state != stDone {
		return ctxerr.New(ctxerr.BadChangeSet, "truncated change-set: missing [END]")
	}
	return nil
}

// applyInsert performs the locate step for an insert: before++after must
// match exactly once in work; the edit offset is match+len(before).
func (a *applier) applyInsert() error {
	pattern := concat(a.before, a.after)
	off, err := locate(a.work, pattern, len(a.before))
	if err != nil {
		return err
	}
	a.work.Insert(off, a.what...)
	return nil
}

func (a *applier) applyDelete() error {
	pattern := concat(a.before, concat(a.what, a.after))
	off, err := locate(a.work, pattern, len(a.before))
	if err != nil {
		return err
	}
	a.work.Delete(off, len(a.what))
	return nil
}

func (a *applier) applyReplace() error {
	off, err := locate(a.work, a.oldLines, 0)
	if err != nil {
		return err
	}
	a.work.Delete(off, len(a.oldLines))
	a.work.Insert(off, a.newLines...)
	return nil
}

// locate scans work for all occurrences of pattern and returns
// match_start+skip for the sole match, or an error if there are zero or
// more than one.
func locate(work *line.Store, pattern []line.Line, skip int) (int, error) {
	matches := findAll(work, pattern)
	switch len(matches) {
	case 0:
		return 0, ctxerr.New(ctxerr.ContextNotFound, fmt.Sprintf("no match for %d-line context", len(pattern)))
	case 1:
		return matches[0] + skip, nil
	default:
		return 0, ctxerr.New(ctxerr.AmbiguousContext, fmt.Sprintf("%d matches for %d-line context", len(matches), len(pattern)))
	}
}

func findAll(s *line.Store, pattern []line.Line) []int {
	n, m := s.Len(), len(pattern)
	if m == 0 {
		out := make([]int, n+1)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if m > n {
		return nil
	}
	var out []int
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if !s.At(i + j).Equal(pattern[j]) {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}

func concat(a, b []line.Line) []line.Line {
	out := make([]line.Line, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
