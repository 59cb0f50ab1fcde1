// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package changeset implements the context-anchored change-set format:
// building one from a pair of line stores, and parsing/applying one back
// onto a reference store.
package changeset

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/lcs"
	"github.com/aleximok/ctxdiff/line"
)

const (
	tokBegin   = "[BEGIN]"
	tokEnd     = "[END]"
	tokInsert  = "[INSERT]"
	tokDelete  = "[DELETE]"
	tokReplace = "[REPLACE]"
	tokBetween = "[BETWEEN]"
	tokAnd     = "[AND]"
	tokWith    = "[WITH]"

	contentPrefix = "> "
)

// Build computes the change-set that turns source into dest and writes it
// to out. It returns a *ctxerr.Error with Kind FilesIdentical if the two
// stores hold the same content, or EmptySource if source has zero lines.
func Build(source, dest *line.Store, out io.Writer) error {
	result := lcs.Compute[line.Line](source.All(), dest.All())
	switch result.Status {
	case lcs.Failed:
		return ctxerr.Wrap(ctxerr.Internal, result.Err)
	case lcs.Empty, lcs.Identical:
		return ctxerr.New(ctxerr.FilesIdentical, "")
	}

	if source.Len() == 0 {
		return ctxerr.New(ctxerr.EmptySource, "")
	}

	b := &builder{
		ref:  line.NewStore(append([]line.Line{}, source.All()...)),
		dest: dest,
		w:    bufio.NewWriter(out),
	}
	if err := b.writeToken(tokBegin); err != nil {
		return err
	}

	for _, e := range result.Trace {
		switch e.Kind {
		case lcs.Keep:
			if err := b.flush(); err != nil {
				return err
			}
			b.pos++
		case lcs.Remove:
			var err error
			b.toDelete, err = b.toDelete.Extend(e.RefIndex)
			if err != nil {
				return ctxerr.Wrap(ctxerr.Internal, err)
			}
		case lcs.Insert:
			var err error
			b.toInsert, err = b.toInsert.Extend(e.DstIndex)
			if err != nil {
				return ctxerr.Wrap(ctxerr.Internal, err)
			}
		}
	}
	if err := b.flush(); err != nil {
		return err
	}

	if err := b.writeToken(tokEnd); err != nil {
		return err
	}
	return b.w.Flush()
}

// builder combines the pending-edit accumulator and the change-set writer:
// both share the evolving reference and the current cursor.
type builder struct {
	ref      *line.Store // evolving reference
	dest     *line.Store // destination line store (read-only)
	w        *bufio.Writer
	pos      int
	toInsert Range
	toDelete Range
}

// flush dispatches the pending edit, if any, then clears the pendings.
func (b *builder) flush() error {
	hasInsert := b.toInsert.Valid()
	hasDelete := b.toDelete.Valid()
	if !hasInsert && !hasDelete {
		return nil
	}

	var insLines []line.Line
	if hasInsert {
		insLines = append([]line.Line{}, b.dest.Slice(b.toInsert.L, b.toInsert.R)...)
	}
	count := 0
	if hasDelete {
		count = b.toDelete.Size()
	}

	var err error
	switch {
	case hasInsert && hasDelete:
		err = b.emitReplace(insLines, count)
	case hasInsert:
		err = b.emitInsert(insLines)
	default:
		err = b.emitDelete(count)
	}
	if err != nil {
		return err
	}

	b.pos += len(insLines)
	b.toInsert = Range{}
	b.toDelete = Range{}
	return nil
}

func (b *builder) emitInsert(insLines []line.Line) error {
	initial := Range{max0(b.pos - 1), minInt(b.ref.Len(), b.pos+1)}
	target, err := detectPattern(b.ref, initial)
	if err != nil {
		return err
	}
	before := b.ref.Slice(target.L, b.pos)
	after := b.ref.Slice(b.pos, target.R)

	if err := b.writeToken(tokInsert); err != nil {
		return err
	}
	if err := b.writeContent(insLines); err != nil {
		return err
	}
	if err := b.writeToken(tokBetween); err != nil {
		return err
	}
	if err := b.writeContent(before); err != nil {
		return err
	}
	if err := b.writeToken(tokAnd); err != nil {
		return err
	}
	if err := b.writeContent(after); err != nil {
		return err
	}

	b.ref.Insert(b.pos, insLines...)
	return nil
}

func (b *builder) emitDelete(count int) error {
	initial := Range{max0(b.pos - 1), minInt(b.ref.Len(), b.pos+count+1)}
	target, err := detectPattern(b.ref, initial)
	if err != nil {
		return err
	}
	before := b.ref.Slice(target.L, b.pos)
	deleted := append([]line.Line{}, b.ref.Slice(b.pos, b.pos+count)...)
	after := b.ref.Slice(b.pos+count, target.R)

	if err := b.writeToken(tokDelete); err != nil {
		return err
	}
	if err := b.writeContent(deleted); err != nil {
		return err
	}
	if err := b.writeToken(tokBetween); err != nil {
		return err
	}
	if err := b.writeContent(before); err != nil {
		return err
	}
	if err := b.writeToken(tokAnd); err != nil {
		return err
	}
	if err := b.writeContent(after); err != nil {
		return err
	}

	b.ref.Delete(b.pos, count)
	return nil
}

func (b *builder) emitReplace(insLines []line.Line, count int) error {
	initial := Range{b.pos, b.pos + count}
	target, err := detectPattern(b.ref, initial)
	if err != nil {
		return err
	}
	oldLines := append([]line.Line{}, b.ref.Slice(target.L, target.R)...)

	if err := b.writeToken(tokReplace); err != nil {
		return err
	}
	if err := b.writeContent(oldLines); err != nil {
		return err
	}

	b.ref.Delete(b.pos, count)
	b.ref.Insert(b.pos, insLines...)
	netChange := len(insLines) - count
	withLines := append([]line.Line{}, b.ref.Slice(target.L, target.R+netChange)...)

	if err := b.writeToken(tokWith); err != nil {
		return err
	}
	return b.writeContent(withLines)
}

func (b *builder) writeToken(tok string) error {
	_, err := fmt.Fprintln(b.w, tok)
	if err != nil {
		return ctxerr.Wrap(ctxerr.IOWrite, err)
	}
	return nil
}

func (b *builder) writeContent(lines []line.Line) error {
	for _, l := range lines {
		if _, err := b.w.WriteString(contentPrefix); err != nil {
			return ctxerr.Wrap(ctxerr.IOWrite, err)
		}
		if _, err := b.w.Write(l.Bytes()); err != nil {
			return ctxerr.Wrap(ctxerr.IOWrite, err)
		}
		if err := b.w.WriteByte('\n'); err != nil {
			return ctxerr.Wrap(ctxerr.IOWrite, err)
		}
	}
	return nil
}

func max0(x int) int {
	if x < 0 {
		return 0
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
