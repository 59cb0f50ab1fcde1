// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctxerr defines the error kinds shared by the differ and patcher
// as a tagged sum type, propagated explicitly across component boundaries
// instead of via panic/recover.
package ctxerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// BadInput: null/invalid argument passed across a component boundary.
	BadInput Kind = iota
	// IORead: a read from an input stream failed.
	IORead
	// IOWrite: a write to an output stream failed.
	IOWrite
	// CantOpen: a file could not be opened.
	CantOpen
	// BadChangeSet: the parser hit a malformed token or missing section.
	BadChangeSet
	// ContextNotFound: the applier's pattern matched nowhere.
	ContextNotFound
	// AmbiguousContext: the applier's pattern matched more than once.
	AmbiguousContext
	// FilesIdentical: diff mode found no differences.
	FilesIdentical
	// EmptySource: diff mode's reference file has zero lines.
	EmptySource
	// IllegalUsage: malformed CLI invocation.
	IllegalUsage
	// Internal: an invariant was violated; indicates a bug in this repo.
	Internal
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "BadInput"
	case IORead:
		return "IORead"
	case IOWrite:
		return "IOWrite"
	case CantOpen:
		return "CantOpen"
	case BadChangeSet:
		return "BadChangeSet"
	case ContextNotFound:
		return "ContextNotFound"
	case AmbiguousContext:
		return "AmbiguousContext"
	case FilesIdentical:
		return "FilesIdentical"
	case EmptySource:
		return "EmptySource"
	case IllegalUsage:
		return "IllegalUsage"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a Kind paired with a human-readable message.  It satisfies the
// standard error interface and works with errors.Is/errors.As: errors.Is
// compares Kinds, matching the original's THROW_IF(..., XSomeKind) checks.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, ctxerr.New(ctxerr.ContextNotFound, "")) works regardless
// of Message/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error with the given Kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error with the given Kind that wraps cause.
func Wrap(kind Kind, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
