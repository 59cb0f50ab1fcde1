// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changeset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/line"
)

func storeOf(lines ...string) *line.Store {
	ls := make([]line.Line, len(lines))
	for i, s := range lines {
		ls[i] = line.NewString(s)
	}
	return line.NewStore(ls)
}

func storeText(s *line.Store) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.At(i).String()
	}
	return out
}

// roundTrip builds a change-set from a->b and applies it to a, asserting
// the result equals b.
func roundTrip(t *testing.T, a, b []string) {
	t.Helper()
	source := storeOf(a...)
	dest := storeOf(b...)

	var buf bytes.Buffer
	err := Build(source, dest, &buf)
	require.NoError(t, err)

	result, err := Apply(storeOf(a...), strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, b, storeText(result))
}

func TestBuildRejectsIdenticalFiles(t *testing.T) {
	var buf bytes.Buffer
	err := Build(storeOf("a", "b", "c"), storeOf("a", "b", "c"), &buf)
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.FilesIdentical, kind)
	assert.Empty(t, buf.String())
}

func TestBuildEmitsReplaceForSingleLineChange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(storeOf("a", "b", "c"), storeOf("a", "x", "c"), &buf))
	assert.Contains(t, buf.String(), "[REPLACE]\n> b\n[WITH]\n> x\n")
	roundTrip(t, []string{"a", "b", "c"}, []string{"a", "x", "c"})
}

func TestBuildEmitsInsertForNewLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(storeOf("alpha", "beta", "gamma"), storeOf("alpha", "beta", "delta", "gamma"), &buf))
	assert.Contains(t, buf.String(), "[INSERT]\n> delta\n")
	roundTrip(t, []string{"alpha", "beta", "gamma"}, []string{"alpha", "beta", "delta", "gamma"})
}

func TestInsertAfterDuplicatePrefixRoundTrips(t *testing.T) {
	a := []string{"a", "b", "a", "b", "c"}
	b := []string{"a", "b", "a", "b", "c", "d"}
	roundTrip(t, a, b)
}

func TestRoundTripDeleteToEmpty(t *testing.T) {
	roundTrip(t, []string{"x", "y", "z"}, []string{})
}

func TestApplyReportsContextNotFound(t *testing.T) {
	cs := "[BEGIN]\n[REPLACE]\n> nonexistent\n[WITH]\n> whatever\n[END]\n"
	_, err := Apply(storeOf("a", "b", "c"), strings.NewReader(cs))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.ContextNotFound, kind)
}

func TestEmptySource(t *testing.T) {
	var buf bytes.Buffer
	err := Build(storeOf(), storeOf("a"), &buf)
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.EmptySource, kind)
}

func TestRoundTripVariousEdits(t *testing.T) {
	cases := []struct{ a, b []string }{
		{[]string{"1", "2", "3", "4", "5"}, []string{"1", "2", "3", "4", "5", "6"}},
		{[]string{"1", "2", "3", "4", "5"}, []string{"0", "1", "2", "3", "4", "5"}},
		{[]string{"1", "2", "3"}, []string{"3", "2", "1"}},
		{[]string{"foo", "bar", "baz", "qux"}, []string{"foo", "qux"}},
		{[]string{"x"}, []string{"x", "x", "x"}},
		{[]string{"a", "b", "c", "d", "e"}, []string{"a", "z", "c", "y", "e"}},
	}
	for _, c := range cases {
		roundTrip(t, c.a, c.b)
	}
}

func TestAmbiguousContextOnHandCraftedChangeSet(t *testing.T) {
	// "x" occurs twice with no other anchor, so a bare REPLACE of "x" is
	// ambiguous against this reference.
	cs := "[BEGIN]\n[REPLACE]\n> x\n[WITH]\n> y\n[END]\n"
	_, err := Apply(storeOf("x", "a", "x"), strings.NewReader(cs))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.AmbiguousContext, kind)
}

func TestParserRejectsMissingBegin(t *testing.T) {
	_, err := Apply(storeOf("a"), strings.NewReader("[END]\n"))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.BadChangeSet, kind)
}

func TestParserRejectsUnknownToken(t *testing.T) {
	_, err := Apply(storeOf("a"), strings.NewReader("[BEGIN]\n[BOGUS]\n[END]\n"))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.BadChangeSet, kind)
}

func TestParserRejectsContentWithoutPrefix(t *testing.T) {
	_, err := Apply(storeOf("a"), strings.NewReader("[BEGIN]\n[REPLACE]\nnope\n[WITH]\n> y\n[END]\n"))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.BadChangeSet, kind)
}

func TestParserRejectsTruncatedStream(t *testing.T) {
	_, err := Apply(storeOf("a"), strings.NewReader("[BEGIN]\n[REPLACE]\n> a\n[WITH]\n> b\n"))
	kind, ok := ctxerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ctxerr.BadChangeSet, kind)
}

// TestDeleteAtEOFExpandsLeftPastNonUniquePenultimateLine covers deleting
// the final line when the penultimate line repeats earlier in the file:
// the context window must still expand left to find a unique anchor.
func TestDeleteAtEOFExpandsLeftPastNonUniquePenultimateLine(t *testing.T) {
	a := []string{"x", "y", "x", "y"}
	b := []string{"x", "y", "x"}
	roundTrip(t, a, b)
}

func TestContextSelectorMinimality(t *testing.T) {
	ref := storeOf("a", "b", "c", "d", "e")
	target, err := detectPattern(ref, Range{2, 3})
	require.NoError(t, err)
	assert.True(t, target.Encloses(Range{2, 3}))
	assert.True(t, isUnique(ref, target))
	// No proper sub-range enclosing {2,3} should also be unique.
	if target.L < 2 {
		assert.False(t, isUnique(ref, Range{target.L + 1, target.R}))
	}
	if target.R > 3 {
		assert.False(t, isUnique(ref, Range{target.L, target.R - 1}))
	}
}
