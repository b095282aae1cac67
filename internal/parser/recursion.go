package parser

import "github.com/WhatFor/wackdb/internal/dberr"

// recursionGuard bounds expression-parsing recursion depth, grounded on
// original_source/crates/parser/src/recursion.rs's RecursionGuard. Go
// has no Drop, so callers decrement explicitly with a defer instead of
// relying on scope exit.
type recursionGuard struct {
	remaining int
}

// maxRecursionDepth bounds nested expression parsing (parenthesized
// sub-expressions, operator chains) to guard against stack exhaustion
// on pathological input.
const maxRecursionDepth = 128

func newRecursionGuard() *recursionGuard {
	return &recursionGuard{remaining: maxRecursionDepth}
}

func (g *recursionGuard) enter(position int) (func(), error) {
	if g.remaining == 0 {
		return func() {}, &dberr.ParseError{Kind: dberr.MaximumRecursionDepthReached, Position: position}
	}
	g.remaining--
	return func() { g.remaining++ }, nil
}
