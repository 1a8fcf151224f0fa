package search

import "errors"

var (
	ErrInvalidDepth       = errors.New("search depth must be positive")
	ErrNoLegalMoves       = errors.New("no legal moves")
	ErrInvariantViolation = errors.New("rules engine invariant violated")
)
