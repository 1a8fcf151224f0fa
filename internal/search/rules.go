package search

// Board is the read-only part of the rules engine the evaluator needs.
type Board[P any] interface {
	SideToMove(pos P) Side
	PieceCount(pos P, side Side, kind PieceKind) int
}

// Rules is the rules-engine capability consumed by the searcher.
//
// LegalMoves must return moves in a stable canonical order; the searcher
// breaks ties by that order. Apply must leave pos valid and unchanged.
type Rules[P, M any] interface {
	Board[P]
	LegalMoves(pos P) []M
	Apply(pos P, move M) P
	IsGameOver(pos P) bool
}
