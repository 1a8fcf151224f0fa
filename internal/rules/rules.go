// Package rules adapts github.com/corentings/chess/v2 to the searcher's
// rules-engine contract. Search positions are Nodes: a library position
// advanced with Position.Update, linked to its predecessors back to the last
// irreversible move so automatic draws stay visible without a move tree.
package rules

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/park285/cheese-negamax/internal/search"
)

// Rules implements search.Rules[*Node, chess.Move].
type Rules struct{}

func New() Rules { return Rules{} }

// LegalMoves returns the library's valid moves, or none once the position
// has an outcome (including automatic draws with moves still available).
func (Rules) LegalMoves(n *Node) []nchess.Move {
	if n.outcome != nchess.NoOutcome {
		return nil
	}
	return n.pos.ValidMoves()
}

// Apply returns the node after mv. n itself is never touched.
func (Rules) Apply(n *Node, mv nchess.Move) *Node {
	child := link(n.pos.Update(&mv), n)
	child.settle()
	return child
}

func (Rules) IsGameOver(n *Node) bool {
	return n.outcome != nchess.NoOutcome
}

func (Rules) SideToMove(n *Node) search.Side {
	return SideOf(n.pos.Turn())
}

func (Rules) PieceCount(n *Node, side search.Side, kind search.PieceKind) int {
	if int(kind) < 0 || int(kind) >= len(n.counts[side]) {
		return 0
	}
	return n.counts[side][kind]
}

// SideOf converts a library colour.
func SideOf(c nchess.Color) search.Side {
	if c == nchess.Black {
		return search.Black
	}
	return search.White
}

func kindOf(t nchess.PieceType) (search.PieceKind, bool) {
	switch t {
	case nchess.King:
		return search.King, true
	case nchess.Queen:
		return search.Queen, true
	case nchess.Rook:
		return search.Rook, true
	case nchess.Bishop:
		return search.Bishop, true
	case nchess.Knight:
		return search.Knight, true
	case nchess.Pawn:
		return search.Pawn, true
	default:
		return 0, false
	}
}

// NewSearcher returns a searcher bound to the chess rules.
func NewSearcher() *search.Searcher[*Node, nchess.Move] {
	return search.NewSearcher[*Node, nchess.Move](New())
}
