package search

import (
	"fmt"
	"math/rand"
)

// node is an immutable position in a hand-built game tree.
type node struct {
	side   Side
	counts [2][6]int
	moves  []string
	next   map[string]*node
	over   bool
}

type fakeRules struct {
	// skipTurn makes Apply return children with the wrong side to move.
	skipTurn bool
}

func (fakeRules) SideToMove(n *node) Side { return n.side }

func (fakeRules) PieceCount(n *node, side Side, kind PieceKind) int {
	return n.counts[side][kind]
}

func (fakeRules) LegalMoves(n *node) []string {
	if n.over {
		return nil
	}
	return append([]string(nil), n.moves...)
}

func (f fakeRules) Apply(n *node, mv string) *node {
	child, ok := n.next[mv]
	if !ok {
		panic(fmt.Sprintf("fake: move %q not legal", mv))
	}
	if f.skipTurn {
		cp := *child
		cp.side = n.side
		return &cp
	}
	return child
}

func (fakeRules) IsGameOver(n *node) bool { return n.over }

var fullArmy = [6]int{King: 1, Queen: 1, Rook: 2, Bishop: 2, Knight: 2, Pawn: 8}

func startNode(side Side) *node {
	return &node{side: side, counts: [2][6]int{White: fullArmy, Black: fullArmy}}
}

// capture returns a copy of n with the turn passed and one piece of kind
// removed from loser.
func (n *node) capture(loser Side, kind PieceKind) *node {
	cp := &node{side: n.side.Opponent(), counts: n.counts}
	if cp.counts[loser][kind] > 0 {
		cp.counts[loser][kind]--
	}
	return cp
}

// quiet returns a copy of n with the turn passed and no material change.
func (n *node) quiet() *node {
	return &node{side: n.side.Opponent(), counts: n.counts}
}

func (n *node) add(mv string, child *node) *node {
	if n.next == nil {
		n.next = map[string]*node{}
	}
	n.moves = append(n.moves, mv)
	n.next[mv] = child
	return n
}

// randomTree builds a full tree where roughly a third of the moves capture
// a random opponent piece.
func randomTree(r *rand.Rand, parent *node, depth, branching int) *node {
	if depth == 0 {
		return parent
	}
	for i := 0; i < branching; i++ {
		var child *node
		if r.Intn(3) == 0 {
			child = parent.capture(parent.side.Opponent(), PieceKind(1+r.Intn(5)))
		} else {
			child = parent.quiet()
		}
		parent.add(fmt.Sprintf("m%d", i), randomTree(r, child, depth-1, branching))
	}
	return parent
}
