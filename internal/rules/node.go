package rules

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/park285/cheese-negamax/internal/search"
)

const (
	fivefoldRepetitions = 5
	seventyFiveMoveRule = 150 // half-moves
)

// Node is an immutable search position.
type Node struct {
	pos     *nchess.Position
	prev    *Node // nil at the last irreversible move
	key     string
	counts  [2][len(search.PieceKinds)]int
	light   [2]int // bishops on light squares, per side
	dark    [2]int
	outcome nchess.Outcome
	method  nchess.Method
}

// FromGame builds the search root for the game's current position. Earlier
// main-line positions are kept only as repetition history.
func FromGame(g *nchess.Game) *Node {
	cur := g.Position()
	var prev *Node
	for _, p := range g.Positions() {
		if p == cur {
			break
		}
		prev = link(p, prev)
	}
	root := link(cur, prev)
	root.settle()
	if g.Outcome() != nchess.NoOutcome {
		root.outcome, root.method = g.Outcome(), g.Method()
	}
	return root
}

func (n *Node) Position() *nchess.Position { return n.pos }

func (n *Node) FEN() string { return n.pos.String() }

func (n *Node) Outcome() nchess.Outcome { return n.outcome }

func (n *Node) Method() nchess.Method { return n.method }

// link creates a node without deciding its outcome.
func link(pos *nchess.Position, prev *Node) *Node {
	n := &Node{pos: pos, outcome: nchess.NoOutcome, method: nchess.NoMethod}
	if pos.HalfMoveClock() > 0 {
		n.prev = prev
	}
	board := pos.Board()
	raw, _ := board.MarshalBinary()
	raw = append(raw, byte(pos.Turn()), byte(pos.EnPassantSquare()))
	n.key = string(raw) + string(pos.CastleRights())

	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			p := board.Piece(nchess.NewSquare(file, rank))
			kind, ok := kindOf(p.Type())
			if !ok {
				continue
			}
			side := SideOf(p.Color())
			n.counts[side][kind]++
			if kind == search.Bishop {
				if (int(file)+int(rank))%2 == 1 {
					n.light[side]++
				} else {
					n.dark[side]++
				}
			}
		}
	}
	return n
}

// settle decides the outcome with the library's precedence: mate and
// stalemate first, then insufficient material, the 75-move rule and
// fivefold repetition.
func (n *Node) settle() {
	switch n.pos.Status() {
	case nchess.Checkmate:
		n.method = nchess.Checkmate
		n.outcome = nchess.WhiteWon
		if n.pos.Turn() == nchess.White {
			n.outcome = nchess.BlackWon
		}
		return
	case nchess.Stalemate:
		n.outcome, n.method = nchess.Draw, nchess.Stalemate
		return
	}
	switch {
	case !n.sufficientMaterial():
		n.outcome, n.method = nchess.Draw, nchess.InsufficientMaterial
	case n.pos.HalfMoveClock() >= seventyFiveMoveRule:
		n.outcome, n.method = nchess.Draw, nchess.SeventyFiveMoveRule
	case n.repetitions() >= fivefoldRepetitions:
		n.outcome, n.method = nchess.Draw, nchess.FivefoldRepetition
	}
}

func (n *Node) repetitions() int {
	count := 1
	for p := n.prev; p != nil; p = p.prev {
		if p.key == n.key {
			count++
		}
	}
	return count
}

func (n *Node) sufficientMaterial() bool {
	w, b := n.counts[search.White], n.counts[search.Black]
	if w[search.Queen]+w[search.Rook]+w[search.Pawn]+b[search.Queen]+b[search.Rook]+b[search.Pawn] > 0 {
		return true
	}
	if w[search.King] == 0 || b[search.King] == 0 {
		return true
	}
	bishops := w[search.Bishop] + b[search.Bishop]
	knights := w[search.Knight] + b[search.Knight]
	switch {
	case knights == 0 && bishops <= 1:
		return false
	case bishops == 0 && knights == 1:
		return false
	case knights == 0:
		light := n.light[search.White] + n.light[search.Black]
		dark := n.dark[search.White] + n.dark[search.Black]
		return light > 0 && dark > 0
	}
	return true
}
