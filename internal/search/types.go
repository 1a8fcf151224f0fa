package search

// Side identifies one of the two players.
type Side int

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// PieceKind is a chess piece type without colour.
type PieceKind int

const (
	King PieceKind = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (k PieceKind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "unknown"
	}
}

// Score is a material evaluation. Positive favours the side it was computed for.
type Score int

// PieceKinds is the fixed order in which material is summed.
var PieceKinds = [...]PieceKind{King, Queen, Rook, Bishop, Knight, Pawn}

var pieceValues = [...]Score{
	King:   200,
	Queen:  9,
	Rook:   5,
	Bishop: 3,
	Knight: 3,
	Pawn:   1,
}

// PieceValue returns the material weight of a piece kind.
func PieceValue(k PieceKind) Score {
	if k < 0 || int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}
