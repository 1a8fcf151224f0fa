package search

// MaterialBalance sums, for every piece kind, the weighted difference between
// the pieces held by side and by its opponent. Terminal positions are counted
// like any other.
func MaterialBalance[P any](b Board[P], pos P, side Side) Score {
	opp := side.Opponent()
	var total Score
	for _, kind := range PieceKinds {
		diff := b.PieceCount(pos, side, kind) - b.PieceCount(pos, opp, kind)
		total += PieceValue(kind) * Score(diff)
	}
	return total
}

// EvaluateForSideToMove is MaterialBalance from the mover's viewpoint.
func EvaluateForSideToMove[P any](b Board[P], pos P) Score {
	return MaterialBalance(b, pos, b.SideToMove(pos))
}
