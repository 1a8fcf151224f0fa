package search

import (
	"context"
	"fmt"
)

// Stats counts the frames visited by one search.
type Stats struct {
	Nodes  int
	Leaves int
}

// Line is one root move with the score the root compared it by.
type Line[M any] struct {
	Move  M
	Score Score
}

// Analysis is the full result of a root search. Lines keep the rules
// engine's enumeration order; Best indexes the chosen line.
type Analysis[M any] struct {
	Depth int
	Lines []Line[M]
	Best  int
	Stats Stats
}

func (a Analysis[M]) BestMove() M {
	return a.Lines[a.Best].Move
}

func (a Analysis[M]) BestScore() Score {
	return a.Lines[a.Best].Score
}

// Searcher runs an exhaustive fixed-depth negamax over positions supplied by
// an injected rules engine. It keeps no state between calls.
type Searcher[P, M any] struct {
	rules Rules[P, M]
}

func NewSearcher[P, M any](rules Rules[P, M]) *Searcher[P, M] {
	return &Searcher[P, M]{rules: rules}
}

// BestMove returns the root move with the highest negamax score. Ties keep
// the move enumerated first.
func (s *Searcher[P, M]) BestMove(pos P, depth int) (M, error) {
	a, err := s.Analyze(pos, depth)
	if err != nil {
		var zero M
		return zero, err
	}
	return a.BestMove(), nil
}

// cancelCheckInterval is how many frames run between context checks.
const cancelCheckInterval = 1024

// walk carries per-search state through the recursion.
type walk struct {
	ctx   context.Context
	stats *Stats
}

func (w *walk) enter() error {
	w.stats.Nodes++
	if w.ctx != nil && w.stats.Nodes%cancelCheckInterval == 0 {
		if err := w.ctx.Err(); err != nil {
			return fmt.Errorf("search stopped after %d nodes: %w", w.stats.Nodes, err)
		}
	}
	return nil
}

// Analyze scores every legal root move to the given depth.
func (s *Searcher[P, M]) Analyze(pos P, depth int) (Analysis[M], error) {
	return s.AnalyzeContext(context.Background(), pos, depth)
}

// AnalyzeContext is Analyze that gives up once ctx is done. The result is
// identical to Analyze when ctx stays live.
func (s *Searcher[P, M]) AnalyzeContext(ctx context.Context, pos P, depth int) (Analysis[M], error) {
	if depth <= 0 {
		return Analysis[M]{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	moves := s.rules.LegalMoves(pos)
	if len(moves) == 0 {
		return Analysis[M]{}, ErrNoLegalMoves
	}

	mover := s.rules.SideToMove(pos)
	a := Analysis[M]{Depth: depth, Lines: make([]Line[M], 0, len(moves))}
	w := &walk{ctx: ctx, stats: &a.Stats}
	a.Stats.Nodes++
	for i, mv := range moves {
		if err := ctx.Err(); err != nil {
			return Analysis[M]{}, fmt.Errorf("search stopped at root move %d: %w", i, err)
		}
		child, err := s.child(pos, mover, mv)
		if err != nil {
			return Analysis[M]{}, err
		}
		v, err := s.negamax(child, depth-1, mover.Opponent(), w)
		if err != nil {
			return Analysis[M]{}, err
		}
		a.Lines = append(a.Lines, Line[M]{Move: mv, Score: -v})
		if -v > a.Lines[a.Best].Score {
			a.Best = i
		}
	}
	return a, nil
}

// NegamaxValue returns the negamax value of pos searched to depth, seen from
// perspective. Values for the two perspectives are exact negations.
func (s *Searcher[P, M]) NegamaxValue(pos P, depth int, perspective Side) (Score, error) {
	if depth < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	var st Stats
	return s.negamax(pos, depth, perspective, &walk{stats: &st})
}

// NegamaxValueForSideToMove is NegamaxValue from the mover's viewpoint.
func (s *Searcher[P, M]) NegamaxValueForSideToMove(pos P, depth int) (Score, error) {
	return s.NegamaxValue(pos, depth, s.rules.SideToMove(pos))
}

func (s *Searcher[P, M]) negamax(pos P, depth int, perspective Side, w *walk) (Score, error) {
	if err := w.enter(); err != nil {
		return 0, err
	}
	mover := s.rules.SideToMove(pos)
	sign := Score(1)
	if perspective != mover {
		sign = -1
	}

	if depth == 0 || s.rules.IsGameOver(pos) {
		w.stats.Leaves++
		return sign * MaterialBalance[P](s.rules, pos, mover), nil
	}

	moves := s.rules.LegalMoves(pos)
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: no legal moves in a position that is not over", ErrInvariantViolation)
	}

	var best Score
	for i, mv := range moves {
		child, err := s.child(pos, mover, mv)
		if err != nil {
			return 0, err
		}
		v, err := s.negamax(child, depth-1, mover.Opponent(), w)
		if err != nil {
			return 0, err
		}
		if i == 0 || -v > best {
			best = -v
		}
	}
	return sign * best, nil
}

// child applies mv and checks that the turn passed to the opponent.
func (s *Searcher[P, M]) child(pos P, mover Side, mv M) (P, error) {
	next := s.rules.Apply(pos, mv)
	if got := s.rules.SideToMove(next); got != mover.Opponent() {
		var zero P
		return zero, fmt.Errorf("%w: %s to move after a %s move", ErrInvariantViolation, got, mover)
	}
	return next, nil
}
