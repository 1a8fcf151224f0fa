package rules

import (
	"errors"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/cheese-negamax/internal/search"
)

func mustGame(t *testing.T, fen string, moves ...string) *nchess.Game {
	t.Helper()
	g, err := NewGame(fen, moves)
	if err != nil {
		t.Fatalf("NewGame(%q, %v): %v", fen, moves, err)
	}
	return g
}

func mustNode(t *testing.T, fen string, moves ...string) *Node {
	t.Helper()
	return FromGame(mustGame(t, fen, moves...))
}

func legal(t *testing.T, n *Node, uci string) nchess.Move {
	t.Helper()
	for _, mv := range New().LegalMoves(n) {
		if EncodeUCI(n.Position(), mv) == uci {
			return mv
		}
	}
	t.Fatalf("%s not legal in %s", uci, n.FEN())
	return nchess.Move{}
}

func TestStartPositionEvaluatesToZero(t *testing.T) {
	r := New()
	g := mustNode(t, StartPos)
	for _, side := range []search.Side{search.White, search.Black} {
		if got := search.MaterialBalance[*Node](r, g, side); got != 0 {
			t.Fatalf("%s balance = %d, want 0", side, got)
		}
	}
	if got := r.PieceCount(g, search.White, search.Pawn); got != 8 {
		t.Fatalf("white pawns = %d, want 8", got)
	}
	if got := r.PieceCount(g, search.Black, search.King); got != 1 {
		t.Fatalf("black kings = %d, want 1", got)
	}
}

func TestMaterialSymmetryOnPositions(t *testing.T) {
	r := New()
	fens := []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"4k3/8/8/3q4/8/8/3Q4/4K3 w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
	}
	for _, fen := range fens {
		g := mustNode(t, fen)
		w := search.MaterialBalance[*Node](r, g, search.White)
		b := search.MaterialBalance[*Node](r, g, search.Black)
		if w != -b {
			t.Fatalf("%s: white=%d black=%d", fen, w, b)
		}
	}
	g := mustNode(t, "8/8/8/8/8/8/6k1/4K2R w K - 0 1")
	if got := search.EvaluateForSideToMove[*Node](r, g); got != 5 {
		t.Fatalf("rook up eval = %d, want 5", got)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	r := New()
	g := mustGame(t, StartPos, "e2e4", "e7e5")
	fen := g.FEN()
	plies := len(g.Moves())
	n := FromGame(g)

	moves := r.LegalMoves(n)
	if len(moves) == 0 {
		t.Fatalf("no legal moves")
	}
	child := r.Apply(n, moves[0])
	if child == n || child.Position() == n.Position() {
		t.Fatalf("Apply returned the input node")
	}
	if r.SideToMove(child) != search.Black {
		t.Fatalf("child side = %s, want black", r.SideToMove(child))
	}
	if n.FEN() != fen || g.FEN() != fen || len(g.Moves()) != plies {
		t.Fatalf("input mutated: fen %q -> %q, plies %d -> %d", fen, n.FEN(), plies, len(g.Moves()))
	}

	if _, err := NewSearcher().BestMove(n, 2); err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if n.FEN() != fen || g.FEN() != fen || len(g.Moves()) != plies {
		t.Fatalf("search mutated input: fen %q -> %q", fen, n.FEN())
	}
}

func TestBestMoveCapturesHangingQueen(t *testing.T) {
	s := NewSearcher()
	g := mustNode(t, "4k3/8/8/3q4/8/8/3Q4/4K3 w - - 0 1")
	for depth := 1; depth <= 2; depth++ {
		mv, err := s.BestMove(g, depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if got := EncodeUCI(g.Position(), mv); got != "d2d5" {
			t.Fatalf("depth %d: best move = %s, want d2d5", depth, got)
		}
	}
}

func TestBestMoveIsLegalFromStart(t *testing.T) {
	s := NewSearcher()
	g := mustNode(t, StartPos)
	mv, err := s.BestMove(g, 2)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	found := false
	for _, legal := range g.Position().ValidMoves() {
		if legal.String() == mv.String() {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("best move %s not legal", mv.String())
	}
	// Every root line scores 0 at depth 2; the first enumerated move wins.
	if first := g.Position().ValidMoves()[0]; first.String() != mv.String() {
		t.Fatalf("tie-break picked %s, want first move %s", mv.String(), first.String())
	}
}

func TestTerminalPositions(t *testing.T) {
	r := New()
	s := NewSearcher()

	mated := mustNode(t, StartPos, "f2f3", "e7e5", "g2g4", "d8h4")
	if !r.IsGameOver(mated) {
		t.Fatalf("fool's mate not game over")
	}
	if len(r.LegalMoves(mated)) != 0 {
		t.Fatalf("mated side has moves")
	}
	if _, err := s.BestMove(mated, 3); !errors.Is(err, search.ErrNoLegalMoves) {
		t.Fatalf("mated: err = %v, want ErrNoLegalMoves", err)
	}
	if _, err := s.BestMove(mated, 0); !errors.Is(err, search.ErrInvalidDepth) {
		t.Fatalf("depth 0: err = %v, want ErrInvalidDepth", err)
	}

	stalemate := mustNode(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !r.IsGameOver(stalemate) {
		t.Fatalf("stalemate not game over")
	}

	bare := mustNode(t, "8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	if !r.IsGameOver(bare) {
		t.Fatalf("bare kings not game over")
	}
	if len(r.LegalMoves(bare)) != 0 {
		t.Fatalf("drawn game still reports moves")
	}
}

func TestNegamaxPerspectiveOnRealBoard(t *testing.T) {
	s := NewSearcher()
	g := mustNode(t, "4k3/8/8/3q4/8/8/3Q4/4K3 w - - 0 1")
	for depth := 0; depth <= 2; depth++ {
		w, err := s.NegamaxValue(g, depth, search.White)
		if err != nil {
			t.Fatalf("white: %v", err)
		}
		b, err := s.NegamaxValue(g, depth, search.Black)
		if err != nil {
			t.Fatalf("black: %v", err)
		}
		if w != -b {
			t.Fatalf("depth %d: white=%d black=%d", depth, w, b)
		}
	}
	v, err := s.NegamaxValueForSideToMove(g, 1)
	if err != nil {
		t.Fatalf("NegamaxValue: %v", err)
	}
	if v != 9 {
		t.Fatalf("depth 1 value = %d, want 9", v)
	}
}

func TestSearchIgnoresHistoryBeforeIrreversibleMove(t *testing.T) {
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	var long []string
	for i := 0; i < 3; i++ {
		long = append(long, shuffle...)
	}
	long = append(long, "b1c3", "b8c6", "c3b1", "c6b8")
	long = append(long, "e2e4", "e7e5", "d2d4", "e5d4", "d1d4", "b8c6", "d4d1", "c6b8")

	played := mustNode(t, StartPos, long...)
	fresh := mustNode(t, played.FEN())
	if played.FEN() != fresh.FEN() {
		t.Fatalf("fen mismatch: %s vs %s", played.FEN(), fresh.FEN())
	}

	depth := 0
	for p := played; p != nil; p = p.prev {
		depth++
	}
	if clock := played.Position().HalfMoveClock(); depth > clock+1 {
		t.Fatalf("history chain = %d nodes, want at most %d", depth, clock+1)
	}

	s := NewSearcher()
	a, err := s.Analyze(played, 3)
	if err != nil {
		t.Fatalf("Analyze played: %v", err)
	}
	b, err := s.Analyze(fresh, 3)
	if err != nil {
		t.Fatalf("Analyze fresh: %v", err)
	}
	if a.Stats != b.Stats || a.Best != b.Best || len(a.Lines) != len(b.Lines) {
		t.Fatalf("played %+v / %d lines, fresh %+v / %d lines", a.Stats, len(a.Lines), b.Stats, len(b.Lines))
	}
	for i := range a.Lines {
		if a.Lines[i].Score != b.Lines[i].Score {
			t.Fatalf("line %d: %d vs %d", i, a.Lines[i].Score, b.Lines[i].Score)
		}
	}
}

func TestApplyDetectsFivefoldRepetition(t *testing.T) {
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	var moves []string
	for i := 0; i < 3; i++ {
		moves = append(moves, shuffle...)
	}
	moves = append(moves, "g1f3", "g8f6", "f3g1")

	r := New()
	n := mustNode(t, StartPos, moves...)
	if r.IsGameOver(n) {
		t.Fatalf("game over before the fifth repetition: %v", n.Method())
	}
	child := r.Apply(n, legal(t, n, "f6g8"))
	if !r.IsGameOver(child) || child.Method() != nchess.FivefoldRepetition {
		t.Fatalf("after f6g8: outcome %v method %v, want fivefold draw", child.Outcome(), child.Method())
	}
	if len(r.LegalMoves(child)) != 0 {
		t.Fatalf("drawn node still reports moves")
	}

	// Same board reached without the shuffles is still live.
	other := r.Apply(n, legal(t, n, "e7e5"))
	if r.IsGameOver(other) {
		t.Fatalf("e7e5 ended the game: %v", other.Method())
	}
}

func TestApplyDetectsInsufficientMaterial(t *testing.T) {
	r := New()
	n := mustNode(t, "8/8/8/4k3/3r4/8/4N3/4K3 w - - 0 1")
	if r.IsGameOver(n) {
		t.Fatalf("rook on board but game over")
	}
	child := r.Apply(n, legal(t, n, "e2d4"))
	if child.Outcome() != nchess.Draw || child.Method() != nchess.InsufficientMaterial {
		t.Fatalf("after Nxd4: %v %v, want insufficient material draw", child.Outcome(), child.Method())
	}

	cases := []struct {
		fen  string
		over bool
	}{
		{"4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", true},  // bishops on dark squares
		{"4kb2/8/8/8/8/8/8/1B2K3 w - - 0 1", false}, // opposite colours
		{"4k3/8/8/8/8/8/8/1N2K1N1 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/4K1N1 w - - 0 1", true},
	}
	for _, tc := range cases {
		if got := r.IsGameOver(mustNode(t, tc.fen)); got != tc.over {
			t.Fatalf("%s: over = %v, want %v", tc.fen, got, tc.over)
		}
	}
}
