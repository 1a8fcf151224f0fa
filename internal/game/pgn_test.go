package game

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPGN(t *testing.T) {
	g := &Game{
		ID:        "g",
		BotColor:  White,
		Preset:    "level2",
		StartFEN:  "startpos",
		MovesSAN:  []string{"f3", "e5", "g4", "Qh4#"},
		Outcome:   "black",
		Method:    "checkmate",
		UpdatedAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	pgn := BuildPGN(g)
	for _, want := range []string{
		`[Date "2026.03.04"]`,
		`[White "Negamax level2"]`,
		`[Black "Human"]`,
		`[Termination "checkmate"]`,
		`[Result "0-1"]`,
		"1. f3 e5 2. g4 Qh4# 0-1",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
	if strings.Contains(pgn, "[FEN") {
		t.Fatalf("startpos game should not carry a FEN header:\n%s", pgn)
	}
}

func TestBuildPGNCustomStart(t *testing.T) {
	g := &Game{BotColor: Black, StartFEN: `6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1`, MovesSAN: []string{"Ra8#"}, Outcome: "white"}
	pgn := BuildPGN(g)
	if !strings.Contains(pgn, `[SetUp "1"]`) || !strings.Contains(pgn, "1. Ra8# 1-0") {
		t.Fatalf("unexpected pgn:\n%s", pgn)
	}
}

func TestMapResultToPGN(t *testing.T) {
	cases := map[string]string{"white": "1-0", "Black": "0-1", "draw": "1/2-1/2", "": "*"}
	for in, want := range cases {
		if got := mapResultToPGN(in); got != want {
			t.Fatalf("mapResultToPGN(%q) = %s, want %s", in, got, want)
		}
	}
}
