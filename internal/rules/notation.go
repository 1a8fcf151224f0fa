package rules

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrIllegalMove     = errors.New("illegal move")
)

// StartPos is accepted wherever a FEN is expected.
const StartPos = "startpos"

// NewGame builds a game from a FEN (empty or "startpos" for the initial
// position) and replays UCI moves on top of it.
func NewGame(fen string, moves []string) (*nchess.Game, error) {
	var game *nchess.Game
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == StartPos {
		game = nchess.NewGame()
	} else {
		option, err := nchess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("%w: parse fen %q: %v", ErrInvalidPosition, fen, err)
		}
		game = nchess.NewGame(option)
	}

	notation := nchess.UCINotation{}
	for _, raw := range moves {
		mv := strings.ToLower(strings.TrimSpace(raw))
		if mv == "" {
			continue
		}
		if game.Outcome() != nchess.NoOutcome {
			return nil, fmt.Errorf("%w: %s after the game ended", ErrIllegalMove, mv)
		}
		if err := game.PushNotationMove(mv, notation, nil); err != nil {
			return nil, fmt.Errorf("%w: apply %s: %v", ErrIllegalMove, mv, err)
		}
	}
	return game, nil
}

// DecodeMove parses UCI first and falls back to SAN.
func DecodeMove(game *nchess.Game, text string) (*nchess.Move, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty move", ErrIllegalMove)
	}
	pos := game.Position()
	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(raw)); err == nil && isValid(game, mv) {
		return mv, nil
	}
	mv, err := nchess.AlgebraicNotation{}.Decode(pos, raw)
	if err != nil || !isValid(game, mv) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, raw)
	}
	return mv, nil
}

// Play decodes text and pushes it on game, returning the UCI and SAN forms.
func Play(game *nchess.Game, text string) (uci string, san string, err error) {
	if game.Outcome() != nchess.NoOutcome {
		return "", "", fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	mv, err := DecodeMove(game, text)
	if err != nil {
		return "", "", err
	}
	pos := game.Position()
	uci = EncodeUCI(pos, *mv)
	san = EncodeSAN(pos, *mv)
	if err := game.Move(mv, nil); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrIllegalMove, text, err)
	}
	return uci, san, nil
}

func EncodeUCI(pos *nchess.Position, mv nchess.Move) string {
	return nchess.UCINotation{}.Encode(pos, &mv)
}

func EncodeSAN(pos *nchess.Position, mv nchess.Move) string {
	return nchess.AlgebraicNotation{}.Encode(pos, &mv)
}

func isValid(game *nchess.Game, mv *nchess.Move) bool {
	if mv == nil {
		return false
	}
	for _, legal := range game.ValidMoves() {
		if legal.S1() == mv.S1() && legal.S2() == mv.S2() && legal.Promo() == mv.Promo() {
			return true
		}
	}
	return false
}
