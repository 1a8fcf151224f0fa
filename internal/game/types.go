package game

import (
	"errors"
	"strings"
	"time"
)

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Status is the lifecycle state of a bot game.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
	StatusDraw     Status = "DRAW"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrConcurrentUpdate = errors.New("concurrent update")
	ErrInvalidColor     = errors.New("invalid color")
)

// Game is the persisted state of a human-vs-bot match. Positions are rebuilt
// from StartFEN plus MovesUCI so repetition history survives a reload.
type Game struct {
	ID           string    `json:"id"`
	BotColor     Color     `json:"bot_color"`
	Preset       string    `json:"preset"`
	StartFEN     string    `json:"start_fen"`
	FEN          string    `json:"fen"`
	MovesUCI     []string  `json:"moves_uci"`
	MovesSAN     []string  `json:"moves_san"`
	Turn         Color     `json:"turn"`
	Status       Status    `json:"status"`
	Outcome      string    `json:"outcome,omitempty"` // white | black | draw
	Method       string    `json:"method,omitempty"`
	LastBotScore int       `json:"last_bot_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (g *Game) HumanColor() Color { return g.BotColor.Opponent() }

func (g *Game) Active() bool { return g.Status == StatusActive }

// ParseColor accepts white/black and their initials. Empty returns "".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	case "", "random":
		return "", nil
	}
	return "", ErrInvalidColor
}
