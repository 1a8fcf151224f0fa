package chessdto

import "time"

// GameView is the client-facing state of a bot game.
type GameView struct {
	ID           string    `json:"id"`
	BotColor     string    `json:"bot_color"`
	Preset       string    `json:"preset"`
	FEN          string    `json:"fen"`
	MovesUCI     []string  `json:"moves_uci"`
	MovesSAN     []string  `json:"moves_san"`
	Turn         string    `json:"turn"`
	Status       string    `json:"status"`
	Outcome      string    `json:"outcome,omitempty"`
	Method       string    `json:"method,omitempty"`
	LastBotScore int       `json:"last_bot_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
