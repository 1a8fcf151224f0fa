package chessdto

// BestMoveRequest asks for a single search. Depth wins over Preset when set.
type BestMoveRequest struct {
	FEN    string   `json:"fen,omitempty"`
	Moves  []string `json:"moves,omitempty"`
	Depth  *int     `json:"depth,omitempty"`
	Preset string   `json:"preset,omitempty"`
}

type CreateGameRequest struct {
	BotColor string `json:"bot_color,omitempty"`
	Preset   string `json:"preset,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move"`
}
