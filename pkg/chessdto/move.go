package chessdto

type Candidate struct {
	MoveUCI string `json:"move_uci"`
	MoveSAN string `json:"move_san"`
	Score   int    `json:"score"`
}

type BestMoveResponse struct {
	MoveUCI    string      `json:"move_uci"`
	MoveSAN    string      `json:"move_san"`
	Score      int         `json:"score"`
	Depth      int         `json:"depth"`
	Preset     string      `json:"preset"`
	Nodes      int         `json:"nodes"`
	Leaves     int         `json:"leaves"`
	Candidates []Candidate `json:"candidates"`
	DurationMS int64       `json:"duration_ms"`
}
