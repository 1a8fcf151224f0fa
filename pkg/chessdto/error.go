package chessdto

// Error codes carried by DomainError.
const (
	CodeBadRequest         = "bad_request"
	CodeInvalidDepth       = "invalid_depth"
	CodeNoLegalMoves       = "no_legal_moves"
	CodeInvariantViolation = "invariant_violation"
	CodeInvalidPosition    = "invalid_position"
	CodeIllegalMove        = "illegal_move"
	CodeUnknownPreset      = "unknown_preset"
	CodeGameNotFound       = "game_not_found"
	CodeGameOver           = "game_over"
	CodeNotYourTurn        = "not_your_turn"
	CodeConflict           = "conflict"
	CodeInternal           = "internal"
)

type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "negamax service error"
}
