package httpapi

import (
	"context"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/park285/cheese-negamax/internal/bot"
	"github.com/park285/cheese-negamax/internal/game"
	"github.com/park285/cheese-negamax/internal/rules"
	"github.com/park285/cheese-negamax/internal/search"
	"github.com/park285/cheese-negamax/pkg/chessdto"
)

type errorMapping struct {
	target    error
	status    int
	code      string
	retryable bool
}

var errorMappings = []errorMapping{
	{search.ErrInvalidDepth, fasthttp.StatusBadRequest, chessdto.CodeInvalidDepth, false},
	{bot.ErrDepthLimit, fasthttp.StatusBadRequest, chessdto.CodeInvalidDepth, false},
	{search.ErrNoLegalMoves, fasthttp.StatusConflict, chessdto.CodeNoLegalMoves, false},
	{search.ErrInvariantViolation, fasthttp.StatusInternalServerError, chessdto.CodeInvariantViolation, false},
	{rules.ErrInvalidPosition, fasthttp.StatusBadRequest, chessdto.CodeInvalidPosition, false},
	{rules.ErrIllegalMove, fasthttp.StatusBadRequest, chessdto.CodeIllegalMove, false},
	{bot.ErrUnknownPreset, fasthttp.StatusBadRequest, chessdto.CodeUnknownPreset, false},
	{game.ErrInvalidColor, fasthttp.StatusBadRequest, chessdto.CodeBadRequest, false},
	{game.ErrGameNotFound, fasthttp.StatusNotFound, chessdto.CodeGameNotFound, false},
	{game.ErrGameOver, fasthttp.StatusConflict, chessdto.CodeGameOver, false},
	{game.ErrNotYourTurn, fasthttp.StatusConflict, chessdto.CodeNotYourTurn, false},
	{game.ErrConcurrentUpdate, fasthttp.StatusConflict, chessdto.CodeConflict, true},
	{context.DeadlineExceeded, fasthttp.StatusServiceUnavailable, chessdto.CodeInternal, true},
}

// domainError maps an error chain to a status and wire error.
func domainError(err error) (int, chessdto.DomainError) {
	var derr chessdto.DomainError
	if errors.As(err, &derr) {
		return fasthttp.StatusBadRequest, derr
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, chessdto.DomainError{Code: m.code, Message: err.Error(), Retryable: m.retryable}
		}
	}
	return fasthttp.StatusInternalServerError, chessdto.DomainError{Code: chessdto.CodeInternal, Message: "internal error"}
}
