// Package httpapi serves the bot over JSON/HTTP with fasthttp.
package httpapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/cheese-negamax/internal/bot"
	"github.com/park285/cheese-negamax/internal/game"
	"github.com/park285/cheese-negamax/internal/obslog"
	"github.com/park285/cheese-negamax/pkg/chessdto"
)

const defaultRequestTimeout = 30 * time.Second

// Games is the session API the server needs; *game.Manager implements it.
type Games interface {
	Create(ctx context.Context, botColor game.Color, preset string) (*game.Game, error)
	PlayMove(ctx context.Context, id, move string) (*game.Game, error)
	Resign(ctx context.Context, id string) (*game.Game, error)
	Load(ctx context.Context, id string) (*game.Game, error)
}

type Options struct {
	Addr           string
	RequestTimeout time.Duration
}

type Server struct {
	engine  *bot.Engine
	games   Games
	timeout time.Duration
	srv     *fasthttp.Server
	addr    string
}

func NewServer(opts Options, engine *bot.Engine, games Games) *Server {
	s := &Server{
		engine:  engine,
		games:   games,
		timeout: opts.RequestTimeout,
		addr:    opts.Addr,
	}
	if s.timeout <= 0 {
		s.timeout = defaultRequestTimeout
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "negamax-bot",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.timeout + 5*time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	obslog.L().Info("http_listen", zap.String("addr", s.addr))
	return s.srv.ListenAndServe(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handle routes one request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := strings.TrimRight(string(ctx.Path()), "/")
	method := string(ctx.Method())

	switch {
	case path == "/healthz" && method == fasthttp.MethodGet:
		writeJSON(ctx, fasthttp.StatusOK, chessdto.HealthResponse{Status: "ok"})
	case path == "/v1/bestmove" && method == fasthttp.MethodPost:
		s.bestMove(ctx)
	case path == "/v1/games" && method == fasthttp.MethodPost:
		s.createGame(ctx)
	case strings.HasPrefix(path, "/v1/games/"):
		s.gameRoute(ctx, method, strings.TrimPrefix(path, "/v1/games/"))
	default:
		writeError(ctx, fasthttp.StatusNotFound, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "no route for " + method + " " + path})
	}

	obslog.L().Debug("http_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) gameRoute(ctx *fasthttp.RequestCtx, method, rest string) {
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" || len(parts) > 2 {
		writeError(ctx, fasthttp.StatusNotFound, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "unknown game route"})
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	switch {
	case action == "" && method == fasthttp.MethodGet:
		s.loadGame(ctx, id)
	case action == "moves" && method == fasthttp.MethodPost:
		s.playMove(ctx, id)
	case action == "resign" && method == fasthttp.MethodPost:
		s.resign(ctx, id)
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "method not allowed"})
	}
}

func (s *Server) bestMove(ctx *fasthttp.RequestCtx) {
	var req chessdto.BestMoveRequest
	if !decode(ctx, &req) {
		return
	}
	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.engine.Evaluate(c, bot.EvaluateRequest{
		PresetName: req.Preset,
		Depth:      req.Depth,
		FEN:        req.FEN,
		Moves:      req.Moves,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	out := chessdto.BestMoveResponse{
		MoveUCI:    res.Chosen.Move,
		MoveSAN:    res.Chosen.SAN,
		Score:      int(res.Chosen.Score),
		Depth:      res.Depth,
		Preset:     res.Preset.Name,
		Nodes:      res.Stats.Nodes,
		Leaves:     res.Stats.Leaves,
		Candidates: make([]chessdto.Candidate, len(res.Candidates)),
		DurationMS: res.Duration.Milliseconds(),
	}
	for i, cand := range res.Candidates {
		out.Candidates[i] = chessdto.Candidate{MoveUCI: cand.Move, MoveSAN: cand.SAN, Score: int(cand.Score)}
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) createGame(ctx *fasthttp.RequestCtx) {
	var req chessdto.CreateGameRequest
	if !decode(ctx, &req) {
		return
	}
	color, err := game.ParseColor(req.BotColor)
	if err != nil {
		fail(ctx, err)
		return
	}
	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	g, err := s.games.Create(c, color, req.Preset)
	if err != nil {
		fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, viewOf(g))
}

func (s *Server) loadGame(ctx *fasthttp.RequestCtx, id string) {
	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	g, err := s.games.Load(c, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, viewOf(g))
}

func (s *Server) playMove(ctx *fasthttp.RequestCtx, id string) {
	var req chessdto.MoveRequest
	if !decode(ctx, &req) {
		return
	}
	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	g, err := s.games.PlayMove(c, id, req.Move)
	if err != nil {
		fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, viewOf(g))
}

func (s *Server) resign(ctx *fasthttp.RequestCtx, id string) {
	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	g, err := s.games.Resign(c, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, viewOf(g))
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeBadRequest, Message: "invalid json: " + err.Error()})
		return false
	}
	return true
}

func fail(ctx *fasthttp.RequestCtx, err error) {
	status, derr := domainError(err)
	if status >= fasthttp.StatusInternalServerError {
		obslog.L().Error("http_request_error", zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	writeError(ctx, status, derr)
}

func writeError(ctx *fasthttp.RequestCtx, status int, derr chessdto.DomainError) {
	writeJSON(ctx, status, derr)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		obslog.L().Error("encode_response", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"code":"internal","message":"encode response"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func viewOf(g *game.Game) chessdto.GameView {
	return chessdto.GameView{
		ID:           g.ID,
		BotColor:     string(g.BotColor),
		Preset:       g.Preset,
		FEN:          g.FEN,
		MovesUCI:     g.MovesUCI,
		MovesSAN:     g.MovesSAN,
		Turn:         string(g.Turn),
		Status:       string(g.Status),
		Outcome:      g.Outcome,
		Method:       g.Method,
		LastBotScore: g.LastBotScore,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

var _ Games = (*game.Manager)(nil)
