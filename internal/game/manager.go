// Package game keeps human-vs-bot sessions in Redis and archives finished
// games through a ResultStore.
package game

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-negamax/internal/bot"
	"github.com/park285/cheese-negamax/internal/obslog"
	"github.com/park285/cheese-negamax/internal/rules"
)

const defaultTTL = 24 * time.Hour

type Manager struct {
	rdb    *redis.Client
	engine *bot.Engine
	store  ResultStore
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(rdb *redis.Client, engine *bot.Engine, ttl time.Duration) (*Manager, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	if engine == nil {
		return nil, errors.New("engine is nil")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{rdb: rdb, engine: engine, ttl: ttl, now: time.Now}, nil
}

// AttachStore wires an archive for finished games.
func (m *Manager) AttachStore(s ResultStore) {
	if m != nil {
		m.store = s
	}
}

// Create starts a game from the initial position. An empty botColor picks a
// side at random. When the bot has white it moves before returning.
func (m *Manager) Create(ctx context.Context, botColor Color, preset string) (*Game, error) {
	if botColor == "" {
		botColor = randomColor()
	}
	if botColor != White && botColor != Black {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, botColor)
	}
	name := strings.TrimSpace(preset)
	if name == "" {
		name = m.engine.DefaultPreset()
	}
	p, err := m.engine.Presets().Get(name)
	if err != nil {
		return nil, err
	}

	now := m.now()
	g := &Game{
		ID:        uuid.NewString(),
		BotColor:  botColor,
		Preset:    p.Name,
		StartFEN:  rules.StartPos,
		MovesUCI:  []string{},
		MovesSAN:  []string{},
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	game, err := rules.NewGame(g.StartFEN, nil)
	if err != nil {
		return nil, err
	}
	if botColor == White {
		if err := m.botReply(ctx, g, game); err != nil {
			return nil, err
		}
	}
	syncState(g, game)

	raw, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	ok, err := m.rdb.SetNX(ctx, gameKey(g.ID), raw, m.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("game id collision: %s", g.ID)
	}

	obslog.L().Info("bot_game_create",
		zap.String("game_id", g.ID),
		zap.String("bot_color", string(g.BotColor)),
		zap.String("preset", g.Preset),
		zap.Int("plies", len(g.MovesUCI)),
	)
	return g, nil
}

// PlayMove applies the human move (UCI or SAN) and, if the game goes on, the
// bot's answer. The update is rejected when the stored game changed while
// the search ran.
func (m *Manager) PlayMove(ctx context.Context, id, move string) (*Game, error) {
	key := gameKey(id)
	var out *Game
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return ErrGameOver
		}
		if cur.Turn == cur.BotColor {
			return ErrNotYourTurn
		}

		game, err := rules.NewGame(cur.StartFEN, cur.MovesUCI)
		if err != nil {
			return fmt.Errorf("rebuild game %s: %w", cur.ID, err)
		}
		uci, san, err := rules.Play(game, move)
		if err != nil {
			return err
		}
		cur.MovesUCI = append(cur.MovesUCI, uci)
		cur.MovesSAN = append(cur.MovesSAN, san)
		syncState(cur, game)

		if cur.Active() {
			if err := m.botReply(ctx, cur, game); err != nil {
				return err
			}
			syncState(cur, game)
		}
		cur.UpdatedAt = m.now()

		if err := m.write(ctx, tx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}

	obslog.L().Info("bot_game_move",
		zap.String("game_id", out.ID),
		zap.String("move", strings.TrimSpace(move)),
		zap.String("last_uci", lastOf(out.MovesUCI)),
		zap.String("turn", string(out.Turn)),
		zap.String("status", string(out.Status)),
		zap.String("outcome", out.Outcome),
	)
	m.persistIfFinal(ctx, out)
	return out, nil
}

// Resign ends the game in the bot's favour.
func (m *Manager) Resign(ctx context.Context, id string) (*Game, error) {
	key := gameKey(id)
	var out *Game
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return ErrGameOver
		}
		cur.Status = StatusResigned
		cur.Outcome = string(cur.BotColor)
		cur.Method = "resignation"
		cur.UpdatedAt = m.now()
		if err := m.write(ctx, tx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}
	obslog.L().Info("bot_game_resign", zap.String("game_id", out.ID), zap.String("winner", out.Outcome))
	m.persistIfFinal(ctx, out)
	return out, nil
}

// Load returns the stored game or ErrGameNotFound.
func (m *Manager) Load(ctx context.Context, id string) (*Game, error) {
	return load(ctx, m.rdb, gameKey(id))
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

func (m *Manager) botReply(ctx context.Context, g *Game, game *nchess.Game) error {
	res, err := m.engine.EvaluateGame(ctx, game, g.Preset, nil)
	if err != nil {
		return fmt.Errorf("bot move: %w", err)
	}
	uci, san, err := rules.Play(game, res.Chosen.Move)
	if err != nil {
		return fmt.Errorf("bot move %s: %w", res.Chosen.Move, err)
	}
	g.MovesUCI = append(g.MovesUCI, uci)
	g.MovesSAN = append(g.MovesSAN, san)
	g.LastBotScore = int(res.Chosen.Score)
	return nil
}

func (m *Manager) write(ctx context.Context, tx *redis.Tx, g *Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(g.ID), raw, m.ttl)
		return nil
	})
	return err
}

func (m *Manager) persistIfFinal(ctx context.Context, g *Game) {
	if m.store == nil || g == nil || g.Active() {
		return
	}
	if err := m.store.SaveResult(ctx, g); err != nil {
		obslog.L().Error("bot_result_persist_error", zap.String("game_id", g.ID), zap.Error(err))
		return
	}
	obslog.L().Info("bot_result_persist",
		zap.String("game_id", g.ID),
		zap.String("outcome", g.Outcome),
		zap.String("method", g.Method),
	)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, key string) (*Game, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return &g, nil
}

// syncState copies position, turn and outcome from the live game.
func syncState(g *Game, game *nchess.Game) {
	g.FEN = game.FEN()
	g.Turn = colorFrom(game.Position().Turn())
	switch game.Outcome() {
	case nchess.WhiteWon:
		g.Status = StatusFinished
		g.Outcome = string(White)
	case nchess.BlackWon:
		g.Status = StatusFinished
		g.Outcome = string(Black)
	case nchess.Draw:
		g.Status = StatusDraw
		g.Outcome = "draw"
	default:
		return
	}
	g.Method = strings.ToLower(game.Method().String())
}

func colorFrom(c nchess.Color) Color {
	if c == nchess.Black {
		return Black
	}
	return White
}

func randomColor() Color {
	if n, err := rand.Int(rand.Reader, big.NewInt(2)); err == nil && n.Int64() == 0 {
		return Black
	}
	return White
}

func lastOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

func gameKey(id string) string { return "bot:game:" + strings.TrimSpace(id) }

// ParseRedisURL builds client options from a redis://, rediss:// or unix://
// URL. rediss enables TLS; a missing port defaults to 6379.
func ParseRedisURL(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}
