package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates the archive table. NewPostgresStore applies it on start.
const Schema = `CREATE TABLE IF NOT EXISTS bot_games (
    game_id       TEXT PRIMARY KEY,
    bot_color     TEXT NOT NULL,
    preset        TEXT NOT NULL,
    start_fen     TEXT NOT NULL,
    final_fen     TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    moves_uci     JSONB NOT NULL,
    moves_san     JSONB NOT NULL,
    pgn           TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveResult upserts a finished game keyed by game_id.
func (s *PostgresStore) SaveResult(ctx context.Context, g *Game) error {
	if s == nil || s.db == nil || g == nil {
		return nil
	}
	args, err := resultRow(g)
	if err != nil {
		return fmt.Errorf("save result %s: %w", g.ID, err)
	}
	_, err = s.db.ExecContext(ctx, upsertResult, args...)
	return err
}

const upsertResult = `INSERT INTO bot_games (
        game_id, bot_color, preset, start_fen, final_fen,
        result, result_method, moves_uci, moves_san, pgn,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
      ) ON CONFLICT (game_id) DO UPDATE SET
        final_fen=EXCLUDED.final_fen,
        result=EXCLUDED.result,
        result_method=EXCLUDED.result_method,
        moves_uci=EXCLUDED.moves_uci,
        moves_san=EXCLUDED.moves_san,
        pgn=EXCLUDED.pgn,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

// resultRow returns the upsertResult parameters for g, in column order.
func resultRow(g *Game) ([]any, error) {
	movesUCI, err := json.Marshal(nonNil(g.MovesUCI))
	if err != nil {
		return nil, fmt.Errorf("encode moves_uci: %w", err)
	}
	movesSAN, err := json.Marshal(nonNil(g.MovesSAN))
	if err != nil {
		return nil, fmt.Errorf("encode moves_san: %w", err)
	}
	duration := g.UpdatedAt.Sub(g.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	return []any{
		g.ID, string(g.BotColor), g.Preset, g.StartFEN, g.FEN,
		mapResultToPGN(g.Outcome), g.Method, string(movesUCI), string(movesSAN), BuildPGN(g),
		g.CreatedAt, g.UpdatedAt, duration,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
