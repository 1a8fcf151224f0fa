// Package bot turns a difficulty preset and a position into a chosen move.
package bot

import (
	"context"
	"fmt"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/park285/cheese-negamax/internal/obslog"
	"github.com/park285/cheese-negamax/internal/rules"
	"github.com/park285/cheese-negamax/internal/search"
)

type Engine struct {
	searcher      *search.Searcher[*rules.Node, nchess.Move]
	presets       *PresetCatalog
	defaultPreset string
}

func NewEngine(presets *PresetCatalog, defaultPreset string) (*Engine, error) {
	if presets == nil {
		return nil, fmt.Errorf("preset catalog is nil")
	}
	if _, err := presets.Get(defaultPreset); err != nil {
		return nil, fmt.Errorf("default preset: %w", err)
	}
	return &Engine{
		searcher:      rules.NewSearcher(),
		presets:       presets,
		defaultPreset: defaultPreset,
	}, nil
}

// EvaluateRequest names a position by FEN plus UCI moves. Depth, when set,
// overrides the preset's depth but is still capped by the catalog maximum.
type EvaluateRequest struct {
	PresetName string
	Depth      *int
	FEN        string
	Moves      []string
}

type Candidate struct {
	Move  string
	SAN   string
	Score search.Score
}

type EvaluateResult struct {
	Preset     Preset
	Depth      int
	Duration   time.Duration
	Candidates []Candidate
	Chosen     Candidate
	Stats      search.Stats
}

func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResult, error) {
	game, err := rules.NewGame(req.FEN, req.Moves)
	if err != nil {
		return EvaluateResult{}, err
	}
	return e.EvaluateGame(ctx, game, req.PresetName, req.Depth)
}

// EvaluateGame searches an already built game. The game is not modified and
// the search stops with ctx's error once ctx is done.
func (e *Engine) EvaluateGame(ctx context.Context, game *nchess.Game, presetName string, depth *int) (EvaluateResult, error) {
	if err := ctx.Err(); err != nil {
		return EvaluateResult{}, err
	}
	preset, searchDepth, err := e.resolve(presetName, depth)
	if err != nil {
		return EvaluateResult{}, err
	}

	start := time.Now()
	analysis, err := e.searcher.AnalyzeContext(ctx, rules.FromGame(game), searchDepth)
	if err != nil {
		return EvaluateResult{}, err
	}
	dur := time.Since(start)

	pos := game.Position()
	candidates := make([]Candidate, len(analysis.Lines))
	for i, line := range analysis.Lines {
		candidates[i] = Candidate{
			Move:  rules.EncodeUCI(pos, line.Move),
			SAN:   rules.EncodeSAN(pos, line.Move),
			Score: line.Score,
		}
	}
	chosen := candidates[analysis.Best]

	obslog.L().Info("bot_search",
		zap.String("preset", preset.Name),
		zap.Int("depth", searchDepth),
		zap.String("fen", game.FEN()),
		zap.String("move", chosen.Move),
		zap.Int("score", int(chosen.Score)),
		zap.Int("nodes", analysis.Stats.Nodes),
		zap.Int("leaves", analysis.Stats.Leaves),
		zap.Duration("elapsed", dur),
	)

	return EvaluateResult{
		Preset:     preset,
		Depth:      searchDepth,
		Duration:   dur,
		Candidates: candidates,
		Chosen:     chosen,
		Stats:      analysis.Stats,
	}, nil
}

func (e *Engine) Presets() *PresetCatalog { return e.presets }

func (e *Engine) DefaultPreset() string { return e.defaultPreset }

func (e *Engine) resolve(name string, depth *int) (Preset, int, error) {
	if name == "" {
		name = e.defaultPreset
	}
	preset, err := e.presets.Get(name)
	if err != nil {
		return Preset{}, 0, err
	}
	if depth == nil {
		return preset, preset.Depth, nil
	}
	d := *depth
	if d <= 0 {
		return Preset{}, 0, fmt.Errorf("%w: got %d", search.ErrInvalidDepth, d)
	}
	if d > e.presets.MaxDepth() {
		return Preset{}, 0, fmt.Errorf("%w: %d > %d", ErrDepthLimit, d, e.presets.MaxDepth())
	}
	return preset, d, nil
}
