package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/park285/cheese-negamax/internal/apiclient"
	"github.com/park285/cheese-negamax/pkg/chessdto"
)

func main() {
	baseURL := os.Getenv("NEGAMAX_BASE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	depth := 2
	if v := os.Getenv("NEGAMAX_CHECK_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			depth = n
		}
	}

	client := apiclient.NewClient(baseURL, apiclient.WithTimeout(30*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		log.Fatalf("/healthz error: %v", err)
	}
	log.Println("/healthz ok")

	res, err := client.BestMove(ctx, chessdto.BestMoveRequest{Depth: &depth})
	if err != nil {
		log.Fatalf("/v1/bestmove error: %v", err)
	}
	log.Printf("/v1/bestmove ok: %s (%s) score=%d nodes=%d leaves=%d in %dms",
		res.MoveUCI, res.MoveSAN, res.Score, res.Nodes, res.Leaves, res.DurationMS)

	g, err := client.CreateGame(ctx, chessdto.CreateGameRequest{BotColor: "black", Preset: "level1"})
	if err != nil {
		log.Fatalf("/v1/games error: %v", err)
	}
	g, err = client.Move(ctx, g.ID, "e4")
	if err != nil {
		log.Fatalf("move error: %v", err)
	}
	log.Printf("game %s: %v", g.ID, g.MovesSAN)
	if _, err := client.Resign(ctx, g.ID); err != nil {
		log.Fatalf("resign error: %v", err)
	}
	log.Println("game flow ok")
}
