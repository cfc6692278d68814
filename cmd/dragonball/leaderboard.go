package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cfoust/dragonball/pkg/api"
	"github.com/cfoust/dragonball/pkg/config"
	"github.com/cfoust/dragonball/pkg/session"
	"github.com/cfoust/dragonball/pkg/state"
)

func writeLeaderboard(ctx context.Context, out io.Writer, board api.Leaderboard, count int64) error {
	entries, err := board.Top(ctx, session.GAME_ID, count)
	if err != nil {
		return fmt.Errorf("failed to read leaderboard: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "no scores yet")
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(out, "%3d  %-24s %d\n", entry.Rank, entry.Username, entry.Score)
	}

	return nil
}

func leaderboard(configs []string, count int64) error {
	config, err := config.Process(configs)
	if err != nil {
		return err
	}

	redis := config.Server.Redis
	if !redis.Enabled {
		return fmt.Errorf("redis is disabled, there is no leaderboard")
	}

	ranking := state.NewRanking(redis)
	defer ranking.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return writeLeaderboard(ctx, os.Stdout, ranking, count)
}
