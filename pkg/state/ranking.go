package state

import (
	"context"
	"fmt"

	"github.com/cfoust/dragonball/pkg/config"

	"github.com/go-redis/redis/v9"
	opt "github.com/repeale/fp-go/option"
)

const (
	KEY_LEADERBOARD = "leaderboard:%s"
)

const Nil = redis.Nil

type RankEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	// 1 is the best
	Rank int64 `json:"rank"`
}

// Ranking keeps the live leaderboard of each game in a redis sorted set.
type Ranking struct {
	client *redis.Client
}

func NewRanking(settings config.RedisSettings) *Ranking {
	return &Ranking{
		client: redis.NewClient(&redis.Options{
			Addr:     settings.Address,
			Password: settings.Password,
			DB:       settings.DB,
		}),
	}
}

func (r *Ranking) Close() error {
	return r.client.Close()
}

// Publish records score for username, never lowering an existing entry.
func (r *Ranking) Publish(ctx context.Context, game string, username string, score int) error {
	return r.client.ZAddArgs(ctx, fmt.Sprintf(KEY_LEADERBOARD, game), redis.ZAddArgs{
		GT: true,
		Members: []redis.Z{
			{
				Score:  float64(score),
				Member: username,
			},
		},
	}).Err()
}

// Top returns the best count entries, best first.
func (r *Ranking) Top(ctx context.Context, game string, count int64) ([]RankEntry, error) {
	results, err := r.client.ZRevRangeWithScores(
		ctx,
		fmt.Sprintf(KEY_LEADERBOARD, game),
		0,
		count-1,
	).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankEntry, len(results))
	for i, result := range results {
		entries[i] = RankEntry{
			Username: fmt.Sprint(result.Member),
			Score:    int(result.Score),
			Rank:     int64(i + 1),
		}
	}

	return entries, nil
}

func (r *Ranking) Get(ctx context.Context, game string, username string) (opt.Option[RankEntry], error) {
	key := fmt.Sprintf(KEY_LEADERBOARD, game)

	pipe := r.client.Pipeline()
	score := pipe.ZScore(ctx, key, username)
	rank := pipe.ZRevRank(ctx, key, username)

	_, err := pipe.Exec(ctx)
	if err == Nil {
		return opt.None[RankEntry](), nil
	}
	if err != nil {
		return opt.None[RankEntry](), err
	}

	return opt.Some(RankEntry{
		Username: username,
		Score:    int(score.Val()),
		Rank:     rank.Val() + 1,
	}), nil
}
