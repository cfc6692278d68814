package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cfoust/dragonball/pkg/config"
	"github.com/cfoust/dragonball/pkg/session"

	"github.com/alicebob/miniredis/v2"
	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ScoreStore {
	db, err := InitDB(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	return NewScoreStore(db)
}

func newRanking(t *testing.T) (*Ranking, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	ranking := NewRanking(config.RedisSettings{Address: server.Addr()})
	t.Cleanup(func() { ranking.Close() })
	return ranking, server
}

func TestScoreStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	score, err := store.Get(ctx, "u1", "dragonball")
	require.NoError(t, err)
	assert.True(t, opt.IsNone(score))

	require.NoError(t, store.Save(ctx, "u1", "alice", "dragonball", 80))
	score, err = store.Get(ctx, "u1", "dragonball")
	require.NoError(t, err)
	assert.Equal(t, opt.Some(80), score)

	// Lower scores never replace higher ones
	require.NoError(t, store.Save(ctx, "u1", "alice", "dragonball", 50))
	score, err = store.Get(ctx, "u1", "dragonball")
	require.NoError(t, err)
	assert.Equal(t, 80, score.Value)

	require.NoError(t, store.Save(ctx, "u1", "alice2", "dragonball", 120))
	score, err = store.Get(ctx, "u1", "dragonball")
	require.NoError(t, err)
	assert.Equal(t, 120, score.Value)

	// Games and users are independent
	score, err = store.Get(ctx, "u1", "xandzero")
	require.NoError(t, err)
	assert.True(t, opt.IsNone(score))
	score, err = store.Get(ctx, "u2", "dragonball")
	require.NoError(t, err)
	assert.True(t, opt.IsNone(score))
}

func TestRanking(t *testing.T) {
	ctx := context.Background()
	ranking, server := newRanking(t)

	require.NoError(t, ranking.Publish(ctx, "dragonball", "alice", 30))
	require.NoError(t, ranking.Publish(ctx, "dragonball", "bob", 90))
	require.NoError(t, ranking.Publish(ctx, "dragonball", "carol", 60))
	// Does not lower bob's entry
	require.NoError(t, ranking.Publish(ctx, "dragonball", "bob", 10))

	stored, err := server.ZScore("leaderboard:dragonball", "bob")
	require.NoError(t, err)
	assert.Equal(t, 90.0, stored)

	top, err := ranking.Top(ctx, "dragonball", 2)
	require.NoError(t, err)
	assert.Equal(t, []RankEntry{
		{Username: "bob", Score: 90, Rank: 1},
		{Username: "carol", Score: 60, Rank: 2},
	}, top)

	entry, err := ranking.Get(ctx, "dragonball", "alice")
	require.NoError(t, err)
	require.True(t, opt.IsSome(entry))
	assert.Equal(t, RankEntry{Username: "alice", Score: 30, Rank: 3}, entry.Value)

	entry, err = ranking.Get(ctx, "dragonball", "nobody")
	require.NoError(t, err)
	assert.True(t, opt.IsNone(entry))
}

func TestBridgeCommit(t *testing.T) {
	ctx := context.Background()
	ranking, server := newRanking(t)
	bridge := NewBridge(newStore(t), ranking)
	player := session.Identity{ID: "u1", Name: "alice"}

	session.Commit(ctx, zerolog.Nop(), bridge, player, session.GAME_ID, 90)
	session.Commit(ctx, zerolog.Nop(), bridge, player, session.GAME_ID, 50)

	best, err := bridge.ReadBestScore(ctx, player, session.GAME_ID)
	require.NoError(t, err)
	assert.Equal(t, opt.Some(90), best)

	stored, err := server.ZScore("leaderboard:dragonball", "alice")
	require.NoError(t, err)
	assert.Equal(t, 90.0, stored)
}

func TestBridgeWithoutRanking(t *testing.T) {
	ctx := context.Background()
	bridge := NewBridge(newStore(t), nil)
	player := session.Identity{ID: "u1", Name: "alice"}

	require.NoError(t, bridge.CommitBestScore(ctx, player, session.GAME_ID, 40))
	best, err := bridge.ReadBestScore(ctx, player, session.GAME_ID)
	require.NoError(t, err)
	assert.Equal(t, 40, best.Value)
}

func TestBridgeRankingDown(t *testing.T) {
	ctx := context.Background()
	ranking, server := newRanking(t)
	bridge := NewBridge(newStore(t), ranking)
	player := session.Identity{ID: "u1", Name: "alice"}

	server.Close()

	err := bridge.CommitBestScore(ctx, player, session.GAME_ID, 40)
	assert.Error(t, err)

	// The database write still went through
	best, err := bridge.ReadBestScore(ctx, player, session.GAME_ID)
	require.NoError(t, err)
	assert.Equal(t, 40, best.Value)
}
