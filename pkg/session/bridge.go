package session

import (
	"context"
	"fmt"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
)

const GAME_ID = "dragonball"

// Identity is who a session's score belongs to.
type Identity struct {
	// Stable user id
	ID string
	// Name shown on the leaderboard
	Name string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.ID)
}

// Bridge stores best scores on behalf of sessions. CommitBestScore is also
// responsible for publishing the value to the leaderboard.
type Bridge interface {
	ReadBestScore(ctx context.Context, identity Identity, gameID string) (opt.Option[int], error)
	CommitBestScore(ctx context.Context, identity Identity, gameID string, score int) error
}

// BestScore is the value that should be stored after a session finishing
// with final, given what was stored before.
func BestScore(stored opt.Option[int], final int) int {
	if opt.IsSome(stored) && stored.Value > final {
		return stored.Value
	}
	return final
}

// Commit records final as identity's best score unless a better one is
// already stored. Failures are logged and otherwise ignored; if the stored
// score cannot be read, final is committed and the bridge is trusted not to
// lower what it has.
func Commit(ctx context.Context, logger zerolog.Logger, bridge Bridge, identity Identity, gameID string, final int) {
	stored, err := bridge.ReadBestScore(ctx, identity, gameID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read best score")
		stored = opt.None[int]()
	}

	best := BestScore(stored, final)

	err = bridge.CommitBestScore(ctx, identity, gameID, best)
	if err != nil {
		logger.Error().Err(err).Int("score", best).Msg("failed to commit best score")
		return
	}

	logger.Info().
		Int("score", final).
		Int("best", best).
		Msg("committed score")
}
