package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/cfoust/dragonball/pkg/session"
	"github.com/cfoust/dragonball/pkg/state"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

const TOP_COUNT = 10

var (
	LEADERBOARD_PATH_REGEX = regexp.MustCompile(`^/api/leaderboard(/me)?/?$`)
)

type Leaderboard interface {
	Top(ctx context.Context, game string, count int64) ([]state.RankEntry, error)
	Get(ctx context.Context, game string, username string) (opt.Option[state.RankEntry], error)
}

// API serves the live leaderboard. It only ever reads.
type API struct {
	leaderboard Leaderboard
}

// New returns an API backed by leaderboard, which may be nil if no ranking
// is configured.
func New(leaderboard Leaderboard) *API {
	return &API{leaderboard: leaderboard}
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matches := LEADERBOARD_PATH_REGEX.FindStringSubmatch(r.URL.Path)
	if matches == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if a.leaderboard == nil {
		http.Error(w, "leaderboard is disabled", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()

	if matches[1] == "" {
		entries, err := a.leaderboard.Top(ctx, session.GAME_ID, TOP_COUNT)
		if err != nil {
			log.Error().Err(err).Msg("failed to read leaderboard")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	entry, err := a.leaderboard.Get(ctx, session.GAME_ID, name)
	if err != nil {
		log.Error().Err(err).Msg("failed to read rank")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if opt.IsNone(entry) {
		http.Error(w, "user not found on leaderboard", http.StatusNotFound)
		return
	}

	writeJSON(w, entry.Value)
}
