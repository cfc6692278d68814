package session

import (
	"github.com/cfoust/dragonball/pkg/game"

	"github.com/sasha-s/go-deadlock"
)

// Handle serializes access to a game.State. Every method holds the lock for
// exactly one operation, so callers can never keep it across I/O.
type Handle struct {
	mutex deadlock.Mutex
	state *game.State
}

func NewHandle(state *game.State) *Handle {
	return &Handle{state: state}
}

// Tick advances the game and returns the resulting state.
func (h *Handle) Tick() game.Snapshot {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.state.Tick()
	return h.state.Snapshot()
}

func (h *Handle) SetPlayerPosition(y float64) {
	h.mutex.Lock()
	h.state.SetPlayerPosition(y)
	h.mutex.Unlock()
}

func (h *Handle) Snapshot() game.Snapshot {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state.Snapshot()
}
