package protocol

import (
	"github.com/cfoust/dragonball/pkg/game"
)

// Sent by the client whenever the pointer moves.
type PositionMessage struct {
	// Pointer so that a message without a y is not mistaken for y = 0
	Y *float64 `json:"y" cbor:"y"`
}

type PlayerInfo struct {
	Y float64 `json:"y" cbor:"y"`
}

type FireballInfo struct {
	Id              uint64  `json:"id" cbor:"id"`
	X               float64 `json:"x" cbor:"x"`
	Y               float64 `json:"y" cbor:"y"`
	VX              float64 `json:"vx" cbor:"vx"`
	VY              float64 `json:"vy" cbor:"vy"`
	State           string  `json:"state" cbor:"state"`
	ExtinguishTimer float64 `json:"extinguish_timer" cbor:"extinguish_timer"`
}

// Sent to the client once per tick.
type StateMessage struct {
	Score     int            `json:"score" cbor:"score"`
	GameOver  bool           `json:"game_over" cbor:"game_over"`
	Player    PlayerInfo     `json:"player" cbor:"player"`
	Fireballs []FireballInfo `json:"fireballs" cbor:"fireballs"`
}

func NewStateMessage(snapshot game.Snapshot) StateMessage {
	fireballs := make([]FireballInfo, len(snapshot.Projectiles))
	for i, projectile := range snapshot.Projectiles {
		fireballs[i] = FireballInfo{
			Id:              projectile.ID,
			X:               projectile.X,
			Y:               projectile.Y,
			VX:              projectile.VX,
			VY:              projectile.VY,
			State:           projectile.Phase.String(),
			ExtinguishTimer: projectile.FadeTimer,
		}
	}

	return StateMessage{
		Score:     snapshot.Score,
		GameOver:  snapshot.GameOver,
		Player:    PlayerInfo{Y: snapshot.Player.Y},
		Fireballs: fireballs,
	}
}
