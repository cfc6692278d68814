package game

import (
	"math"
)

type Phase uint8

const (
	PhaseActive Phase = iota
	// The fireball was hit by the spray and is fading out. It no longer
	// moves or collides.
	PhaseFading
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "Active"
	case PhaseFading:
		return "Extinguishing"
	}
	return "Unknown"
}

type Projectile struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
	Phase  Phase
	// Runs from 1.0 down to 0.0 while fading
	FadeTimer float64
}

func (p *Projectile) Position() Vector {
	return Vector{p.X, p.Y}
}

func (p *Projectile) faded() bool {
	return p.Phase == PhaseFading && p.FadeTimer <= 0
}

type Player struct {
	Y float64
}

// State is the authoritative model of one game session. It is not safe for
// concurrent use.
type State struct {
	Score       int
	GameOver    bool
	Player      Player
	Projectiles []*Projectile

	nextID uint64
	rng    Random
}

func NewState(rng Random) *State {
	return &State{
		Player:      Player{Y: CANVAS_HEIGHT / 2},
		Projectiles: make([]*Projectile, 0),
		rng:         rng,
	}
}

// SetPlayerPosition moves the player's nozzle, keeping it on the canvas.
func (s *State) SetPlayerPosition(y float64) {
	if s.GameOver || math.IsNaN(y) {
		return
	}

	s.Player.Y = math.Max(0, math.Min(y, CANVAS_HEIGHT))
}

// Defense is where the water spray comes from.
func (s *State) Defense() Vector {
	return Vector{DEFENSE_X, s.Player.Y}
}

// Speed is how fast a fireball spawned right now would travel.
func (s *State) Speed() float64 {
	return FIREBALL_SPEED_BASE + float64(s.Score)*DIFFICULTY_PER_POINT
}

// Tick advances the simulation by one step. Once the game is over it does
// nothing.
func (s *State) Tick() {
	if s.GameOver {
		return
	}

	if s.rng != nil && s.rng.Float64() < FIREBALL_SPAWN_CHANCE {
		targetY := between(s.rng, AIM_MARGIN, CANVAS_HEIGHT-AIM_MARGIN)
		startY := between(s.rng, SPAWN_MARGIN, CANVAS_HEIGHT-SPAWN_MARGIN)
		s.spawn(
			Vector{DRAGON_X_OFFSET, startY},
			Vector{DEFENSE_X, targetY},
		)
	}

	breached := false
	for _, projectile := range s.Projectiles {
		if projectile.Phase == PhaseFading {
			projectile.FadeTimer -= EXTINGUISH_RATE
			continue
		}

		projectile.X += projectile.VX
		projectile.Y += projectile.VY

		if projectile.X > DEFENSE_X {
			breached = true
		}

		if s.sprayHits(projectile) {
			projectile.Phase = PhaseFading
			projectile.FadeTimer = 1.0
			s.Score += EXTINGUISH_REWARD
		}
	}

	if breached {
		s.GameOver = true
	}

	remaining := s.Projectiles[:0]
	for _, projectile := range s.Projectiles {
		if projectile.faded() {
			continue
		}
		remaining = append(remaining, projectile)
	}
	// Drop references held past the new length
	for i := len(remaining); i < len(s.Projectiles); i++ {
		s.Projectiles[i] = nil
	}
	s.Projectiles = remaining
}

// spawn launches a fireball from start towards aim at the current speed.
func (s *State) spawn(start, aim Vector) *Projectile {
	direction := aim.Sub(start)
	if direction.Magnitude() <= 1e-6 {
		direction = Vector{1, 0}
	}
	velocity := direction.Scale(s.Speed())

	s.nextID++
	projectile := &Projectile{
		ID:        s.nextID,
		X:         start.X,
		Y:         start.Y,
		VX:        velocity.X,
		VY:        velocity.Y,
		Phase:     PhaseActive,
		FadeTimer: 1.0,
	}
	s.Projectiles = append(s.Projectiles, projectile)
	return projectile
}

// sprayHits reports whether the projectile is inside the spray cone, which
// points straight left from the defense.
func (s *State) sprayHits(projectile *Projectile) bool {
	position, defense := projectile.Position(), s.Defense()
	delta := position.Sub(defense)
	if delta.X >= 0 {
		return false
	}

	if Distance(position, defense) >= WATER_SPRAY_RANGE {
		return false
	}

	angle := math.Abs(math.Atan2(delta.Y, delta.X))
	return math.Abs(math.Pi-angle) < WATER_SPRAY_ANGLE
}
