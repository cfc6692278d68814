package game

// Snapshot is a copy of a State that can be read without holding any lock.
type Snapshot struct {
	Score       int
	GameOver    bool
	Player      Player
	Projectiles []Projectile
}

func (s *State) Snapshot() Snapshot {
	projectiles := make([]Projectile, len(s.Projectiles))
	for i, projectile := range s.Projectiles {
		projectiles[i] = *projectile
	}

	return Snapshot{
		Score:       s.Score,
		GameOver:    s.GameOver,
		Player:      s.Player,
		Projectiles: projectiles,
	}
}
