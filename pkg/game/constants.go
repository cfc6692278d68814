package game

// Playfield geometry and tuning. The canvas is shared with the browser
// client, so these are fixed rather than configurable.
const (
	CANVAS_WIDTH  = 800.0
	CANVAS_HEIGHT = 600.0

	// Distance of the player (and the breach line) from the right edge
	PLAYER_X_OFFSET = 50.0
	// Distance of the dragon from the left edge
	DRAGON_X_OFFSET = 50.0

	FIREBALL_SPEED_BASE   = 3.0
	DIFFICULTY_PER_POINT  = 0.1
	FIREBALL_SPAWN_CHANCE = 0.02

	// Fireballs aim somewhere in [AIM_MARGIN, CANVAS_HEIGHT-AIM_MARGIN) and
	// leave the dragon from [SPAWN_MARGIN, CANVAS_HEIGHT-SPAWN_MARGIN).
	AIM_MARGIN   = 50.0
	SPAWN_MARGIN = 100.0

	WATER_SPRAY_RANGE = 300.0
	// Half-angle of the spray cone, in radians
	WATER_SPRAY_ANGLE = 0.5

	EXTINGUISH_REWARD = 10
	EXTINGUISH_RATE   = 0.05
)

// The x coordinate of the player's nozzle and of the line fireballs must not
// cross.
const DEFENSE_X = CANVAS_WIDTH - PLAYER_X_OFFSET
