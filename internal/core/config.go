package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 15)
	Seed     int64 // RNG seed for deterministic generation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 15,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Accumulated reward, truncated
	GameOver bool // Whether the episode has ended
	Paused   bool // Whether the game is paused
	Won      bool // Whether the episode ended by completing the level
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State         GameState
	Reward        float64 // Reward granted on this tick
	Done          bool    // Episode ended on this tick or earlier
	LevelComplete bool    // Episode ended by reaching the goal
}
