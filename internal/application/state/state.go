package state

// GameState represents the current state of the game
type GameState int

const (
	StatePlaying GameState = iota
	StatePaused
	StateStageClear
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStageClear:
		return "StageClear"
	default:
		return "Unknown"
	}
}

// Toggle flips between playing and paused. Other states are kept.
func (s GameState) Toggle() GameState {
	switch s {
	case StatePlaying:
		return StatePaused
	case StatePaused:
		return StatePlaying
	default:
		return s
	}
}
