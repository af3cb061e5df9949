package bgmatch

import "fmt"

type GameState int8

const (
	StateUninitialized GameState = iota
	StateStarted                 // Opening roll in progress.
	StateDoubleOrRoll            // Turn holder must double or roll.
	StateRolled                  // Turn holder must move.
	StateDoubled                 // Opponent must accept or decline the double.
	StateFinished
)

var gameStateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateStarted:       "started",
	StateDoubleOrRoll:  "doubleorroll",
	StateRolled:        "rolled",
	StateDoubled:       "doubled",
	StateFinished:      "finished",
}

func (s GameState) String() string {
	if s < 0 || int(s) >= len(gameStateNames) {
		return fmt.Sprintf("GameState(%d)", int8(s))
	}
	return gameStateNames[s]
}

func (s GameState) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(gameStateNames) {
		return nil, fmt.Errorf("unknown game state %d", int8(s))
	}
	return []byte(gameStateNames[s]), nil
}

func (s *GameState) UnmarshalText(text []byte) error {
	for state, name := range gameStateNames {
		if name == string(text) {
			*s = GameState(state)
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}
