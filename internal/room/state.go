package room

import "encoding/json"

// State is the lifecycle of a room's game. A room is Waiting until its
// pilot starts a game, Playing while the loop ticks and Ended after game
// over or a stop; new_game moves an Ended room back to Playing.
type State int

const (
	StateWaiting State = iota
	StatePlaying
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes State as a string.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
