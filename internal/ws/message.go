package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`

	// payload keeps the typed value so binary codecs can skip a JSON round trip.
	payload any
}

// Message types - Lobby
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeLeaveRoom  = "leave_room"
)

// Message types - Gameplay
const (
	TypePlayerInput = "player_input"
	TypeInfect      = "infect"
	TypeNewGame     = "new_game"
	TypeGameState   = "game_state"
	TypeInfection   = "infection"
	TypePlayerHit   = "player_hit"
	TypeGameOver    = "game_over"
)

// Message types - System
const (
	TypeError    = "error"
	TypeRoomInfo = "room_info"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message" msgpack:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	payload := ErrorMessage{Message: msg}
	data, _ := json.Marshal(payload)
	return Message{Type: TypeError, Data: data, payload: payload}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data, payload: payload}, nil
}
