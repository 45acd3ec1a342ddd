package room

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

type Role int

const (
	RoleSpectator Role = iota
	RolePilot
)

func (r Role) String() string {
	switch r {
	case RolePilot:
		return "pilot"
	default:
		return "spectator"
	}
}

// MarshalJSON serializes Role as a string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserializes Role from a string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "pilot":
		*r = RolePilot
	default:
		*r = RoleSpectator
	}
	return nil
}

// EncodeMsgpack writes Role as a string so both codecs agree.
func (r Role) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(r.String())
}

// DecodeMsgpack reads Role from a string.
func (r *Role) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	if s == "pilot" {
		*r = RolePilot
	} else {
		*r = RoleSpectator
	}
	return nil
}

// Member is a connected participant of a room. Only the pilot steers the
// mosquito; spectators receive the same broadcasts.
type Member struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"-"`
}

func NewMember(nickname string) *Member {
	return &Member{
		ID:       uuid.New().String(),
		Nickname: nickname,
		Role:     RoleSpectator,
		JoinedAt: time.Now(),
	}
}

func (m *Member) IsPilot() bool {
	return m.Role == RolePilot
}
