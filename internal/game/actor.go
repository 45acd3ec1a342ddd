package game

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type ActorKind int

const (
	KindPlayer ActorKind = iota
	KindNPC
	KindAdversary
)

func (k ActorKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindNPC:
		return "npc"
	case KindAdversary:
		return "adversary"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes ActorKind as a string.
func (k ActorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON deserializes ActorKind from a string.
func (k *ActorKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "npc":
		*k = KindNPC
	case "adversary":
		*k = KindAdversary
	default:
		*k = KindPlayer
	}
	return nil
}

// Actor is any moving entity. Position and Velocity are written only by the
// integrator/resolver of the actor's own update; Yaw/Pitch only by its
// controller.
type Actor struct {
	ID       string     `json:"id"`
	Kind     ActorKind  `json:"kind"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	Extents  mgl64.Vec3 `json:"-"`
	Infected bool       `json:"infected"`

	// Damage gates how often the player can lose a life.
	Damage Cooldown `json:"-"`
}

func NewActor(kind ActorKind, pos, extents mgl64.Vec3) *Actor {
	return &Actor{
		ID:       uuid.New().String(),
		Kind:     kind,
		Position: pos,
		Extents:  extents,
	}
}

// Extents per kind (half sizes).
var (
	PlayerExtents    = mgl64.Vec3{PlayerRadius, PlayerRadius, PlayerRadius}
	NPCExtents       = mgl64.Vec3{0.3, 0.85, 0.3}
	AdversaryExtents = mgl64.Vec3{0.35, 0.75, 0.35}
)

func (a *Actor) Box() AABB {
	return BoxAt(a.Position, a.Extents)
}

// Infect marks the actor infected. It reports false when it already was.
func (a *Actor) Infect() bool {
	if a.Infected {
		return false
	}
	a.Infected = true
	return true
}

func (a *Actor) IsInfected() bool {
	return a.Infected
}
