package game

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
)

type EventType int

const (
	EventInfection EventType = iota
	EventAttack
	EventHit
	EventGameOver
)

func (t EventType) String() string {
	switch t {
	case EventInfection:
		return "infection"
	case EventAttack:
		return "attack"
	case EventHit:
		return "player_hit"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes EventType as a string.
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Event is a gameplay change raised during a tick.
type Event struct {
	Type           EventType `json:"type" msgpack:"type"`
	ActorID        string    `json:"actor_id,omitempty" msgpack:"actor_id,omitempty"`
	TargetID       string    `json:"target_id,omitempty" msgpack:"target_id,omitempty"`
	Lives          int       `json:"lives" msgpack:"lives"`
	InfectionCount int       `json:"infection_count" msgpack:"infection_count"`
}

// ActorView is the render-facing part of an actor.
type ActorView struct {
	ID       string     `json:"id" msgpack:"id"`
	Kind     string     `json:"kind" msgpack:"kind"`
	Position mgl64.Vec3 `json:"position" msgpack:"position"`
	Yaw      float64    `json:"yaw" msgpack:"yaw"`
	Pitch    float64    `json:"pitch,omitempty" msgpack:"pitch,omitempty"`
	Infected bool       `json:"infected,omitempty" msgpack:"infected,omitempty"`
}

// ParticleView is a live spray particle in world space.
type ParticleView struct {
	Position mgl64.Vec3 `json:"position" msgpack:"position"`
	Life     float64    `json:"life" msgpack:"life"`
}

// Snapshot is everything the renderer needs for one frame.
type Snapshot struct {
	Tick           uint64 `json:"tick" msgpack:"tick"`
	Lives          int    `json:"lives" msgpack:"lives"`
	InfectionCount int    `json:"infection_count" msgpack:"infection_count"`
	HumanCount     int    `json:"human_count" msgpack:"human_count"`
	GameOver       bool   `json:"game_over" msgpack:"game_over"`

	// HUD timers in seconds; zero when ready or idle.
	InfectCooldown  float64 `json:"infect_cooldown" msgpack:"infect_cooldown"`
	VolleyRemaining float64 `json:"volley_remaining" msgpack:"volley_remaining"`

	Actors    []ActorView    `json:"actors" msgpack:"actors"`
	Particles []ParticleView `json:"particles,omitempty" msgpack:"particles,omitempty"`
}

// Snapshot captures the committed state after the last tick.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:           s.tick,
		Lives:          s.session.Lives,
		InfectionCount: s.session.InfectionCount,
		HumanCount:     s.session.HumanCount,
		GameOver:       s.session.GameOver,
		InfectCooldown: s.infector.Remaining(s.now, s.session.Epoch).Seconds(),
		Actors:         make([]ActorView, 0, s.registry.Len()),
	}
	for _, a := range s.registry.All() {
		snap.Actors = append(snap.Actors, ActorView{
			ID:       a.ID,
			Kind:     a.Kind.String(),
			Position: a.Position,
			Yaw:      a.Yaw,
			Pitch:    a.Pitch,
			Infected: a.Infected,
		})
	}
	for _, ad := range s.adversaries {
		snap.VolleyRemaining = max(snap.VolleyRemaining, ad.AttackRemaining(s.now, s.session.Epoch).Seconds())
		origin := ad.SprayOrigin()
		for _, p := range ad.Particles {
			snap.Particles = append(snap.Particles, ParticleView{
				Position: origin.Add(p.Local),
				Life:     p.Life,
			})
		}
	}
	return snap
}
