package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// KeyState is the per-tick snapshot of held movement keys.
type KeyState struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	Up       bool `json:"up"`
	Down     bool `json:"down"`
}

// MoveMode selects which keys feed the mapped velocity.
type MoveMode int

const (
	// MoveFirstPerson feeds only forward/backward; turning is done with the pointer.
	MoveFirstPerson MoveMode = iota
	// MoveOmni also feeds strafe and vertical axes.
	MoveOmni
)

// Active reports whether any key relevant to the mode is held.
func (k KeyState) Active(mode MoveMode) bool {
	if k.Forward || k.Backward {
		return true
	}
	return mode == MoveOmni && (k.Left || k.Right || k.Up || k.Down)
}

// InputParams tunes the input mapper.
type InputParams struct {
	Speed    float64
	MaxSpeed float64
	Drag     float64
	Mode     MoveMode
}

var DefaultInputParams = InputParams{
	Speed:    PlayerSpeed,
	MaxSpeed: PlayerMaxSpeed,
	Drag:     PlayerDrag,
	Mode:     MoveFirstPerson,
}

// MapInput turns held keys into a desired velocity in the actor's local frame
// (X strafe right, Y up, Z forward). Axes without a held key coast: the previous
// component decays by (1 - drag) per reference tick instead of snapping to
// zero. The result is clamped to MaxSpeed.
func MapInput(keys KeyState, prev mgl64.Vec3, p InputParams, scale float64) mgl64.Vec3 {
	if !finiteVec(prev) {
		prev = mgl64.Vec3{}
	}

	var v mgl64.Vec3
	keep := 1 - rateAt(p.Drag, scale)
	v[2] = mapAxis(keys.Forward, keys.Backward, prev[2], p.Speed, keep)
	if p.Mode == MoveOmni {
		v[0] = mapAxis(keys.Right, keys.Left, prev[0], p.Speed, keep)
		v[1] = mapAxis(keys.Up, keys.Down, prev[1], p.Speed, keep)
	}

	if l := v.Len(); l > p.MaxSpeed && l > 0 {
		v = v.Mul(p.MaxSpeed / l)
	}
	return v
}

func mapAxis(pos, neg bool, prev, speed, keep float64) float64 {
	switch {
	case pos:
		return speed
	case neg:
		return -speed
	default:
		v := prev * keep
		if math.Abs(v) < 1e-9 {
			return 0
		}
		return v
	}
}

// PointerDelta is relative pointer motion for one tick. Captured mirrors the
// client's pointer-lock state; deltas are ignored while it is false.
type PointerDelta struct {
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Captured bool    `json:"captured"`
}

// InputState is the single input object read by every consumer in a tick.
type InputState struct {
	Keys    KeyState     `json:"keys"`
	Pointer PointerDelta `json:"pointer"`
	Infect  bool         `json:"infect"`
}

// Merge folds a newer client report into the pending state. Keys are a
// snapshot and replace the old ones, pointer motion accumulates and an infect
// trigger stays latched until consumed.
func (s *InputState) Merge(next InputState) {
	s.Keys = next.Keys
	if finite(next.Pointer.DX) && finite(next.Pointer.DY) {
		s.Pointer.DX += next.Pointer.DX
		s.Pointer.DY += next.Pointer.DY
	}
	s.Pointer.Captured = next.Pointer.Captured
	s.Infect = s.Infect || next.Infect
}

// Consume returns the pending state and clears the one-shot parts.
func (s *InputState) Consume() InputState {
	out := *s
	s.Pointer.DX = 0
	s.Pointer.DY = 0
	s.Infect = false
	return out
}
