package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is the player's view direction as Euler angles. The rotation is
// always rebuilt from the (clamped) angles, yaw about world up first and then
// pitch about the local right axis, so roll never accumulates.
type Orientation struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Apply consumes one tick of pointer motion. Nothing changes while the
// pointer is not captured. Non-finite deltas are dropped and oversized ones
// clamped so a stalled pointer cannot corrupt the view.
func (o Orientation) Apply(d PointerDelta) Orientation {
	if !d.Captured || !finite(d.DX) || !finite(d.DY) {
		return o
	}
	dx := mgl64.Clamp(d.DX, -MaxPointerDelta, MaxPointerDelta)
	dy := mgl64.Clamp(d.DY, -MaxPointerDelta, MaxPointerDelta)

	o.Yaw = wrapAngle(o.Yaw - dx*LookSensitivity)
	o.Pitch = mgl64.Clamp(o.Pitch-dy*LookSensitivity, -PitchLimit, PitchLimit)
	return o
}

func (o Orientation) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(o.Yaw, worldUp)
	pitch := mgl64.QuatRotate(o.Pitch, localRight)
	return yaw.Mul(pitch)
}

// Forward is the facing direction; -Z at zero yaw and pitch.
func (o Orientation) Forward() mgl64.Vec3 {
	return o.Quat().Rotate(localForward)
}

// Right is the horizontal right-hand axis.
func (o Orientation) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(o.Yaw), 0, -math.Sin(o.Yaw)}
}

// ToWorld rotates a local velocity (X right, Y up, Z forward) into world space.
// Vertical input always follows world up.
func (o Orientation) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.Right().Mul(local.X()).
		Add(worldUp.Mul(local.Y())).
		Add(o.Forward().Mul(local.Z()))
}
