package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// MotionParams controls momentum for an actor.
type MotionParams struct {
	Lerp     float64 // blend toward the target velocity while input is active
	IdleDrag float64 // multiplicative decay while idle
}

var PlayerMotion = MotionParams{Lerp: PlayerLerp, IdleDrag: IdleDrag}

// StepScale converts a tick length into reference ticks.
func StepScale(dt time.Duration) float64 {
	return float64(dt) / float64(ReferenceTick)
}

// Integrate applies momentum scaled to the tick length and returns the new velocity together with the
// tentative position. The tentative position is not committed until the
// collision resolver accepts it.
func Integrate(pos, vel, target mgl64.Vec3, active bool, p MotionParams, scale float64) (mgl64.Vec3, mgl64.Vec3) {
	if !finiteVec(vel) {
		vel = mgl64.Vec3{}
	}
	if active && finiteVec(target) {
		vel = lerpVec(vel, target, rateAt(p.Lerp, scale))
	} else {
		vel = vel.Mul(math.Pow(p.IdleDrag, scale))
	}
	return vel, pos.Add(vel.Mul(scale))
}
