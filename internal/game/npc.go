package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Wanderer walks a human along random headings.
type Wanderer struct {
	Actor    *Actor
	Heading  float64
	walkLeft time.Duration
}

func NewWanderer(a *Actor, rng *rand.Rand) *Wanderer {
	w := &Wanderer{Actor: a}
	w.reroll(rng)
	return w
}

func (w *Wanderer) reroll(rng *rand.Rand) {
	w.Heading = rng.Float64() * 2 * math.Pi
	w.walkLeft = NPCMinWalk + time.Duration(rng.Int63n(int64(NPCMaxWalk-NPCMinWalk)+1))
	w.Actor.Yaw = w.Heading
}

// Direction is the unit walking direction for the current heading.
func (w *Wanderer) Direction() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(w.Heading), 0, math.Cos(w.Heading)}
}

// Update walks one tick. On contact the heading reverses with a little
// jitter so the human does not oscillate against a wall in lock-step.
func (w *Wanderer) Update(f frame) {
	w.walkLeft -= f.dt
	if w.walkLeft <= 0 {
		w.reroll(f.rng)
	}

	a := w.Actor
	vel := w.Direction().Mul(NPCWalkSpeed)
	candidate := a.Position.Add(vel.Mul(f.scale))

	res := f.world.ResolveBounce(a.Position, candidate, vel, a.Extents)
	a.Position = res.Position
	if res.Contact() {
		w.Heading = wrapAngle(w.Heading + math.Pi + spread(f.rng, 2*NPCBounceJitter))
		a.Velocity = mgl64.Vec3{}
	} else {
		a.Velocity = res.Velocity
	}
	a.Yaw = w.Heading
}
