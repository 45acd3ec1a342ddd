package game

import "github.com/go-gl/mathgl/mgl64"

// Resolution is the outcome of validating one tentative move.
type Resolution struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Blocked  bool    // an obstacle stopped horizontal motion
	Clamped  [3]bool // axes pinned to the world bounds
}

// Contact reports whether the move touched an obstacle or a world limit.
func (r Resolution) Contact() bool {
	return r.Blocked || r.Clamped[0] || r.Clamped[1] || r.Clamped[2]
}

// Resolve validates a tentative move with the stop response used for the
// player. Obstacles are resolved first: any overlap cancels horizontal motion
// for the tick (x/z return to prev, x/z velocity zeroed, no sliding). The
// result is then clamped to the world bounds per axis, zeroing the velocity of
// every clamped axis. Both phases may zero velocity on the same move.
func (w *World) Resolve(prev, candidate, vel, extents mgl64.Vec3) Resolution {
	res := Resolution{Position: candidate, Velocity: vel}

	if w.Blocked(candidate, extents) {
		res.Blocked = true
		res.Position = mgl64.Vec3{prev.X(), candidate.Y(), prev.Z()}
		res.Velocity[0] = 0
		res.Velocity[2] = 0

		// Dropping onto a wall top from above: the horizontal revert is not
		// enough, hold height as well.
		if w.Blocked(res.Position, extents) {
			res.Position[1] = prev.Y()
			res.Velocity[1] = 0
		}
	}

	res.Position, res.Clamped = w.Bounds.Clamp(res.Position)
	for i, c := range res.Clamped {
		if c {
			res.Velocity[i] = 0
		}
	}

	// A clamp can push a below-floor candidate up into a wall; fall back to
	// the last committed position.
	if res.Clamped[1] && w.Blocked(res.Position, extents) {
		res.Blocked = true
		res.Position, _ = w.Bounds.Clamp(prev)
		res.Velocity = mgl64.Vec3{}
	}
	return res
}

// ResolveBounce validates a tentative move with the bounce response used by
// AI actors: on any contact the actor stays where it was and its velocity is
// reversed. Re-aiming is left to the caller.
func (w *World) ResolveBounce(prev, candidate, vel, extents mgl64.Vec3) Resolution {
	res := w.Resolve(prev, candidate, vel, extents)
	if !res.Contact() {
		return res
	}
	res.Position, _ = w.Bounds.Clamp(prev)
	res.Velocity = vel.Mul(-1)
	return res
}
