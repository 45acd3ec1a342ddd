package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	localRight   = mgl64.Vec3{1, 0, 0}
	localForward = mgl64.Vec3{0, 0, -1}
)

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// BoxAt returns the box of the given half-extents centred on center.
func BoxAt(center, extents mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(extents), Max: center.Add(extents)}
}

// Intersects reports whether the two boxes overlap. Touching faces do not count.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

// Bounds holds the six world limits every actor position is clamped to.
type Bounds struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// DefaultBounds must match the client scene.
var DefaultBounds = Bounds{
	Min: mgl64.Vec3{-49, 0.5, -49},
	Max: mgl64.Vec3{49, 9.5, 49},
}

// Valid reports whether every minimum is strictly below its maximum.
func (b Bounds) Valid() bool {
	for i := 0; i < 3; i++ {
		if !(b.Min[i] < b.Max[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether p lies inside the bounds, limits included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Clamp clamps each axis of p independently and reports which axes were clamped.
func (b Bounds) Clamp(p mgl64.Vec3) (mgl64.Vec3, [3]bool) {
	var clamped [3]bool
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			p[i] = b.Min[i]
			clamped[i] = true
		} else if p[i] > b.Max[i] {
			p[i] = b.Max[i]
			clamped[i] = true
		}
	}
	return p, clamped
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// normalize returns the unit vector of v, or the zero vector when v has no length.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || !finite(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

// rateAt stretches a per-reference-tick blend factor over scale reference
// ticks, so n ticks at scale 1 equal one tick at scale n.
func rateAt(k, scale float64) float64 {
	if scale == 1 {
		return k
	}
	return 1 - math.Pow(1-k, scale)
}

// spread returns a uniform value in [-size/2, size/2].
func spread(rng *rand.Rand, size float64) float64 {
	return size * (rng.Float64() - 0.5)
}

// wrapAngle maps a into (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// headingYaw returns the yaw that faces along the horizontal part of dir.
func headingYaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}
