package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

var diag = 1 / math.Sqrt2

// compass holds the eight search directions for spawn relocation.
var compass = [8]mgl64.Vec3{
	{0, 0, 1},
	{diag, 0, diag},
	{1, 0, 0},
	{diag, 0, -diag},
	{0, 0, -1},
	{-diag, 0, -diag},
	{-1, 0, 0},
	{-diag, 0, diag},
}

// FindFreeSpot returns spawn itself when it is clear, otherwise the first
// clear point on rings of growing radius in the eight compass directions.
// When the local search fails it falls back to a random clear point in the
// safe region around the origin, and finally the origin itself.
func (w *World) FindFreeSpot(spawn, extents mgl64.Vec3, rng *rand.Rand) mgl64.Vec3 {
	spawn, _ = w.Bounds.Clamp(spawn)
	if !w.Blocked(spawn, extents) {
		return spawn
	}

	for r := SpawnSearchStep; r <= SpawnSearchRadius; r += SpawnSearchStep {
		for _, d := range compass {
			cand, _ := w.Bounds.Clamp(spawn.Add(d.Mul(r)))
			if !w.Blocked(cand, extents) {
				return cand
			}
		}
	}

	for range SafeRegionAttempts {
		cand, _ := w.Bounds.Clamp(mgl64.Vec3{spread(rng, SafeRegionSize), spawn.Y(), spread(rng, SafeRegionSize)})
		if !w.Blocked(cand, extents) {
			return cand
		}
	}
	origin, _ := w.Bounds.Clamp(mgl64.Vec3{0, spawn.Y(), 0})
	return origin
}

// GenerateHumanSpawns scatters humans on rings around the origin.
func GenerateHumanSpawns(rng *rand.Rand, count int, height float64) []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, 0, count)
	for range count {
		radius := HumanSpawnMinDist + rng.Float64()*(HumanSpawnMaxDist-HumanSpawnMinDist)
		angle := rng.Float64() * 2 * math.Pi
		positions = append(positions, mgl64.Vec3{math.Cos(angle) * radius, height, math.Sin(angle) * radius})
	}
	return positions
}
