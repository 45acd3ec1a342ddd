package game

import "github.com/go-gl/mathgl/mgl64"

// WallSpec describes a box wall as the client scene places it: a centre, a
// size along its own axes and an optional quarter turn about Y.
type WallSpec struct {
	X, Y, Z float64
	Width   float64 // along X before rotation
	Height  float64
	Depth   float64 // along Z before rotation
	Rotated bool    // quarter turn about Y swaps width and depth
}

// Box returns the world-space box of the wall.
func (s WallSpec) Box() AABB {
	w, d := s.Width, s.Depth
	if s.Rotated {
		w, d = d, w
	}
	return BoxAt(mgl64.Vec3{s.X, s.Y, s.Z}, mgl64.Vec3{w / 2, s.Height / 2, d / 2})
}

// Office layout (must match client scene).
const (
	wallHeight    = 3.0
	wallThickness = 0.2
	wallCentreY   = wallHeight / 2
)

func wall(x, z, length float64, rotated bool) WallSpec {
	return WallSpec{X: x, Y: wallCentreY, Z: z, Width: length, Height: wallHeight, Depth: wallThickness, Rotated: rotated}
}

// cubicleWalls is the maze of the office floor.
var cubicleWalls = []WallSpec{
	// Main corridors
	wall(0, -30, 80, false),
	wall(0, -10, 80, false),
	wall(0, 10, 80, false),
	wall(0, 30, 80, false),
	wall(-30, 0, 80, true),
	wall(-10, 0, 80, true),
	wall(10, 0, 80, true),
	wall(30, 0, 80, true),

	// Cubicles, top right
	wall(15, 15, 10, false),
	wall(25, 15, 10, false),
	wall(20, 20, 10, true),
	wall(20, 25, 10, true),
	wall(15, 25, 10, false),
	wall(25, 25, 10, false),

	// Cubicles, top left
	wall(-15, 15, 10, false),
	wall(-25, 15, 10, false),
	wall(-20, 20, 10, true),
	wall(-20, 25, 10, true),
	wall(-15, 25, 10, false),
	wall(-25, 25, 10, false),

	// Cubicles, bottom left
	wall(-15, -15, 10, false),
	wall(-25, -15, 10, false),
	wall(-20, -20, 10, true),
	wall(-20, -25, 10, true),
	wall(-15, -25, 10, false),
	wall(-25, -25, 10, false),

	// Cubicles, bottom right
	wall(15, -15, 10, false),
	wall(25, -15, 10, false),
	wall(20, -20, 10, true),
	wall(20, -25, 10, true),
	wall(15, -25, 10, false),
	wall(25, -25, 10, false),

	// Outer maze segments
	wall(35, 35, 20, false),
	wall(35, -35, 20, false),
	wall(-35, 35, 20, false),
	wall(-35, -35, 20, false),
	wall(35, 0, 20, true),
	wall(-35, 0, 20, true),
	wall(0, 35, 20, true),
	wall(0, -35, 20, true),
}

// boundaryWalls enclose the floor.
var boundaryWalls = []WallSpec{
	{X: 0, Y: 5, Z: -50, Width: 100, Height: 10, Depth: 1},
	{X: 0, Y: 5, Z: 50, Width: 100, Height: 10, Depth: 1},
	{X: -50, Y: 5, Z: 0, Width: 1, Height: 10, Depth: 100},
	{X: 50, Y: 5, Z: 0, Width: 1, Height: 10, Depth: 100},
}

// Layout is what the world-building collaborator hands to the simulation.
type Layout struct {
	Bounds         Bounds
	Obstacles      []Obstacle
	PlayerSpawn    mgl64.Vec3
	AdversarySpawn mgl64.Vec3
	HumanHeight    float64 // centre height of a standing human
}

// DefaultLayout returns the office floor used by the client.
func DefaultLayout() Layout {
	obstacles := make([]Obstacle, 0, len(boundaryWalls)+len(cubicleWalls))
	for _, s := range boundaryWalls {
		obstacles = append(obstacles, Obstacle{Box: s.Box(), Tag: TagBoundary})
	}
	for _, s := range cubicleWalls {
		obstacles = append(obstacles, Obstacle{Box: s.Box(), Tag: TagWall})
	}
	return Layout{
		Bounds:         DefaultBounds,
		Obstacles:      obstacles,
		PlayerSpawn:    mgl64.Vec3{0, 1.5, 0},
		AdversarySpawn: mgl64.Vec3{-5, AdversaryExtents.Y(), -5},
		HumanHeight:    NPCExtents.Y(),
	}
}
