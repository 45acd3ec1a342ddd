package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidBounds   = errors.New("world bounds are empty")
	ErrInvalidObstacle = errors.New("obstacle box is inverted")
)

// Tag names what a piece of static geometry is.
type Tag int

const (
	TagWall Tag = iota
	TagBoundary
)

func (t Tag) String() string {
	switch t {
	case TagWall:
		return "wall"
	case TagBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Tag as a string.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Obstacle is static collidable geometry. Immutable for the session.
type Obstacle struct {
	Box AABB `json:"box"`
	Tag Tag  `json:"tag"`
}

// World answers spatial queries over the static obstacles of a session.
// It is read-only after construction.
type World struct {
	Bounds    Bounds
	obstacles []Obstacle
	grid      *obstacleGrid
}

// gridMargin lets boundary walls just outside the bounds land in real cells.
const gridMargin = 2.0

// NewWorld indexes the obstacles for the given bounds.
func NewWorld(bounds Bounds, obstacles []Obstacle) (*World, error) {
	if !bounds.Valid() {
		return nil, ErrInvalidBounds
	}
	w := &World{
		Bounds:    bounds,
		obstacles: slices.Clone(obstacles),
		grid:      newObstacleGrid(bounds, gridMargin),
	}
	for i, o := range w.obstacles {
		if o.Box.Min.X() > o.Box.Max.X() || o.Box.Min.Y() > o.Box.Max.Y() || o.Box.Min.Z() > o.Box.Max.Z() {
			return nil, fmt.Errorf("obstacle %d: %w", i, ErrInvalidObstacle)
		}
		w.grid.insert(o.Box, i)
	}
	return w, nil
}

// Obstacles returns a copy of every obstacle in registration order.
func (w *World) Obstacles() []Obstacle {
	return slices.Clone(w.obstacles)
}

// Nearby returns the obstacles whose grid cells touch the box, each once.
func (w *World) Nearby(box AABB) []Obstacle {
	idx := w.grid.query(box, nil)
	slices.Sort(idx)
	idx = slices.Compact(idx)

	out := make([]Obstacle, 0, len(idx))
	for _, i := range idx {
		out = append(out, w.obstacles[i])
	}
	return out
}

// Overlaps reports whether the box intersects any obstacle carrying one of the tags.
// With no tags every obstacle counts.
func (w *World) Overlaps(box AABB, tags ...Tag) bool {
	for _, o := range w.Nearby(box) {
		if len(tags) > 0 && !slices.Contains(tags, o.Tag) {
			continue
		}
		if o.Box.Intersects(box) {
			return true
		}
	}
	return false
}

// Blocked reports whether an actor of the given extents centred at pos is
// stopped by an obstacle. Obstacles only block while the actor's centre is
// below their ceiling, so flying over a wall is free.
func (w *World) Blocked(pos, extents mgl64.Vec3) bool {
	box := BoxAt(pos, extents)
	for _, o := range w.Nearby(box) {
		if pos.Y() >= o.Box.Max.Y() {
			continue
		}
		if o.Box.Intersects(box) {
			return true
		}
	}
	return false
}
