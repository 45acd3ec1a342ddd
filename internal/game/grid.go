package game

const gridCellSize = 4.0 // ~1/20 of the world width, about one cubicle side

// obstacleGrid is a uniform broad-phase grid over the XZ plane.
// Obstacles are registered in every cell their footprint touches.
type obstacleGrid struct {
	originX float64
	originZ float64
	cols    int
	rows    int
	cells   [][]int
}

func newObstacleGrid(b Bounds, margin float64) *obstacleGrid {
	w := b.Max.X() - b.Min.X() + 2*margin
	d := b.Max.Z() - b.Min.Z() + 2*margin
	cols := int(w/gridCellSize) + 1
	rows := int(d/gridCellSize) + 1
	return &obstacleGrid{
		originX: b.Min.X() - margin,
		originZ: b.Min.Z() - margin,
		cols:    cols,
		rows:    rows,
		cells:   make([][]int, cols*rows),
	}
}

// cellRange returns the inclusive cell span of a box, clamped to the grid.
func (g *obstacleGrid) cellRange(box AABB) (minCX, maxCX, minCZ, maxCZ int) {
	minCX = g.clampCol(int((box.Min.X() - g.originX) / gridCellSize))
	maxCX = g.clampCol(int((box.Max.X() - g.originX) / gridCellSize))
	minCZ = g.clampRow(int((box.Min.Z() - g.originZ) / gridCellSize))
	maxCZ = g.clampRow(int((box.Max.Z() - g.originZ) / gridCellSize))
	return
}

func (g *obstacleGrid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *obstacleGrid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}

func (g *obstacleGrid) insert(box AABB, idx int) {
	minCX, maxCX, minCZ, maxCZ := g.cellRange(box)
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			i := cz*g.cols + cx
			g.cells[i] = append(g.cells[i], idx)
		}
	}
}

// query appends the indices registered in every cell the box touches.
// The result may contain duplicates.
func (g *obstacleGrid) query(box AABB, buf []int) []int {
	minCX, maxCX, minCZ, maxCZ := g.cellRange(box)
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cz*g.cols+cx]...)
		}
	}
	return buf
}
