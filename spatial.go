package main

const (
	SpatialCellSize = 100.0 // larger than any enemy or block extent
	SpatialCols     = 41    // ceil(4000/100) + 1
	SpatialRows     = 21    // ceil(2000/100) + 1
)

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 'e'=enemy, 'b'=block
	Idx  int  // index into the corresponding slice
}

// SpatialGrid is a fixed-size grid for broad-phase collision queries
type SpatialGrid struct {
	cells [SpatialCols * SpatialRows][]EntityRef
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func cellRange(x, y, hw, hh float64) (minCX, maxCX, minCY, maxCY int) {
	minCX = clampCell(int((x-hw)/SpatialCellSize), SpatialCols)
	maxCX = clampCell(int((x+hw)/SpatialCellSize), SpatialCols)
	minCY = clampCell(int((y-hh)/SpatialCellSize), SpatialRows)
	maxCY = clampCell(int((y+hh)/SpatialCellSize), SpatialRows)
	return
}

func clampCell(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// InsertBox adds an entity reference to every cell its box overlaps
func (g *SpatialGrid) InsertBox(x, y, hw, hh float64, ref EntityRef) {
	minCX, maxCX, minCY, maxCY := cellRange(x, y, hw, hh)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*SpatialCols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends the refs of every cell overlapping the circle's bounding
// box to buf. A ref spanning several cells may appear more than once.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	minCX, maxCX, minCY, maxCY := cellRange(x, y, radius, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*SpatialCols+cx]...)
		}
	}
	return buf
}
