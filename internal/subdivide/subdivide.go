// Package subdivide splits a room into sub-areas bounded by its outline and
// the walls and separation lines drawn inside it.
package subdivide

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
)

const (
	DefaultCellSize  = 25.0 // mm
	DefaultMaxCells  = 250_000
	DefaultMinAreaM2 = 0.01
)

// Options controls grid resolution.
type Options struct {
	CellSize  float64
	MaxCells  int
	MinAreaM2 float64
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.MaxCells <= 0 {
		o.MaxCells = DefaultMaxCells
	}
	if o.MinAreaM2 <= 0 {
		o.MinAreaM2 = DefaultMinAreaM2
	}
	return o
}

// Region is one connected sub-area.
type Region struct {
	ID       int
	Cells    int
	AreaM2   float64
	Centroid geometry.Point // mm
}

// Grid is the rasterized room. Cell (col,row) covers
// [col*CellSize, (col+1)*CellSize) × [row*CellSize, (row+1)*CellSize) in mm.
type Grid struct {
	Cols     int
	Rows     int
	CellSize float64
	blocked  []bool
	region   []int
}

func (g *Grid) index(col, row int) int { return row*g.Cols + col }

func (g *Grid) inBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// Blocked reports whether a cell is outside the room or under a divider.
func (g *Grid) Blocked(col, row int) bool {
	if !g.inBounds(col, row) {
		return true
	}
	return g.blocked[g.index(col, row)]
}

// RegionAt returns the region id of a cell, or -1 for blocked cells and
// regions discarded as noise.
func (g *Grid) RegionAt(col, row int) int {
	if !g.inBounds(col, row) {
		return -1
	}
	return g.region[g.index(col, row)]
}

// Compute rasterizes the room, blocks any cell crossed by a wall-segment or
// separation-line, and flood-fills the rest into regions. Regions at or
// below the noise threshold are dropped. A nil room yields no regions.
func Compute(room *document.Room, items []document.PlacedItem, opts Options) ([]Region, *Grid) {
	if room == nil || room.Width <= 0 || room.Height <= 0 {
		return nil, nil
	}
	opts = opts.withDefaults()
	g := newGrid(room, opts)

	polygon := geometry.RoomPolygon(room, geometry.Point{}, 1)
	for row := range g.Rows {
		for col := range g.Cols {
			center := geometry.Point{
				X: (float64(col) + 0.5) * g.CellSize,
				Y: (float64(row) + 0.5) * g.CellSize,
			}
			if !geometry.Contains(polygon, center) {
				g.blocked[g.index(col, row)] = true
			}
		}
	}

	for _, it := range items {
		if it.Kind().Divider() {
			g.blockSegment(it)
		}
	}

	return g.fill(opts.MinAreaM2), g
}

func newGrid(room *document.Room, opts Options) *Grid {
	cell := opts.CellSize
	cells := math.Ceil(room.Width/cell) * math.Ceil(room.Height/cell)
	if cells > float64(opts.MaxCells) {
		cell *= math.Sqrt(cells / float64(opts.MaxCells))
	}

	g := &Grid{
		Cols:     int(math.Ceil(room.Width / cell)),
		Rows:     int(math.Ceil(room.Height / cell)),
		CellSize: cell,
	}
	g.blocked = make([]bool, g.Cols*g.Rows)
	g.region = make([]int, g.Cols*g.Rows)
	for i := range g.region {
		g.region[i] = -1
	}
	return g
}

// blockSegment marks every cell the divider's centerline passes through,
// sampling at least twice per cell along its length.
func (g *Grid) blockSegment(it document.PlacedItem) {
	if it.Width <= 0 {
		return
	}
	rad := geometry.Radians(it.Rotation)
	x0, y0 := it.X/g.CellSize, it.Y/g.CellSize
	x1 := (it.X + it.Width*math.Cos(rad)) / g.CellSize
	y1 := (it.Y + it.Width*math.Sin(rad)) / g.CellSize

	steps := int(math.Ceil(math.Hypot(x1-x0, y1-y0) * 2))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := int(math.Floor(x0 + (x1-x0)*t))
		row := int(math.Floor(y0 + (y1-y0)*t))
		if g.inBounds(col, row) {
			g.blocked[g.index(col, row)] = true
		}
	}
}

var neighbours = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// fill labels 4-connected open cells with an explicit stack.
func (g *Grid) fill(minAreaM2 float64) []Region {
	cellAreaM2 := g.CellSize * g.CellSize / 1e6
	visited := make([]bool, len(g.blocked))
	var regions []Region
	var stack []int

	for start := range g.blocked {
		if g.blocked[start] || visited[start] {
			continue
		}

		var members []int
		var sumX, sumY float64
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)

			col, row := cur%g.Cols, cur/g.Cols
			sumX += float64(col) + 0.5
			sumY += float64(row) + 0.5

			for _, d := range neighbours {
				nc, nr := col+d[0], row+d[1]
				if !g.inBounds(nc, nr) {
					continue
				}
				ni := g.index(nc, nr)
				if g.blocked[ni] || visited[ni] {
					continue
				}
				visited[ni] = true
				stack = append(stack, ni)
			}
		}

		area := float64(len(members)) * cellAreaM2
		if area <= minAreaM2 {
			continue
		}
		id := len(regions)
		for _, m := range members {
			g.region[m] = id
		}
		n := float64(len(members))
		regions = append(regions, Region{
			ID:     id,
			Cells:  len(members),
			AreaM2: area,
			Centroid: geometry.Point{
				X: sumX / n * g.CellSize,
				Y: sumY / n * g.CellSize,
			},
		})
	}
	return regions
}
