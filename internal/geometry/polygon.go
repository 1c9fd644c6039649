package geometry

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

// HitThreshold is the pointer distance in pixels within which an edge or
// corner handle is considered hit.
const HitThreshold = 12.0

// Fixed outline ratios for shapes without adjustable parameters.
const (
	uShapeTopRatio   = 0.85
	uShapeSideRatio  = 0.15
	customCutXRatio  = 55.0 / 90.0
	customCutYRatio  = 35.0 / 90.0
	defaultCutFactor = 2.0 / 7.0
)

// Edge is one side of a room polygon, running from vertex Index to the
// next vertex in the loop.
type Edge struct {
	Index int
	Start Point
	End   Point
}

func (e Edge) Vector() Point { return e.End.Sub(e.Start) }
func (e Edge) Len() float64 { return e.Vector().Len() }
func (e Edge) Midpoint() Point { return e.Start.Lerp(e.End, 0.5) }

// Angle returns the edge direction in degrees, in (-180, 180].
func (e Edge) Angle() float64 {
	v := e.Vector()
	return Degrees(math.Atan2(v.Y, v.X))
}

// Cut is the rectangular notch of an l-shape, in the same units as the
// polygon it belongs to.
type Cut struct {
	Width  float64
	Height float64
}

// DefaultCut is the notch used when a room has no explicit cut parameters.
func DefaultCut(w, h float64) Cut {
	return Cut{Width: w * defaultCutFactor, Height: h * defaultCutFactor}
}

// RoomCut returns the room's notch in millimetres.
func RoomCut(room *document.Room) Cut {
	def := DefaultCut(room.Width, room.Height)
	return Cut{
		Width:  room.Param(document.ParamCutWidth, def.Width),
		Height: room.Param(document.ParamCutHeight, def.Height),
	}
}

// Polygon returns the clockwise vertex loop (screen coordinates, y down) of a
// shape whose bounding box starts at (x, y) and spans w×h. The cut only
// applies to l-shapes.
func Polygon(x, y, w, h float64, shape document.Shape, cut Cut) []Point {
	var pts []Point
	switch shape {
	case document.ShapeLShape:
		cw := Clamp(cut.Width, 0, w)
		ch := Clamp(cut.Height, 0, h)
		pts = []Point{
			{0, 0},
			{w - cw, 0},
			{w - cw, ch},
			{w, ch},
			{w, h},
			{0, h},
		}
	case document.ShapeUShape:
		pts = []Point{
			{0, 0},
			{w * uShapeTopRatio, 0},
			{w, h * uShapeSideRatio},
			{w, h},
			{0, h},
		}
	case document.ShapeCustom:
		pts = []Point{
			{0, 0},
			{w, 0},
			{w, h * customCutYRatio},
			{w * customCutXRatio, h * customCutYRatio},
			{w * customCutXRatio, h},
			{0, h},
		}
	default:
		pts = []Point{{0, 0}, {w, 0}, {w, h}, {0, h}}
	}

	for i := range pts {
		pts[i].X += x
		pts[i].Y += y
	}
	return pts
}

// RoomPolygon returns the room outline with its bounding box at origin and
// millimetres multiplied by scale. Pass scale 1 and a zero origin for mm space.
func RoomPolygon(room *document.Room, origin Point, scale float64) []Point {
	if room == nil {
		return nil
	}
	cut := RoomCut(room)
	return Polygon(origin.X, origin.Y, room.Width*scale, room.Height*scale, room.Shape,
		Cut{Width: cut.Width * scale, Height: cut.Height * scale})
}

// VertexCount is the fixed number of vertices a shape's polygon has.
func VertexCount(shape document.Shape) int {
	switch shape {
	case document.ShapeLShape, document.ShapeCustom:
		return 6
	case document.ShapeUShape:
		return 5
	default:
		return 4
	}
}

// Edges returns the closed loop of edges of a vertex list.
func Edges(vertices []Point) []Edge {
	n := len(vertices)
	if n < 2 {
		return nil
	}
	edges := make([]Edge, n)
	for i := range vertices {
		edges[i] = Edge{Index: i, Start: vertices[i], End: vertices[(i+1)%n]}
	}
	return edges
}

// ShoelaceArea returns the unsigned area enclosed by a vertex loop.
func ShoelaceArea(vertices []Point) float64 {
	var sum float64
	n := len(vertices)
	for i := range vertices {
		j := (i + 1) % n
		sum += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// RoomArea returns the floor area of a room in square metres.
func RoomArea(room *document.Room) float64 {
	if room == nil {
		return 0
	}
	return ShoelaceArea(RoomPolygon(room, Point{}, 1)) / 1e6
}

// Contains reports whether p lies inside the polygon, by ray casting.
func Contains(vertices []Point, p Point) bool {
	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := vertices[i], vertices[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// SegmentDistance returns the distance from p to the segment a-b. The second
// result is false for a zero-length segment.
func SegmentDistance(p, a, b Point) (float64, bool) {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return 0, false
	}
	t := Clamp(((p.X-a.X)*d.X+(p.Y-a.Y)*d.Y)/lenSq, 0, 1)
	return p.Dist(a.Add(d.Scale(t))), true
}

// NearEdge reports whether p is within threshold of the edge. Zero-length
// edges are never near.
func NearEdge(p Point, e Edge, threshold float64) bool {
	d, ok := SegmentDistance(p, e.Start, e.End)
	return ok && d <= threshold
}

// NearCorner reports whether p is strictly within threshold of a vertex.
func NearCorner(p, vertex Point, threshold float64) bool {
	return p.Dist(vertex) < threshold
}

// NearestEdge returns the edge closest to p, and its distance. ok is false
// when no edge has a length.
func NearestEdge(p Point, edges []Edge) (Edge, float64, bool) {
	best, bestDist, found := Edge{}, math.Inf(1), false
	for _, e := range edges {
		d, ok := SegmentDistance(p, e.Start, e.End)
		if ok && d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, bestDist, found
}
