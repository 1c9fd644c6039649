package geometry

import "math"

// parallelEpsilon is the determinant below which two lines are treated as parallel.
const parallelEpsilon = 0.001

// Line is an infinite line through two points.
type Line struct {
	P1 Point
	P2 Point
}

// OffsetEdge translates an edge toward the interior of a clockwise
// (screen-space) polygon by dist. Zero-length edges are returned unmoved.
func OffsetEdge(e Edge, dist float64) Line {
	v := e.Vector()
	l := v.Len()
	if l == 0 || dist == 0 || math.IsNaN(dist) {
		return Line{P1: e.Start, P2: e.End}
	}
	n := Point{X: -v.Y / l, Y: v.X / l}.Scale(dist)
	return Line{P1: e.Start.Add(n), P2: e.End.Add(n)}
}

// Intersect returns the intersection of two lines. ok is false when the
// lines are near-parallel.
func Intersect(a, b Line) (Point, bool) {
	x1, y1, x2, y2 := a.P1.X, a.P1.Y, a.P2.X, a.P2.Y
	x3, y3, x4, y4 := b.P1.X, b.P1.Y, b.P2.X, b.P2.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < parallelEpsilon {
		return Point{}, false
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	return Point{X: x1 + t*(x2-x1), Y: y1 + t*(y2-y1)}, true
}

// InsetPolygon offsets every edge inward by offsets[i] (missing entries are
// zero) and returns one inner vertex per original vertex: inner[k] is the
// intersection of the offset lines of edges k-1 and k. Near-parallel
// neighbours fall back to the offset start point of edge k.
func InsetPolygon(vertices []Point, offsets []float64) []Point {
	edges := Edges(vertices)
	n := len(edges)
	if n == 0 {
		return nil
	}

	lines := make([]Line, n)
	for i, e := range edges {
		var d float64
		if i < len(offsets) {
			d = offsets[i]
		}
		lines[i] = OffsetEdge(e, d)
	}

	inner := make([]Point, n)
	for k := range n {
		prev := lines[(k-1+n)%n]
		if p, ok := Intersect(prev, lines[k]); ok {
			inner[k] = p
		} else {
			inner[k] = lines[k].P1
		}
	}
	return inner
}

// SlopeTrapezoid returns the quad between edge i and its offset line:
// {edge start, edge end, inner vertex at the end, inner vertex at the start}.
func SlopeTrapezoid(vertices, inner []Point, i int) [4]Point {
	n := len(vertices)
	j := (i + 1) % n
	return [4]Point{vertices[i], vertices[j], inner[j], inner[i]}
}
