package geometry

import "github.com/kitchenplan/kitchenplan/backend-go/internal/document"

// DimensionStep is the grid room dimensions snap to after a resize.
const DimensionStep = 100.0

// MinNotch is the smallest cut and the smallest remaining arm of an l-shape.
const MinNotch = 100.0

type side uint8

const (
	sideTop side = 1 << iota
	sideRight
	sideBottom
	sideLeft
)

var edgeSides = map[EdgeDirection]side{
	EdgeTop:      sideTop,
	EdgeRight:    sideRight,
	EdgeBottom:   sideBottom,
	EdgeLeft:     sideLeft,
	EdgeTopRight: sideTop | sideRight,
}

var cornerSides = map[CornerDirection]side{
	CornerTopLeft:     sideTop | sideLeft,
	CornerTopRight:    sideTop | sideRight,
	CornerBottomRight: sideBottom | sideRight,
	CornerBottomLeft:  sideBottom | sideLeft,
}

// ResizeStart captures the room at the start of a resize gesture.
// Width and Height are in mm, Origin is the bounding box top-left in pixels
// and Scale is pixels per mm.
type ResizeStart struct {
	Width  float64
	Height float64
	Origin Point
	Scale  float64
}

// ResizeResult is the room size and bounding box origin after a resize.
type ResizeResult struct {
	Width  float64
	Height float64
	Origin Point
}

// SnapDimension clamps a room dimension to the floor and snaps it to the grid.
func SnapDimension(v float64) float64 {
	return max(document.MinRoomDimension, Snap(document.ClampDimension(v), DimensionStep))
}

// ResizeEdge applies a pointer delta (pixels, relative to the gesture start)
// to the side an edge maps to. Top and left resizes move the origin so the
// opposite side stays where it was.
func ResizeEdge(dir EdgeDirection, start ResizeStart, delta Point) ResizeResult {
	return resizeSides(edgeSides[dir], start, delta)
}

// ResizeCorner applies a pointer delta to both sides meeting at a corner.
func ResizeCorner(dir CornerDirection, start ResizeStart, delta Point) ResizeResult {
	return resizeSides(cornerSides[dir], start, delta)
}

func resizeSides(s side, start ResizeStart, delta Point) ResizeResult {
	res := ResizeResult{
		Width:  SnapDimension(start.Width),
		Height: SnapDimension(start.Height),
		Origin: start.Origin,
	}
	if start.Scale <= 0 || !delta.Finite() {
		return res
	}
	dx, dy := delta.X/start.Scale, delta.Y/start.Scale

	switch {
	case s&sideRight != 0:
		res.Width = SnapDimension(start.Width + dx)
	case s&sideLeft != 0:
		res.Width = SnapDimension(start.Width - dx)
		res.Origin.X = start.Origin.X + (start.Width-res.Width)*start.Scale
	}
	switch {
	case s&sideBottom != 0:
		res.Height = SnapDimension(start.Height + dy)
	case s&sideTop != 0:
		res.Height = SnapDimension(start.Height - dy)
		res.Origin.Y = start.Origin.Y + (start.Height-res.Height)*start.Scale
	}
	return res
}

// NotchStart captures an l-shape's cut at the start of a notch drag.
type NotchStart struct {
	Cut    Cut
	Width  float64
	Height float64
	Scale  float64
}

// ResizeNotch moves the l-shape notch by a pointer delta. Dragging the
// vertical notch edge right shrinks the cut width; dragging the horizontal
// notch edge down grows the cut height. Results stay within
// [MinNotch, dimension-MinNotch] and land on the dimension grid.
func ResizeNotch(axis NotchAxis, start NotchStart, delta Point) Cut {
	cut := start.Cut
	if start.Scale <= 0 || !delta.Finite() {
		return cut
	}
	if axis&NotchWidth != 0 {
		cut.Width = clampNotch(start.Cut.Width-delta.X/start.Scale, start.Width)
	}
	if axis&NotchHeight != 0 {
		cut.Height = clampNotch(start.Cut.Height+delta.Y/start.Scale, start.Height)
	}
	return cut
}

func clampNotch(v, dim float64) float64 {
	hi := dim - MinNotch
	v = Clamp(v, MinNotch, hi)
	return Clamp(Snap(v, DimensionStep), MinNotch, hi)
}
