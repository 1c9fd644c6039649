package geometry

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

// Cursor is a CSS cursor name.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorCrosshair Cursor = "crosshair"
	CursorGrab      Cursor = "grab"
	CursorGrabbing  Cursor = "grabbing"
	CursorPointer   Cursor = "pointer"
	CursorNS        Cursor = "ns-resize"
	CursorEW        Cursor = "ew-resize"
	CursorNESW      Cursor = "nesw-resize"
	CursorNWSE      Cursor = "nwse-resize"
)

// EdgeDirection is the semantic side an edge resizes.
type EdgeDirection string

const (
	EdgeTop      EdgeDirection = "top"
	EdgeRight    EdgeDirection = "right"
	EdgeBottom   EdgeDirection = "bottom"
	EdgeLeft     EdgeDirection = "left"
	EdgeTopRight EdgeDirection = "top-right"
)

// CornerDirection is the semantic corner a vertex resizes.
type CornerDirection string

const (
	CornerTopLeft     CornerDirection = "tl"
	CornerTopRight    CornerDirection = "tr"
	CornerBottomRight CornerDirection = "br"
	CornerBottomLeft  CornerDirection = "bl"
)

// NotchAxis selects which l-shape cut parameter a notch handle adjusts.
type NotchAxis uint8

const (
	NotchWidth NotchAxis = 1 << iota
	NotchHeight
)

// shapeTable maps a shape's variable-length vertex list onto the fixed
// semantic resize directions.
type shapeTable struct {
	edges          []EdgeDirection
	edgeFallback   EdgeDirection
	corners        []CornerDirection
	cornerFallback CornerDirection
	// related edges highlight together when either is targeted.
	related []int
	// notchEdges and notchCorners adjust the cut instead of the bounding box.
	notchEdges   map[int]NotchAxis
	notchCorners map[int]NotchAxis
}

var rectangleTable = shapeTable{
	edges:          []EdgeDirection{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft},
	edgeFallback:   EdgeTop,
	corners:        []CornerDirection{CornerTopLeft, CornerTopRight, CornerBottomRight, CornerBottomLeft},
	cornerFallback: CornerTopLeft,
}

var shapeTables = map[document.Shape]shapeTable{
	document.ShapeSquare:    rectangleTable,
	document.ShapeRectangle: rectangleTable,
	document.ShapeOpenL:     rectangleTable,
	document.ShapeLShape: {
		edges:          []EdgeDirection{EdgeTop, EdgeRight, EdgeBottom, EdgeRight, EdgeBottom, EdgeLeft},
		edgeFallback:   EdgeRight,
		corners:        []CornerDirection{CornerTopLeft, CornerTopRight, CornerTopRight, CornerBottomRight, CornerBottomRight, CornerBottomLeft},
		cornerFallback: CornerTopLeft,
		related:        []int{1, 2},
		notchEdges:     map[int]NotchAxis{1: NotchWidth, 2: NotchHeight},
		notchCorners:   map[int]NotchAxis{2: NotchWidth | NotchHeight},
	},
	document.ShapeCustom: {
		edges:          []EdgeDirection{EdgeTop, EdgeRight, EdgeBottom, EdgeRight, EdgeBottom, EdgeLeft},
		edgeFallback:   EdgeRight,
		corners:        []CornerDirection{CornerTopLeft, CornerTopRight, CornerTopRight, CornerBottomRight, CornerBottomRight, CornerBottomLeft},
		cornerFallback: CornerTopLeft,
		related:        []int{2, 3},
	},
	document.ShapeUShape: {
		edges:          []EdgeDirection{EdgeTop, EdgeTopRight, EdgeRight, EdgeBottom, EdgeLeft},
		edgeFallback:   EdgeRight,
		corners:        []CornerDirection{CornerTopLeft, CornerTopRight, CornerTopRight, CornerBottomRight, CornerBottomLeft},
		cornerFallback: CornerTopLeft,
	},
}

func tableFor(shape document.Shape) shapeTable {
	if t, ok := shapeTables[shape]; ok {
		return t
	}
	return rectangleTable
}

// EdgeResizeDirection maps an edge index of a shape to the side it resizes.
func EdgeResizeDirection(shape document.Shape, edgeIndex int) EdgeDirection {
	t := tableFor(shape)
	if edgeIndex >= 0 && edgeIndex < len(t.edges) {
		return t.edges[edgeIndex]
	}
	return t.edgeFallback
}

// CornerResizeDirection maps a vertex index of a shape to the corner it resizes.
func CornerResizeDirection(shape document.Shape, cornerIndex int) CornerDirection {
	t := tableFor(shape)
	if cornerIndex >= 0 && cornerIndex < len(t.corners) {
		return t.corners[cornerIndex]
	}
	return t.cornerFallback
}

// RelatedEdges returns the edges that highlight together with edgeIndex,
// including edgeIndex itself.
func RelatedEdges(shape document.Shape, edgeIndex int) []int {
	t := tableFor(shape)
	for _, i := range t.related {
		if i == edgeIndex {
			return append([]int(nil), t.related...)
		}
	}
	return []int{edgeIndex}
}

// IsRelatedEdge reports whether edge belongs to the same highlight group as target.
func IsRelatedEdge(shape document.Shape, target, edge int) bool {
	if target < 0 {
		return false
	}
	for _, i := range RelatedEdges(shape, target) {
		if i == edge {
			return true
		}
	}
	return false
}

// NotchEdge reports which cut parameter an edge adjusts, if any.
func NotchEdge(shape document.Shape, edgeIndex int) (NotchAxis, bool) {
	axis, ok := tableFor(shape).notchEdges[edgeIndex]
	return axis, ok
}

// NotchCorner reports which cut parameters a vertex adjusts, if any.
func NotchCorner(shape document.Shape, cornerIndex int) (NotchAxis, bool) {
	axis, ok := tableFor(shape).notchCorners[cornerIndex]
	return axis, ok
}

// EdgeCursor picks a resize cursor perpendicular to the edge by bucketing
// its angle to the nearest of 0, 45, 90 and 135 degrees.
func EdgeCursor(e Edge) Cursor {
	a := math.Mod(e.Angle()+180, 180)
	switch {
	case a < 22.5 || a >= 157.5:
		return CursorNS
	case a < 67.5:
		return CursorNESW
	case a < 112.5:
		return CursorEW
	default:
		return CursorNWSE
	}
}

var edgeCursors = map[EdgeDirection]Cursor{
	EdgeTop:      CursorNS,
	EdgeBottom:   CursorNS,
	EdgeLeft:     CursorEW,
	EdgeRight:    CursorEW,
	EdgeTopRight: CursorNESW,
}

func (d EdgeDirection) Cursor() Cursor {
	if c, ok := edgeCursors[d]; ok {
		return c
	}
	return CursorDefault
}

var cornerCursors = map[CornerDirection]Cursor{
	CornerTopLeft:     CursorNWSE,
	CornerBottomRight: CursorNWSE,
	CornerTopRight:    CursorNESW,
	CornerBottomLeft:  CursorNESW,
}

func (d CornerDirection) Cursor() Cursor {
	if c, ok := cornerCursors[d]; ok {
		return c
	}
	return CursorDefault
}
