package engine

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
)

// minSegmentHit is the smallest half-thickness, in pixels, a wall or
// separation can be picked with.
const minSegmentHit = 5.0

// hitItem reports whether surface point p falls on the item.
func hitItem(it document.PlacedItem, view render.Viewport, p geometry.Point) bool {
	k := it.Kind()
	if k.Hit == document.HitThickSegment {
		start := view.ToScreen(geometry.Pt(it.X, it.Y))
		rad := geometry.Radians(it.Rotation)
		length := it.Width * view.Scale
		end := start.Add(geometry.Pt(math.Cos(rad)*length, math.Sin(rad)*length))
		d, ok := geometry.SegmentDistance(p, start, end)
		if !ok {
			return false
		}
		return d <= math.Max(it.Height*view.Scale/2, minSegmentHit)
	}

	c := view.ToScreen(render.ItemCenter(it))
	local := geometry.RotateDegrees(-it.Rotation).Apply(p.Sub(c))
	w, h := it.Width*view.Scale, it.Height*view.Scale
	return math.Abs(local.X) <= w/2 && math.Abs(local.Y) <= h/2
}

// topmostItem returns the last drawn item under p.
func topmostItem(items []document.PlacedItem, view render.Viewport, p geometry.Point) (document.PlacedItem, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if hitItem(items[i], view, p) {
			return items[i], true
		}
	}
	return document.PlacedItem{}, false
}

type handleHit struct {
	rotate bool
	handle render.Handle
}

// hitHandle tests the rotate knob first, then the resize handles.
func hitHandle(it document.PlacedItem, view render.Viewport, p geometry.Point) (handleHit, bool) {
	if it.Kind().Divider() {
		return handleHit{}, false
	}
	if p.Dist(render.RotateHandlePosition(it, view)) <= render.HandleSize {
		return handleHit{rotate: true}, true
	}
	for _, h := range render.Handles {
		if p.Dist(render.HandlePosition(it, view, h)) <= render.HandleSize {
			return handleHit{handle: h}, true
		}
	}
	return handleHit{}, false
}

var handleCursors = map[render.Handle]geometry.Cursor{
	render.HandleN:  geometry.CursorNS,
	render.HandleS:  geometry.CursorNS,
	render.HandleE:  geometry.CursorEW,
	render.HandleW:  geometry.CursorEW,
	render.HandleNE: geometry.CursorNESW,
	render.HandleSW: geometry.CursorNESW,
	render.HandleNW: geometry.CursorNWSE,
	render.HandleSE: geometry.CursorNWSE,
}
