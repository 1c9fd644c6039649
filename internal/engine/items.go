package engine

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
)

func (c *Controller) startHandle(view render.Viewport, p geometry.Point) bool {
	sel, ok := c.store.SelectedItem()
	if !ok {
		return false
	}
	h, ok := hitHandle(sel, view, p)
	if !ok {
		return false
	}
	c.item = itemGesture{mode: itemResize, id: sel.ID, handle: h.handle, start: sel}
	if h.rotate {
		c.item.mode = itemRotate
	}
	return true
}

// startItem selects the topmost item under the pointer and starts dragging
// it. Items cannot be picked while a drawing tool is active.
func (c *Controller) startItem(view render.Viewport, p geometry.Point) bool {
	if c.store.ActiveTool().Drawing() {
		return false
	}
	plan := c.store.Plan()
	it, ok := topmostItem(plan.PlacedItems, view, p)
	if !ok {
		return false
	}
	c.store.Select(it.ID)
	c.clickedEdge = -1
	c.item = itemGesture{
		mode:  itemDrag,
		id:    it.ID,
		start: it,
		grab:  geometry.Pt(it.X, it.Y).Sub(view.ToRoom(p)),
	}
	return true
}

func (c *Controller) moveItem(view render.Viewport, p geometry.Point) {
	var next document.PlacedItem
	switch c.item.mode {
	case itemDrag:
		next = dragItem(c.item.start, view.ToRoom(p).Add(c.item.grab))
	case itemRotate:
		next = rotateItem(c.item.start, view, p)
	case itemResize:
		delta := p.Sub(c.down).Scale(1 / view.Scale)
		next = resizeItem(c.item.start, c.item.handle, delta)
	default:
		return
	}

	cur, ok := c.store.Item(c.item.id)
	if !ok || cur == next {
		return
	}
	c.store.UpdateItemLive(c.item.id, func(it *document.PlacedItem) {
		it.X, it.Y = next.X, next.Y
		it.Width, it.Height = next.Width, next.Height
		it.Rotation = next.Rotation
	})
	c.dirty = true
}

func dragItem(it document.PlacedItem, origin geometry.Point) document.PlacedItem {
	it.X = geometry.Snap(origin.X, ItemSnap)
	it.Y = geometry.Snap(origin.Y, ItemSnap)
	return it
}

// rotateItem points the item's top at the pointer in RotationSnap steps.
func rotateItem(it document.PlacedItem, view render.Viewport, p geometry.Point) document.PlacedItem {
	c := view.ToScreen(render.ItemCenter(it))
	deg := geometry.Degrees(math.Atan2(p.Y-c.Y, p.X-c.X)) + 90
	it.Rotation = document.NormalizeDegrees(geometry.Snap(deg, RotationSnap))
	return it
}

// resizeItem applies a handle drag given in global mm. The delta is rotated
// into the item frame; edge handles change one dimension, corner handles keep
// the starting aspect ratio with the larger axis driving. The center moves
// by half the size change, rotated back into the global frame.
func resizeItem(start document.PlacedItem, h render.Handle, delta geometry.Point) document.PlacedItem {
	if !delta.Finite() || start.Width <= 0 || start.Height <= 0 {
		return start
	}
	o := h.Offset()
	local := geometry.RotateDegrees(-start.Rotation).ApplyVector(delta)
	dw, dh := o.X*local.X, o.Y*local.Y

	if h.Corner() {
		ratio := start.Width / start.Height
		if math.Abs(dw) > math.Abs(dh) {
			dh = dw / ratio
		} else {
			dw = dh * ratio
		}
	}

	w, ht := start.Width, start.Height
	if o.X != 0 {
		w = math.Max(MinItemSize, geometry.Snap(start.Width+dw, ItemSnap))
	}
	if o.Y != 0 {
		ht = math.Max(MinItemSize, geometry.Snap(start.Height+dh, ItemSnap))
	}

	shift := geometry.Pt(o.X*(w-start.Width)/2, o.Y*(ht-start.Height)/2)
	center := render.ItemCenter(start).Add(geometry.RotateDegrees(start.Rotation).ApplyVector(shift))

	next := start
	next.Width, next.Height = w, ht
	next.X, next.Y = center.X-w/2, center.Y-ht/2
	return next
}
