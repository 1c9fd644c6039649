package engine

import (
	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
)

func (c *Controller) startCorner(room *document.Room, poly []geometry.Point, view render.Viewport, p geometry.Point) bool {
	for i, v := range poly {
		if !geometry.NearCorner(p, v, geometry.HitThreshold) {
			continue
		}
		g := roomGesture{edge: -1, corner: i}
		if axis, ok := geometry.NotchCorner(room.Shape, i); ok {
			g.mode = roomResizeNotch
			g.notch = axis
			g.notchFrom = notchStart(room, view)
			// The notch vertex joins the two notch edges.
			g.edge = (i - 1 + len(poly)) % len(poly)
			g.cursor = geometry.CursorMove
		} else {
			g.mode = roomResizeCorner
			g.cornerDir = geometry.CornerResizeDirection(room.Shape, i)
			g.resize = resizeStart(room, view)
			g.cursor = g.cornerDir.Cursor()
		}
		c.room = g
		c.pinPan(view)
		return true
	}
	return false
}

// startEdge begins an edge resize. It also marks the edge as clicked so its
// measurement stays visible when no drag follows.
func (c *Controller) startEdge(room *document.Room, poly []geometry.Point, view render.Viewport, p geometry.Point) bool {
	for _, e := range geometry.Edges(poly) {
		if !geometry.NearEdge(p, e, geometry.HitThreshold) {
			continue
		}
		c.clickedEdge = e.Index
		g := roomGesture{edge: e.Index, corner: -1, cursor: geometry.EdgeCursor(e)}
		if axis, ok := geometry.NotchEdge(room.Shape, e.Index); ok {
			g.mode = roomResizeNotch
			g.notch = axis
			g.notchFrom = notchStart(room, view)
		} else {
			g.mode = roomResizeEdge
			g.edgeDir = geometry.EdgeResizeDirection(room.Shape, e.Index)
			g.resize = resizeStart(room, view)
		}
		c.room = g
		c.pinPan(view)
		return true
	}
	return false
}

func resizeStart(room *document.Room, view render.Viewport) geometry.ResizeStart {
	return geometry.ResizeStart{
		Width:  room.Width,
		Height: room.Height,
		Origin: view.Origin,
		Scale:  view.Scale,
	}
}

func notchStart(room *document.Room, view render.Viewport) geometry.NotchStart {
	return geometry.NotchStart{
		Cut:    geometry.RoomCut(room),
		Width:  room.Width,
		Height: room.Height,
		Scale:  view.Scale,
	}
}

func (c *Controller) moveRoom(room *document.Room, p geometry.Point) {
	delta := p.Sub(c.down)
	switch c.room.mode {
	case roomDrag:
		origin := c.room.panFrom.Add(delta)
		c.pan = &origin

	case roomResizeEdge, roomResizeCorner:
		var res geometry.ResizeResult
		if c.room.mode == roomResizeEdge {
			res = geometry.ResizeEdge(c.room.edgeDir, c.room.resize, delta)
		} else {
			res = geometry.ResizeCorner(c.room.cornerDir, c.room.resize, delta)
		}
		if res.Width != room.Width || res.Height != room.Height {
			c.store.RescaleRoomLive(res.Width, res.Height)
			c.dirty = true
		}
		origin := res.Origin
		c.pan = &origin

	case roomResizeNotch:
		cut := geometry.ResizeNotch(c.room.notch, c.room.notchFrom, delta)
		if cut != geometry.RoomCut(room) {
			c.store.SetCutLive(cut)
			c.dirty = true
		}
	}
}
