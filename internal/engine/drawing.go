package engine

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
)

// clampToRoom converts a surface point to whole millimetres inside the
// room's bounding box.
func clampToRoom(room *document.Room, view render.Viewport, p geometry.Point) geometry.Point {
	mm := view.ToRoom(p)
	return geometry.Pt(
		geometry.Clamp(math.Round(mm.X), 0, room.Width),
		geometry.Clamp(math.Round(mm.Y), 0, room.Height),
	)
}

// placeDraftPoint handles a click with a drawing tool: the first click sets
// the segment start, the second finishes the segment into the buffer.
func (c *Controller) placeDraftPoint(room *document.Room, view render.Viewport, p geometry.Point) {
	pt := clampToRoom(room, view, p)
	c.store.Select("")
	c.clickedEdge = -1
	if c.draft.Start == nil {
		c.draft.Start = &pt
		c.draft.Preview = nil
		return
	}
	c.appendSegment(pt)
}

func (c *Controller) appendSegment(end geometry.Point) {
	if c.draft.Start == nil {
		return
	}
	seg := render.Segment{Start: *c.draft.Start, End: end}
	if seg.Len() > 0 {
		c.draft.Segments = append(c.draft.Segments, seg)
	}
	c.draft.Start, c.draft.Preview = nil, nil
	c.rev++
}

// CancelSegment drops the in-progress segment but keeps finished ones.
func (c *Controller) CancelSegment() bool {
	if c.draft.Start == nil {
		return false
	}
	c.draft.Start, c.draft.Preview = nil, nil
	c.rev++
	return true
}

// UndoWallSegment removes the newest buffered segment. With an empty buffer
// it falls back to undoing the last committed mutation.
func (c *Controller) UndoWallSegment() {
	if n := len(c.draft.Segments); n > 0 {
		c.draft.Segments = c.draft.Segments[:n-1]
		c.rev++
		return
	}
	c.store.Undo()
}

// ConfirmWalls turns every buffered segment into a permanent item as one
// mutation, selects the last one and returns to the select tool.
func (c *Controller) ConfirmWalls() []document.PlacedItem {
	itemType := document.TypeWallSegment
	if c.store.ActiveTool() == store.ToolSeparation {
		itemType = document.TypeSeparationLine
	}
	thickness := document.LookupKind(itemType).Height

	items := make([]document.PlacedItem, 0, len(c.draft.Segments))
	for _, seg := range c.draft.Segments {
		v := seg.End.Sub(seg.Start)
		length := math.Round(v.Len())
		if length == 0 {
			continue
		}
		items = append(items, document.PlacedItem{
			Type:     itemType,
			X:        math.Round(seg.Start.X),
			Y:        math.Round(seg.Start.Y),
			Rotation: math.Round(geometry.Degrees(math.Atan2(v.Y, v.X))),
			Width:    length,
			Height:   thickness,
		})
	}

	added := c.store.AddItems(items...)
	if n := len(added); n > 0 {
		c.store.Select(added[n-1].ID)
	}
	c.draft = render.Draft{}
	c.SetTool(store.ToolSelect)
	return added
}

// CancelWalls discards the whole buffer and returns to the select tool.
func (c *Controller) CancelWalls() {
	c.draft = render.Draft{}
	c.SetTool(store.ToolSelect)
}
