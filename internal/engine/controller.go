package engine

import (
	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
)

const (
	// ItemSnap is the grid dragged and dropped items land on, in mm.
	ItemSnap = 50.0
	// RotationSnap is the rotate-handle step in degrees.
	RotationSnap = 15.0
	// MinItemSize is the smallest width or height a resize handle allows.
	MinItemSize = 100.0
	// CeilingPickDistance is how close, in pixels, the ceiling tool must be to a wall.
	CeilingPickDistance = 20.0
)

type roomMode int

const (
	roomIdle roomMode = iota
	roomDrag
	roomResizeEdge
	roomResizeCorner
	roomResizeNotch
)

type roomGesture struct {
	mode      roomMode
	edge      int
	corner    int
	edgeDir   geometry.EdgeDirection
	cornerDir geometry.CornerDirection
	notch     geometry.NotchAxis
	resize    geometry.ResizeStart
	notchFrom geometry.NotchStart
	panFrom   geometry.Point
	cursor    geometry.Cursor
}

type itemMode int

const (
	itemIdle itemMode = iota
	itemDrag
	itemRotate
	itemResize
)

type itemGesture struct {
	mode   itemMode
	id     string
	handle render.Handle
	start  document.PlacedItem
	// grab is the item origin minus the pointer, in mm.
	grab geometry.Point
}

// Controller turns pointer and keyboard input into store mutations. Room
// and item gestures are separate state machines; at most one runs at a time.
type Controller struct {
	store *store.Store

	width, height float64
	pan           *geometry.Point

	down    geometry.Point
	pointer geometry.Point
	pressed bool
	moved   bool
	// dirty records that a live update happened during the current gesture.
	dirty bool

	room roomGesture
	item itemGesture

	hoverEdge   int
	hoverCorner int
	clickedEdge int
	cursor      geometry.Cursor

	draft render.Draft

	// rev changes whenever the overlay changes without a store mutation.
	rev uint64
}

func NewController(s *store.Store) *Controller {
	return &Controller{
		store:       s,
		width:       800,
		height:      600,
		hoverEdge:   -1,
		hoverCorner: -1,
		clickedEdge: -1,
		cursor:      geometry.CursorDefault,
		room:        roomGesture{edge: -1, corner: -1},
	}
}

// --- Commands ---

// Resize sets the canvas size in pixels.
func (c *Controller) Resize(width, height float64) {
	if width > 0 && height > 0 {
		c.width, c.height = width, height
		c.rev++
	}
}

// ResetPan re-centers the room.
func (c *Controller) ResetPan() {
	c.pan = nil
	c.rev++
}

// SetTool switches the active tool. Leaving a drawing tool drops any
// unconfirmed segments.
func (c *Controller) SetTool(t store.Tool) {
	if !t.Drawing() {
		c.draft = render.Draft{}
	}
	c.store.SetActiveTool(t)
	c.rev++
}

// PointerDown resolves what a press grabs. The first match wins: room
// corners, room edges, the selected item's handles, the topmost item, the
// room interior, and finally empty canvas.
func (c *Controller) PointerDown(x, y float64) {
	p := geometry.Pt(x, y)
	c.down, c.pointer = p, p
	c.pressed, c.moved, c.dirty = true, false, false
	c.rev++

	room := c.store.Room()
	if room == nil {
		c.store.Select("")
		return
	}
	view := c.Viewport()
	poly := geometry.RoomPolygon(room, view.Origin, view.Scale)

	switch c.store.ActiveTool() {
	case store.ToolCeiling:
		if c.pickCeilingWall(poly, p) {
			return
		}
	case store.ToolWaterSupply:
		if c.placeWaterSupply(room, poly, view, p) {
			return
		}
	}

	if c.startCorner(room, poly, view, p) ||
		c.startEdge(room, poly, view, p) ||
		c.startHandle(view, p) ||
		c.startItem(view, p) {
		return
	}

	if geometry.Contains(poly, p) {
		if c.store.ActiveTool().Drawing() {
			c.placeDraftPoint(room, view, p)
			return
		}
		c.store.Select("")
		c.room = roomGesture{mode: roomDrag, edge: -1, corner: -1, panFrom: view.Origin, cursor: geometry.CursorGrabbing}
		c.pinPan(view)
		return
	}

	c.store.Select("")
}

// PointerMove continues the active gesture, or updates hover feedback when
// no button is held.
func (c *Controller) PointerMove(x, y float64) {
	p := geometry.Pt(x, y)
	c.pointer = p
	c.rev++

	room := c.store.Room()
	if room == nil {
		return
	}
	view := c.Viewport()

	if c.draft.Start != nil && c.room.mode == roomIdle && c.item.mode == itemIdle {
		pt := clampToRoom(room, view, p)
		c.draft.Preview = &pt
		if c.pressed {
			c.moved = c.moved || p != c.down
		}
		return
	}

	if !c.pressed {
		c.updateHover(room, view, p)
		return
	}
	if p != c.down {
		c.moved = true
	}

	switch {
	case c.room.mode != roomIdle:
		c.moveRoom(room, p)
	case c.item.mode != itemIdle:
		c.moveItem(view, p)
	}
}

// PointerUp ends the gesture. Live updates made during it are committed as
// one history entry.
func (c *Controller) PointerUp() {
	if c.pressed && c.moved && c.draft.Start != nil && c.draft.Preview != nil {
		c.appendSegment(*c.draft.Preview)
	}
	c.endGesture()
}

// PointerLeave ends the gesture like PointerUp and clears hover state.
func (c *Controller) PointerLeave() {
	c.endGesture()
	c.hoverEdge, c.hoverCorner = -1, -1
	c.cursor = geometry.CursorDefault
}

func (c *Controller) endGesture() {
	if c.dirty {
		c.store.CommitGesture()
	}
	resizing := c.room.mode == roomResizeEdge || c.room.mode == roomResizeNotch || c.room.mode == roomResizeCorner
	if resizing && c.moved {
		c.clickedEdge = -1
	}
	c.room = roomGesture{edge: -1, corner: -1}
	c.item = itemGesture{}
	c.pressed, c.moved, c.dirty = false, false, false
	c.rev++
}

// --- Queries ---

// Viewport returns the current mm-to-pixel mapping.
func (c *Controller) Viewport() render.Viewport {
	return ViewportFor(c.store.Room(), c.width, c.height, c.store.Zoom(), c.pan)
}

func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Revision changes whenever the overlay or viewport may have changed.
func (c *Controller) Revision() uint64 { return c.rev }

// Overlay reports the transient interaction state for rendering.
func (c *Controller) Overlay() render.Overlay {
	ov := render.NoOverlay()
	ov.HoverEdge = c.hoverEdge
	ov.HoverCorner = c.hoverCorner
	ov.ClickedEdge = c.clickedEdge
	ov.ItemResizing = c.item.mode == itemResize
	ov.Draft = c.Draft()

	switch c.room.mode {
	case roomDrag:
		ov.Room = render.ActivityDragging
	case roomResizeEdge, roomResizeCorner, roomResizeNotch:
		ov.Room = render.ActivityResizing
		ov.ActiveEdge = c.room.edge
	}
	return ov
}

// Draft returns a copy of the wall-drawing buffer.
func (c *Controller) Draft() render.Draft {
	d := render.Draft{Segments: append([]render.Segment(nil), c.draft.Segments...)}
	if c.draft.Start != nil {
		s := *c.draft.Start
		d.Start = &s
	}
	if c.draft.Preview != nil {
		p := *c.draft.Preview
		d.Preview = &p
	}
	return d
}

// Cursor is the CSS cursor for the current pointer position and gesture.
func (c *Controller) Cursor() geometry.Cursor {
	switch {
	case c.store.ActiveTool().Drawing():
		return geometry.CursorCrosshair
	case c.room.mode != roomIdle:
		return c.room.cursor
	case c.item.mode == itemDrag:
		return geometry.CursorMove
	case c.item.mode == itemRotate:
		return geometry.CursorGrabbing
	case c.item.mode == itemResize:
		return handleCursors[c.item.handle]
	}
	return c.cursor
}

func (c *Controller) pinPan(view render.Viewport) {
	o := view.Origin
	c.pan = &o
}

func (c *Controller) updateHover(room *document.Room, view render.Viewport, p geometry.Point) {
	c.hoverEdge, c.hoverCorner = -1, -1
	poly := geometry.RoomPolygon(room, view.Origin, view.Scale)
	tool := c.store.ActiveTool()

	if tool == store.ToolCeiling {
		if _, d, ok := geometry.NearestEdge(p, geometry.Edges(poly)); ok && d <= CeilingPickDistance {
			c.cursor = geometry.CursorPointer
			return
		}
	}

	for i, v := range poly {
		if geometry.NearCorner(p, v, geometry.HitThreshold) {
			c.hoverCorner = i
			c.cursor = geometry.CornerResizeDirection(room.Shape, i).Cursor()
			return
		}
	}
	for _, e := range geometry.Edges(poly) {
		if geometry.NearEdge(p, e, geometry.HitThreshold) {
			c.hoverEdge = e.Index
			c.cursor = geometry.EdgeCursor(e)
			return
		}
	}
	if sel, ok := c.store.SelectedItem(); ok {
		if h, ok := hitHandle(sel, view, p); ok {
			if h.rotate {
				c.cursor = geometry.CursorGrab
			} else {
				c.cursor = handleCursors[h.handle]
			}
			return
		}
	}

	plan := c.store.Plan()
	if !tool.Drawing() {
		if _, ok := topmostItem(plan.PlacedItems, view, p); ok {
			c.cursor = geometry.CursorMove
			return
		}
	}
	if geometry.Contains(poly, p) {
		if tool == store.ToolWaterSupply {
			c.cursor = geometry.CursorCrosshair
		} else {
			c.cursor = geometry.CursorGrab
		}
		return
	}
	c.cursor = geometry.CursorDefault
}
