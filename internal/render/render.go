package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/subdivide"
)

const (
	gridSpacing     = 50.0
	wallUnderStroke = 20.0
	SlopePreviewRun = 1400.0
	waterMarkRadius = 8.0
)

// Handle is an item resize handle. Its offset is in half-extents of the
// item's local frame.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists the resize handles in hit-test order.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

var handleOffsets = map[Handle]geometry.Point{
	HandleN: {X: 0, Y: -1}, HandleS: {X: 0, Y: 1}, HandleE: {X: 1, Y: 0}, HandleW: {X: -1, Y: 0},
	HandleNE: {X: 1, Y: -1}, HandleNW: {X: -1, Y: -1}, HandleSE: {X: 1, Y: 1}, HandleSW: {X: -1, Y: 1},
}

// Offset returns the handle's sign along the item's local x and y axes.
func (h Handle) Offset() geometry.Point { return handleOffsets[h] }

// Corner reports whether the handle changes both dimensions.
func (h Handle) Corner() bool {
	o := h.Offset()
	return o.X != 0 && o.Y != 0
}

const (
	HandleSize         = 8.0
	RotateHandleOffset = 30.0
	RotateHandleRadius = 5.0
)

// ItemCenter returns the rotation center of a regular item in room mm.
func ItemCenter(it document.PlacedItem) geometry.Point {
	return geometry.Pt(it.X+it.Width/2, it.Y+it.Height/2)
}

// HandlePosition returns where a resize handle is drawn, in surface pixels.
func HandlePosition(it document.PlacedItem, view Viewport, h Handle) geometry.Point {
	o := h.Offset()
	local := geometry.Pt(o.X*it.Width*view.Scale/2, o.Y*it.Height*view.Scale/2)
	return itemToScreen(it, view, local)
}

// RotateHandlePosition returns the rotate knob position in surface pixels.
func RotateHandlePosition(it document.PlacedItem, view Viewport) geometry.Point {
	local := geometry.Pt(0, -it.Height*view.Scale/2-RotateHandleOffset)
	return itemToScreen(it, view, local)
}

func itemToScreen(it document.PlacedItem, view Viewport, local geometry.Point) geometry.Point {
	c := view.ToScreen(ItemCenter(it))
	return geometry.RotateDegrees(it.Rotation).Apply(local).Add(c)
}

// Render draws one frame. It reads only f and keeps no state between calls,
// so drawing the same frame twice produces the same output.
func Render(f Frame, s Surface) {
	s.Clear(colorBackground)
	if f.State.ShowGrid {
		drawGrid(s, f.State.Zoom)
	}

	room := f.State.Plan.Room
	if room == nil || f.View.Scale <= 0 {
		return
	}
	poly := geometry.RoomPolygon(room, f.View.Origin, f.View.Scale)

	drawRoom(s, poly)
	drawSlopes(s, f, poly)
	drawEdgeHighlights(s, f, poly)
	drawReferenceLines(s, f)
	drawWaterSupplies(s, f)
	drawItems(s, f)
	drawSelection(s, f)
	drawDraft(s, f)
	drawAreaLabels(s, f)
	drawDimensions(s, f)
}

func drawGrid(s Surface, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	step := gridSpacing * zoom
	w, h := s.Size()
	p := NewPath()
	for x := 0.0; x <= w; x += step {
		p.Line(x, 0, x, h)
	}
	for y := 0.0; y <= h; y += step {
		p.Line(0, y, w, y)
	}
	s.Draw(p, strokeStyle(colorGrid, 1))
}

func polygonPath(pts []geometry.Point) *Path {
	p := NewPath()
	for i, v := range pts {
		if i == 0 {
			p.MoveTo(v.X, v.Y)
		} else {
			p.LineTo(v.X, v.Y)
		}
	}
	return p.Close()
}

func drawRoom(s Surface, poly []geometry.Point) {
	outline := polygonPath(poly)
	s.Draw(outline, Style{Stroke: colorWallStroke, LineWidth: wallUnderStroke, RoundJoin: true})
	s.Draw(outline, fillStroke(colorFloor, colorBlack, 2))
}

// slopeOffsets returns the inset distance in pixels for every edge.
func slopeOffsets(f Frame, n int) ([]float64, bool) {
	offsets := make([]float64, n)
	found := false
	for _, sc := range f.State.Plan.SlopedCeilings {
		i, err := strconv.Atoi(sc.WallID)
		if err != nil || i < 0 || i >= n || sc.B <= 0 {
			continue
		}
		offsets[i] = sc.B * f.View.Scale
		found = true
	}
	if f.State.ActiveTool == store.ToolCeiling && f.State.SelectedWall != "" {
		plan := f.State.Plan
		if _, ok := plan.SlopeForWall(f.State.SelectedWall); !ok {
			if i, err := strconv.Atoi(f.State.SelectedWall); err == nil && i >= 0 && i < n {
				offsets[i] = SlopePreviewRun * f.View.Scale
				found = true
			}
		}
	}
	return offsets, found
}

func drawSlopes(s Surface, f Frame, poly []geometry.Point) {
	n := len(poly)
	offsets, ok := slopeOffsets(f, n)
	if !ok {
		return
	}
	inner := geometry.InsetPolygon(poly, offsets)
	s.Draw(polygonPath(inner), fillStroke(colorInset, colorInsetStroke, 1))

	for i := range n {
		if offsets[i] <= 0 {
			continue
		}
		quad := geometry.SlopeTrapezoid(poly, inner, i)
		s.Draw(polygonPath(quad[:]), fillStroke(colorSlope, colorAccent, 1))
	}

	diagonals := NewPath()
	for k := range n {
		if offsets[k] > 0 || offsets[(k-1+n)%n] > 0 {
			diagonals.Line(poly[k].X, poly[k].Y, inner[k].X, inner[k].Y)
		}
	}
	s.Draw(diagonals, strokeStyle(colorInsetStroke, 1))
}

func drawEdgeHighlights(s Surface, f Frame, poly []geometry.Point) {
	ov := f.Overlay
	shape := f.State.Plan.Room.Shape
	for _, e := range geometry.Edges(poly) {
		c := colorAccent
		switch {
		case geometry.IsRelatedEdge(shape, ov.ActiveEdge, e.Index),
			geometry.IsRelatedEdge(shape, ov.ClickedEdge, e.Index):
		case geometry.IsRelatedEdge(shape, ov.HoverEdge, e.Index):
			c = colorAccentHover
		default:
			continue
		}
		s.Draw(NewPath().Line(e.Start.X, e.Start.Y, e.End.X, e.End.Y), Style{Stroke: c, LineWidth: 4, RoundCap: true})
	}
	if ov.HoverCorner >= 0 && ov.HoverCorner < len(poly) {
		v := poly[ov.HoverCorner]
		s.Draw(NewPath().Circle(v.X, v.Y, 6), fillStroke(colorWhite, colorAccent, 2))
	}
	if f.State.ActiveTool == store.ToolCeiling {
		drawCeilingIndicators(s, f.State.SelectedWall, poly)
	}
}

// drawCeilingIndicators marks every wall the ceiling tool can pick.
func drawCeilingIndicators(s Surface, selectedWall string, poly []geometry.Point) {
	edges := geometry.Edges(poly)
	if i, err := strconv.Atoi(selectedWall); err == nil && i >= 0 && i < len(edges) {
		e := edges[i]
		s.Draw(NewPath().Line(e.Start.X, e.Start.Y, e.End.X, e.End.Y), strokeStyle(colorAccent, 4))
	}
	for _, e := range edges {
		m := e.Midpoint()
		s.Draw(NewPath().Circle(m.X, m.Y, 12), fillStyle(colorIndicatorShadow))
		s.Draw(NewPath().Circle(m.X, m.Y, 10), fillStroke(colorWhite, colorIndicatorBorder, 1))
	}
}

// refLine is a reference line in fractions of the room's width and height.
type refLine struct{ x0, y0, x1, y1 float64 }

var referenceLines = map[document.Shape][]refLine{
	document.ShapeOpenL: {{0, 0.5, 1, 0.5}},
	document.ShapeRectangle: {
		{0, 45.0 / 70, 30.0 / 70, 45.0 / 70},
		{30.0 / 70, 0, 30.0 / 70, 45.0 / 70},
	},
	document.ShapeCustom: {{0, 35.0 / 90, 1, 35.0 / 90}},
}

func drawReferenceLines(s Surface, f Frame) {
	room := f.State.Plan.Room
	lines := referenceLines[room.Shape]
	if len(lines) == 0 {
		return
	}
	w, h := room.Width*f.View.Scale, room.Height*f.View.Scale
	o := f.View.Origin
	p := NewPath()
	for _, l := range lines {
		p.Line(o.X+l.x0*w, o.Y+l.y0*h, o.X+l.x1*w, o.Y+l.y1*h)
	}
	s.Draw(p, Style{Stroke: colorReference, LineWidth: 1, Dash: []float64{10, 5}})
}

func drawWaterSupplies(s Surface, f Frame) {
	for _, ws := range f.State.Plan.WaterSupplies {
		c := f.View.ToScreen(geometry.Pt(ws.X, ws.Y))
		s.Draw(NewPath().Circle(c.X, c.Y, waterMarkRadius), fillStroke(colorAccent, colorWaterStroke, 2))
		s.Draw(NewPath().Circle(c.X, c.Y, 3), fillStyle(colorWhite))
	}
}

// objectTagger is implemented by surfaces that can correlate commands with items.
type objectTagger interface {
	SetObject(id string)
}

func tag(s Surface, id string) {
	if t, ok := s.(objectTagger); ok {
		t.SetObject(id)
	}
}

func drawItems(s Surface, f Frame) {
	for _, it := range f.State.Plan.PlacedItems {
		tag(s, it.ID)
		selected := it.ID == f.State.SelectedID
		k := it.Kind()
		if k.Divider() {
			drawDivider(s, f.View, it, k, selected)
		} else {
			drawRegular(s, f.View, it, k, selected)
		}
	}
	tag(s, "")
}

func drawDivider(s Surface, view Viewport, it document.PlacedItem, k document.Kind, selected bool) {
	start := view.ToScreen(geometry.Pt(it.X, it.Y))
	length := it.Width * view.Scale
	thick := math.Max(it.Height*view.Scale, 1)

	s.Save()
	s.Translate(start.X, start.Y)
	s.Rotate(geometry.Radians(it.Rotation))
	fill := colorWall
	if k.Glyph == document.GlyphSeparation {
		fill = colorReference
	}
	if selected {
		fill = colorAccent
	}
	s.Draw(NewPath().Rect(0, -thick/2, length, thick), fillStyle(fill))

	if k.Glyph == document.GlyphWall && length > 0 {
		s.Translate(length/2, -thick/2-10)
		if r := document.NormalizeDegrees(it.Rotation); r > 90 && r < 270 {
			s.Rotate(math.Pi)
		}
		s.Text(fmt.Sprintf("%d mm", int(math.Round(it.Width))), 0, 0,
			TextStyle{Size: 11, Color: colorItemLabel})
	}
	s.Restore()
}

func drawRegular(s Surface, view Viewport, it document.PlacedItem, k document.Kind, selected bool) {
	c := view.ToScreen(ItemCenter(it))
	w, h := it.Width*view.Scale, it.Height*view.Scale

	s.Save()
	s.Translate(c.X, c.Y)
	s.Rotate(geometry.Radians(it.Rotation))
	glyphFor(k.Glyph)(s, w, h, selected)
	if k.Glyph == document.GlyphBox {
		ts := TextStyle{Size: 10, Color: colorItemLabel}
		if s.MeasureText(it.Type, ts) < w-4 && h > 12 {
			s.Text(it.Type, 0, 0, ts)
		}
	}
	s.Restore()
}

func drawSelection(s Surface, f Frame) {
	it, ok := f.State.Plan.Item(f.State.SelectedID)
	if !ok || it.Kind().Divider() {
		return
	}
	view := f.View
	c := view.ToScreen(ItemCenter(*it))
	w, h := it.Width*view.Scale, it.Height*view.Scale

	s.Save()
	s.Translate(c.X, c.Y)
	s.Rotate(geometry.Radians(it.Rotation))
	s.Draw(NewPath().Rect(-w/2, -h/2, w, h), strokeStyle(colorSelectionBox, 1.5))

	handles := NewPath()
	for _, hd := range Handles {
		o := hd.Offset()
		x, y := o.X*w/2, o.Y*h/2
		handles.Rect(x-HandleSize/2, y-HandleSize/2, HandleSize, HandleSize)
	}
	s.Draw(handles, fillStroke(colorWhite, colorSelectionBox, 1))

	top := -h / 2
	knob := top - RotateHandleOffset
	s.Draw(NewPath().Line(0, top, 0, knob), strokeStyle(colorSelectionBox, 1))
	s.Draw(NewPath().Circle(0, knob, RotateHandleRadius), fillStroke(colorWhite, colorSelectionBox, 1.5))

	if f.Overlay.ItemResizing {
		label := fmt.Sprintf("%d × %d mm", int(math.Round(it.Width)), int(math.Round(it.Height)))
		s.Text(label, 0, h/2+14, TextStyle{Size: 11, Bold: true, Color: colorAccentDark})
	}
	s.Restore()
}

func drawDraft(s Surface, f Frame) {
	d := f.Overlay.Draft
	if len(d.Segments) == 0 && d.Start == nil {
		return
	}
	width := math.Max(document.LookupKind(document.TypeWallSegment).Height*f.View.Scale, 2)
	c := colorDraftWall
	if f.State.ActiveTool == store.ToolSeparation {
		width, c = 2, colorReference
	}

	done := NewPath()
	for _, seg := range d.Segments {
		a, b := f.View.ToScreen(seg.Start), f.View.ToScreen(seg.End)
		done.Line(a.X, a.Y, b.X, b.Y)
	}
	if len(done.Ops) > 0 {
		s.Draw(done, Style{Stroke: c, LineWidth: width, RoundCap: true})
	}

	if d.Start == nil {
		return
	}
	a := f.View.ToScreen(*d.Start)
	s.Draw(NewPath().Circle(a.X, a.Y, 4), fillStyle(colorAccent))
	if d.Preview == nil {
		return
	}
	b := f.View.ToScreen(*d.Preview)
	s.Draw(NewPath().Line(a.X, a.Y, b.X, b.Y), Style{Stroke: colorAccent, LineWidth: width, Dash: []float64{6, 4}})
	mid := a.Lerp(b, 0.5)
	length := int(math.Round(d.Start.Dist(*d.Preview)))
	s.Text(fmt.Sprintf("%d mm", length), mid.X, mid.Y-14, TextStyle{Size: 12, Bold: true, Color: colorAccentDark})
}

func drawAreaLabels(s Surface, f Frame) {
	if f.Overlay.Room == ActivityDragging {
		return
	}
	plan := f.State.Plan
	for _, l := range subdivide.Labels(plan.Room, plan.PlacedItems, f.Areas) {
		at := f.View.ToScreen(l.At)
		s.Text(l.Title, at.X, at.Y-8, TextStyle{Size: 12, Bold: true, Color: colorAreaLabel})
		s.Text(l.Text(), at.X, at.Y+8, TextStyle{Size: 12, Color: colorAreaLabel})
	}
}
