package render

import (
	"fmt"
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
)

const (
	dimensionOffset = 35.0
	dimensionTick   = 15.0
	facingEpsilon   = 0.001
)

// DimensionLabel is one edge measurement in surface pixels.
type DimensionLabel struct {
	Edge     int
	LengthMM int
	// Start and End are the edge endpoints pushed out along the normal.
	Start geometry.Point
	End   geometry.Point
	At    geometry.Point
	// Angle is the text rotation in radians, kept within ±90°.
	Angle    float64
	Emphasis bool
}

func (d DimensionLabel) Text() string {
	return fmt.Sprintf("%d mm", d.LengthMM)
}

// DimensionLabels decides which room edges are measured. Edges facing up or
// left are labeled by default so a closed loop is not labeled twice; an edge
// that is hovered, being resized or was last clicked is labeled regardless.
// Lengths come from the drawn vertices, not the stored width and height.
func DimensionLabels(f Frame) []DimensionLabel {
	room := f.State.Plan.Room
	if room == nil || f.View.Scale <= 0 || f.Overlay.Room == ActivityDragging {
		return nil
	}
	ov := f.Overlay
	idle := ov.Room == ActivityIdle
	poly := geometry.RoomPolygon(room, f.View.Origin, f.View.Scale)

	var out []DimensionLabel
	for _, e := range geometry.Edges(poly) {
		length := e.Len()
		if length == 0 {
			continue
		}
		v := e.Vector()
		perp := geometry.Pt(v.Y/length, -v.X/length)
		facing := perp.Y < -facingEpsilon || perp.X < -facingEpsilon

		emphasis := geometry.IsRelatedEdge(room.Shape, ov.ActiveEdge, e.Index) ||
			geometry.IsRelatedEdge(room.Shape, ov.ClickedEdge, e.Index)
		targeted := emphasis || geometry.IsRelatedEdge(room.Shape, ov.HoverEdge, e.Index)

		if !(idle || targeted || f.State.ShowDimensions) || !(facing || targeted) {
			continue
		}

		off := perp.Scale(dimensionOffset)
		angle := math.Atan2(v.Y, v.X)
		if angle > math.Pi/2+1e-9 || angle < -math.Pi/2-1e-9 {
			angle += math.Pi
		}
		start, end := e.Start.Add(off), e.End.Add(off)
		out = append(out, DimensionLabel{
			Edge:     e.Index,
			LengthMM: int(math.Round(length / f.View.Scale)),
			Start:    start,
			End:      end,
			At:       start.Lerp(end, 0.5),
			Angle:    angle,
			Emphasis: emphasis,
		})
	}
	return out
}

func drawDimensions(s Surface, f Frame) {
	for _, d := range DimensionLabels(f) {
		v := d.End.Sub(d.Start)
		n := v.Len()
		if n == 0 {
			continue
		}
		// Tick direction is the edge normal.
		tick := geometry.Pt(v.Y/n, -v.X/n).Scale(dimensionTick / 2)
		p := NewPath().
			Line(d.Start.X, d.Start.Y, d.End.X, d.End.Y).
			Line(d.Start.X-tick.X, d.Start.Y-tick.Y, d.Start.X+tick.X, d.Start.Y+tick.Y).
			Line(d.End.X-tick.X, d.End.Y-tick.Y, d.End.X+tick.X, d.End.Y+tick.Y)
		lw := 1.0
		if d.Emphasis {
			lw = 2
		}
		s.Draw(p, strokeStyle(colorDimension, lw))

		ts := TextStyle{Size: 12, Bold: d.Emphasis, Color: colorDimension}
		text := d.Text()
		tw := s.MeasureText(text, ts) + 8
		s.Save()
		s.Translate(d.At.X, d.At.Y)
		s.Rotate(d.Angle)
		s.Draw(NewPath().Rect(-tw/2, -8, tw, 16), fillStroke(colorWhite, colorDimension, 1))
		s.Text(text, 0, 0, ts)
		s.Restore()
	}
}
