package render

import (
	"image/color"
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

// glyphFunc draws an item in its local frame: the origin is the item
// center, x runs along its width, and w, h are in pixels.
type glyphFunc func(s Surface, w, h float64, selected bool)

var glyphs = map[document.Glyph]glyphFunc{
	document.GlyphBox:          drawBox,
	document.GlyphColumnSquare: drawColumnSquare,
	document.GlyphColumnRound:  drawColumnRound,
	document.GlyphSocketSingle: func(s Surface, w, h float64, _ bool) { drawSockets(s, w, h, 1) },
	document.GlyphSocketDouble: func(s Surface, w, h float64, _ bool) { drawSockets(s, w, h, 2) },
	document.GlyphSwitchSingle: func(s Surface, w, h float64, _ bool) { drawSwitches(s, w, h, 1) },
	document.GlyphSwitchDouble: func(s Surface, w, h float64, _ bool) { drawSwitches(s, w, h, 2) },
	document.GlyphRadiator:     drawRadiator,
	document.GlyphAirVent:      drawAirVent,
	document.GlyphFloorDrain:   drawFloorDrain,
	document.GlyphGasPipe:      func(s Surface, w, h float64, _ bool) { drawPipe(s, w, h, colorGasPipe) },
	document.GlyphPipe:         func(s Surface, w, h float64, _ bool) { drawPipe(s, w, h, colorPipe) },
	document.GlyphWaterPipe:    drawWaterPipe,
	document.GlyphWindowSingle: func(s Surface, w, h float64, _ bool) { drawWindow(s, w, h, 1) },
	document.GlyphWindowDouble: func(s Surface, w, h float64, _ bool) { drawWindow(s, w, h, 2) },
	document.GlyphWindowRoof:   drawRoofWindow,
	document.GlyphWindowFixed:  drawFixedWindow,
	document.GlyphDoorSimple:   func(s Surface, w, h float64, _ bool) { drawDoor(s, w, h, 1) },
	document.GlyphDoorDouble:   func(s Surface, w, h float64, _ bool) { drawDoor(s, w, h, 2) },
	document.GlyphDoorPatio:    drawPatioDoor,
	document.GlyphWallOpening:  drawWallOpening,
}

func glyphFor(g document.Glyph) glyphFunc {
	if fn, ok := glyphs[g]; ok {
		return fn
	}
	return drawBox
}

func fillStyle(c color.Color) Style {
	return Style{Fill: c}
}

func strokeStyle(c color.Color, w float64) Style {
	return Style{Stroke: c, LineWidth: w}
}

func fillStroke(f, st color.Color, w float64) Style {
	return Style{Fill: f, Stroke: st, LineWidth: w}
}

func localRect(w, h float64) *Path {
	return NewPath().Rect(-w/2, -h/2, w, h)
}

func drawBox(s Surface, w, h float64, selected bool) {
	fill, stroke := colorItemFill, colorItemStroke
	if selected {
		fill, stroke = colorAccent, colorAccentDark
	}
	s.Draw(localRect(w, h), fillStroke(fill, stroke, 1))
}

func drawColumnSquare(s Surface, w, h float64, _ bool) {
	s.Draw(localRect(w, h), fillStroke(colorColumn, colorBlack, 1))
}

func drawColumnRound(s Surface, w, h float64, _ bool) {
	s.Draw(NewPath().Circle(0, 0, math.Min(w, h)/2), fillStroke(colorColumn, colorBlack, 1))
}

func drawSockets(s Surface, w, h float64, n int) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
	cell := w / float64(n)
	r := math.Min(cell, h) * 0.4
	for i := range n {
		cx := -w/2 + cell*(float64(i)+0.5)
		s.Draw(NewPath().Circle(cx, 0, r), strokeStyle(colorBlack, 1))
		dots := NewPath().Circle(cx-r/2.5, 0, r/5).Circle(cx+r/2.5, 0, r/5)
		s.Draw(dots, fillStyle(colorBlack))
	}
}

func drawSwitches(s Surface, w, h float64, n int) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
	cell := w / float64(n)
	for i := range n {
		x0 := -w/2 + cell*float64(i)
		s.Draw(NewPath().Line(x0+cell*0.25, h*0.3, x0+cell*0.75, -h*0.3), strokeStyle(colorBlack, 1))
	}
}

func drawRadiator(s Surface, w, h float64, _ bool) {
	s.Draw(localRect(w, h), fillStyle(colorRadiator))
	fins := NewPath()
	for i := 1; i < 8; i++ {
		x := -w/2 + w*float64(i)/8
		fins.Line(x, -h/2, x, h/2)
	}
	s.Draw(fins, strokeStyle(colorWhite, 1))
}

func drawAirVent(s Surface, w, h float64, _ bool) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
	grille := NewPath()
	for i := 1; i <= 3; i++ {
		y := -h/2 + h*float64(i)/4
		grille.Line(-w/2+2, y, w/2-2, y)
	}
	s.Draw(grille, strokeStyle(colorBlack, 1))
}

func drawFloorDrain(s Surface, w, h float64, _ bool) {
	r := math.Min(w, h) / 2
	s.Draw(NewPath().Circle(0, 0, r), fillStroke(colorWhite, colorBlack, 1))
	d := r * math.Sqrt2 / 2
	s.Draw(NewPath().Line(-d, -d, d, d).Line(-d, d, d, -d), strokeStyle(colorBlack, 1))
}

func drawPipe(s Surface, w, h float64, c color.Color) {
	s.Draw(localRect(w, h), fillStroke(c, colorBlack, 0.5))
}

// drawWaterPipe draws the Π-shaped supply stub.
func drawWaterPipe(s Surface, w, h float64, _ bool) {
	t := math.Max(2, h/5)
	p := NewPath().
		Rect(-w/2, -h/2, w, t).
		Rect(-w/2, -h/2, t, h).
		Rect(w/2-t, -h/2, t, h)
	s.Draw(p, fillStyle(colorWaterPipe))
}

func drawWindowFrame(s Surface, w, h float64) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
}

func drawWindow(s Surface, w, h float64, sashes int) {
	drawWindowFrame(s, w, h)
	s.Draw(NewPath().Line(-w/2, 0, w/2, 0), strokeStyle(colorBlack, 1))
	sash := w / float64(sashes)
	for i := range sashes {
		hinge := -w/2 + sash*float64(i)
		swing := NewPath().MoveTo(hinge+sash, h/2).Arc(hinge, h/2, sash, 0, math.Pi/2)
		s.Draw(swing, strokeStyle(colorReference, 0.5))
	}
}

func drawRoofWindow(s Surface, w, h float64, _ bool) {
	drawWindowFrame(s, w, h)
	s.Draw(NewPath().Line(-w/2, -h/2, w/2, h/2).Line(-w/2, h/2, w/2, -h/2), strokeStyle(colorBlack, 0.5))
}

func drawFixedWindow(s Surface, w, h float64, _ bool) {
	drawWindowFrame(s, w, h)
	s.Draw(NewPath().Line(-w/2, -h/6, w/2, -h/6).Line(-w/2, h/6, w/2, h/6), strokeStyle(colorBlack, 1))
}

// drawDoor draws the frame with one or two leaves swinging into the room.
func drawDoor(s Surface, w, h float64, leaves int) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
	leaf := w / float64(leaves)
	for i := range leaves {
		hinge, start := -w/2, 0.0
		if i == 1 {
			hinge, start = w/2, math.Pi/2
		}
		s.Draw(NewPath().Line(hinge, h/2, hinge, h/2+leaf), strokeStyle(colorBlack, 1.5))
		arc := NewPath().
			MoveTo(hinge+leaf*math.Cos(start), h/2+leaf*math.Sin(start)).
			Arc(hinge, h/2, leaf, start, start+math.Pi/2)
		s.Draw(arc, strokeStyle(colorReference, 0.5))
	}
}

func drawPatioDoor(s Surface, w, h float64, _ bool) {
	s.Draw(localRect(w, h), fillStroke(colorWhite, colorBlack, 1))
	panel := w * 0.55
	s.Draw(NewPath().Rect(-w/2, -h/4, panel, h/4), strokeStyle(colorBlack, 1))
	s.Draw(NewPath().Rect(w/2-panel, 0, panel, h/4), strokeStyle(colorBlack, 1))
}

func drawWallOpening(s Surface, w, h float64, _ bool) {
	s.Draw(localRect(w, h), fillStyle(colorWhite))
	s.Draw(NewPath().Line(-w/2, -h/2, -w/2, h/2).Line(w/2, -h/2, w/2, h/2), strokeStyle(colorBlack, 2))
}
