// Package render draws a planner snapshot onto a 2D surface. Rendering is a
// pure function of its Frame: nothing is retained between calls.
package render

import (
	"image/color"
	"math"
)

// Surface is the subset of a Canvas2D-style context the planner draws with.
// Transforms set with Translate and Rotate are rigid (no scaling) and apply
// until the matching Restore.
type Surface interface {
	Size() (width, height float64)
	Clear(c color.Color)
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)
	Draw(p *Path, st Style)
	Text(s string, x, y float64, st TextStyle)
	MeasureText(s string, st TextStyle) float64
}

// Style describes how a path is painted. A nil Fill or Stroke skips that pass.
type Style struct {
	Fill      color.Color
	Stroke    color.Color
	LineWidth float64
	Dash      []float64
	RoundJoin bool
	RoundCap  bool
}

type Align int

const (
	AlignCenter Align = iota
	AlignLeft
)

// TextStyle describes a text run. Text is vertically centered on y.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color color.Color
	Align Align
}

// PathOp is one path segment.
type PathOp struct {
	Kind byte // 'M', 'L', 'A', 'Z'
	Args [5]float64
}

// Path is a list of segments in the current surface coordinates.
type Path struct {
	Ops []PathOp
}

func NewPath() *Path { return &Path{} }

func (p *Path) MoveTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: 'M', Args: [5]float64{x, y}})
	return p
}

func (p *Path) LineTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: 'L', Args: [5]float64{x, y}})
	return p
}

// Arc adds a clockwise circular arc. Like Canvas2D, it starts with a line
// from the current point to the arc start.
func (p *Path) Arc(cx, cy, r, startAngle, endAngle float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: 'A', Args: [5]float64{cx, cy, r, startAngle, endAngle}})
	return p
}

func (p *Path) Close() *Path {
	p.Ops = append(p.Ops, PathOp{Kind: 'Z'})
	return p
}

func (p *Path) Line(x0, y0, x1, y1 float64) *Path {
	return p.MoveTo(x0, y0).LineTo(x1, y1)
}

func (p *Path) Rect(x, y, w, h float64) *Path {
	return p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

func (p *Path) Circle(cx, cy, r float64) *Path {
	return p.MoveTo(cx+r, cy).Arc(cx, cy, r, 0, 2*math.Pi).Close()
}

func rgb(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 255} }

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

var (
	colorBackground   = rgb(0xff, 0xff, 0xff)
	colorGrid         = rgb(0xf0, 0xf0, 0xf0)
	colorWallStroke   = rgb(0x78, 0x75, 0x75)
	colorFloor        = rgba(242, 206, 167, 1)
	colorBlack        = rgb(0, 0, 0)
	colorWhite        = rgb(0xff, 0xff, 0xff)
	colorReference    = rgb(0x66, 0x66, 0x66)
	colorAccent       = rgb(0x3b, 0x82, 0xf6)
	colorAccentDark   = rgb(0x25, 0x63, 0xeb)
	colorAccentHover  = rgba(59, 130, 246, 0.5)
	colorWaterStroke  = rgb(0x1e, 0x40, 0xaf)
	colorInset        = rgba(255, 255, 255, 0.5)
	colorInsetStroke  = rgb(0x88, 0x88, 0x88)
	colorSlope        = rgba(59, 130, 246, 0.2)
	colorWall         = rgb(0x9c, 0xa3, 0xaf)
	colorItemFill     = rgb(0x94, 0xa3, 0xb8)
	colorItemStroke   = rgb(0x64, 0x74, 0x8b)
	colorItemLabel    = rgb(0x1f, 0x29, 0x37)
	colorRadiator     = rgb(0x55, 0x55, 0x55)
	colorGasPipe      = rgb(0xe6, 0xb8, 0x00)
	colorWaterPipe    = rgb(0xcd, 0x7f, 0x32)
	colorPipe         = rgb(0x99, 0x99, 0x99)
	colorColumn       = rgb(0x6b, 0x72, 0x80)
	colorDraftWall    = rgb(0x6b, 0x72, 0x80)
	colorDimension    = rgb(0x33, 0x33, 0x33)
	colorAreaLabel    = rgb(0x37, 0x41, 0x51)
	colorSelectionBox = colorAccent

	colorIndicatorShadow = rgba(0, 0, 0, 0.1)
	colorIndicatorBorder = rgb(0xe5, 0xe7, 0xeb)
)
