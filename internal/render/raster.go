package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Raster is a Surface backed by a gg context. It is used for PNG export.
type Raster struct {
	dc *gg.Context
}

func NewRaster(width, height int) *Raster {
	return &Raster{dc: gg.NewContext(width, height)}
}

func (r *Raster) Size() (float64, float64) {
	return float64(r.dc.Width()), float64(r.dc.Height())
}

func (r *Raster) Clear(c color.Color) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) Save() { r.dc.Push() }
func (r *Raster) Restore() { r.dc.Pop() }
func (r *Raster) Translate(x, y float64) { r.dc.Translate(x, y) }
func (r *Raster) Rotate(radians float64) { r.dc.Rotate(radians) }

func (r *Raster) Draw(p *Path, st Style) {
	if p == nil || len(p.Ops) == 0 {
		return
	}
	dc := r.dc
	dc.ClearPath()
	for _, op := range p.Ops {
		switch op.Kind {
		case 'M':
			dc.MoveTo(op.Args[0], op.Args[1])
		case 'L':
			dc.LineTo(op.Args[0], op.Args[1])
		case 'A':
			dc.DrawArc(op.Args[0], op.Args[1], op.Args[2], op.Args[3], op.Args[4])
		case 'Z':
			dc.ClosePath()
		}
	}

	switch {
	case st.Fill != nil && st.Stroke != nil:
		dc.SetColor(st.Fill)
		dc.FillPreserve()
		r.stroke(st)
	case st.Fill != nil:
		dc.SetColor(st.Fill)
		dc.Fill()
	case st.Stroke != nil:
		r.stroke(st)
	default:
		dc.ClearPath()
	}
}

func (r *Raster) stroke(st Style) {
	dc := r.dc
	w := st.LineWidth
	if w <= 0 {
		w = 1
	}
	dc.SetColor(st.Stroke)
	dc.SetLineWidth(w)
	dc.SetDash(st.Dash...)
	if st.RoundJoin {
		dc.SetLineJoin(gg.LineJoinRound)
	} else {
		dc.SetLineJoin(gg.LineJoinBevel)
	}
	if st.RoundCap {
		dc.SetLineCap(gg.LineCapRound)
	} else {
		dc.SetLineCap(gg.LineCapButt)
	}
	dc.Stroke()
	dc.SetDash()
}

func (r *Raster) Text(s string, x, y float64, st TextStyle) {
	if s == "" {
		return
	}
	face, err := fonts.face(st.Size, st.Bold)
	if err != nil {
		return
	}
	ax := 0.5
	if st.Align == AlignLeft {
		ax = 0
	}
	c := st.Color
	if c == nil {
		c = colorBlack
	}
	// truetype faces cache glyphs and are shared between surfaces.
	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	r.dc.SetFontFace(face)
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, x, y, ax, 0.35)
}

func (r *Raster) MeasureText(s string, st TextStyle) float64 {
	return measure(s, st)
}

func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the rasterized frame as a PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
