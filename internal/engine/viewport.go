package engine

import (
	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
)

// BaseScale is pixels per millimetre at zoom 1.
const BaseScale = 0.15

// ViewportFor places the room on a canvas. An explicit pan offset pins the
// room's top-left corner; otherwise the room is centered.
func ViewportFor(room *document.Room, width, height, zoom float64, pan *geometry.Point) render.Viewport {
	if zoom <= 0 {
		zoom = 1
	}
	v := render.Viewport{Scale: BaseScale * zoom}
	switch {
	case pan != nil:
		v.Origin = *pan
	case room != nil:
		v.Origin = geometry.Pt(
			(width-room.Width*v.Scale)/2,
			(height-room.Height*v.Scale)/2,
		)
	}
	return v
}
