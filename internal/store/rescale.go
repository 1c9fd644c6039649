package store

import (
	"math"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
)

// RescaleRoom changes the room dimensions, scales every item and water
// supply with it, and records one snapshot.
func (s *Store) RescaleRoom(width, height float64) bool {
	if !s.rescale(width, height) {
		return false
	}
	s.commit()
	return true
}

// RescaleRoomLive is RescaleRoom without the history entry, for use while a
// resize gesture is in progress.
func (s *Store) RescaleRoomLive(width, height float64) bool {
	if !s.rescale(width, height) {
		return false
	}
	s.version++
	return true
}

func (s *Store) rescale(width, height float64) bool {
	r := s.state.Plan.Room
	if r == nil {
		return false
	}
	width = document.ClampDimension(width)
	height = document.ClampDimension(height)

	oldW, oldH := r.Width, r.Height
	if oldW > 0 && oldH > 0 {
		sx, sy := width/oldW, height/oldH
		ScalePlan(&s.state.Plan, sx, sy)
		if v, ok := r.Params[document.ParamCutWidth]; ok {
			r.Params[document.ParamCutWidth] = v * sx
		}
		if v, ok := r.Params[document.ParamCutHeight]; ok {
			r.Params[document.ParamCutHeight] = v * sy
		}
	}
	r.Width, r.Height = width, height
	refreshArea(r)
	return true
}

// ScalePlan scales item and water-supply positions by (sx, sy). Start-anchored
// items (walls and separations) also have their direction vector scaled, with
// length and rotation recomputed from it, so their angle follows a
// non-uniform scale.
func ScalePlan(p *document.Plan, sx, sy float64) {
	for i := range p.PlacedItems {
		it := &p.PlacedItems[i]
		it.X *= sx
		it.Y *= sy
		if !it.Kind().Divider() {
			continue
		}
		rad := geometry.Radians(it.Rotation)
		vx := it.Width * math.Cos(rad) * sx
		vy := it.Width * math.Sin(rad) * sy
		if vx == 0 && vy == 0 {
			continue
		}
		it.Width = math.Hypot(vx, vy)
		it.Rotation = document.NormalizeDegrees(geometry.Degrees(math.Atan2(vy, vx)))
	}
	for i := range p.WaterSupplies {
		p.WaterSupplies[i].X *= sx
		p.WaterSupplies[i].Y *= sy
	}
}
