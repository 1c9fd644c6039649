package engine

import (
	"strconv"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
)

// Defaults for a newly configured sloped ceiling, in mm.
const (
	DefaultKneeWall   = 1300.0
	DefaultSlopeRun   = 1400.0
	DefaultSlopeAngle = 0.0
)

// pickCeilingWall selects the wall nearest the pointer for the ceiling tool
// and gives it a default slope if it has none.
func (c *Controller) pickCeilingWall(poly []geometry.Point, p geometry.Point) bool {
	e, d, ok := geometry.NearestEdge(p, geometry.Edges(poly))
	if !ok || d > CeilingPickDistance {
		return false
	}
	wallID := strconv.Itoa(e.Index)
	c.store.SelectWall(wallID)

	plan := c.store.Plan()
	if _, exists := plan.SlopeForWall(wallID); !exists {
		c.store.AddSlopedCeiling(document.SlopedCeiling{
			WallID: wallID,
			A:      DefaultKneeWall,
			B:      DefaultSlopeRun,
			C:      DefaultSlopeAngle,
		})
	}
	return true
}

// placeWaterSupply drops a supply marker at the snapped pointer position.
func (c *Controller) placeWaterSupply(room *document.Room, poly []geometry.Point, view render.Viewport, p geometry.Point) bool {
	if !geometry.Contains(poly, p) {
		return false
	}
	mm := view.ToRoom(p)
	at := geometry.Pt(geometry.Snap(mm.X, ItemSnap), geometry.Snap(mm.Y, ItemSnap))
	c.store.AddWaterSupply(document.WaterSupply{
		X:    at.X,
		Y:    at.Y,
		Wall: NearestWallSide(room, at),
	})
	return true
}

// NearestWallSide returns the bounding-box side closest to p (room mm).
// Ties resolve in the order top, right, bottom, left.
func NearestWallSide(room *document.Room, p geometry.Point) document.WallSide {
	sides := []struct {
		side document.WallSide
		dist float64
	}{
		{document.WallTop, p.Y},
		{document.WallRight, room.Width - p.X},
		{document.WallBottom, room.Height - p.Y},
		{document.WallLeft, p.X},
	}
	best := sides[0]
	for _, s := range sides[1:] {
		if s.dist < best.dist {
			best = s
		}
	}
	return best.side
}

// Drop instantiates a palette item at a surface point. The position snaps
// to ItemSnap; drops outside the room's bounding box are ignored.
func (c *Controller) Drop(itemType string, x, y float64) (document.PlacedItem, bool) {
	room := c.store.Room()
	if room == nil || !document.Droppable(itemType) {
		return document.PlacedItem{}, false
	}
	mm := c.Viewport().ToRoom(geometry.Pt(x, y))
	if mm.X < 0 || mm.Y < 0 || mm.X > room.Width || mm.Y > room.Height {
		return document.PlacedItem{}, false
	}
	w, h := document.DefaultSize(itemType)
	added := c.store.AddItem(document.PlacedItem{
		Type:   itemType,
		X:      geometry.Snap(mm.X, ItemSnap),
		Y:      geometry.Snap(mm.Y, ItemSnap),
		Width:  w,
		Height: h,
	})
	c.store.Select(added.ID)
	c.rev++
	return added, true
}
