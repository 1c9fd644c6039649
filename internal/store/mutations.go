package store

import (
	"fmt"
	"time"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/typeid"
)

// refreshArea derives the room's floor area from its outline.
func refreshArea(r *document.Room) {
	if r != nil {
		r.Area = geometry.RoomArea(r)
	}
}

// --- Room ---

// SetRoom replaces the room. Dimensions are clamped and the area is
// recomputed. Passing nil removes the room.
func (s *Store) SetRoom(room *document.Room) {
	r := room.Clone()
	if r != nil {
		p := document.Plan{Room: r}
		document.Normalize(&p)
		refreshArea(r)
	}
	s.state.Plan.Room = r
	s.commit()
}

// ChangeShape switches the room outline. Without a room it creates the
// default room for the shape. When keepItems is false every item, water
// supply and sloped ceiling is removed as part of the same mutation.
func (s *Store) ChangeShape(shape document.Shape, keepItems bool) {
	if !document.ValidShape(shape) {
		shape = document.ShapeRectangle
	}
	room := s.state.Plan.Room.Clone()
	if room == nil {
		room = document.NewDefaultRoom(shape)
	}
	room.Shape = shape
	if shape != document.ShapeLShape {
		delete(room.Params, document.ParamCutWidth)
		delete(room.Params, document.ParamCutHeight)
	}
	refreshArea(room)

	s.state.Plan.Room = room
	if !keepItems {
		s.state.Plan.PlacedItems = nil
		s.state.Plan.WaterSupplies = nil
		s.state.Plan.SlopedCeilings = nil
		s.state.SelectedID = ""
	}
	s.commit()
}

// UpdateRoomLive edits the room in place without recording history. Used
// while a resize gesture is in progress.
func (s *Store) UpdateRoomLive(fn func(*document.Room)) bool {
	r := s.state.Plan.Room
	if r == nil {
		return false
	}
	fn(r)
	r.Width = document.ClampDimension(r.Width)
	r.Height = document.ClampDimension(r.Height)
	refreshArea(r)
	s.version++
	return true
}

// SetCutLive moves the l-shape notch without recording history.
func (s *Store) SetCutLive(cut geometry.Cut) bool {
	return s.UpdateRoomLive(func(r *document.Room) {
		r.SetParam(document.ParamCutWidth, cut.Width)
		r.SetParam(document.ParamCutHeight, cut.Height)
	})
}

// --- Items ---

func (s *Store) ensureItemID(it *document.PlacedItem) {
	if it.ID != "" {
		return
	}
	switch it.Type {
	case document.TypeWallSegment:
		it.ID = typeid.NewWallID()
	case document.TypeSeparationLine:
		it.ID = typeid.NewSeparationID()
	default:
		it.ID = typeid.NewItemID()
	}
}

// AddItem places one item and returns it with its id assigned.
func (s *Store) AddItem(it document.PlacedItem) document.PlacedItem {
	added := s.AddItems(it)
	return added[0]
}

// AddItems places several items as one mutation.
func (s *Store) AddItems(items ...document.PlacedItem) []document.PlacedItem {
	if len(items) == 0 {
		return nil
	}
	added := make([]document.PlacedItem, len(items))
	for i, it := range items {
		s.ensureItemID(&it)
		it.Rotation = document.NormalizeDegrees(it.Rotation)
		added[i] = it
	}
	s.state.Plan.PlacedItems = append(s.state.Plan.PlacedItems, added...)
	s.commit()
	return added
}

// RemoveItem deletes an item and clears it from the selection.
func (s *Store) RemoveItem(id string) bool {
	items := s.state.Plan.PlacedItems
	for i := range items {
		if items[i].ID != id {
			continue
		}
		s.state.Plan.PlacedItems = append(items[:i:i], items[i+1:]...)
		if s.state.SelectedID == id {
			s.state.SelectedID = ""
		}
		s.commit()
		return true
	}
	return false
}

// UpdateItemLive edits an item without recording history.
func (s *Store) UpdateItemLive(id string, fn func(*document.PlacedItem)) bool {
	it, ok := s.state.Plan.Item(id)
	if !ok {
		return false
	}
	fn(it)
	s.version++
	return true
}

// RotateItem turns an item by delta degrees and records the result.
func (s *Store) RotateItem(id string, delta float64) bool {
	it, ok := s.state.Plan.Item(id)
	if !ok {
		return false
	}
	it.Rotation = document.NormalizeDegrees(it.Rotation + delta)
	s.commit()
	return true
}

// ClearAllItems removes every placed item.
func (s *Store) ClearAllItems() {
	s.state.Plan.PlacedItems = nil
	s.state.SelectedID = ""
	s.commit()
}

// --- Water supplies ---

func (s *Store) AddWaterSupply(ws document.WaterSupply) document.WaterSupply {
	if ws.ID == "" {
		ws.ID = typeid.NewWaterSupplyID()
	}
	s.state.Plan.WaterSupplies = append(s.state.Plan.WaterSupplies, ws)
	s.commit()
	return ws
}

func (s *Store) RemoveWaterSupply(id string) bool {
	list := s.state.Plan.WaterSupplies
	for i := range list {
		if list[i].ID == id {
			s.state.Plan.WaterSupplies = append(list[:i:i], list[i+1:]...)
			s.commit()
			return true
		}
	}
	return false
}

// --- Sloped ceilings ---

func (s *Store) AddSlopedCeiling(sc document.SlopedCeiling) document.SlopedCeiling {
	if sc.ID == "" {
		sc.ID = typeid.NewSlopeID()
	}
	s.state.Plan.SlopedCeilings = append(s.state.Plan.SlopedCeilings, sc)
	s.commit()
	return sc
}

func (s *Store) UpdateSlopedCeiling(id string, fn func(*document.SlopedCeiling)) bool {
	list := s.state.Plan.SlopedCeilings
	for i := range list {
		if list[i].ID == id {
			fn(&list[i])
			list[i].ID = id
			s.commit()
			return true
		}
	}
	return false
}

func (s *Store) RemoveSlopedCeiling(id string) bool {
	list := s.state.Plan.SlopedCeilings
	for i := range list {
		if list[i].ID == id {
			s.state.Plan.SlopedCeilings = append(list[:i:i], list[i+1:]...)
			s.commit()
			return true
		}
	}
	return false
}

// --- Import / export ---

// Import replaces the whole plan from a serialized document and records one
// snapshot. On error the state is left untouched.
func (s *Store) Import(data []byte) error {
	plan, err := document.Parse(data)
	if err != nil {
		return fmt.Errorf("import plan: %w", err)
	}
	refreshArea(plan.Room)
	s.state.Plan = plan
	s.state.SelectedID = ""
	s.commit()
	return nil
}

// Export serializes the current plan.
func (s *Store) Export() ([]byte, error) {
	return document.Marshal(s.state.Plan, s.now())
}

// ExportFilename is the download name for a raster export.
func (s *Store) ExportFilename() string {
	return fmt.Sprintf("kitchen-plan-%d.png", s.now().UnixMilli())
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// SeedFromLayout creates the initial room from a questionnaire layout
// answer. It runs at most once per store, and only when there is no room
// and none was hydrated from storage.
func (s *Store) SeedFromLayout(layout string) bool {
	if s.layoutConsumed || layout == "" {
		return false
	}
	s.layoutConsumed = true
	if s.state.Plan.Room != nil || s.storedRoom {
		return false
	}
	s.SetRoom(document.NewDefaultRoom(document.ShapeForLayout(layout)))
	return true
}
