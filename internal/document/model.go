package document

import "maps"

type Shape string

const (
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeLShape    Shape = "l-shape"
	ShapeUShape    Shape = "u-shape"
	ShapeOpenL     Shape = "open-l"
	ShapeCustom    Shape = "custom"
)

// Shape-specific parameter keys stored in Room.Params.
const (
	ParamCutWidth  = "cutWidth"
	ParamCutHeight = "cutHeight"
)

// MinRoomDimension is the floor for room width and height in mm.
const MinRoomDimension = 1000.0

type Room struct {
	Shape         Shape              `json:"shape"`
	Width         float64            `json:"width"`
	Height        float64            `json:"height"`
	Name          string             `json:"name"`
	Type          string             `json:"type"`
	FloorHeight   float64            `json:"floorHeight"`
	CeilingHeight float64            `json:"ceilingHeight"`
	Area          float64            `json:"area"`
	Params        map[string]float64 `json:"params,omitempty"`
}

// Param returns the named shape parameter, or fallback when it is unset.
func (r *Room) Param(key string, fallback float64) float64 {
	if v, ok := r.Params[key]; ok {
		return v
	}
	return fallback
}

// SetParam stores a shape parameter, allocating Params on first use.
func (r *Room) SetParam(key string, v float64) {
	if r.Params == nil {
		r.Params = make(map[string]float64)
	}
	r.Params[key] = v
}

func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Params = maps.Clone(r.Params)
	return &c
}

type PlacedItem struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotation   float64 `json:"rotation"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ProductRef string  `json:"productRef,omitempty"`
}

// Kind resolves the item's registry entry.
func (it PlacedItem) Kind() Kind {
	return LookupKind(it.Type)
}

type WallSide string

const (
	WallTop    WallSide = "top"
	WallRight  WallSide = "right"
	WallBottom WallSide = "bottom"
	WallLeft   WallSide = "left"
)

type WaterSupply struct {
	ID   string   `json:"id"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Wall WallSide `json:"wall"`
}

// SlopedCeiling describes a knee wall of height A whose slope runs B mm into
// the room from the edge named by WallID (the edge index as a string).
// C is the slope angle; it is carried through unchanged and not derived.
type SlopedCeiling struct {
	ID     string  `json:"id"`
	WallID string  `json:"wallId"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	C      float64 `json:"c"`
}

// Plan is the editable part of the planner state. History snapshots are
// deep copies of a Plan.
type Plan struct {
	Room           *Room           `json:"room"`
	PlacedItems    []PlacedItem    `json:"placedItems"`
	WaterSupplies  []WaterSupply   `json:"waterSupplies"`
	SlopedCeilings []SlopedCeiling `json:"slopedCeilings"`
}

// Clone returns a copy of p that shares no mutable state with it.
func (p Plan) Clone() Plan {
	return Plan{
		Room:           p.Room.Clone(),
		PlacedItems:    cloneSlice(p.PlacedItems),
		WaterSupplies:  cloneSlice(p.WaterSupplies),
		SlopedCeilings: cloneSlice(p.SlopedCeilings),
	}
}

// Item returns the placed item with the given id.
func (p *Plan) Item(id string) (*PlacedItem, bool) {
	for i := range p.PlacedItems {
		if p.PlacedItems[i].ID == id {
			return &p.PlacedItems[i], true
		}
	}
	return nil, false
}

// SlopeForWall returns the sloped ceiling configured on an edge index.
func (p *Plan) SlopeForWall(wallID string) (*SlopedCeiling, bool) {
	for i := range p.SlopedCeilings {
		if p.SlopedCeilings[i].WallID == wallID {
			return &p.SlopedCeilings[i], true
		}
	}
	return nil, false
}

// HasDividers reports whether any wall-segment or separation-line exists.
func (p *Plan) HasDividers() bool {
	for _, it := range p.PlacedItems {
		if it.Kind().Divider() {
			return true
		}
	}
	return false
}

// cloneSlice copies a slice of value types, keeping nil as nil.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
