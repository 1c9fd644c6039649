package document

// Default room values used when a plan is first created.
const (
	DefaultRoomWidth     = 4000.0
	DefaultRoomHeight    = 4000.0
	DefaultRoomName      = "Area 1"
	DefaultRoomType      = "Kitchen"
	DefaultCeilingHeight = 2500.0
)

var layoutShapes = map[string]Shape{
	"single-wall": ShapeRectangle,
	"l-shaped":    ShapeLShape,
	"u-shaped":    ShapeUShape,
	"two-wall":    ShapeOpenL,
	"island":      ShapeCustom,
	"custom":      ShapeCustom,
}

// ShapeForLayout maps a questionnaire layout answer to a room shape.
// Unknown answers fall back to a rectangle.
func ShapeForLayout(layout string) Shape {
	if s, ok := layoutShapes[layout]; ok {
		return s
	}
	return ShapeRectangle
}

// NewDefaultRoom returns the starting room for a shape.
func NewDefaultRoom(shape Shape) *Room {
	return &Room{
		Shape:         shape,
		Width:         DefaultRoomWidth,
		Height:        DefaultRoomHeight,
		Name:          DefaultRoomName,
		Type:          DefaultRoomType,
		FloorHeight:   0,
		CeilingHeight: DefaultCeilingHeight,
		Area:          DefaultRoomWidth * DefaultRoomHeight / 1e6,
	}
}

// ValidShape reports whether s is one of the supported room shapes.
func ValidShape(s Shape) bool {
	switch s {
	case ShapeSquare, ShapeRectangle, ShapeLShape, ShapeUShape, ShapeOpenL, ShapeCustom:
		return true
	}
	return false
}
