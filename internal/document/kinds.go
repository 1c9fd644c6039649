package document

import "strings"

// Item type tags that the editor itself creates.
const (
	TypeWallSegment    = "wall-segment"
	TypeSeparationLine = "separation-line"
)

// Glyph selects the drawing routine for an item.
type Glyph int

const (
	GlyphBox Glyph = iota
	GlyphWall
	GlyphSeparation
	GlyphSocketSingle
	GlyphSocketDouble
	GlyphSwitchSingle
	GlyphSwitchDouble
	GlyphRadiator
	GlyphAirVent
	GlyphFloorDrain
	GlyphGasPipe
	GlyphWaterPipe
	GlyphPipe
	GlyphWindowSingle
	GlyphWindowDouble
	GlyphWindowRoof
	GlyphWindowFixed
	GlyphDoorSimple
	GlyphDoorDouble
	GlyphDoorPatio
	GlyphWallOpening
	GlyphColumnSquare
	GlyphColumnRound
)

// Anchor is the point of an item that X/Y refer to.
type Anchor int

const (
	// AnchorTopLeft items occupy [X, X+Width]×[Y, Y+Height] before rotation
	// and rotate about their center.
	AnchorTopLeft Anchor = iota
	// AnchorStart items start at X/Y and extend Width mm along Rotation.
	AnchorStart
)

// HitShape selects the hit-test used for an item.
type HitShape int

const (
	HitRotatedRect HitShape = iota
	HitThickSegment
)

// Kind is the registry entry for one item variant.
type Kind struct {
	Type   string
	Glyph  Glyph
	Width  float64
	Height float64
	Anchor Anchor
	Hit    HitShape
}

// Divider reports whether items of this kind split the room into sub-areas.
func (k Kind) Divider() bool {
	return k.Anchor == AnchorStart
}

func boxKind(t string, g Glyph, w, h float64) Kind {
	return Kind{Type: t, Glyph: g, Width: w, Height: h, Anchor: AnchorTopLeft, Hit: HitRotatedRect}
}

var defaultKind = boxKind("", GlyphBox, 600, 600)

var kinds = map[string]Kind{
	TypeWallSegment:    {Type: TypeWallSegment, Glyph: GlyphWall, Width: 0, Height: 50, Anchor: AnchorStart, Hit: HitThickSegment},
	TypeSeparationLine: {Type: TypeSeparationLine, Glyph: GlyphSeparation, Width: 0, Height: 2, Anchor: AnchorStart, Hit: HitThickSegment},

	"Box object":             boxKind("Box object", GlyphBox, 1500, 1000),
	"Column square":          boxKind("Column square", GlyphColumnSquare, 300, 300),
	"Column round":           boxKind("Column round", GlyphColumnRound, 300, 300),
	"Double electric socket": boxKind("Double electric socket", GlyphSocketDouble, 120, 20),
	"Single electric socket": boxKind("Single electric socket", GlyphSocketSingle, 60, 20),
	"Double light switch":    boxKind("Double light switch", GlyphSwitchDouble, 120, 20),
	"Single light switch":    boxKind("Single light switch", GlyphSwitchSingle, 60, 20),
	"Radiator":               boxKind("Radiator", GlyphRadiator, 800, 30),
	"Air vent":               boxKind("Air vent", GlyphAirVent, 300, 50),
	"floor drain":            boxKind("floor drain", GlyphFloorDrain, 200, 200),
	"Double window":          boxKind("Double window", GlyphWindowDouble, 1200, 200),
	"Single window":          boxKind("Single window", GlyphWindowSingle, 800, 200),
	"Roof Window":            boxKind("Roof Window", GlyphWindowRoof, 1200, 200),
	"Non opening window":     boxKind("Non opening window", GlyphWindowFixed, 1000, 200),
	"Double Interior door":   boxKind("Double Interior door", GlyphDoorDouble, 1600, 200),
	"Patio Door":             boxKind("Patio Door", GlyphDoorPatio, 1600, 200),
	"Simple door":            boxKind("Simple door", GlyphDoorSimple, 900, 200),
	"Wall Opening":           boxKind("Wall Opening", GlyphWallOpening, 900, 200),
}

// Pipe variants are matched by substring since the palette sends names like
// "gas pipe vertical". Order matters: the first matching rule wins.
var pipeRules = []struct {
	match string
	kind  Kind
}{
	{"gas pipe", boxKind("gas pipe", GlyphGasPipe, 1000, 40)},
	{"water pipe", boxKind("water pipe", GlyphWaterPipe, 300, 150)},
	{"pipe", boxKind("pipe", GlyphPipe, 1000, 30)},
}

// LookupKind maps an item type tag to its registry entry. Unknown tags get
// a generic 600×600 box.
func LookupKind(itemType string) Kind {
	if k, ok := kinds[itemType]; ok {
		return k
	}

	lower := strings.ToLower(itemType)
	for _, r := range pipeRules {
		if !strings.Contains(lower, r.match) {
			continue
		}
		k := r.kind
		k.Type = itemType
		// Only the straight pipes have a vertical variant.
		if r.match != "water pipe" && strings.Contains(lower, "vertical") {
			k.Width, k.Height = k.Height, k.Width
		}
		return k
	}

	k := defaultKind
	k.Type = itemType
	return k
}

// DefaultSize returns the width and height in mm used when an item of the
// given type is dropped onto the canvas.
func DefaultSize(itemType string) (float64, float64) {
	k := LookupKind(itemType)
	return k.Width, k.Height
}

// Droppable reports whether the palette may instantiate the type directly.
// Walls and separations are only created by the drawing tools.
func Droppable(itemType string) bool {
	return itemType != "" && !LookupKind(itemType).Divider()
}
