package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseToleratesMissingCollections(t *testing.T) {
	p, err := Parse([]byte(`{"version":"1.0","room":{"shape":"rectangle","width":5000,"height":3000}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Room == nil || p.Room.Width != 5000 || p.Room.Height != 3000 {
		t.Fatalf("unexpected room: %+v", p.Room)
	}
	if len(p.PlacedItems) != 0 || len(p.WaterSupplies) != 0 || len(p.SlopedCeilings) != 0 {
		t.Fatalf("expected empty collections, got %+v", p)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{
		``,
		`[]`,
		`not json`,
		`{"room": {"width": "wide"}}`,
		`{"placedItems": {}}`,
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", c, err)
		}
	}
}

func TestParseRejectsFutureVersion(t *testing.T) {
	_, err := Parse([]byte(`{"version":"2.0"}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("Parse() error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestParseClampsRoomAndRotation(t *testing.T) {
	p, err := Parse([]byte(`{"room":{"width":10,"height":-5},"placedItems":[{"id":"a","type":"Radiator","rotation":-90}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Room.Width != MinRoomDimension || p.Room.Height != MinRoomDimension {
		t.Errorf("room not clamped: %vx%v", p.Room.Width, p.Room.Height)
	}
	if p.Room.Shape != ShapeRectangle {
		t.Errorf("shape = %q, want rectangle", p.Room.Shape)
	}
	if got := p.PlacedItems[0].Rotation; got != 270 {
		t.Errorf("rotation = %v, want 270", got)
	}
}

func TestMarshalWritesEmptyArrays(t *testing.T) {
	data, err := Marshal(Plan{Room: NewDefaultRoom(ShapeSquare)}, time.UnixMilli(0))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"placedItems", "waterSupplies", "slopedCeilings"} {
		if string(raw[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, raw[key])
		}
	}
	if string(raw["version"]) != `"1.0"` {
		t.Errorf("version = %s", raw["version"])
	}
	if !strings.HasPrefix(string(raw["timestamp"]), `"1970-01-01T00:00:00.000Z`) {
		t.Errorf("timestamp = %s", raw["timestamp"])
	}
}

func TestMarshalParseKeepsReservedAngle(t *testing.T) {
	in := Plan{
		Room:           NewDefaultRoom(ShapeRectangle),
		SlopedCeilings: []SlopedCeiling{{ID: "s1", WallID: "2", A: 1300, B: 1400, C: 35}},
	}
	data, err := Marshal(in, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	out, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.SlopedCeilings[0] != in.SlopedCeilings[0] {
		t.Fatalf("slope = %+v, want %+v", out.SlopedCeilings[0], in.SlopedCeilings[0])
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	room := NewDefaultRoom(ShapeLShape)
	room.SetParam(ParamCutWidth, 1200)
	p := Plan{
		Room:        room,
		PlacedItems: []PlacedItem{{ID: "a", Type: "Radiator", X: 10}},
	}
	c := p.Clone()
	c.Room.Width = 9000
	c.Room.SetParam(ParamCutWidth, 100)
	c.PlacedItems[0].X = 99

	if p.Room.Width != DefaultRoomWidth {
		t.Errorf("room width aliased")
	}
	if p.Room.Param(ParamCutWidth, 0) != 1200 {
		t.Errorf("params aliased")
	}
	if p.PlacedItems[0].X != 10 {
		t.Errorf("items aliased")
	}
}

func TestLookupKind(t *testing.T) {
	cases := []struct {
		itemType string
		w, h     float64
		glyph    Glyph
	}{
		{"Box object", 1500, 1000, GlyphBox},
		{"Simple door", 900, 200, GlyphDoorSimple},
		{"Double window", 1200, 200, GlyphWindowDouble},
		{"gas pipe", 1000, 40, GlyphGasPipe},
		{"gas pipe vertical", 40, 1000, GlyphGasPipe},
		{"pipe vertical", 30, 1000, GlyphPipe},
		{"water pipe", 300, 150, GlyphWaterPipe},
		{"Fridge", 600, 600, GlyphBox},
	}
	for _, c := range cases {
		k := LookupKind(c.itemType)
		if k.Width != c.w || k.Height != c.h || k.Glyph != c.glyph {
			t.Errorf("LookupKind(%q) = %+v, want %vx%v glyph %v", c.itemType, k, c.w, c.h, c.glyph)
		}
		if k.Type != c.itemType {
			t.Errorf("LookupKind(%q).Type = %q", c.itemType, k.Type)
		}
	}

	if !LookupKind(TypeWallSegment).Divider() || !LookupKind(TypeSeparationLine).Divider() {
		t.Error("walls and separations must be dividers")
	}
	if Droppable(TypeWallSegment) || !Droppable("Radiator") {
		t.Error("unexpected droppable result")
	}
}

func TestShapeForLayout(t *testing.T) {
	cases := map[string]Shape{
		"single-wall": ShapeRectangle,
		"l-shaped":    ShapeLShape,
		"u-shaped":    ShapeUShape,
		"two-wall":    ShapeOpenL,
		"island":      ShapeCustom,
		"custom":      ShapeCustom,
		"galley":      ShapeRectangle,
		"":            ShapeRectangle,
	}
	for layout, want := range cases {
		if got := ShapeForLayout(layout); got != want {
			t.Errorf("ShapeForLayout(%q) = %q, want %q", layout, got, want)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{0: 0, 360: 0, 450: 90, -90: 270, -720: 0}
	for in, want := range cases {
		if got := NormalizeDegrees(in); got != want {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}
