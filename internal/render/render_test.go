package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
)

var testView = Viewport{Origin: geometry.Pt(100, 100), Scale: 0.1}

func testState(shape document.Shape) store.State {
	return store.State{
		Plan:       document.Plan{Room: document.NewDefaultRoom(shape)},
		ActiveTool: store.ToolSelect,
		ViewMode:   store.View2D,
		Zoom:       1,
	}
}

func edgeSet(labels []DimensionLabel) map[int]DimensionLabel {
	out := make(map[int]DimensionLabel, len(labels))
	for _, l := range labels {
		out[l.Edge] = l
	}
	return out
}

func record(f Frame) []DrawCommand {
	rec := NewRecorder(600, 600)
	Render(f, rec)
	return rec.Commands()
}

func TestRenderIsIdempotent(t *testing.T) {
	st := testState(document.ShapeLShape)
	st.ShowGrid = true
	st.Plan.PlacedItems = []document.PlacedItem{
		{ID: "a", Type: "Radiator", X: 500, Y: 500, Width: 800, Height: 30, Rotation: 30},
		{ID: "w", Type: document.TypeWallSegment, X: 0, Y: 2000, Width: 4000, Height: 50},
	}
	st.Plan.SlopedCeilings = []document.SlopedCeiling{{ID: "s", WallID: "0", A: 1300, B: 1400}}
	st.SelectedID = "a"
	f := NewFrame(st, testView)

	first, err := DrawCommandsToJSON(record(f))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, _ := DrawCommandsToJSON(record(f))
	if first != second {
		t.Error("rendering the same frame twice produced different commands")
	}
}

func TestRenderWithoutRoomOnlyClears(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.Plan.Room = nil
	cmds := record(NewFrame(st, testView))
	if len(cmds) != 1 || cmds[0].Op != "clear" {
		t.Fatalf("commands = %+v, want a single clear", cmds)
	}
}

func TestRenderDrawOrder(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.Plan.PlacedItems = []document.PlacedItem{{ID: "box", Type: "Box object", X: 1000, Y: 1000, Width: 1500, Height: 1000}}
	cmds := record(NewFrame(st, testView))

	floor := -1
	item := -1
	for i, c := range cmds {
		if c.Fill == cssColor(colorFloor) && floor < 0 {
			floor = i
		}
		if c.ObjectID == "box" && item < 0 {
			item = i
		}
	}
	if floor < 0 || item < 0 {
		t.Fatalf("floor at %d, item at %d", floor, item)
	}
	if floor > item {
		t.Error("room fill must be drawn before items")
	}
	if cmds[0].Op != "clear" {
		t.Errorf("first op = %q, want clear", cmds[0].Op)
	}
}

func TestDimensionLabelsFacingUpAndLeft(t *testing.T) {
	f := NewFrame(testState(document.ShapeRectangle), testView)
	got := edgeSet(DimensionLabels(f))
	if len(got) != 2 {
		t.Fatalf("labels = %v, want edges 0 and 3", got)
	}
	for _, e := range []int{0, 3} {
		l, ok := got[e]
		if !ok {
			t.Fatalf("edge %d not labeled", e)
		}
		if l.LengthMM != 4000 || l.Text() != "4000 mm" {
			t.Errorf("edge %d = %d mm", e, l.LengthMM)
		}
	}
	if got[0].Start.Y != 100-dimensionOffset {
		t.Errorf("top label offset y = %v, want %v", got[0].Start.Y, 100-dimensionOffset)
	}
}

func TestDimensionLabelsTargetedEdges(t *testing.T) {
	tests := []struct {
		name  string
		shape document.Shape
		setup func(*Overlay)
		want  []int
	}{
		{"hover adds edge", document.ShapeRectangle, func(o *Overlay) { o.HoverEdge = 1 }, []int{0, 1, 3}},
		{"drag hides all", document.ShapeRectangle, func(o *Overlay) { o.Room = ActivityDragging }, nil},
		{"resize shows only target", document.ShapeRectangle, func(o *Overlay) {
			o.Room = ActivityResizing
			o.ActiveEdge = 2
		}, []int{2}},
		{"clicked notch edge shows pair", document.ShapeLShape, func(o *Overlay) { o.ClickedEdge = 1 }, []int{0, 1, 2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(testState(tt.shape), testView)
			tt.setup(&f.Overlay)
			got := edgeSet(DimensionLabels(f))
			if len(got) != len(tt.want) {
				t.Fatalf("labeled edges = %v, want %v", got, tt.want)
			}
			for _, e := range tt.want {
				if _, ok := got[e]; !ok {
					t.Errorf("edge %d missing", e)
				}
			}
		})
	}
}

func TestDimensionLabelsUseVertexLengths(t *testing.T) {
	f := NewFrame(testState(document.ShapeLShape), testView)
	f.Overlay.ClickedEdge = 1
	got := edgeSet(DimensionLabels(f))

	want := int(math.Round(4000 * 2.0 / 7))
	for _, e := range []int{1, 2} {
		if got[e].LengthMM != want {
			t.Errorf("edge %d length = %d, want %d", e, got[e].LengthMM, want)
		}
		if !got[e].Emphasis {
			t.Errorf("edge %d should be emphasized", e)
		}
	}
	if got[0].LengthMM != 4000-want {
		t.Errorf("top edge = %d, want %d", got[0].LengthMM, 4000-want)
	}
}

func TestDimensionLabelsAlwaysShow(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.ShowDimensions = true
	f := NewFrame(st, testView)
	f.Overlay.Room = ActivityResizing
	if got := DimensionLabels(f); len(got) != 2 {
		t.Errorf("labels while resizing with dimensions on = %d, want 2", len(got))
	}
}

func TestDimensionLabelTextStaysUpright(t *testing.T) {
	f := NewFrame(testState(document.ShapeRectangle), testView)
	for _, l := range DimensionLabels(f) {
		if l.Angle > math.Pi/2+1e-9 || l.Angle < -math.Pi/2-1e-9 {
			t.Errorf("edge %d angle %v is upside down", l.Edge, l.Angle)
		}
	}
}

func countFill(cmds []DrawCommand, fill string) int {
	n := 0
	for _, c := range cmds {
		if c.Op == "path" && c.Fill == fill {
			n++
		}
	}
	return n
}

func TestSlopeTrapezoids(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.Plan.SlopedCeilings = []document.SlopedCeiling{
		{ID: "s0", WallID: "0", A: 1300, B: 1400},
		{ID: "s1", WallID: "2", A: 1300, B: 800},
		{ID: "bad", WallID: "9", A: 1300, B: 800},
	}
	cmds := record(NewFrame(st, testView))
	if n := countFill(cmds, cssColor(colorSlope)); n != 2 {
		t.Errorf("slope trapezoids = %d, want 2", n)
	}
	if n := countFill(cmds, cssColor(colorInset)); n != 1 {
		t.Errorf("inset polygons = %d, want 1", n)
	}
}

func TestCeilingToolPreviewsSelectedWall(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.ActiveTool = store.ToolCeiling
	st.SelectedWall = "1"
	cmds := record(NewFrame(st, testView))
	if n := countFill(cmds, cssColor(colorSlope)); n != 1 {
		t.Errorf("preview trapezoids = %d, want 1", n)
	}
}

func TestSelectionHandles(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.Plan.PlacedItems = []document.PlacedItem{{ID: "a", Type: "Box object", X: 1000, Y: 1000, Width: 1500, Height: 1000}}
	st.SelectedID = "a"
	f := NewFrame(st, testView)
	f.Overlay.ItemResizing = true
	cmds := record(f)

	var handles *DrawCommand
	var label string
	for i, c := range cmds {
		if c.Op == "path" && c.Fill == cssColor(colorWhite) && c.Stroke == cssColor(colorSelectionBox) && handles == nil {
			handles = &cmds[i]
		}
		if c.Op == "text" && c.Fill == cssColor(colorAccentDark) {
			label = c.Text
		}
	}
	if handles == nil {
		t.Fatal("no handle path drawn")
	}
	moves := 0
	for _, pc := range handles.Path {
		if pc[0] == "M" {
			moves++
		}
	}
	if moves != len(Handles) {
		t.Errorf("handle squares = %d, want %d", moves, len(Handles))
	}
	if label != "1500 × 1000 mm" {
		t.Errorf("resize label = %q", label)
	}
}

func TestWallLabelAndPreviewLength(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.ActiveTool = store.ToolWall
	st.Plan.PlacedItems = []document.PlacedItem{{ID: "w", Type: document.TypeWallSegment, X: 0, Y: 2000, Width: 4000, Height: 50, Rotation: 180}}
	f := NewFrame(st, testView)
	start, preview := geometry.Pt(0, 0), geometry.Pt(300, 400)
	f.Overlay.Draft = Draft{Start: &start, Preview: &preview}

	texts := map[string]bool{}
	for _, c := range record(f) {
		if c.Op == "text" {
			texts[c.Text] = true
		}
	}
	for _, want := range []string{"4000 mm", "500 mm"} {
		if !texts[want] {
			t.Errorf("missing text %q in %v", want, texts)
		}
	}
}

func TestAreaLabelsFollowWalls(t *testing.T) {
	st := testState(document.ShapeRectangle)
	texts := func() map[string]int {
		out := map[string]int{}
		for _, c := range record(NewFrame(st, testView)) {
			if c.Op == "text" {
				out[c.Text]++
			}
		}
		return out
	}
	if got := texts(); got["16.0 m²"] != 1 || got["Area 1"] != 1 {
		t.Errorf("wall-free labels = %v", got)
	}

	st.Plan.PlacedItems = []document.PlacedItem{{ID: "w", Type: document.TypeWallSegment, X: 0, Y: 2000, Width: 4000, Height: 50}}
	// The wall row itself is blocked, so the halves quantize to 8.0 and 7.9.
	if got := texts(); got["8.0 m²"] != 1 || got["Area 2"] != 1 {
		t.Errorf("split labels = %v", got)
	}
}

func TestHandlePositionRotates(t *testing.T) {
	it := document.PlacedItem{X: 0, Y: 0, Width: 1000, Height: 500, Rotation: 90}
	view := Viewport{Scale: 1}
	got := HandlePosition(it, view, HandleE)
	// Center (500,250); the east handle rotates to point down.
	if math.Abs(got.X-500) > 1e-9 || math.Abs(got.Y-750) > 1e-9 {
		t.Errorf("east handle = %v, want (500, 750)", got)
	}
	knob := RotateHandlePosition(document.PlacedItem{Width: 1000, Height: 500}, view)
	if knob.X != 500 || knob.Y != -RotateHandleOffset {
		t.Errorf("rotate knob = %v", knob)
	}
}

func TestCSSColor(t *testing.T) {
	tests := map[string]string{
		cssColor(colorAccent): "#3b82f6",
		cssColor(colorSlope):  "rgba(59,130,246,0.2)",
		cssColor(nil):         "",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("cssColor = %q, want %q", got, want)
		}
	}
}

func TestRecorderTransformStack(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.Save()
	rec.Translate(10, 20)
	rec.Draw(NewPath().Rect(0, 0, 1, 1), fillStyle(colorBlack))
	rec.Restore()
	rec.Draw(NewPath().Rect(0, 0, 1, 1), fillStyle(colorBlack))
	rec.Draw(NewPath(), fillStyle(colorBlack))

	cmds := rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2 (empty paths are skipped)", len(cmds))
	}
	if tr := cmds[0].Transform; len(tr) != 6 || tr[4] != 10 || tr[5] != 20 {
		t.Errorf("translated transform = %v", tr)
	}
	if cmds[1].Transform != nil {
		t.Errorf("restored transform = %v, want identity", cmds[1].Transform)
	}
}

func TestRasterExport(t *testing.T) {
	st := testState(document.ShapeRectangle)
	st.Plan.PlacedItems = []document.PlacedItem{{ID: "a", Type: "Simple door", X: 1000, Y: 0, Width: 900, Height: 200}}
	r := NewRaster(600, 600)
	Render(NewFrame(st, testView), r)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 600 {
		t.Fatalf("size = %v", b)
	}
	if r, g, b, _ := img.At(5, 5).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("background pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
	// Inside the floor, away from labels and walls.
	fr, fg, fb, _ := img.At(150, 450).RGBA()
	if fr>>8 != 242 || fg>>8 != 206 || fb>>8 != 167 {
		t.Errorf("floor pixel = %d,%d,%d", fr>>8, fg>>8, fb>>8)
	}
}
