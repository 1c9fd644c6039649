package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

type memPersister struct {
	data    []byte
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersister) Load(context.Context) ([]byte, error) { return m.data, m.loadErr }

func (m *memPersister) Save(_ context.Context, data []byte) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(opts ...Option) *Store {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s := New(opts...)
	s.SetRoom(document.NewDefaultRoom(document.ShapeRectangle))
	return s
}

func TestHistoryIsCapped(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	for i := range 25 {
		s.AddItem(document.PlacedItem{ID: fmt.Sprintf("item-%d", i), Type: "Radiator"})
	}
	if got := s.HistoryLen(); got != HistoryLimit {
		t.Fatalf("history length = %d, want %d", got, HistoryLimit)
	}

	steps := 0
	for s.Undo() {
		steps++
	}
	if steps != 19 {
		t.Fatalf("undo reached back %d steps, want 19", steps)
	}
	// The oldest surviving snapshot holds the first six items.
	if got := len(s.Plan().PlacedItems); got != 6 {
		t.Errorf("after full undo %d items remain, want 6", got)
	}
}

func TestUndoRedoIsBitIdentical(t *testing.T) {
	s := newTestStore()
	base := s.Plan()

	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator", X: 100, Y: 200, Width: 800, Height: 30})
	s.AddItem(document.PlacedItem{ID: "w", Type: document.TypeWallSegment, X: 0, Y: 2000, Width: 4000, Height: 50})
	s.RotateItem("a", 90)
	s.RescaleRoom(5000, 3000)
	s.AddSlopedCeiling(document.SlopedCeiling{ID: "s", WallID: "0", A: 1300, B: 1400})
	s.AddWaterSupply(document.WaterSupply{ID: "ws", X: 10, Y: 20, Wall: document.WallTop})
	s.RemoveItem("w")
	const n = 7
	final := s.Plan()

	for i := range n {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if !reflect.DeepEqual(s.Plan(), base) {
		t.Fatalf("after undo:\n got %+v\nwant %+v", s.Plan(), base)
	}
	for i := range n {
		if !s.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if !reflect.DeepEqual(s.Plan(), final) {
		t.Fatalf("after redo:\n got %+v\nwant %+v", s.Plan(), final)
	}
	if s.Redo() {
		t.Error("redo past head should fail")
	}
}

func TestNewMutationDiscardsRedo(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	s.AddItem(document.PlacedItem{ID: "b", Type: "Radiator"})
	s.Undo()
	s.AddItem(document.PlacedItem{ID: "c", Type: "Radiator"})

	if s.CanRedo() {
		t.Fatal("redo branch should be gone")
	}
	if _, ok := s.Item("b"); ok {
		t.Error("item b belongs to the discarded branch")
	}
	if s.HistoryLen() != 3 {
		t.Errorf("history length = %d, want 3", s.HistoryLen())
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator", X: 100})
	s.UpdateItemLive("a", func(it *document.PlacedItem) { it.X = 999 })
	s.Undo()
	s.Redo()
	it, _ := s.Item("a")
	if it.X != 100 {
		t.Fatalf("live edit leaked into history: x = %v", it.X)
	}

	st := s.State()
	st.Plan.PlacedItems[0].X = -1
	if it, _ := s.Item("a"); it.X != 100 {
		t.Fatal("State() must return a deep copy")
	}
}

func TestLiveUpdatesCommitOncePerGesture(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	before := s.HistoryLen()

	for i := range 30 {
		s.UpdateItemLive("a", func(it *document.PlacedItem) { it.X = float64(i * 50) })
		s.RescaleRoomLive(4000+float64(i)*100, 4000)
	}
	if s.HistoryLen() != before {
		t.Fatalf("live updates pushed history: %d → %d", before, s.HistoryLen())
	}
	s.CommitGesture()
	if s.HistoryLen() != before+1 {
		t.Fatalf("gesture commit pushed %d entries", s.HistoryLen()-before)
	}
}

func TestRescaleInverseRestoresPositions(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator", X: 1234, Y: 987, Width: 800, Height: 30, Rotation: 30})
	s.AddItem(document.PlacedItem{ID: "w", Type: document.TypeWallSegment, X: 500, Y: 700, Width: 2000, Height: 50, Rotation: 37})
	s.AddWaterSupply(document.WaterSupply{ID: "ws", X: 3000, Y: 100, Wall: document.WallTop})
	before := s.Plan()

	s.RescaleRoom(6300, 2100)
	s.RescaleRoom(4000, 4000)
	after := s.Plan()

	const tol = 1e-9
	for i := range before.PlacedItems {
		b, a := before.PlacedItems[i], after.PlacedItems[i]
		if math.Abs(a.X-b.X) > tol || math.Abs(a.Y-b.Y) > tol ||
			math.Abs(a.Width-b.Width) > 1e-6 || math.Abs(a.Rotation-b.Rotation) > 1e-6 {
			t.Errorf("item %s: got %+v, want %+v", b.ID, a, b)
		}
	}
	ws := after.WaterSupplies[0]
	if math.Abs(ws.X-3000) > tol || math.Abs(ws.Y-100) > tol {
		t.Errorf("water supply = %+v", ws)
	}
}

func TestRescaleRecomputesWallVector(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "w", Type: document.TypeWallSegment, X: 1000, Y: 1000, Width: 1000, Height: 50, Rotation: 45})
	s.RescaleRoom(8000, 4000)

	w, _ := s.Item("w")
	if w.X != 2000 || w.Y != 1000 {
		t.Errorf("start = (%v, %v), want (2000, 1000)", w.X, w.Y)
	}
	wantLen := math.Hypot(1000*math.Sqrt2, 1000/math.Sqrt2)
	if math.Abs(w.Width-wantLen) > 1e-6 {
		t.Errorf("length = %v, want %v", w.Width, wantLen)
	}
	wantRot := math.Atan2(0.5, 1) * 180 / math.Pi
	if math.Abs(w.Rotation-wantRot) > 1e-9 {
		t.Errorf("rotation = %v, want %v", w.Rotation, wantRot)
	}
	if r := s.Room(); r.Area != 32 {
		t.Errorf("area = %v, want 32", r.Area)
	}
}

func TestRescaleClampsAndNoRoomIsNoop(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	if s.RescaleRoom(5000, 5000) {
		t.Fatal("rescale without a room must be a no-op")
	}
	if s.HistoryLen() != 0 {
		t.Fatal("no-op must not commit")
	}

	s.SetRoom(document.NewDefaultRoom(document.ShapeSquare))
	s.RescaleRoom(10, math.NaN())
	r := s.Room()
	if r.Width != document.MinRoomDimension || r.Height != document.MinRoomDimension {
		t.Errorf("dimensions = %vx%v, want clamped", r.Width, r.Height)
	}
}

func TestRotateFourTimesReturnsToStart(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator", Rotation: 15})
	for range 4 {
		s.RotateItem("a", 90)
	}
	it, _ := s.Item("a")
	if it.Rotation != 15 {
		t.Fatalf("rotation = %v, want 15", it.Rotation)
	}
}

func TestRemoveItemClearsSelection(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	s.Select("a")
	s.RemoveItem("a")
	if s.SelectedID() != "" {
		t.Fatal("selection should be cleared")
	}
	s.Undo()
	if _, ok := s.Item("a"); !ok {
		t.Fatal("undo should restore the item")
	}
	if s.RemoveItem("missing") {
		t.Error("removing an unknown id should report false")
	}
}

func TestImportReplacesStateAndCommitsOnce(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	before := s.Plan()
	n := s.HistoryLen()

	if err := s.Import([]byte(`{"room": {"width": "x"}}`)); !errors.Is(err, document.ErrMalformed) {
		t.Fatalf("Import(malformed) error = %v", err)
	}
	if !reflect.DeepEqual(s.Plan(), before) || s.HistoryLen() != n {
		t.Fatal("failed import must not change state or history")
	}

	doc := `{"version":"1.0","room":{"shape":"u-shape","width":6000,"height":3000,"name":"Big"},"placedItems":[{"id":"x","type":"Simple door","x":1,"y":2,"width":900,"height":200}]}`
	if err := s.Import([]byte(doc)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if s.HistoryLen() != n+1 {
		t.Errorf("import pushed %d entries", s.HistoryLen()-n)
	}
	p := s.Plan()
	if p.Room.Shape != document.ShapeUShape || len(p.PlacedItems) != 1 || p.PlacedItems[0].ID != "x" {
		t.Errorf("imported plan = %+v", p)
	}
	if p.Room.Area <= 0 || p.Room.Area >= 18 {
		t.Errorf("u-shape area = %v, want below the bounding box", p.Room.Area)
	}
}

func TestExportRoundTrip(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s := newTestStore(WithClock(func() time.Time { return fixed }))
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator", X: 50})

	data, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	other := New(WithLogger(quietLogger()))
	if err := other.Import(data); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(other.Plan(), s.Plan()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", other.Plan(), s.Plan())
	}
	if got := s.ExportFilename(); got != fmt.Sprintf("kitchen-plan-%d.png", fixed.UnixMilli()) {
		t.Errorf("filename = %q", got)
	}
}

func TestPersistAfterEveryCommit(t *testing.T) {
	p := &memPersister{}
	s := newTestStore(WithPersister(p))
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	s.UpdateItemLive("a", func(it *document.PlacedItem) { it.X = 10 })
	if p.saves != 2 {
		t.Fatalf("saves = %d, want 2 (live updates do not persist)", p.saves)
	}

	p.saveErr = errors.New("disk full")
	s.AddItem(document.PlacedItem{ID: "b", Type: "Radiator"})
	if _, ok := s.Item("b"); !ok {
		t.Fatal("a failed save must not roll back the mutation")
	}
}

func TestHydrate(t *testing.T) {
	src := newTestStore()
	src.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})
	data, _ := src.Export()

	s, err := Open(context.Background(), WithPersister(&memPersister{data: data}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Item("a"); !ok {
		t.Fatal("hydrated store should contain the stored item")
	}
	if s.HistoryLen() != 1 || s.CanUndo() {
		t.Errorf("hydrated plan should be the only history entry")
	}
	if s.SeedFromLayout("u-shaped") {
		t.Error("layout must not override a stored room")
	}

	if _, err := Open(context.Background(), WithPersister(&memPersister{loadErr: errors.New("io")})); err == nil {
		t.Error("load failure should surface")
	}

	s, err = Open(context.Background(), WithPersister(&memPersister{data: []byte("garbage")}), WithLogger(quietLogger()))
	if err != nil || s.Room() != nil {
		t.Errorf("corrupt stored data should start empty, got err=%v", err)
	}
}

func TestSeedFromLayoutRunsOnce(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	if !s.SeedFromLayout("l-shaped") {
		t.Fatal("first layout should seed the room")
	}
	r := s.Room()
	if r.Shape != document.ShapeLShape || r.Width != 4000 || r.Name != "Area 1" || r.CeilingHeight != 2500 {
		t.Errorf("seeded room = %+v", r)
	}
	s.SetRoom(nil)
	if s.SeedFromLayout("u-shaped") {
		t.Error("layout is consumed once")
	}
}

func TestChangeShape(t *testing.T) {
	s := newTestStore()
	s.AddItem(document.PlacedItem{ID: "a", Type: "Radiator"})

	s.ChangeShape(document.ShapeLShape, true)
	if len(s.Plan().PlacedItems) != 1 || s.Room().Shape != document.ShapeLShape {
		t.Fatal("shape change keeping items")
	}
	s.ChangeShape(document.ShapeCustom, false)
	if len(s.Plan().PlacedItems) != 0 {
		t.Fatal("shape change without keeping items must clear them")
	}
	s.Undo()
	if len(s.Plan().PlacedItems) != 1 {
		t.Fatal("shape change is one undoable step")
	}
}

func TestViewStateIsNotHistory(t *testing.T) {
	s := newTestStore()
	n := s.HistoryLen()
	v := s.Version()

	s.SetZoom(5)
	if s.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want clamp to %v", s.Zoom(), MaxZoom)
	}
	s.SetZoom(0.1)
	if s.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want clamp to %v", s.Zoom(), MinZoom)
	}
	s.ZoomBy(3)
	if s.Zoom() != 0.8 {
		t.Errorf("zoom = %v, want 0.8", s.Zoom())
	}
	s.SetActiveTool(ToolCeiling)
	s.SelectWall("2")
	s.SetActiveTool(ToolSelect)
	if s.State().SelectedWall != "" {
		t.Error("leaving the ceiling tool clears the wall selection")
	}
	s.SetActiveTool("bogus")
	if s.ActiveTool() != ToolSelect {
		t.Error("unknown tools fall back to select")
	}
	s.ToggleGrid()
	s.SetViewMode(View3D)

	if s.HistoryLen() != n {
		t.Error("view changes must not commit")
	}
	if s.Version() == v {
		t.Error("view changes must bump the version")
	}
}

func TestSlopedCeilingMutations(t *testing.T) {
	s := newTestStore()
	sc := s.AddSlopedCeiling(document.SlopedCeiling{WallID: "1", A: 1300, B: 1400})
	if sc.ID == "" {
		t.Fatal("id should be assigned")
	}
	s.UpdateSlopedCeiling(sc.ID, func(c *document.SlopedCeiling) { c.B = 900; c.ID = "hijack" })
	st := s.State()
	got, ok := st.Plan.SlopeForWall("1")
	if !ok || got.B != 900 || got.ID != sc.ID {
		t.Fatalf("updated slope = %+v", got)
	}
	if !s.RemoveSlopedCeiling(sc.ID) {
		t.Fatal("remove failed")
	}
	if s.HistoryLen() != 4 {
		t.Errorf("history length = %d, want 4", s.HistoryLen())
	}
}
