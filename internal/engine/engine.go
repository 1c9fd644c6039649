package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/render"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/subdivide"
)

type renderKey struct {
	version  uint64
	revision uint64
}

// Engine is the editor core that owns the planner store and the interaction
// controller. It processes input from the frontend and returns query results.
type Engine struct {
	store *store.Store
	ctrl  *Controller
	areas subdivide.Options

	// Last rendered command buffer, reused until the state or overlay changes.
	rendered string
	key      renderKey
	fresh    bool
}

type Option func(*Engine)

// WithAreaOptions sets the flood-fill resolution used for sub-area labels.
func WithAreaOptions(opts subdivide.Options) Option {
	return func(e *Engine) { e.areas = opts }
}

// NewEngine creates an engine around an existing store.
func NewEngine(s *store.Store, opts ...Option) *Engine {
	e := &Engine{store: s, ctrl: NewController(s)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands (frontend → backend) ---

func (e *Engine) Resize(width, height float64) { e.ctrl.Resize(width, height) }
func (e *Engine) PointerDown(x, y float64) { e.ctrl.PointerDown(x, y) }
func (e *Engine) PointerMove(x, y float64) { e.ctrl.PointerMove(x, y) }
func (e *Engine) PointerUp() { e.ctrl.PointerUp() }
func (e *Engine) PointerLeave() { e.ctrl.PointerLeave() }
func (e *Engine) KeyDown(k Key) bool { return e.ctrl.KeyDown(k) }

// Drop places a palette item and returns its id.
func (e *Engine) Drop(itemType string, x, y float64) (string, bool) {
	it, ok := e.ctrl.Drop(itemType, x, y)
	return it.ID, ok
}

// ConfirmWalls commits the drawn segments and returns how many were added.
func (e *Engine) ConfirmWalls() int { return len(e.ctrl.ConfirmWalls()) }
func (e *Engine) CancelWalls() { e.ctrl.CancelWalls() }
func (e *Engine) UndoWallSegment() { e.ctrl.UndoWallSegment() }

func (e *Engine) Undo() bool { return e.store.Undo() }
func (e *Engine) Redo() bool { return e.store.Redo() }

func (e *Engine) SetTool(tool string) { e.ctrl.SetTool(store.Tool(tool)) }
func (e *Engine) SetZoom(zoom float64) { e.store.SetZoom(zoom) }
func (e *Engine) ZoomBy(steps int) { e.store.ZoomBy(steps) }
func (e *Engine) SetViewMode(mode string) { e.store.SetViewMode(store.ViewMode(mode)) }
func (e *Engine) ToggleGrid() { e.store.ToggleGrid() }
func (e *Engine) ToggleDimensions() { e.store.ToggleDimensions() }

// RescaleRoom sets new room dimensions, scaling every item with the room.
func (e *Engine) RescaleRoom(width, height float64) bool {
	e.ctrl.ResetPan()
	return e.store.RescaleRoom(width, height)
}

// SetRoomShape switches the outline, optionally clearing placed items.
func (e *Engine) SetRoomShape(shape string, keepItems bool) {
	e.ctrl.ResetPan()
	e.store.ChangeShape(document.Shape(shape), keepItems)
}

// ApplyPreferredLayout seeds the first room from a questionnaire answer.
func (e *Engine) ApplyPreferredLayout(layout string) bool {
	return e.store.SeedFromLayout(layout)
}

// ImportJSON replaces the plan with a serialized document.
func (e *Engine) ImportJSON(data string) error {
	if err := e.store.Import([]byte(data)); err != nil {
		return err
	}
	e.ctrl.CancelWalls()
	e.ctrl.ResetPan()
	return nil
}

// --- Queries (frontend ← backend) ---

func (e *Engine) Store() *store.Store { return e.store }

// Frame assembles everything the renderer reads.
func (e *Engine) Frame() render.Frame {
	f := render.NewFrame(e.store.State(), e.ctrl.Viewport())
	f.Overlay = e.ctrl.Overlay()
	f.Areas = e.areas
	return f
}

// Render returns the frame as JSON draw commands. The buffer is rebuilt
// only when the store version or the interaction overlay changed.
func (e *Engine) Render() string {
	key := renderKey{version: e.store.Version(), revision: e.ctrl.Revision()}
	if e.fresh && key == e.key {
		return e.rendered
	}

	w, h := e.ctrl.Size()
	rec := render.NewRecorder(w, h)
	render.Render(e.Frame(), rec)

	result, err := render.DrawCommandsToJSON(rec.Commands())
	if err != nil {
		return result
	}
	e.rendered, e.key, e.fresh = result, key, true
	return result
}

// ExportJSON serializes the current plan.
func (e *Engine) ExportJSON() (string, error) {
	data, err := e.store.Export()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExportPNG rasterizes the current canvas and returns it with a download name.
func (e *Engine) ExportPNG() ([]byte, string, error) {
	w, h := e.ctrl.Size()
	r := render.NewRaster(int(w), int(h))
	f := e.Frame()
	f.Overlay = render.NoOverlay()
	render.Render(f, r)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), e.store.ExportFilename(), nil
}

// Cursor returns the CSS cursor for the pointer position.
func (e *Engine) Cursor() string { return string(e.ctrl.Cursor()) }

type stateView struct {
	store.State
	CanUndo       bool             `json:"canUndo"`
	CanRedo       bool             `json:"canRedo"`
	HistoryIndex  int              `json:"historyIndex"`
	HistoryLength int              `json:"historyLength"`
	Draft         []render.Segment `json:"draftSegments"`
	Drawing       bool             `json:"drawing"`
	Areas         []areaView       `json:"areas"`
}

type areaView struct {
	Title  string         `json:"title"`
	AreaM2 float64        `json:"area"`
	At     geometry.Point `json:"at"`
}

// GetState returns the planner state plus history and draft flags as JSON.
func (e *Engine) GetState() string {
	st := e.store.State()
	draft := e.ctrl.Draft()
	v := stateView{
		State:         st,
		CanUndo:       e.store.CanUndo(),
		CanRedo:       e.store.CanRedo(),
		HistoryIndex:  e.store.HistoryIndex(),
		HistoryLength: e.store.HistoryLen(),
		Draft:         draft.Segments,
		Drawing:       draft.Start != nil,
	}
	for _, l := range subdivide.Labels(st.Plan.Room, st.Plan.PlacedItems, e.areas) {
		v.Areas = append(v.Areas, areaView{Title: l.Title, AreaM2: l.AreaM2, At: l.At})
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// RenderPNG rasterizes a plan centered on a width×height canvas at zoom 1.
// It is used for exports outside an interactive session.
func RenderPNG(out io.Writer, plan document.Plan, width, height int, areas subdivide.Options) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render png: invalid size %dx%d", width, height)
	}
	st := store.State{
		Plan:       plan,
		ActiveTool: store.ToolSelect,
		ViewMode:   store.View2D,
		Zoom:       1,
	}
	view := ViewportFor(plan.Room, float64(width), float64(height), 1, nil)
	f := render.NewFrame(st, view)
	f.Areas = areas

	r := render.NewRaster(width, height)
	render.Render(f, r)
	return r.EncodePNG(out)
}
