// Package store holds the canonical planner state: the plan being edited,
// editor view state, and the undo/redo history.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

type Tool string

const (
	ToolSelect      Tool = "select"
	ToolWall        Tool = "wall"
	ToolSeparation  Tool = "separation"
	ToolCeiling     Tool = "ceiling"
	ToolWaterSupply Tool = "water-supply"
)

// Drawing reports whether the tool draws wall or separation segments.
func (t Tool) Drawing() bool {
	return t == ToolWall || t == ToolSeparation
}

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolWall, ToolSeparation, ToolCeiling, ToolWaterSupply:
		return true
	}
	return false
}

type ViewMode string

const (
	View2D        ViewMode = "2d"
	View25D       ViewMode = "2.5d"
	View3D        ViewMode = "3d"
	ViewWireframe ViewMode = "wireframe"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// State is a full copy of the planner state at one point in time.
type State struct {
	Plan           document.Plan `json:"plan"`
	SelectedID     string        `json:"selectedItemId"`
	SelectedWall   string        `json:"selectedWallId"`
	ActiveTool     Tool          `json:"activeTool"`
	ViewMode       ViewMode      `json:"viewMode"`
	Zoom           float64       `json:"zoom"`
	ShowGrid       bool          `json:"showGrid"`
	ShowDimensions bool          `json:"showDimensions"`
}

// Persister is durable storage for the serialized plan document.
// Load returns nil data when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store is the single owner of planner state. It is not safe for concurrent
// use; the editor drives it from one event loop.
type Store struct {
	state State

	history []document.Plan
	index   int

	// version increments on every state change so renderers can redraw
	// only when something moved.
	version uint64

	persister Persister
	logger    *slog.Logger
	now       func() time.Time

	storedRoom     bool
	layoutConsumed bool
}

type Option func(*Store)

// WithPersister re-serializes the plan to p after every committed mutation.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store with no room and an empty history.
func New(opts ...Option) *Store {
	s := &Store{
		state: State{
			ActiveTool: ToolSelect,
			ViewMode:   View2D,
			Zoom:       1,
			ShowGrid:   true,
		},
		index:  -1,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and hydrates it from the configured persister.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	s := New(opts...)
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Hydrate loads the stored plan once. A stored plan becomes the first
// history entry. Corrupt stored data is logged and ignored so the editor
// still starts.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	data, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load stored plan: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	plan, err := document.Parse(data)
	if err != nil {
		s.logger.Warn("discarding stored plan", "error", err)
		return nil
	}
	refreshArea(plan.Room)

	s.state.Plan = plan
	s.storedRoom = plan.Room != nil
	s.history = []document.Plan{plan.Clone()}
	s.index = 0
	s.version++
	return nil
}

// --- Queries ---

// State returns a deep copy of the current state.
func (s *Store) State() State {
	st := s.state
	st.Plan = s.state.Plan.Clone()
	return st
}

// Plan returns a deep copy of the editable plan.
func (s *Store) Plan() document.Plan {
	return s.state.Plan.Clone()
}

// Room returns a copy of the room, or nil when none is configured.
func (s *Store) Room() *document.Room {
	return s.state.Plan.Room.Clone()
}

// Item returns a copy of a placed item.
func (s *Store) Item(id string) (document.PlacedItem, bool) {
	it, ok := s.state.Plan.Item(id)
	if !ok {
		return document.PlacedItem{}, false
	}
	return *it, true
}

// SelectedItem returns the selected item, if any.
func (s *Store) SelectedItem() (document.PlacedItem, bool) {
	if s.state.SelectedID == "" {
		return document.PlacedItem{}, false
	}
	return s.Item(s.state.SelectedID)
}

func (s *Store) ActiveTool() Tool { return s.state.ActiveTool }
func (s *Store) Zoom() float64 { return s.state.Zoom }
func (s *Store) SelectedID() string { return s.state.SelectedID }

// Version changes whenever any part of the state changes.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) HistoryLen() int { return len(s.history) }
func (s *Store) HistoryIndex() int { return s.index }
func (s *Store) CanUndo() bool { return s.index > 0 }
func (s *Store) CanRedo() bool { return s.index < len(s.history)-1 }

// --- View state (never recorded in history) ---

// Select sets the selected item. Unknown ids clear the selection.
func (s *Store) Select(id string) {
	if id != "" {
		if _, ok := s.state.Plan.Item(id); !ok {
			id = ""
		}
	}
	if s.state.SelectedID != id {
		s.state.SelectedID = id
		s.version++
	}
}

// SelectWall marks an edge index as the target of the ceiling tool.
func (s *Store) SelectWall(wallID string) {
	if s.state.SelectedWall != wallID {
		s.state.SelectedWall = wallID
		s.version++
	}
}

func (s *Store) SetActiveTool(t Tool) {
	if !t.Valid() {
		t = ToolSelect
	}
	if s.state.ActiveTool == t {
		return
	}
	s.state.ActiveTool = t
	if t != ToolCeiling {
		s.state.SelectedWall = ""
	}
	s.version++
}

func (s *Store) SetViewMode(m ViewMode) {
	switch m {
	case View2D, View25D, View3D, ViewWireframe:
	default:
		m = View2D
	}
	if s.state.ViewMode != m {
		s.state.ViewMode = m
		s.version++
	}
}

// SetZoom clamps the zoom factor to [MinZoom, MaxZoom].
func (s *Store) SetZoom(z float64) {
	if math.IsNaN(z) {
		z = 1
	}
	z = min(MaxZoom, max(MinZoom, z))
	if s.state.Zoom != z {
		s.state.Zoom = z
		s.version++
	}
}

// ZoomBy changes the zoom by a number of ZoomStep increments.
func (s *Store) ZoomBy(steps int) {
	z := s.state.Zoom + float64(steps)*ZoomStep
	// Keep the factor on the 0.1 grid despite float drift.
	s.SetZoom(float64(int(z*10+0.5)) / 10)
}

func (s *Store) ToggleGrid() {
	s.state.ShowGrid = !s.state.ShowGrid
	s.version++
}

func (s *Store) ToggleDimensions() {
	s.state.ShowDimensions = !s.state.ShowDimensions
	s.version++
}
