package render

import (
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/subdivide"
)

// Viewport maps room millimetres to surface pixels.
type Viewport struct {
	Origin geometry.Point
	Scale  float64
}

func (v Viewport) ToScreen(mm geometry.Point) geometry.Point {
	return v.Origin.Add(mm.Scale(v.Scale))
}

// ToRoom converts a surface point back to room millimetres.
func (v Viewport) ToRoom(px geometry.Point) geometry.Point {
	if v.Scale <= 0 {
		return geometry.Point{}
	}
	return px.Sub(v.Origin).Scale(1 / v.Scale)
}

// Activity is what the room-level gesture is doing.
type Activity int

const (
	ActivityIdle Activity = iota
	ActivityDragging
	ActivityResizing
)

// Segment is a wall or separation in room millimetres.
type Segment struct {
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

func (s Segment) Len() float64 { return s.Start.Dist(s.End) }

// Draft is the wall-drawing buffer. Start is set after the first click of a
// segment and Preview follows the pointer until the second click.
type Draft struct {
	Segments []Segment
	Start    *geometry.Point
	Preview  *geometry.Point
}

// Overlay is transient interaction state that affects drawing but never
// enters the plan. Edge and corner indices are -1 when unset.
type Overlay struct {
	HoverEdge    int
	HoverCorner  int
	ActiveEdge   int
	ClickedEdge  int
	Room         Activity
	ItemResizing bool
	Draft        Draft
}

// NoOverlay is an overlay with nothing hovered or active.
func NoOverlay() Overlay {
	return Overlay{HoverEdge: -1, HoverCorner: -1, ActiveEdge: -1, ClickedEdge: -1}
}

// Frame is everything a single render pass reads.
type Frame struct {
	State   store.State
	View    Viewport
	Overlay Overlay
	Areas   subdivide.Options
}

func NewFrame(st store.State, view Viewport) Frame {
	return Frame{State: st, View: view, Overlay: NoOverlay()}
}
