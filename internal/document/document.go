package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatVersion is written into every exported document.
const FormatVersion = "1.0"

var (
	ErrMalformed          = errors.New("malformed plan document")
	ErrUnsupportedVersion = errors.New("unsupported plan document version")
)

// Document is the on-disk and export format of a plan.
type Document struct {
	Version        string          `json:"version"`
	Timestamp      string          `json:"timestamp"`
	Room           *Room           `json:"room"`
	PlacedItems    []PlacedItem    `json:"placedItems"`
	WaterSupplies  []WaterSupply   `json:"waterSupplies"`
	SlopedCeilings []SlopedCeiling `json:"slopedCeilings"`
}

// NewDocument wraps a plan for export. Empty collections are written as
// empty arrays, never null.
func NewDocument(p Plan, now time.Time) Document {
	c := p.Clone()
	return Document{
		Version:        FormatVersion,
		Timestamp:      now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Room:           c.Room,
		PlacedItems:    nonNil(c.PlacedItems),
		WaterSupplies:  nonNil(c.WaterSupplies),
		SlopedCeilings: nonNil(c.SlopedCeilings),
	}
}

// Marshal serializes a plan as an indented Document.
func Marshal(p Plan, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(p, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return data, nil
}

// Parse decodes a serialized Document into a normalized Plan. Missing
// collections are treated as empty and out-of-range room dimensions are
// clamped. Any error wraps ErrMalformed or ErrUnsupportedVersion.
func Parse(data []byte) (Plan, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Plan{}, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version != "" && !strings.HasPrefix(doc.Version, "1.") && doc.Version != "1" {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	p := Plan{
		Room:           doc.Room,
		PlacedItems:    nilIfEmpty(doc.PlacedItems),
		WaterSupplies:  nilIfEmpty(doc.WaterSupplies),
		SlopedCeilings: nilIfEmpty(doc.SlopedCeilings),
	}
	Normalize(&p)
	return p, nil
}

// Normalize clamps values that the editor cannot represent. It never fails.
func Normalize(p *Plan) {
	if r := p.Room; r != nil {
		if r.Shape == "" {
			r.Shape = ShapeRectangle
		}
		r.Width = ClampDimension(r.Width)
		r.Height = ClampDimension(r.Height)
	}
	for i := range p.PlacedItems {
		it := &p.PlacedItems[i]
		it.Rotation = NormalizeDegrees(it.Rotation)
		if it.Width < 0 {
			it.Width = 0
		}
		if it.Height < 0 {
			it.Height = 0
		}
	}
}

// ClampDimension enforces the room dimension floor, mapping NaN and
// infinities to the floor as well.
func ClampDimension(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinRoomDimension {
		return MinRoomDimension
	}
	return v
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == 360 {
		deg = 0
	}
	return deg
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
