package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixPlan        = "plan"
	PrefixSnapshot    = "snap"
	PrefixItem        = "item"
	PrefixWall        = "wall"
	PrefixSeparation  = "sep"
	PrefixWaterSupply = "water"
	PrefixSlope       = "slope"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewPlanID() string        { return New(PrefixPlan) }
func NewSnapshotID() string    { return New(PrefixSnapshot) }
func NewItemID() string        { return New(PrefixItem) }
func NewWallID() string        { return New(PrefixWall) }
func NewSeparationID() string  { return New(PrefixSeparation) }
func NewWaterSupplyID() string { return New(PrefixWaterSupply) }
func NewSlopeID() string       { return New(PrefixSlope) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
