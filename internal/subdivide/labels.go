package subdivide

import (
	"fmt"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
)

// Label is a sub-area caption positioned in room millimetres.
type Label struct {
	Title  string
	AreaM2 float64
	At     geometry.Point
}

// Text returns the area caption, e.g. "8.0 m²".
func (l Label) Text() string {
	return FormatArea(l.AreaM2)
}

func FormatArea(m2 float64) string {
	return fmt.Sprintf("%.1f m²", m2)
}

// Labels returns one label per sub-area when dividers exist. Without
// dividers, or when every region was discarded, it falls back to one label
// with the room's own name and area at the center of its bounding box.
func Labels(room *document.Room, items []document.PlacedItem, opts Options) []Label {
	if room == nil {
		return nil
	}

	hasDividers := false
	for _, it := range items {
		if it.Kind().Divider() {
			hasDividers = true
			break
		}
	}

	if hasDividers {
		regions, _ := Compute(room, items, opts)
		if len(regions) > 0 {
			labels := make([]Label, len(regions))
			for i, r := range regions {
				labels[i] = Label{
					Title:  fmt.Sprintf("Area %d", i+1),
					AreaM2: r.AreaM2,
					At:     r.Centroid,
				}
			}
			return labels
		}
	}

	return []Label{{
		Title:  room.Name,
		AreaM2: room.Area,
		At:     geometry.Point{X: room.Width / 2, Y: room.Height / 2},
	}}
}
