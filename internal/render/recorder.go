package render

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/geometry"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "clear", "path", "text"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
	LineJoin    string        `json:"lineJoin,omitempty"`
	LineCap     string        `json:"lineCap,omitempty"`
	Text        string        `json:"text,omitempty"`
	Font        string        `json:"font,omitempty"`  // CSS font shorthand
	Align       string        `json:"align,omitempty"` // textAlign
	X           float64       `json:"x,omitempty"`
	Y           float64       `json:"y,omitempty"`
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["A", cx, cy, r, a0, a1], ["Z"].
type PathCommand []interface{}

// Recorder is a Surface that records draw commands instead of rasterizing.
// Every command carries the absolute transform in effect when it was drawn,
// so the frontend never has to track save/restore itself.
type Recorder struct {
	width, height float64

	transform geometry.Matrix2D
	stack     []geometry.Matrix2D
	objectID  string

	commands []DrawCommand
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height, transform: geometry.Identity()}
}

func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

// Commands returns the recorded commands in painter's order.
func (r *Recorder) Commands() []DrawCommand { return r.commands }

// SetObject tags subsequent commands with an item id. Empty clears the tag.
func (r *Recorder) SetObject(id string) { r.objectID = id }

func (r *Recorder) Clear(c color.Color) {
	r.commands = append(r.commands, DrawCommand{Op: "clear", Fill: cssColor(c)})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.transform)
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.transform = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
}

func (r *Recorder) Translate(x, y float64) {
	r.transform = r.transform.Multiply(geometry.Translate(x, y))
}

func (r *Recorder) Rotate(radians float64) {
	r.transform = r.transform.Multiply(geometry.Rotate(radians))
}

func (r *Recorder) Draw(p *Path, st Style) {
	if p == nil || len(p.Ops) == 0 || (st.Fill == nil && st.Stroke == nil) {
		return
	}
	cmd := DrawCommand{
		Op:        "path",
		ObjectID:  r.objectID,
		Transform: r.transformSlice(),
		Path:      compilePath(p),
		Fill:      cssColor(st.Fill),
	}
	if st.Stroke != nil {
		cmd.Stroke = cssColor(st.Stroke)
		cmd.StrokeWidth = st.LineWidth
		if cmd.StrokeWidth <= 0 {
			cmd.StrokeWidth = 1
		}
		if len(st.Dash) > 0 {
			cmd.Dash = append([]float64(nil), st.Dash...)
		}
		if st.RoundJoin {
			cmd.LineJoin = "round"
		}
		if st.RoundCap {
			cmd.LineCap = "round"
		}
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) Text(s string, x, y float64, st TextStyle) {
	if s == "" {
		return
	}
	align := "center"
	if st.Align == AlignLeft {
		align = "left"
	}
	r.commands = append(r.commands, DrawCommand{
		Op:        "text",
		ObjectID:  r.objectID,
		Transform: r.transformSlice(),
		Text:      s,
		Font:      cssFont(st),
		Align:     align,
		Fill:      cssColor(st.Color),
		X:         x,
		Y:         y,
	})
}

func (r *Recorder) MeasureText(s string, st TextStyle) float64 {
	return measure(s, st)
}

func (r *Recorder) transformSlice() []float64 {
	if r.transform.IsIdentity() {
		return nil
	}
	return r.transform.ToSlice()
}

func compilePath(p *Path) []PathCommand {
	out := make([]PathCommand, 0, len(p.Ops))
	for _, op := range p.Ops {
		switch op.Kind {
		case 'M', 'L':
			out = append(out, PathCommand{string(op.Kind), op.Args[0], op.Args[1]})
		case 'A':
			out = append(out, PathCommand{"A", op.Args[0], op.Args[1], op.Args[2], op.Args[3], op.Args[4]})
		case 'Z':
			out = append(out, PathCommand{"Z"})
		}
	}
	return out
}

func cssColor(c color.Color) string {
	if c == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", n.R, n.G, n.B, float64(n.A)/255)
}

func cssFont(st TextStyle) string {
	size := st.Size
	if size <= 0 {
		size = 12
	}
	weight := ""
	if st.Bold {
		weight = "bold "
	}
	return fmt.Sprintf("%s%gpx sans-serif", weight, size)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
