package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type faceKey struct {
	size float64
	bold bool
}

// fontCache parses the Go fonts once and keeps one face per size and weight.
type fontCache struct {
	once    sync.Once
	regular *truetype.Font
	bold    *truetype.Font
	err     error

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

var fonts fontCache

func (c *fontCache) load() {
	c.regular, c.err = truetype.Parse(goregular.TTF)
	if c.err != nil {
		c.err = fmt.Errorf("parse regular font: %w", c.err)
		return
	}
	c.bold, c.err = truetype.Parse(gobold.TTF)
	if c.err != nil {
		c.err = fmt.Errorf("parse bold font: %w", c.err)
	}
}

func (c *fontCache) face(size float64, bold bool) (font.Face, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	if size <= 0 {
		size = 12
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := faceKey{size, bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	ttf := c.regular
	if bold {
		ttf = c.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if c.faces == nil {
		c.faces = make(map[faceKey]font.Face)
	}
	c.faces[key] = f
	return f, nil
}

// measure returns the advance width of s in pixels. It falls back to an
// average glyph width if the fonts cannot be loaded.
func measure(s string, st TextStyle) float64 {
	f, err := fonts.face(st.Size, st.Bold)
	if err != nil {
		return float64(len([]rune(s))) * st.Size * 0.6
	}
	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	return float64(font.MeasureString(f, s)) / 64
}
