package engine

import "strings"

// Key is a keyboard event as reported by the browser.
type Key struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Shift bool   `json:"shiftKey"`
}

// KeyDown handles editor shortcuts and reports whether the key was consumed.
// Undo and redo work at any time; Delete, Backspace and R act on the
// selected item.
func (c *Controller) KeyDown(k Key) bool {
	if c.pressed {
		return false
	}
	key := strings.ToLower(k.Key)
	mod := k.Ctrl || k.Meta

	switch {
	case mod && key == "z" && !k.Shift:
		c.store.Undo()
		return true
	case mod && (key == "y" || (key == "z" && k.Shift)):
		c.store.Redo()
		return true
	case key == "escape":
		return c.CancelSegment()
	}

	id := c.store.SelectedID()
	if id == "" || mod {
		return false
	}
	switch key {
	case "delete", "backspace":
		return c.store.RemoveItem(id)
	case "r":
		return c.store.RotateItem(id, 90)
	}
	return false
}
